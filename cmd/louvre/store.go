// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mdhender/louvre"
	store "github.com/mdhender/louvre/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdInitDB() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "init-db <path>",
		Short:        "create a new document database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("%s: created database\n", args[0])
			return nil
		},
	}
	return cmd
}

func cmdCompactDB() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "compact-db <path>",
		Short:        "checkpoint and vacuum a document database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			if err := store.CompactDatabase(args[0]); err != nil {
				return err
			}
			if _, verbose, _ := logFlags(cmd); verbose {
				log.Printf("%s: compacted in %v\n", args[0], time.Since(started))
			}
			return nil
		},
	}
	return cmd
}

func cmdList() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "list <db>",
		Short:        "list the documents in a database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: args[0]})
			if err != nil {
				return err
			}
			defer db.Close()
			return listDocuments(context.Background(), db, os.Stdout)
		},
	}
	return cmd
}

func listDocuments(ctx context.Context, db *store.SQLiteStore, w io.Writer) error {
	docs, err := db.ListDocuments(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		status := fmt.Sprintf("%d nodes", doc.Nodes)
		if doc.Failed() {
			status = doc.ErrorCode
		}
		fmt.Fprintf(w, "%s  %s  %-12s  %s\n", doc.ID, doc.CreatedAt.Format(time.RFC3339), status, doc.Name)
	}
	return nil
}

func cmdShow() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "show <db> <document-id>",
		Short:        "print the outline of a stored document",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: args[0]})
			if err != nil {
				return err
			}
			defer db.Close()
			return showDocument(context.Background(), db, args[1], os.Stdout)
		},
	}
	return cmd
}

func showDocument(ctx context.Context, db *store.SQLiteStore, id string, w io.Writer) error {
	root, err := db.LoadDocument(ctx, id)
	if err != nil {
		return err
	}
	return louvre.Dump(w, root)
}
