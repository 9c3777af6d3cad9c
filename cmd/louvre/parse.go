// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mdhender/louvre"
	"github.com/mdhender/louvre/config"
	store "github.com/mdhender/louvre/stores/sqlite"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// parseConfig holds the flags of the parse command.
type parseConfig struct {
	configFile string
	outline    bool
	json       bool
	outputFile string
	dbPath     string
	strict     bool
	quiet      bool
	verbose    bool
	debug      bool
}

var errParseFailed = errors.New("parse failed")

func cmdParse(fs afero.Fs) *cobra.Command {
	var cfg parseConfig
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&cfg.configFile, "config", "c", cfg.configFile, "load tag bindings from file (toml or yaml)")
		cmd.Flags().BoolVar(&cfg.outline, "outline", cfg.outline, "print the document outline")
		cmd.Flags().BoolVar(&cfg.json, "json", cfg.json, "print the document tree as json")
		cmd.Flags().StringVarP(&cfg.outputFile, "output", "o", cfg.outputFile, "save output to file")
		cmd.Flags().StringVar(&cfg.dbPath, "db", cfg.dbPath, "save documents to database file")
		cmd.Flags().BoolVar(&cfg.strict, "strict", cfg.strict, "treat unclosed branches as errors")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "parse <file> [<file>...]",
		Short:        "parse documents and report node counts",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.outline && cfg.json {
				return fmt.Errorf("--outline and --json are mutually exclusive")
			}
			if cfg.outputFile != "" && !cfg.outline && !cfg.json {
				return fmt.Errorf("--output requires --outline or --json")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.quiet, cfg.verbose, cfg.debug = logFlags(cmd)
			return runParse(cmd.Context(), fs, cfg, args, os.Stdout, os.Stderr)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

// runParse parses every file, printing diagnostics to stderr and the
// requested output to stdout or the output file. It keeps going after
// a failed file and reports the failures at the end.
func runParse(ctx context.Context, fs afero.Fs, cfg parseConfig, paths []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	options := []louvre.Option{louvre.WithLogger(debugLogger(cfg.debug))}
	if cfg.configFile != "" {
		f, err := config.Load(fs, cfg.configFile)
		if err != nil {
			return err
		}
		configOptions, err := f.Options()
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.configFile, err)
		}
		options = append(options, configOptions...)
		if cfg.verbose {
			log.Printf("%s: loaded %d tag bindings\n", cfg.configFile, len(f.Tags))
		}
	}

	var db *store.SQLiteStore
	if cfg.dbPath != "" {
		var err error
		db, err = store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: cfg.dbPath})
		if err != nil {
			return err
		}
		defer db.Close()
	}

	var out bytes.Buffer
	failed := 0
	for _, path := range paths {
		startedFile := time.Now()
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			log.Printf("%s: %v\n", path, err)
			failed++
			continue
		}

		doc, err := parseSource(path, data, cfg.strict, options, stderr)
		if db != nil {
			id, saveErr := saveResult(ctx, db, path, string(data), doc, err)
			if saveErr != nil {
				return fmt.Errorf("%s: %w", path, saveErr)
			}
			if cfg.verbose {
				log.Printf("%s: saved as %s\n", path, id)
			}
		}
		if err != nil {
			failed++
			continue
		}

		if len(paths) > 1 && cfg.outline {
			fmt.Fprintf(&out, "%s:\n", path)
		}
		if err := render(&out, doc.Root, cfg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if !cfg.quiet {
			log.Printf("%s: %s\n", path, formatCounts(louvre.Count(doc.Root)))
		}
		if cfg.verbose {
			log.Printf("%s: parsed in %v\n", path, time.Since(startedFile))
		}
	}

	if out.Len() != 0 {
		if cfg.outputFile == "" {
			if _, err := stdout.Write(out.Bytes()); err != nil {
				return err
			}
		} else if err := afero.WriteFile(fs, cfg.outputFile, out.Bytes(), 0o644); err != nil {
			return err
		} else if !cfg.quiet {
			log.Printf("%s: wrote %d bytes\n", cfg.outputFile, out.Len())
		}
	}

	if cfg.verbose {
		log.Printf("parsed %d files in %v\n", len(paths), time.Since(started))
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d files: %w", failed, len(paths), errParseFailed)
	}
	return nil
}

// parseSource parses one document and prints any diagnostic.
// An unclosed branch is a warning, or an error when strict is set.
func parseSource(path string, data []byte, strict bool, options []louvre.Option, stderr io.Writer) (*louvre.Document, error) {
	p, err := louvre.NewParser(string(data), append(options, louvre.WithName(path))...)
	if err != nil {
		return nil, err
	}
	doc, err := p.ParseDocument()
	if err != nil {
		if diag, ok := louvre.NewDiagnostic(err); ok {
			louvre.PrintDiagnostic(stderr, diag, path, data)
		} else {
			fmt.Fprintf(stderr, "%s: error: %v\n", path, err)
		}
		return nil, err
	}

	if doc.Unclosed() {
		var loc louvre.SourceLocation
		if doc.Open.Tag != nil {
			loc = doc.Open.Tag.Location
		}
		diag := louvre.Warning(loc,
			fmt.Sprintf("unclosed %s at end of input", strings.ToLower(doc.Open.Name())),
			"add #end to close it")
		if strict {
			diag.Severity = slog.LevelError
			diag.Code = louvre.ErrCodeNode
		}
		louvre.PrintDiagnostic(stderr, diag, path, data)
		if strict {
			return nil, &louvre.NodeError{Message: "Unclosed branch", Node: doc.Open}
		}
	}
	return doc, nil
}

// saveResult stores a parsed document, or the failure when parseErr is set.
func saveResult(ctx context.Context, db *store.SQLiteStore, name, source string, doc *louvre.Document, parseErr error) (string, error) {
	if parseErr != nil {
		return db.SaveFailure(ctx, name, source, parseErr)
	}
	return db.SaveDocument(ctx, name, source, doc.Root)
}

func render(w io.Writer, root *louvre.Node, cfg parseConfig) error {
	switch {
	case cfg.outline:
		return louvre.Dump(w, root)
	case cfg.json:
		data, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	return nil
}

// formatCounts renders node counts as "N nodes: Kind n, ..." in name order.
func formatCounts(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	total := 0
	for name, n := range counts {
		names = append(names, name)
		total += n
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %d", name, counts[name])
	}
	return fmt.Sprintf("%d nodes: %s", total, strings.Join(parts, ", "))
}

func cmdTags(fs afero.Fs) *cobra.Command {
	var configFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&configFile, "config", "c", configFile, "load tag bindings from file (toml or yaml)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "tags",
		Short:        "list the bound tags",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var options []louvre.Option
			if configFile != "" {
				f, err := config.Load(fs, configFile)
				if err != nil {
					return err
				}
				if options, err = f.Options(); err != nil {
					return fmt.Errorf("%s: %w", configFile, err)
				}
			}
			return listTags(os.Stdout, options)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func listTags(w io.Writer, options []louvre.Option) error {
	p, err := louvre.NewParser("", options...)
	if err != nil {
		return err
	}
	bindings := p.Bindings()
	for _, name := range bindings.Names() {
		action, node := bindings[name](&louvre.Tag{Name: name})
		kind := "Null"
		if node != nil {
			kind = node.Name()
		}
		fmt.Fprintf(w, "#%-12s %-18s %s\n", name, action, kind)
	}
	return nil
}
