// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdhender/louvre"
)

// ErrNotFound is returned when a document id is not in the store.
var ErrNotFound = errors.New("document not found")

// Document is the stored metadata of a parsed source.
type Document struct {
	ID        string
	Name      string
	SHA256    string
	CreatedAt time.Time
	// ErrorCode and ErrorMessage are set when the parse failed.
	ErrorCode    string
	ErrorMessage string
	Nodes        int
}

// Failed reports whether the document records a failed parse.
func (d *Document) Failed() bool {
	return d.ErrorCode != ""
}

// SaveDocument stores the source and its tree and returns the new document id.
// The whole tree is written in one transaction.
func (s *SQLiteStore) SaveDocument(ctx context.Context, name, source string, root *louvre.Node) (string, error) {
	if root == nil {
		return "", fmt.Errorf("save document: nil tree")
	}
	// Parse may hand back an open branch; store the whole document.
	root = root.Root()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if err := insertDocument(ctx, tx, id, name, source, "", ""); err != nil {
		return "", err
	}

	const query = `
		INSERT INTO nodes (
			document_id, id, parent_id, idx, kind, custom, text,
			tag_name, tag_args, tag_line, tag_column, tag_offset
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("prepare node: %w", err)
	}
	defer stmt.Close()

	ids := map[*louvre.Node]int64{}
	var insertErr error
	louvre.Walk(root, func(n *louvre.Node) bool {
		if insertErr != nil {
			return false
		}
		nodeID := int64(len(ids) + 1)
		ids[n] = nodeID

		var parentID sql.NullInt64
		if n != root && n.Parent != nil {
			parentID = sql.NullInt64{Int64: ids[n.Parent], Valid: true}
		}
		var tagName, tagArgs sql.NullString
		var line, column, offset sql.NullInt64
		if n.Tag != nil {
			tagName = sql.NullString{String: n.Tag.Name, Valid: true}
			tagArgs = nullString(strings.Join(n.Tag.Arguments, ","))
			line = sql.NullInt64{Int64: int64(n.Tag.Location.Line), Valid: true}
			column = sql.NullInt64{Int64: int64(n.Tag.Location.Column), Valid: true}
			offset = sql.NullInt64{Int64: int64(n.Tag.Location.Offset), Valid: true}
		}

		_, insertErr = stmt.ExecContext(ctx,
			id,
			nodeID,
			parentID,
			n.Index,
			n.Kind.String(),
			nullString(n.Custom),
			nullString(n.Text),
			tagName,
			tagArgs,
			line,
			column,
			offset,
		)
		return insertErr == nil
	})
	if insertErr != nil {
		return "", fmt.Errorf("insert node: %w", insertErr)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return id, nil
}

// SaveFailure records a source that failed to parse and returns the new document id.
func (s *SQLiteStore) SaveFailure(ctx context.Context, name, source string, parseErr error) (string, error) {
	if parseErr == nil {
		return "", fmt.Errorf("save failure: nil error")
	}
	id := uuid.NewString()
	err := insertDocument(ctx, s.db, id, name, source, louvre.ErrorCode(parseErr), parseErr.Error())
	if err != nil {
		return "", err
	}
	return id, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertDocument(ctx context.Context, db execer, id, name, source, code, message string) error {
	const query = `
		INSERT INTO documents (id, name, sha256, source, error_code, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	hash := sha256.Sum256([]byte(source))
	_, err := db.ExecContext(ctx, query,
		id,
		name,
		hex.EncodeToString(hash[:]),
		source,
		nullString(code),
		nullString(message),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetDocument returns the metadata of a document.
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	const query = `
		SELECT d.id, d.name, d.sha256, d.created_at,
		       COALESCE(d.error_code, ''), COALESCE(d.error_message, ''),
		       (SELECT COUNT(*) FROM nodes n WHERE n.document_id = d.id)
		FROM documents d
		WHERE d.id = ?
	`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns the metadata of all documents, oldest first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*Document, error) {
	const query = `
		SELECT d.id, d.name, d.sha256, d.created_at,
		       COALESCE(d.error_code, ''), COALESCE(d.error_message, ''),
		       (SELECT COUNT(*) FROM nodes n WHERE n.document_id = d.id)
		FROM documents d
		ORDER BY d.created_at, d.name, d.id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var doc Document
	var createdAt string
	err := row.Scan(&doc.ID, &doc.Name, &doc.SHA256, &createdAt, &doc.ErrorCode, &doc.ErrorMessage, &doc.Nodes)
	if err != nil {
		return nil, err
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	return &doc, nil
}

// LoadDocument rebuilds the tree of a stored document.
// Parent links and sibling indexes are restored.
// A document that recorded a failed parse has no tree and returns an error.
func (s *SQLiteStore) LoadDocument(ctx context.Context, id string) (*louvre.Node, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Failed() {
		return nil, fmt.Errorf("%s: parse failed: %s", id, doc.ErrorMessage)
	}

	const query = `
		SELECT id, parent_id, kind, custom, text,
		       tag_name, tag_args, tag_line, tag_column, tag_offset
		FROM nodes
		WHERE document_id = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	var root *louvre.Node
	nodes := map[int64]*louvre.Node{}
	for rows.Next() {
		var nodeID int64
		var parentID, line, column, offset sql.NullInt64
		var kind string
		var custom, text, tagName, tagArgs sql.NullString
		if err := rows.Scan(&nodeID, &parentID, &kind, &custom, &text, &tagName, &tagArgs, &line, &column, &offset); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}

		k, ok := louvre.ParseKind(kind)
		if !ok {
			return nil, fmt.Errorf("node %d: unknown kind %q", nodeID, kind)
		}
		n := &louvre.Node{Kind: k, Custom: custom.String, Text: text.String}
		if tagName.Valid {
			n.Tag = &louvre.Tag{
				Name: tagName.String,
				Location: louvre.SourceLocation{
					Line:   int(line.Int64),
					Column: int(column.Int64),
					Offset: int(offset.Int64),
				},
			}
			if tagArgs.String != "" {
				n.Tag.Arguments = strings.Split(tagArgs.String, ",")
			}
		}
		nodes[nodeID] = n

		if !parentID.Valid {
			if root != nil {
				return nil, fmt.Errorf("node %d: second root", nodeID)
			}
			root = n
			continue
		}
		// pre-order ids guarantee the parent was read first
		parent, ok := nodes[parentID.Int64]
		if !ok {
			return nil, fmt.Errorf("node %d: missing parent %d", nodeID, parentID.Int64)
		}
		parent.AddChild(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("%s: no nodes", id)
	}
	return root, nil
}

// DeleteDocument removes a document and its tree.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
