// Package sqlite persists review sessions in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Youngleechen/writeedit"
)

// Compile-time interface verification.
var _ writeedit.DocumentStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	original_text  TEXT NOT NULL,
	edited_text    TEXT NOT NULL,
	clean_text     TEXT NOT NULL,
	tracked_markup TEXT NOT NULL DEFAULT '',
	updated_at     TIMESTAMP NOT NULL
);
`

// previewLen is the number of clean-text bytes shown in listings.
const previewLen = 80

// Store implements writeedit.DocumentStore on a local SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists. Parent directories are created as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts a document. UpdatedAt is stamped here so callers don't have to.
func (s *Store) Save(ctx context.Context, doc writeedit.StoredDocument) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, original_text, edited_text, clean_text, tracked_markup, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			original_text  = excluded.original_text,
			edited_text    = excluded.edited_text,
			clean_text     = excluded.clean_text,
			tracked_markup = excluded.tracked_markup,
			updated_at     = excluded.updated_at`,
		doc.ID, doc.OriginalText, doc.EditedText, doc.CleanText, doc.TrackedMarkup, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

// Load retrieves a document by id. Returns writeedit.ErrNotFound when the id
// is unknown.
func (s *Store) Load(ctx context.Context, id string) (*writeedit.StoredDocument, error) {
	var doc writeedit.StoredDocument
	err := s.db.QueryRowContext(ctx, `
		SELECT id, original_text, edited_text, clean_text, tracked_markup, updated_at
		FROM documents WHERE id = ?`, id).
		Scan(&doc.ID, &doc.OriginalText, &doc.EditedText, &doc.CleanText, &doc.TrackedMarkup, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, writeedit.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", id, err)
	}
	return &doc, nil
}

// List returns summaries of all stored documents, most recently updated first.
func (s *Store) List(ctx context.Context) ([]writeedit.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, substr(clean_text, 1, ?), updated_at
		FROM documents ORDER BY updated_at DESC`, previewLen)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var infos []writeedit.DocumentInfo
	for rows.Next() {
		var info writeedit.DocumentInfo
		if err := rows.Scan(&info.ID, &info.Preview, &info.UpdatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
