// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed entries in SQLite so a day's reading can be
// looked up by month and day, and entries can be searched by full text.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/jftlv/internal/parse"
	"github.com/pdiddy/jftlv/pkg/types"
)

const (
	dbFile            = "entries.db"
	defaultMaxResults = 20
)

// ErrNotFound is returned when no entry exists for a requested day.
var ErrNotFound = errors.New("entry not found")

// Store manages the entries SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the database at cfg.Dir/entries.db and creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			name TEXT PRIMARY KEY,
			file_mod_time TEXT,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL REFERENCES sources(name),
			position INTEGER NOT NULL,
			date TEXT NOT NULL,
			month INTEGER NOT NULL,
			day INTEGER NOT NULL,
			date_label TEXT NOT NULL,
			title TEXT NOT NULL,
			quote TEXT NOT NULL,
			reference TEXT NOT NULL,
			body TEXT NOT NULL,
			affirmation TEXT NOT NULL,
			UNIQUE(source, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_month_day ON entries(month, day)`,
		// FTS4 ships with the default go-sqlite3 build; FTS5 needs a build tag.
		`CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts4(title, quote, body, tokenize=unicode61)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Ingest replaces every entry previously stored under source with entries,
// in a single transaction. Entry order is preserved as position.
func (s *Store) Ingest(ctx context.Context, source string, entries []types.Entry) error {
	return s.ingest(ctx, source, "", entries)
}

func (s *Store) ingest(ctx context.Context, source, modTime string, entries []types.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM entries_fts WHERE docid IN (SELECT id FROM entries WHERE source = ?)`, source,
	); err != nil {
		return fmt.Errorf("deleting old search rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE source = ?`, source); err != nil {
		return fmt.Errorf("deleting old entries: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (name, file_mod_time, ingested_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			file_mod_time=excluded.file_mod_time, ingested_at=excluded.ingested_at`,
		source, modTime, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (source, position, date, month, day, date_label, title, quote, reference, body, affirmation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	index, err := tx.PrepareContext(ctx,
		`INSERT INTO entries_fts (docid, title, quote, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing search insert: %w", err)
	}
	defer index.Close()

	for i, e := range entries {
		month, day, err := e.Day()
		if err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, e.DateLabel, err)
		}
		res, err := insert.ExecContext(ctx,
			source, i, e.Date, int(month), day, e.DateLabel,
			e.Title, e.Quote, e.Reference, e.Body, e.Affirmation,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %d (%s): %w", i, e.DateLabel, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading entry id: %w", err)
		}
		if _, err := index.ExecContext(ctx, id, e.Title, e.Quote, e.Body); err != nil {
			return fmt.Errorf("indexing entry %d (%s): %w", i, e.DateLabel, err)
		}
	}

	return tx.Commit()
}

// IngestStatus reports what IngestFile did.
type IngestStatus string

const (
	IngestIndexed IngestStatus = "indexed"
	IngestUpdated IngestStatus = "updated"
	IngestSkipped IngestStatus = "skipped"
)

// IngestFile loads a JSON entry file written by the parser and ingests it
// under its base name. Files whose modification time matches the last
// ingest are skipped. A status line is printed to w.
func (s *Store) IngestFile(ctx context.Context, path string, w io.Writer) (IngestStatus, error) {
	source := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM sources WHERE name = ?`, source,
	).Scan(&storedModTime)
	if err == nil && storedModTime == modTime {
		fmt.Fprintf(w, "skipped %s\n", source)
		return IngestSkipped, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking source %s: %w", source, err)
	}
	isUpdate := err == nil

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := parse.ReadJSON(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if err := s.ingest(ctx, source, modTime, entries); err != nil {
		return "", fmt.Errorf("ingesting %s: %w", source, err)
	}

	if isUpdate {
		fmt.Fprintf(w, "updated %s (%d entries)\n", source, len(entries))
		return IngestUpdated, nil
	}
	fmt.Fprintf(w, "indexed %s (%d entries)\n", source, len(entries))
	return IngestIndexed, nil
}
