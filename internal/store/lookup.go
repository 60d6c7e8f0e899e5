// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/jftlv/pkg/types"
)

const entryColumns = `e.date, e.date_label, e.title, e.quote, e.reference, e.body, e.affirmation`

// ParseDayKey parses an MM-DD key as produced by types.DayKey.
func ParseDayKey(key string) (time.Month, int, error) {
	// 2000 is a leap year, so 02-29 is accepted.
	t, err := time.Parse("2006-01-02", "2000-"+strings.TrimSpace(key))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day key %q: want MM-DD", key)
	}
	return t.Month(), t.Day(), nil
}

// Lookup returns the entry for the given calendar day regardless of year.
// When several sources hold the day, the first by source name wins.
func (s *Store) Lookup(ctx context.Context, month time.Month, day int) (types.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+`
		FROM entries e
		WHERE e.month = ? AND e.day = ?
		ORDER BY e.source, e.position
		LIMIT 1`, int(month), day)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Entry{}, fmt.Errorf("%02d-%02d: %w", int(month), day, ErrNotFound)
	}
	if err != nil {
		return types.Entry{}, fmt.Errorf("looking up %02d-%02d: %w", int(month), day, err)
	}
	return e, nil
}

// Search runs a full-text query over title, quote, and body. Results come
// back in source order. limit <= 0 uses the store default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.Entry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		FROM entries_fts
		JOIN entries e ON e.id = entries_fts.docid
		WHERE entries_fts MATCH ?
		ORDER BY e.source, e.position
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}
	return scanEntries(rows)
}

// All returns every stored entry in source order.
func (s *Store) All(ctx context.Context) ([]types.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries e ORDER BY e.source, e.position`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return scanEntries(rows)
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (types.Entry, error) {
	var e types.Entry
	err := row.Scan(&e.Date, &e.DateLabel, &e.Title, &e.Quote, &e.Reference, &e.Body, &e.Affirmation)
	return e, err
}

func scanEntries(rows *sql.Rows) ([]types.Entry, error) {
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
