// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library is the local item store doi-fix runs against: a SQLite
// database of bibliographic items and their creators, filled from and
// written back to CSL-YAML files. Items implement resolve.Item.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doi-fix/pkg/types"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "library.db"

// Store manages the library SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the library database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}

	s := &Store{db: db, path: path}
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

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			item_type TEXT NOT NULL DEFAULT 'article-journal',
			title TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			is_feed INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS creators (
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			last_name TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			creator_type TEXT NOT NULL DEFAULT 'author',
			PRIMARY KEY (item_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_doi ON items(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Filter selects items. The zero Filter selects every item in import order.
type Filter struct {
	// IDs selects these items, in this order. Unknown IDs are an error.
	IDs []string

	// MissingDOI keeps only items whose DOI is blank.
	MissingDOI bool
}

const itemColumns = `id, item_type, title, date, doi, is_feed`

// Select returns the items matching f with their creators loaded.
func (s *Store) Select(ctx context.Context, f Filter) ([]*Item, error) {
	var items []*Item
	if len(f.IDs) > 0 {
		for _, id := range f.IDs {
			it, err := s.get(ctx, id)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
	} else {
		rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY rowid`)
		if err != nil {
			return nil, fmt.Errorf("querying items: %w", err)
		}
		for rows.Next() {
			it, err := s.scanItem(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			items = append(items, it)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterating items: %w", err)
		}
		rows.Close()
	}

	if f.MissingDOI {
		kept := items[:0]
		for _, it := range items {
			if strings.TrimSpace(it.doi) == "" {
				kept = append(kept, it)
			}
		}
		items = kept
	}

	for _, it := range items {
		creators, err := s.loadCreators(ctx, it.id)
		if err != nil {
			return nil, err
		}
		it.creators = creators
	}
	return items, nil
}

// Count returns the number of items in the library.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

func (s *Store) get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := s.scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: unknown item %q", types.ErrInput, id)
	}
	return it, err
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanItem(sc scanner) (*Item, error) {
	it := &Item{store: s}
	var feed int
	if err := sc.Scan(&it.id, &it.itemType, &it.title, &it.date, &it.doi, &feed); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	it.feed = feed != 0
	return it, nil
}

func (s *Store) loadCreators(ctx context.Context, itemID string) ([]types.Creator, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT last_name, first_name, creator_type FROM creators WHERE item_id = ? ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying creators for %s: %w", itemID, err)
	}
	defer rows.Close()

	var creators []types.Creator
	for rows.Next() {
		var c types.Creator
		if err := rows.Scan(&c.LastName, &c.FirstName, &c.CreatorType); err != nil {
			return nil, fmt.Errorf("scanning creator: %w", err)
		}
		creators = append(creators, c)
	}
	return creators, rows.Err()
}
