// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/doi-fix/pkg/types"
)

// nonRegularTypes are item types that are not bibliographic records.
var nonRegularTypes = map[string]bool{
	"attachment": true,
	"note":       true,
	"annotation": true,
}

// Item is one library record. Field changes are held in memory until Save.
type Item struct {
	store    *Store
	id       string
	itemType string
	title    string
	date     string
	doi      string
	feed     bool
	creators []types.Creator
}

func (it *Item) ID() string { return it.id }

// Type returns the CSL item type (e.g. "article-journal").
func (it *Item) Type() string { return it.itemType }

// Field returns the named field, or "" for fields the library does not keep.
func (it *Item) Field(name string) string {
	switch name {
	case types.FieldTitle:
		return it.title
	case types.FieldDate:
		return it.date
	case types.FieldDOI:
		return it.doi
	default:
		return ""
	}
}

// SetField changes a field in memory.
func (it *Item) SetField(name, value string) error {
	switch name {
	case types.FieldTitle:
		it.title = value
	case types.FieldDate:
		it.date = value
	case types.FieldDOI:
		it.doi = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

func (it *Item) Creators() []types.Creator {
	return append([]types.Creator(nil), it.creators...)
}

func (it *Item) IsRegular() bool { return !nonRegularTypes[it.itemType] }

func (it *Item) IsFeed() bool { return it.feed }

// Save writes the item's fields in a single transaction.
func (it *Item) Save(ctx context.Context) error {
	tx, err := it.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", types.ErrPersistence, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE items SET title = ?, date = ?, doi = ?, updated_at = ? WHERE id = ?`,
		it.title, it.date, it.doi, time.Now().UTC().Format(time.RFC3339), it.id)
	if err != nil {
		return fmt.Errorf("%w: updating item %s: %w", types.ErrPersistence, it.id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: item %s no longer exists", types.ErrPersistence, it.id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing item %s: %w", types.ErrPersistence, it.id, err)
	}
	return nil
}
