// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-fix/internal/doi"
	"github.com/pdiddy/doi-fix/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form. CSL-JSON input decodes
// through the same struct.
type CSLItem struct {
	ID     string     `yaml:"id,omitempty"`
	Type   string     `yaml:"type,omitempty"`
	Title  string     `yaml:"title,omitempty"`
	Author []CSLName  `yaml:"author,omitempty"`
	Editor []CSLName  `yaml:"editor,omitempty"`
	Issued *CSLDate   `yaml:"issued,omitempty"`
	DOI    string     `yaml:"DOI,omitempty"`
	Custom *CSLCustom `yaml:"custom,omitempty"`
}

// CSLName is a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date, either date-parts or a raw string.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts,omitempty"`
	Raw       string  `yaml:"raw,omitempty"`
	Literal   string  `yaml:"literal,omitempty"`
}

// CSLCustom carries fields outside the CSL schema.
type CSLCustom struct {
	Feed bool `yaml:"feed,omitempty"`
}

// ImportSummary reports what an import changed.
type ImportSummary struct {
	Added     int      `json:"added"`
	Updated   int      `json:"updated"`
	Malformed []string `json:"malformed_doi,omitempty"`

	// LibraryTotal is the number of items in the library after the import.
	LibraryTotal int `json:"library_total"`
}

// Total returns the number of items written.
func (s ImportSummary) Total() int {
	return s.Added + s.Updated
}

const defaultItemType = "article-journal"

// Import reads a CSL-YAML (or CSL-JSON) list from r and upserts every entry
// in one transaction. Entries without an id get a generated one. Stored DOIs
// that do not look like DOIs are kept and listed in the summary.
func (s *Store) Import(ctx context.Context, r io.Reader, logger *slog.Logger) (ImportSummary, error) {
	var entries []CSLItem
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return ImportSummary{}, fmt.Errorf("%w: parsing CSL: %w", types.ErrInput, err)
	}

	var summary ImportSummary
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("%w: beginning transaction: %w", types.ErrPersistence, err)
	}
	defer tx.Rollback()

	upsertItem, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, item_type, title, date, doi, is_feed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			item_type = excluded.item_type,
			title = excluded.title,
			date = excluded.date,
			doi = excluded.doi,
			is_feed = excluded.is_feed`)
	if err != nil {
		return summary, fmt.Errorf("preparing item upsert: %w", err)
	}
	defer upsertItem.Close()

	insertCreator, err := tx.PrepareContext(ctx, `
		INSERT INTO creators (item_id, position, last_name, first_name, creator_type)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing creator insert: %w", err)
	}
	defer insertCreator.Close()

	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			id = uuid.NewString()
		}

		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM items WHERE id = ?`, id).Scan(&exists); err != nil {
			return summary, fmt.Errorf("checking item %s: %w", id, err)
		}

		itemType := e.Type
		if itemType == "" {
			itemType = defaultItemType
		}
		feed := 0
		if e.Custom != nil && e.Custom.Feed {
			feed = 1
		}
		if _, err := upsertItem.ExecContext(ctx, id, itemType, e.Title, dateText(e.Issued), e.DOI, feed); err != nil {
			return summary, fmt.Errorf("%w: writing item %s: %w", types.ErrPersistence, id, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM creators WHERE item_id = ?`, id); err != nil {
			return summary, fmt.Errorf("%w: clearing creators for %s: %w", types.ErrPersistence, id, err)
		}
		for i, c := range creatorsOf(e) {
			if _, err := insertCreator.ExecContext(ctx, id, i, c.LastName, c.FirstName, c.CreatorType); err != nil {
				return summary, fmt.Errorf("%w: writing creator for %s: %w", types.ErrPersistence, id, err)
			}
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Added++
		}
		if strings.TrimSpace(e.DOI) != "" && !doi.Valid(e.DOI) {
			summary.Malformed = append(summary.Malformed, id)
			logger.Warn("stored DOI is malformed", "item", id, "doi", e.DOI)
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("%w: committing import: %w", types.ErrPersistence, err)
	}
	if summary.LibraryTotal, err = s.Count(ctx); err != nil {
		return summary, err
	}
	logger.Info("imported items", "added", summary.Added, "updated", summary.Updated, "total", summary.LibraryTotal)
	return summary, nil
}

// Export writes every item as a CSL-YAML list to w.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	items, err := s.Select(ctx, Filter{})
	if err != nil {
		return err
	}
	out := make([]CSLItem, len(items))
	for i, it := range items {
		out[i] = toCSLItem(it)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

func toCSLItem(it *Item) CSLItem {
	c := CSLItem{
		ID:     it.id,
		Type:   it.itemType,
		Title:  it.title,
		Issued: issuedOf(it.date),
		DOI:    it.doi,
	}
	for _, cr := range it.creators {
		name := CSLName{Family: cr.LastName, Given: cr.FirstName}
		if cr.FirstName == "" && strings.Contains(cr.LastName, " ") {
			name = CSLName{Literal: cr.LastName}
		}
		if cr.CreatorType == "editor" {
			c.Editor = append(c.Editor, name)
		} else {
			c.Author = append(c.Author, name)
		}
	}
	if it.feed {
		c.Custom = &CSLCustom{Feed: true}
	}
	return c
}

func creatorsOf(e CSLItem) []types.Creator {
	var out []types.Creator
	add := func(names []CSLName, role string) {
		for _, n := range names {
			last := n.Family
			if last == "" {
				last = n.Literal
			}
			out = append(out, types.Creator{LastName: last, FirstName: n.Given, CreatorType: role})
		}
	}
	add(e.Author, "author")
	add(e.Editor, "editor")
	return out
}

// dateText flattens a CSL date to "YYYY", "YYYY-MM" or "YYYY-MM-DD", or
// the raw text when no date-parts are given.
func dateText(d *CSLDate) string {
	if d == nil {
		return ""
	}
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		parts := d.DateParts[0]
		s := fmt.Sprintf("%04d", parts[0])
		for _, p := range parts[1:min(len(parts), 3)] {
			s += fmt.Sprintf("-%02d", p)
		}
		return s
	}
	if d.Raw != "" {
		return d.Raw
	}
	return d.Literal
}

var isoDate = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?(?:-(\d{2}))?$`)

func issuedOf(date string) *CSLDate {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	m := isoDate.FindStringSubmatch(date)
	if m == nil {
		return &CSLDate{Raw: date}
	}
	var parts []int
	for _, g := range m[1:] {
		if g == "" {
			break
		}
		n, _ := strconv.Atoi(g)
		parts = append(parts, n)
	}
	return &CSLDate{DateParts: [][]int{parts}}
}
