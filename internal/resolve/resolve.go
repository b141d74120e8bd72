// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve runs DOI batches over host library items: retrieve a
// missing DOI, force-update an existing one, or validate what is stored.
//
// Items are processed one at a time in the order given. A failure on one
// item is recorded against that item and the batch moves on; only an empty
// selection stops an operation before it starts.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdiddy/doi-fix/internal/report"
	"github.com/pdiddy/doi-fix/pkg/types"
)

// Item is a host library record. Field names are the types.Field* constants.
type Item interface {
	ID() string
	Field(name string) string
	SetField(name, value string) error
	Creators() []types.Creator
	// IsRegular reports whether the item is a bibliographic record rather
	// than an attachment or note.
	IsRegular() bool
	// IsFeed reports whether the item came from a feed subscription.
	IsFeed() bool
	// Save persists pending field changes in one transaction.
	Save(ctx context.Context) error
}

// Finder looks up the DOI of a work. It returns "" when nothing usable is
// found and never fails; remote errors are its own to log.
type Finder interface {
	FindDOI(ctx context.Context, title string, creators []types.Creator, year string) string
}

// Validator reports whether a DOI is registered, treating lookup failures
// as invalid.
type Validator interface {
	Validate(ctx context.Context, doi string) bool
}

// State is the lifecycle of a Resolver's current batch.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// ErrBusy is returned when a batch is started while another is running on
// the same Resolver.
var ErrBusy = errors.New("a batch is already running")

// Resolver runs batches. One batch runs at a time.
type Resolver struct {
	finder    Finder
	validator Validator
	reporter  report.Reporter
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

// New returns a Resolver. A nil logger uses slog.Default.
func New(finder Finder, validator Validator, reporter report.Reporter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		finder:    finder,
		validator: validator,
		reporter:  reporter,
		logger:    logger,
	}
}

// State returns the lifecycle state of the most recent batch.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning {
		return ErrBusy
	}
	r.state = StateRunning
	return nil
}

func (r *Resolver) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateCompleted
}

// RetrieveDOI returns the DOI for one item. Unless force is set, a DOI
// already on the item is returned trimmed without a remote call. Otherwise
// the item must have a title; the result is "" when nothing was found.
func (r *Resolver) RetrieveDOI(ctx context.Context, item Item, force bool) (string, error) {
	if !force {
		if existing := strings.TrimSpace(item.Field(types.FieldDOI)); existing != "" {
			return existing, nil
		}
	}

	itemTitle := item.Field(types.FieldTitle)
	if strings.TrimSpace(itemTitle) == "" {
		return "", types.ErrNoTitle
	}
	return r.finder.FindDOI(ctx, itemTitle, item.Creators(), item.Field(types.FieldDate)), nil
}

// eligible keeps regular, non-feed items. It fails when there is nothing
// to work on.
func (r *Resolver) eligible(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, types.ErrNoItems
	}
	var out []Item
	for _, it := range items {
		if r.admits(it, lookupTarget) {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil, types.ErrNoValidItems
	}
	return out, nil
}

func lookupTarget(it Item) bool { return it.IsRegular() && !it.IsFeed() }

func regular(it Item) bool { return it.IsRegular() }

// admits reports whether pred accepts it. An item whose classification
// panics is skipped.
func (r *Resolver) admits(it Item, pred func(Item) bool) (ok bool) {
	if it == nil {
		return false
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("skipping item that could not be classified", "error", p)
			ok = false
		}
	}()
	return pred(it)
}

// writeDOI sets and saves the DOI field.
func writeDOI(ctx context.Context, item Item, value string) error {
	if err := item.SetField(types.FieldDOI, value); err != nil {
		return fmt.Errorf("%w: setting DOI: %w", types.ErrPersistence, err)
	}
	if err := item.Save(ctx); err != nil {
		return fmt.Errorf("%w: saving item: %w", types.ErrPersistence, err)
	}
	return nil
}
