// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/doi-fix/internal/doi"
	"github.com/pdiddy/doi-fix/internal/report"
	"github.com/pdiddy/doi-fix/pkg/types"
)

const snippetLen = 50

// Retrieve looks up DOIs for regular, non-feed items that lack one. Items
// that already carry a DOI are left alone and counted as unchanged.
func (r *Resolver) Retrieve(ctx context.Context, items []Item) (types.BatchResult, error) {
	result := types.BatchResult{Operation: types.OpRetrieve}
	valid, err := r.eligible(items)
	if err != nil {
		return result, err
	}
	if err := r.begin(); err != nil {
		return result, err
	}
	defer r.finish()

	r.reporter.Headline("DOI Fix - Retrieve DOI")
	for _, it := range valid {
		result.Record(r.guard(it, func(out *types.ItemOutcome) {
			r.retrieveOne(ctx, it, out)
		}))
	}
	r.reporter.Line(report.LevelInfo, fmt.Sprintf("Completed: %d succeeded, %d skipped, %d failed",
		result.Succeeded, result.Unchanged, result.Failed))
	return result, nil
}

func (r *Resolver) retrieveOne(ctx context.Context, it Item, out *types.ItemOutcome) {
	r.reporter.Line(report.LevelInfo, processing(out.Title))

	existing := strings.TrimSpace(it.Field(types.FieldDOI))
	found, err := r.RetrieveDOI(ctx, it, false)
	switch {
	case err != nil:
		r.fail(out, err)
	case found == "":
		r.notFound(out)
	case existing != "":
		out.Kind = types.OutcomeUnchanged
		out.DOI = found
		out.OldDOI = existing
		r.reporter.Line(report.LevelInfo, "✓ DOI already present: "+found)
	default:
		if err := writeDOI(ctx, it, found); err != nil {
			r.fail(out, err)
			return
		}
		out.Kind = types.OutcomeSuccess
		out.DOI = found
		r.reporter.Line(report.LevelSuccess, "✓ Found DOI: "+found)
	}
}

// Update looks up DOIs for regular, non-feed items whether or not they
// already have one, overwriting a stored DOI that differs.
func (r *Resolver) Update(ctx context.Context, items []Item) (types.BatchResult, error) {
	result := types.BatchResult{Operation: types.OpUpdate}
	valid, err := r.eligible(items)
	if err != nil {
		return result, err
	}
	if err := r.begin(); err != nil {
		return result, err
	}
	defer r.finish()

	r.reporter.Headline("DOI Fix - Update DOI")
	for _, it := range valid {
		result.Record(r.guard(it, func(out *types.ItemOutcome) {
			r.updateOne(ctx, it, out)
		}))
	}
	r.reporter.Line(report.LevelInfo, fmt.Sprintf("Completed: %d updated, %d unchanged, %d failed",
		result.Succeeded, result.Unchanged, result.Failed))
	return result, nil
}

func (r *Resolver) updateOne(ctx context.Context, it Item, out *types.ItemOutcome) {
	r.reporter.Line(report.LevelInfo, processing(out.Title))

	oldDOI := it.Field(types.FieldDOI)
	if oldDOI != "" {
		out.OldDOI = oldDOI
		r.reporter.Line(report.LevelInfo, "  Old DOI: "+oldDOI)
	}

	found, err := r.RetrieveDOI(ctx, it, true)
	switch {
	case err != nil:
		r.fail(out, err)
	case found == "":
		r.notFound(out)
	case found == doi.Clean(oldDOI):
		out.Kind = types.OutcomeUnchanged
		out.DOI = found
		r.reporter.Line(report.LevelInfo, "✓ DOI unchanged: "+found)
	default:
		if err := writeDOI(ctx, it, found); err != nil {
			r.fail(out, err)
			return
		}
		out.Kind = types.OutcomeSuccess
		out.DOI = found
		r.reporter.Line(report.LevelSuccess, "✓ Updated DOI: "+found)
	}
}

// Validate checks the stored DOI of every regular item. Items without a
// DOI are reported but counted neither valid nor invalid. Feed items are
// not filtered out.
func (r *Resolver) Validate(ctx context.Context, items []Item) (types.BatchResult, error) {
	result := types.BatchResult{Operation: types.OpValidate}
	if len(items) == 0 {
		return result, types.ErrNoItems
	}
	if err := r.begin(); err != nil {
		return result, err
	}
	defer r.finish()

	r.reporter.Headline("DOI Validation")
	for _, it := range items {
		if !r.admits(it, regular) {
			continue
		}
		result.Record(r.guard(it, func(out *types.ItemOutcome) {
			r.validateOne(ctx, it, out)
		}))
	}
	r.reporter.Line(report.LevelInfo, fmt.Sprintf("Results: %d valid, %d invalid", result.Succeeded, result.Failed))
	return result, nil
}

func (r *Resolver) validateOne(ctx context.Context, it Item, out *types.ItemOutcome) {
	stored := it.Field(types.FieldDOI)
	if strings.TrimSpace(stored) == "" {
		out.Kind = types.OutcomeNoDOI
		r.reporter.Line(report.LevelInfo, report.Snippet(out.Title, snippetLen)+": No DOI")
		return
	}

	out.DOI = stored
	if r.validator.Validate(ctx, stored) {
		out.Kind = types.OutcomeValid
		r.reporter.Line(report.LevelSuccess, "✓ Valid: "+stored)
		return
	}
	out.Kind = types.OutcomeInvalid
	if !doi.Valid(stored) {
		out.Reason = "malformed DOI"
	}
	r.reporter.Line(report.LevelError, "✗ Invalid: "+stored)
}

// guard runs fn for one item and turns a panic inside host or client code
// into an error outcome so the batch continues.
func (r *Resolver) guard(it Item, fn func(out *types.ItemOutcome)) (out types.ItemOutcome) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(&out, fmt.Errorf("unexpected failure: %v", p))
		}
	}()
	out = types.ItemOutcome{ItemID: it.ID(), Title: it.Field(types.FieldTitle)}
	fn(&out)
	return out
}

func (r *Resolver) fail(out *types.ItemOutcome, err error) {
	out.Kind = types.OutcomeError
	out.Reason = err.Error()
	r.logger.Warn("item failed", "item", out.ItemID, "error", err)
	r.reporter.Line(report.LevelError, "✗ Error: "+err.Error())
}

func (r *Resolver) notFound(out *types.ItemOutcome) {
	out.Kind = types.OutcomeNotFound
	r.reporter.Line(report.LevelError, "✗ No DOI found")
}

func processing(itemTitle string) string {
	return "Processing: " + report.Snippet(itemTitle, snippetLen) + "..."
}
