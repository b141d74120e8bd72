// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Operation names a batch entry point.
type Operation string

const (
	OpRetrieve Operation = "retrieve"
	OpUpdate   Operation = "update"
	OpValidate Operation = "validate"
)

// OutcomeKind classifies what happened to a single item during a batch.
type OutcomeKind string

const (
	// OutcomeSuccess means a DOI was found and written to the item.
	OutcomeSuccess OutcomeKind = "success"

	// OutcomeUnchanged means the item already carried the resolved DOI.
	OutcomeUnchanged OutcomeKind = "unchanged"

	// OutcomeNotFound means the remote index produced no usable candidate.
	OutcomeNotFound OutcomeKind = "not_found"

	// OutcomeError means the item could not be processed (no title, save failure).
	OutcomeError OutcomeKind = "error"

	// OutcomeValid and OutcomeInvalid are validation results for items with a DOI.
	OutcomeValid   OutcomeKind = "valid"
	OutcomeInvalid OutcomeKind = "invalid"

	// OutcomeNoDOI means a validation target had no DOI to check.
	OutcomeNoDOI OutcomeKind = "no_doi"
)

// ItemOutcome records the result of processing one item.
type ItemOutcome struct {
	ItemID string      `json:"item_id" yaml:"item_id"`
	Title  string      `json:"title" yaml:"title"`
	Kind   OutcomeKind `json:"outcome" yaml:"outcome"`
	DOI    string      `json:"doi,omitempty" yaml:"doi,omitempty"`
	OldDOI string      `json:"old_doi,omitempty" yaml:"old_doi,omitempty"`
	Reason string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// BatchResult holds the tally of a batch run. For validation, Succeeded
// counts valid DOIs and Failed counts invalid ones.
type BatchResult struct {
	Operation Operation     `json:"operation" yaml:"operation"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Unchanged int           `json:"unchanged" yaml:"unchanged"`
	Failed    int           `json:"failed" yaml:"failed"`
	NoDOI     int           `json:"no_doi" yaml:"no_doi"`
	Items     []ItemOutcome `json:"items" yaml:"items"`
}

// Total returns the number of items that produced an outcome.
func (r BatchResult) Total() int {
	return r.Succeeded + r.Unchanged + r.Failed + r.NoDOI
}

// HasFailures reports whether any item failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Record appends an outcome and updates the matching counter.
func (r *BatchResult) Record(o ItemOutcome) {
	switch o.Kind {
	case OutcomeSuccess, OutcomeValid:
		r.Succeeded++
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomeNoDOI:
		r.NoDOI++
	default:
		r.Failed++
	}
	r.Items = append(r.Items, o)
}
