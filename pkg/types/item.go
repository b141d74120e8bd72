// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for doi-fix: the creator and
// field vocabulary of host items, per-item outcomes, batch tallies, and
// configuration.
package types

// Field names understood by host items. The core reads and writes items only
// through these names.
const (
	FieldTitle = "title"
	FieldDate  = "date"
	FieldDOI   = "DOI"
)

// Creator is one author, editor, or other contributor of an item, in the
// order the host stores them.
type Creator struct {
	// LastName is the family name, or the full name for single-field creators.
	LastName string `json:"last_name" yaml:"last_name"`

	// FirstName is the given name; empty for institutional creators.
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`

	// CreatorType is the role (e.g. "author", "editor").
	CreatorType string `json:"creator_type,omitempty" yaml:"creator_type,omitempty"`
}
