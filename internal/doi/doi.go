// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doi canonicalizes Digital Object Identifier strings.
package doi

import (
	"regexp"
	"strings"
)

// resolverPrefix matches the doi.org resolver forms users paste into the
// DOI field: "https://doi.org/", "http://dx.doi.org/", and so on.
var resolverPrefix = regexp.MustCompile(`(?i)^https?://(?:dx\.)?doi\.org/`)

// pattern matches DOIs: "10.1145/1234567.1234568".
var pattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// Clean strips a resolver URL prefix and surrounding whitespace. An empty
// input yields an empty result; a bare DOI is returned unchanged.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = resolverPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Valid reports whether s, once cleaned, has DOI syntax. It says nothing
// about whether the DOI is registered.
func Valid(s string) bool {
	return pattern.MatchString(Clean(s))
}
