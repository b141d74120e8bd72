// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title compares work titles from the local library against titles
// returned by the metadata index.
package title

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns a lowercased, punctuation-stripped version of s with
// whitespace runs collapsed to a single space. Letters, digits, and
// underscores survive. Normalize is idempotent.
func Normalize(s string) string {
	// Compose first so "é" and "é" compare equal; a stray combining
	// mark would otherwise be stripped and leave a bare "e".
	s = norm.NFC.String(cases.Lower(language.Und).String(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	// Dropping a character can leave composable neighbors behind.
	return strings.Join(strings.Fields(norm.NFC.String(b.String())), " ")
}

// IsSimilar reports whether a and b denote the same work: their normalized
// forms are equal or one contains the other.
//
// Containment in either direction is accepted because index titles often
// carry subtitles the local record lacks. Short titles therefore match
// liberally ("Cats" matches "Cats and Dogs"), and an empty title matches
// everything.
func IsSimilar(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}
