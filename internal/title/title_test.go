// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercases", "Deep Learning", "deep learning"},
		{"strips punctuation", "Attention Is All You Need!", "attention is all you need"},
		{"colon subtitle", "Deep Learning: An Introduction", "deep learning an introduction"},
		{"collapses whitespace", "  deep \t\n  learning  ", "deep learning"},
		{"keeps digits", "GPT-4 Technical Report", "gpt4 technical report"},
		{"keeps underscore", "snake_case titles", "snake_case titles"},
		{"only punctuation", "?!.,;", ""},
		{"hyphen joins words", "state-of-the-art", "stateoftheart"},
		{"unicode letters", "Über die Théorie", "über die théorie"},
		{"decomposed accent", "The\u0301orie", "th\u00e9orie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Deep Learning: An Introduction",
		"A  B\tC\nD",
		"ΟΔΟΣ-Β",
		"Ärger über — Straße!",
		"Résumé of 10,000 papers (2nd ed.)",
		"__init__",
		"\u1100.\u1161",
		"\uac00-\u11a8",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestNormalize_ComposesAcrossStrippedPunctuation(t *testing.T) {
	assert.Equal(t, "\uac00", Normalize("\u1100.\u1161"))
	assert.Equal(t, "\uac01", Normalize("\uac00-\u11a8"))
}

func TestIsSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Deep Learning", "Deep Learning", true},
		{"case and punctuation", "deep learning.", "DEEP LEARNING", true},
		{"local contained in remote", "Deep Learning", "Deep Learning: An Introduction", true},
		{"remote contained in local", "Deep Learning: An Introduction", "Deep Learning", true},
		{"unrelated", "Cats", "Dogs", false},
		{"short title matches liberally", "Cats", "Cats and Dogs in Literature", true},
		{"partial word containment", "Learn", "Deep Learning", true},
		{"empty matches anything", "", "Anything at all", true},
		{"word order matters", "Learning Deep", "Deep Learning", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSimilar(tt.a, tt.b))
		})
	}
}

func TestIsSimilarReflexive(t *testing.T) {
	for _, s := range []string{"x", "Deep Learning", "?!", "Über die Théorie"} {
		assert.True(t, IsSimilar(s, s), "IsSimilar(%q, %q)", s, s)
	}
}
