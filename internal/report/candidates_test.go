// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/doi-fix/internal/crossref"
)

func TestCandidates_MarksPicked(t *testing.T) {
	works := []crossref.Work{
		{Title: []string{"Unrelated"}, DOI: "10.1/a"},
		{Title: []string{"Deep Learning"}, DOI: "10.1/b"},
	}
	var buf bytes.Buffer
	Candidates(&buf, works, "10.1/b")

	var pickedLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "*") {
			pickedLine = line
		}
	}
	assert.Contains(t, pickedLine, "10.1/b")
	assert.Contains(t, pickedLine, "Deep Learning")
	assert.Equal(t, 1, strings.Count(buf.String(), "*"))
}

func TestCandidates_Empty(t *testing.T) {
	var buf bytes.Buffer
	Candidates(&buf, nil, "")
	assert.Equal(t, "No candidates found.\n", buf.String())
}
