// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doi-fix/pkg/types"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriter(&buf)
	p.Headline("DOI Fix - Retrieve DOI")
	p.Line(LevelSuccess, "✓ Found DOI: 10.1/abc")
	p.Line(LevelError, "✗ No DOI found")

	want := "DOI Fix - Retrieve DOI\n" +
		"======================\n" +
		"✓ Found DOI: 10.1/abc\n" +
		"✗ No DOI found\n"
	assert.Equal(t, want, buf.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Headline("first")
	r.Headline("DOI Validation")
	r.Line(LevelInfo, "a")
	r.Line(LevelError, "b")

	assert.Equal(t, "DOI Validation", r.HeadlineText())
	assert.Equal(t, []Entry{{LevelInfo, "a"}, {LevelError, "b"}}, r.Entries())
	assert.Equal(t, []string{"a", "b"}, r.Texts())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "error", LevelError.String())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("short", 50))
	assert.Equal(t, "abc", Snippet("abcdef", 3))
	assert.Equal(t, "Übe", Snippet("Über", 3))
	assert.Equal(t, "", Snippet("", 3))
}

func sampleResult() types.BatchResult {
	var r types.BatchResult
	r.Operation = types.OpUpdate
	r.Record(types.ItemOutcome{ItemID: "a", Title: "Deep Learning", Kind: types.OutcomeSuccess, DOI: "10.1/new", OldDOI: "10.1/old"})
	r.Record(types.ItemOutcome{ItemID: "b", Title: "Cats", Kind: types.OutcomeUnchanged, DOI: "10.1/cats", OldDOI: "10.1/cats"})
	r.Record(types.ItemOutcome{ItemID: "c", Title: "Dogs", Kind: types.OutcomeError, Reason: "item has no title"})
	return r
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(sampleResult(), &buf)
	out := buf.String()

	for _, want := range []string{"Deep Learning", "10.1/new", "was 10.1/old", "unchanged", "item has no title", "1 ok, 1 unchanged, 1 failed"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "was 10.1/cats")
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(types.BatchResult{}, &buf)
	assert.Equal(t, "No items processed.\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(sampleResult(), &buf))

	var got types.BatchResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, types.OpUpdate, got.Operation)
	assert.Equal(t, 1, got.Succeeded)
	assert.Equal(t, 1, got.Unchanged)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "10.1/old", got.Items[0].OldDOI)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
