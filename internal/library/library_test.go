// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-fix/pkg/types"
)

const sampleCSL = `
- id: lecun2015
  type: article-journal
  title: Deep Learning
  author:
    - family: LeCun
      given: Yann
    - family: Bengio
      given: Yoshua
  issued:
    date-parts: [[2015, 5, 28]]
- id: feed1
  type: article-journal
  title: Feed Entry
  custom:
    feed: true
- id: note1
  type: note
  title: Reading notes
- id: attention
  type: paper-conference
  title: Attention Is All You Need
  DOI: https://doi.org/10.48550/arXiv.1706.03762
  issued:
    date-parts: [[2017]]
`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.LibraryConfig{Path: filepath.Join(t.TempDir(), "lib", "library.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func importSample(t *testing.T, s *Store) ImportSummary {
	t.Helper()
	sum, err := s.Import(context.Background(), strings.NewReader(sampleCSL), discard())
	require.NoError(t, err)
	return sum
}

func TestImport_CountsAndFields(t *testing.T) {
	s := openStore(t)
	sum := importSample(t, s)
	assert.Equal(t, 4, sum.Added)
	assert.Equal(t, 0, sum.Updated)
	assert.Empty(t, sum.Malformed)

	items, err := s.Select(context.Background(), Filter{IDs: []string{"lecun2015"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, "Deep Learning", it.Field(types.FieldTitle))
	assert.Equal(t, "2015-05-28", it.Field(types.FieldDate))
	assert.Equal(t, "", it.Field(types.FieldDOI))
	assert.True(t, it.IsRegular())
	assert.False(t, it.IsFeed())

	want := []types.Creator{
		{LastName: "LeCun", FirstName: "Yann", CreatorType: "author"},
		{LastName: "Bengio", FirstName: "Yoshua", CreatorType: "author"},
	}
	if diff := cmp.Diff(want, it.Creators()); diff != "" {
		t.Errorf("creators mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_Reimport(t *testing.T) {
	s := openStore(t)
	importSample(t, s)
	sum := importSample(t, s)
	assert.Equal(t, 0, sum.Added)
	assert.Equal(t, 4, sum.Updated)
	assert.Equal(t, 4, sum.LibraryTotal)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	items, err := s.Select(context.Background(), Filter{IDs: []string{"lecun2015"}})
	require.NoError(t, err)
	assert.Len(t, items[0].Creators(), 2)
}

func TestImport_AssignsIDs(t *testing.T) {
	s := openStore(t)
	sum, err := s.Import(context.Background(), strings.NewReader("- title: No Identifier\n"), discard())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Added)
	assert.Equal(t, 1, sum.LibraryTotal)

	items, err := s.Select(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	_, err = uuid.Parse(items[0].ID())
	assert.NoError(t, err)
	assert.Equal(t, defaultItemType, items[0].Type())
}

func TestImport_JSON(t *testing.T) {
	s := openStore(t)
	in := `[{"id": "x1", "type": "book", "title": "A Book", "DOI": "10.1000/book", "issued": {"date-parts": [[1999, 3]]}}]`
	_, err := s.Import(context.Background(), strings.NewReader(in), discard())
	require.NoError(t, err)

	items, err := s.Select(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "10.1000/book", items[0].Field(types.FieldDOI))
	assert.Equal(t, "1999-03", items[0].Field(types.FieldDate))
}

func TestImport_MalformedDOI(t *testing.T) {
	s := openStore(t)
	sum, err := s.Import(context.Background(), strings.NewReader("- id: bad\n  title: T\n  DOI: not-a-doi\n"), discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"bad"}, sum.Malformed)

	items, err := s.Select(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, "not-a-doi", items[0].Field(types.FieldDOI))
}

func TestImport_Invalid(t *testing.T) {
	s := openStore(t)
	_, err := s.Import(context.Background(), strings.NewReader("id: [unclosed"), discard())
	assert.ErrorIs(t, err, types.ErrInput)
}

func TestImport_Empty(t *testing.T) {
	s := openStore(t)
	sum, err := s.Import(context.Background(), strings.NewReader(""), discard())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Total())
}

func TestSelect_Filters(t *testing.T) {
	s := openStore(t)
	importSample(t, s)
	ctx := context.Background()

	all, err := s.Select(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"lecun2015", "feed1", "note1", "attention"}, ids(all))

	missing, err := s.Select(ctx, Filter{MissingDOI: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"lecun2015", "feed1", "note1"}, ids(missing))

	picked, err := s.Select(ctx, Filter{IDs: []string{"attention", "lecun2015"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"attention", "lecun2015"}, ids(picked))

	_, err = s.Select(ctx, Filter{IDs: []string{"nope"}})
	assert.ErrorIs(t, err, types.ErrInput)
}

func TestItem_Kinds(t *testing.T) {
	s := openStore(t)
	importSample(t, s)

	items, err := s.Select(context.Background(), Filter{IDs: []string{"feed1", "note1"}})
	require.NoError(t, err)
	assert.True(t, items[0].IsFeed())
	assert.True(t, items[0].IsRegular())
	assert.False(t, items[1].IsRegular())
}

func TestItem_SetField(t *testing.T) {
	it := &Item{}
	require.NoError(t, it.SetField(types.FieldDOI, "10.1/x"))
	assert.Equal(t, "10.1/x", it.Field(types.FieldDOI))
	assert.Error(t, it.SetField("abstract", "x"))
	assert.Equal(t, "", it.Field("abstract"))
}

func TestItem_SaveVisibleAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	s, err := Open(types.LibraryConfig{Path: path})
	require.NoError(t, err)
	_, err = s.Import(context.Background(), strings.NewReader(sampleCSL), discard())
	require.NoError(t, err)

	items, err := s.Select(context.Background(), Filter{IDs: []string{"lecun2015"}})
	require.NoError(t, err)
	require.NoError(t, items[0].SetField(types.FieldDOI, "10.1038/nature14539"))
	require.NoError(t, items[0].Save(context.Background()))
	require.NoError(t, s.Close())

	s, err = Open(types.LibraryConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()
	items, err = s.Select(context.Background(), Filter{IDs: []string{"lecun2015"}})
	require.NoError(t, err)
	assert.Equal(t, "10.1038/nature14539", items[0].Field(types.FieldDOI))
}

func TestItem_SaveDeleted(t *testing.T) {
	s := openStore(t)
	importSample(t, s)
	items, err := s.Select(context.Background(), Filter{IDs: []string{"lecun2015"}})
	require.NoError(t, err)

	_, err = s.db.Exec(`DELETE FROM items WHERE id = 'lecun2015'`)
	require.NoError(t, err)
	assert.ErrorIs(t, items[0].Save(context.Background()), types.ErrPersistence)
}

func TestExport_RoundTrip(t *testing.T) {
	s := openStore(t)
	importSample(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), &buf))

	var out []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 4)
	assert.Equal(t, "https://doi.org/10.48550/arXiv.1706.03762", out[3].DOI)
	assert.Equal(t, [][]int{{2017}}, out[3].Issued.DateParts)
	assert.Equal(t, [][]int{{2015, 5, 28}}, out[0].Issued.DateParts)
	assert.Equal(t, &CSLCustom{Feed: true}, out[1].Custom)

	other := openStore(t)
	sum, err := other.Import(context.Background(), &buf, discard())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Added)
}

func TestDateText(t *testing.T) {
	tests := []struct {
		in   *CSLDate
		want string
	}{
		{nil, ""},
		{&CSLDate{DateParts: [][]int{{2020}}}, "2020"},
		{&CSLDate{DateParts: [][]int{{2020, 1}}}, "2020-01"},
		{&CSLDate{DateParts: [][]int{{2020, 1, 2}}}, "2020-01-02"},
		{&CSLDate{Raw: "Spring 2020"}, "Spring 2020"},
		{&CSLDate{Literal: "n.d."}, "n.d."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dateText(tt.in))
	}
}

func TestIssuedOf(t *testing.T) {
	assert.Nil(t, issuedOf(""))
	assert.Equal(t, &CSLDate{DateParts: [][]int{{2020, 1}}}, issuedOf("2020-01"))
	assert.Equal(t, &CSLDate{Raw: "Spring 2020"}, issuedOf("Spring 2020"))
}

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	unlock, err := Lock(path)
	require.NoError(t, err)

	_, err = Lock(path)
	assert.Error(t, err)

	require.NoError(t, unlock())
	unlock, err = Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func ids(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}
