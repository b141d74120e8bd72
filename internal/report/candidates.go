// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/doi-fix/internal/crossref"
)

// Candidates writes the works a search returned, marking the one whose DOI
// is picked.
func Candidates(w io.Writer, works []crossref.Work, picked string) {
	if len(works) == 0 {
		fmt.Fprintln(w, "No candidates found.")
		return
	}

	style := table.StyleDefault
	if IsTerminal(w) {
		style = table.StyleRounded
	}

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"#", "", "Title", "DOI"})
	marked := false
	for i, wk := range works {
		mark := ""
		if !marked && picked != "" && wk.DOI == picked {
			mark = "*"
			marked = true
		}
		tw.AppendRow(table.Row{i + 1, mark, Snippet(wk.PrimaryTitle(), titleWidth), wk.DOI})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, WidthMax: titleWidth},
	})
	fmt.Fprintln(w, tw.Render())
}
