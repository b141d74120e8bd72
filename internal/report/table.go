// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/doi-fix/pkg/types"
)

const titleWidth = 50

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Table writes per-item results and the tally as a table to w. Terminals
// get rounded box drawing; pipes and files get plain ASCII.
func Table(result types.BatchResult, w io.Writer) {
	if len(result.Items) == 0 {
		fmt.Fprintln(w, "No items processed.")
		return
	}

	style := table.StyleDefault
	if IsTerminal(w) {
		style = table.StyleRounded
	}
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"#", "Item", "Title", "Outcome", "DOI", "Note"})
	for i, it := range result.Items {
		tw.AppendRow(table.Row{i + 1, it.ItemID, Snippet(it.Title, titleWidth), string(it.Kind), it.DOI, note(it)})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", summary(result)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, WidthMax: titleWidth},
	})
	fmt.Fprintln(w, tw.Render())
}

// JSON writes the result as indented JSON to w.
func JSON(result types.BatchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// Snippet returns the first n runes of s.
func Snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func note(it types.ItemOutcome) string {
	switch {
	case it.Reason != "":
		return it.Reason
	case it.OldDOI != "" && it.OldDOI != it.DOI:
		return "was " + it.OldDOI
	default:
		return ""
	}
}

func summary(r types.BatchResult) string {
	s := strconv.Itoa(r.Succeeded) + " ok"
	if r.Unchanged > 0 {
		s += ", " + strconv.Itoa(r.Unchanged) + " unchanged"
	}
	if r.NoDOI > 0 {
		s += ", " + strconv.Itoa(r.NoDOI) + " no DOI"
	}
	return s + ", " + strconv.Itoa(r.Failed) + " failed"
}
