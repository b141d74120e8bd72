// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fix/internal/crossref"
	"github.com/pdiddy/doi-fix/internal/logging"
	"github.com/pdiddy/doi-fix/internal/report"
	"github.com/pdiddy/doi-fix/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <title...>",
	Short: "Show the CrossRef candidates for a title",
	Long: `Search runs the same CrossRef query retrieve would run for an item with
this title, author and year, lists the candidates, and marks the one whose
DOI would be chosen. Nothing is written to the library.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("author", "", "last name of the first author")
	searchCmd.Flags().String("year", "", "publication date or year")

	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the JSON form of a search.
type searchOutput struct {
	Query      string          `json:"query"`
	Picked     string          `json:"picked,omitempty"`
	Candidates []crossref.Work `json:"candidates"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	author, _ := cmd.Flags().GetString("author")
	year, _ := cmd.Flags().GetString("year")
	cfg := loadConfig(viper.GetViper(), identity())

	q := crossref.Query{Title: strings.Join(args, " "), Year: year}
	if author != "" {
		q.Creators = []types.Creator{{LastName: author, CreatorType: "author"}}
	}

	client := crossref.New(&http.Client{Timeout: cfg.CrossRef.Timeout}, cfg.CrossRef, logging.New("crossref"))
	works, err := client.Search(cmd.Context(), q)
	if err != nil {
		return err
	}
	picked := crossref.SelectDOI(q.Title, works)

	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(searchOutput{Query: q.Text(), Picked: picked, Candidates: works})
	}

	fmt.Fprintf(os.Stdout, "Query: %s\n\n", q.Text())
	report.Candidates(os.Stdout, works, picked)
	return nil
}
