// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fix/internal/crossref"
	"github.com/pdiddy/doi-fix/internal/library"
	"github.com/pdiddy/doi-fix/internal/logging"
	"github.com/pdiddy/doi-fix/internal/report"
	"github.com/pdiddy/doi-fix/internal/resolve"
	"github.com/pdiddy/doi-fix/pkg/types"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [item-ids...]",
	Short: "Find DOIs for items that lack one",
	Long: `Retrieve searches CrossRef for each selected item by title and first
author and stores the DOI it finds. Items that already carry a DOI are left
as they are. With no ids every item in the library is processed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, types.OpRetrieve)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [item-ids...]",
	Short: "Look up DOIs again and replace stored ones that differ",
	Long: `Update searches CrossRef for every selected item, ignoring the DOI it
already has, and overwrites the stored DOI when CrossRef returns a
different one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, types.OpUpdate)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [item-ids...]",
	Short: "Check that stored DOIs are registered with CrossRef",
	Long: `Validate looks up each selected item's DOI in CrossRef and reports it
as valid or invalid. Items without a DOI are listed but not counted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, types.OpValidate)
	},
}

func init() {
	retrieveCmd.Flags().Bool("missing", false, "only select items without a DOI")

	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(validateCmd)
}

func runBatch(cmd *cobra.Command, args []string, op types.Operation) error {
	ctx := cmd.Context()
	cfg := loadConfig(viper.GetViper(), identity())
	jsonOutput := viper.GetBool("json")

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	unlock, err := library.Lock(store.Path())
	if err != nil {
		return err
	}
	defer unlock()

	missing, _ := cmd.Flags().GetBool("missing")
	selected, err := store.Select(ctx, library.Filter{IDs: args, MissingDOI: missing})
	if err != nil {
		return err
	}
	items := make([]resolve.Item, len(selected))
	for i, it := range selected {
		items[i] = it
	}

	// Progress goes to stderr when stdout carries JSON.
	var progress io.Writer = os.Stdout
	if jsonOutput {
		progress = os.Stderr
	}

	client := crossref.New(&http.Client{Timeout: cfg.CrossRef.Timeout}, cfg.CrossRef, logging.New("crossref"))
	r := resolve.New(client, client, report.NewWriter(progress), logging.New("resolve"))

	var result types.BatchResult
	switch op {
	case types.OpRetrieve:
		result, err = r.Retrieve(ctx, items)
	case types.OpUpdate:
		result, err = r.Update(ctx, items)
	case types.OpValidate:
		result, err = r.Validate(ctx, items)
	default:
		err = fmt.Errorf("unknown operation %q", op)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := report.JSON(result, os.Stdout); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(os.Stdout)
		report.Table(result, os.Stdout)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d item(s) failed %s", result.Failed, op)
	}
	return nil
}
