// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fix/internal/library"
	"github.com/pdiddy/doi-fix/internal/logging"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Import and export library items",
	Long: `Library moves items between the SQLite library and CSL files. Import
accepts CSL-YAML or CSL-JSON lists; export writes CSL-YAML.`,
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add or replace items from a CSL-YAML or CSL-JSON file (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryImport,
}

var libraryExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all items as CSL-YAML (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLibraryExport,
}

func init() {
	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}

func runLibraryImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper(), identity())

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

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

	summary, err := store.Import(cmd.Context(), in, logging.New("library"))
	if err != nil {
		return err
	}

	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Fprintf(os.Stdout, "Imported %d items (%d added, %d updated) into %s, which now holds %d\n",
		summary.Total(), summary.Added, summary.Updated, store.Path(), summary.LibraryTotal)
	if n := len(summary.Malformed); n > 0 {
		fmt.Fprintf(os.Stdout, "%d item(s) carry a malformed DOI: %v\n", n, summary.Malformed)
	}
	return nil
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper(), identity())

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		return store.Export(cmd.Context(), os.Stdout)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[0], err)
	}
	if err := store.Export(cmd.Context(), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", args[0], err)
	}
	fmt.Fprintf(os.Stderr, "Exported library to %s\n", args[0])
	return nil
}
