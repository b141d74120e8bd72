// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doi-fix CLI. It finds, refreshes
// and checks DOIs for the items of a local library against CrossRef.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fix/internal/logging"
	"github.com/pdiddy/doi-fix/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets[key]
}

var rootCmd = &cobra.Command{
	Use:   "doi-fix",
	Short: "Find, update and validate DOIs for library items",
	Long: `doi-fix keeps the DOI field of a local bibliography library accurate.
It searches CrossRef by title and first author to fill in missing DOIs,
refreshes existing ones, and checks that stored DOIs are registered.

Items live in a SQLite library filled with "doi-fix library import" from
CSL-YAML or CSL-JSON and written back with "doi-fix library export".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logging.Init(level, viper.GetString("log.format"))

		s, err := secrets.Load(secrets.DefaultDir, logging.New("secrets"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logging.New("cli").Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./doi-fix.yaml or ~/.config/doi-fix/doi-fix.yaml)")
	flags.String("library", "", "library database file (default library.db)")
	flags.String("log-level", "", "diagnostic log level: debug, info, warn, error")
	flags.String("log-format", "", "diagnostic log format: text or json")
	flags.Bool("json", false, "write results as JSON")

	_ = viper.BindPFlag("library.path", flags.Lookup("library"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("json", flags.Lookup("json"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doi-fix")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doi-fix"))
		}
	}

	viper.SetEnvPrefix("DOI_FIX")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// run executes the root command. Batches are not cancellable mid-run; an
// interrupt ends the process.
func run() error {
	return rootCmd.Execute()
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}
