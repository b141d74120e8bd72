// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of doi-fix",
	Run: func(cmd *cobra.Command, args []string) {
		id := identity()
		fmt.Printf("%s %s\n", id.ID, id.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
