// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Commands run under a context that is never cancelled, so an interrupt
// cannot turn the rest of a batch into failed lookups.
func TestRun_CommandContextIsNotCancellable(t *testing.T) {
	var ran bool
	var done <-chan struct{}
	sub := &cobra.Command{
		Use: "context-check",
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			done = cmd.Context().Done()
			return nil
		},
	}
	rootCmd.AddCommand(sub)
	rootCmd.SetArgs([]string{"context-check"})
	t.Cleanup(func() {
		rootCmd.RemoveCommand(sub)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, run())
	assert.True(t, ran)
	assert.Nil(t, done)
}
