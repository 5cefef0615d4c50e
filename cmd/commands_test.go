package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not registered on %q", name, parent.Name())
	return nil
}

func TestCommandTree(t *testing.T) {
	load := findCommand(t, rootCmd, "load")
	assert.NotNil(t, load.Flags().Lookup("boundaries"))
	assert.NotNil(t, load.Flags().Lookup("stats"))
	assert.NotNil(t, load.Flags().Lookup("name-field"))

	statsGroup := findCommand(t, rootCmd, "stats")
	corr := findCommand(t, statsGroup, "corr")
	assert.NotNil(t, corr.Flags().Lookup("x"))
	assert.NotNil(t, corr.Flags().Lookup("y"))
	assert.NotNil(t, corr.Flags().Lookup("scatter"))

	extremes := findCommand(t, statsGroup, "extremes")
	assert.NotNil(t, extremes.Flags().Lookup("var"))
	assert.NotNil(t, extremes.Flags().Lookup("xlsx"))

	mapGroup := findCommand(t, rootCmd, "map")
	static := findCommand(t, mapGroup, "static")
	assert.NotNil(t, static.Flags().Lookup("var"))
	assert.NotNil(t, static.Flags().Lookup("vars"))
	assert.NotNil(t, static.Flags().Lookup("title"))
	assert.NotNil(t, static.Flags().Lookup("legend-label"))
	assert.NotNil(t, static.Flags().Lookup("out"))

	web := findCommand(t, mapGroup, "web")
	assert.NotNil(t, web.Flags().Lookup("out"))
}

func TestFlagDefaults(t *testing.T) {
	statsGroup := findCommand(t, rootCmd, "stats")
	extremes := findCommand(t, statsGroup, "extremes")

	n := extremes.Flags().Lookup("n")
	require.NotNil(t, n)
	assert.Equal(t, "5", n.DefValue)

	corr := findCommand(t, statsGroup, "corr")
	assert.Equal(t, "schlppop", corr.Flags().Lookup("x").DefValue)
	assert.Equal(t, "population", corr.Flags().Lookup("y").DefValue)
}

func TestRootPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("db"))
}
