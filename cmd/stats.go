package main

import "github.com/spf13/cobra"

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Statistical reports over the loaded districts",
	Long:  "Correlation and extreme-value reports over the district attributes.",
}

func init() { rootCmd.AddCommand(statsCmd) }
