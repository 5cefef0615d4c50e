package main

import "github.com/spf13/cobra"

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render district maps",
	Long:  "Static choropleth images and the interactive web map.",
}

func init() { rootCmd.AddCommand(mapCmd) }
