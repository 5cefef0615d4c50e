package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/district-atlas/internal/webmap"
)

var mapWebCmd = &cobra.Command{
	Use:   "web",
	Short: "Build the interactive HTML map",
	Long: `Builds a self-contained HTML document with switchable base layers,
district boundary outlines, and one colored rate marker per district. Every
district must carry population, school count, and rate values.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.WebMap.OutPath
		}

		st, err := openStore(cmd.Context(), cmd)
		if err != nil {
			return eris.Wrap(err, "web")
		}
		defer st.Close()

		coll, err := st.LoadCollection(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "web")
		}

		doc, err := webmap.Build(coll, webmap.Config{
			CenterLat:    cfg.WebMap.CenterLat,
			CenterLon:    cfg.WebMap.CenterLon,
			Zoom:         cfg.WebMap.Zoom,
			SatelliteURL: cfg.WebMap.SatelliteURL,
			Caption:      cfg.WebMap.Caption,
		})
		if err != nil {
			return eris.Wrap(err, "web")
		}

		if err := doc.WriteHTML(out); err != nil {
			return eris.Wrap(err, "web")
		}

		fmt.Printf("Wrote web map with %d districts to %s\n", doc.Districts, out)
		return nil
	},
}

func init() {
	mapWebCmd.Flags().String("out", "", "output HTML path (default: from config)")
	mapCmd.AddCommand(mapWebCmd)
}
