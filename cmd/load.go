package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/district-atlas/internal/region"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load district boundaries and school statistics",
	Long: `Reads a district boundary shapefile, optionally joins a CSV of
district,population,schoolcnt statistics, and persists the collection in the
district store. The schools-per-1000-population rate is derived during the
join.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		boundaries, _ := cmd.Flags().GetString("boundaries")
		statsCSV, _ := cmd.Flags().GetString("stats")
		nameField, _ := cmd.Flags().GetString("name-field")

		coll, err := region.FromShapefile(boundaries, nameField)
		if err != nil {
			return eris.Wrap(err, "load")
		}
		if statsCSV != "" {
			coll, err = region.JoinStatsCSV(coll, statsCSV)
			if err != nil {
				return eris.Wrap(err, "load")
			}
		}
		if err := coll.Validate(); err != nil {
			return eris.Wrap(err, "load")
		}

		st, err := openStore(cmd.Context(), cmd)
		if err != nil {
			return eris.Wrap(err, "load")
		}
		defer st.Close()

		saved, err := st.SaveCollection(cmd.Context(), coll, boundaries, statsCSV)
		if err != nil {
			return eris.Wrap(err, "load")
		}

		zap.L().Info("load: saved collection",
			zap.String("load_id", saved.ID),
			zap.Int("districts", saved.Districts),
		)
		fmt.Printf("Loaded %d districts (load %s)\n", saved.Districts, saved.ID)
		return nil
	},
}

func init() {
	loadCmd.Flags().String("boundaries", "", "district boundary shapefile (.shp)")
	loadCmd.Flags().String("stats", "", "district statistics CSV (district,population,schoolcnt)")
	loadCmd.Flags().String("name-field", "district", "attribute field holding the district name")
	_ = loadCmd.MarkFlagRequired("boundaries")
	rootCmd.AddCommand(loadCmd)
}
