package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/district-atlas/internal/region"
	"github.com/sells-group/district-atlas/internal/stats"
)

var statsCorrCmd = &cobra.Command{
	Use:   "corr",
	Short: "Pearson correlation between two district attributes",
	Long: `Computes the Pearson correlation coefficient and two-sided p-value
between two attributes, after dropping districts missing either value.
Optionally writes a scatter plot with a fitted regression line.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		x, _ := cmd.Flags().GetString("x")
		y, _ := cmd.Flags().GetString("y")
		scatter, _ := cmd.Flags().GetString("scatter")

		st, err := openStore(cmd.Context(), cmd)
		if err != nil {
			return eris.Wrap(err, "corr")
		}
		defer st.Close()

		coll, err := st.LoadCollection(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "corr")
		}

		rep, err := stats.PearsonReport(coll, x, y)
		if err != nil {
			return eris.Wrap(err, "corr")
		}

		fmt.Printf("Correlation between %s and %s: r=%.4f, p=%.4g (n=%d)\n",
			rep.X, rep.Y, rep.R, rep.P, rep.N)

		if scatter != "" {
			if err := stats.WriteScatterPNG(coll, rep, scatter); err != nil {
				return eris.Wrap(err, "corr")
			}
			fmt.Printf("Wrote scatter plot to %s\n", scatter)
		}
		return nil
	},
}

func init() {
	statsCorrCmd.Flags().String("x", region.VarSchoolsPerK, "first attribute")
	statsCorrCmd.Flags().String("y", region.VarPopulation, "second attribute")
	statsCorrCmd.Flags().String("scatter", "", "write a scatter plot PNG to this path")
	statsCmd.AddCommand(statsCorrCmd)
}
