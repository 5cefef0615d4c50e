package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/district-atlas/internal/region"
	"github.com/sells-group/district-atlas/internal/stats"
)

var statsExtremesCmd = &cobra.Command{
	Use:   "extremes",
	Short: "Highest and lowest districts by an attribute",
	Long: `Lists the n lowest and n highest districts by the chosen attribute,
skipping districts without a value. Optionally exports the listing as a
two-sheet XLSX workbook.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		variable, _ := cmd.Flags().GetString("var")
		n, _ := cmd.Flags().GetInt("n")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")

		st, err := openStore(cmd.Context(), cmd)
		if err != nil {
			return eris.Wrap(err, "extremes")
		}
		defer st.Close()

		coll, err := st.LoadCollection(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "extremes")
		}

		ex, err := stats.ExtremeValues(coll, variable, n)
		if err != nil {
			return eris.Wrap(err, "extremes")
		}

		fmt.Print(ex.Format())

		if xlsxPath != "" {
			if err := ex.WriteXLSX(xlsxPath); err != nil {
				return eris.Wrap(err, "extremes")
			}
			fmt.Printf("\nWrote workbook to %s\n", xlsxPath)
		}
		return nil
	},
}

func init() {
	statsExtremesCmd.Flags().String("var", region.VarSchoolsPerK, "attribute to rank by")
	statsExtremesCmd.Flags().IntP("n", "n", stats.DefaultExtremeN, "districts per side")
	statsExtremesCmd.Flags().String("xlsx", "", "write the listing to this XLSX path")
	statsCmd.AddCommand(statsExtremesCmd)
}
