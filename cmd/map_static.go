package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/district-atlas/internal/classify"
	"github.com/sells-group/district-atlas/internal/render"
)

var mapStaticCmd = &cobra.Command{
	Use:   "static",
	Short: "Render a static choropleth PNG",
	Long: `Renders the districts as a filled map. One variable gives a
continuous red ramp with a legend bar; two comma-separated variables give the
3x3 bivariate palette with a matrix legend.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		varsFlag, _ := cmd.Flags().GetString("vars")
		varFlag, _ := cmd.Flags().GetString("var")
		title, _ := cmd.Flags().GetString("title")
		legendLabel, _ := cmd.Flags().GetString("legend-label")
		out, _ := cmd.Flags().GetString("out")

		if varsFlag == "" {
			varsFlag = varFlag
		}
		var vars []string
		for _, v := range strings.Split(varsFlag, ",") {
			if v = strings.TrimSpace(v); v != "" {
				vars = append(vars, v)
			}
		}
		mode, err := classify.ModeFromVars(vars)
		if err != nil {
			return eris.Wrap(err, "static")
		}

		st, err := openStore(cmd.Context(), cmd)
		if err != nil {
			return eris.Wrap(err, "static")
		}
		defer st.Close()

		coll, err := st.LoadCollection(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "static")
		}

		err = render.Choropleth(coll, mode, render.Options{
			Title:       title,
			LegendLabel: legendLabel,
			OutPath:     out,
			EPSG:        cfg.Map.EPSG,
			Width:       cfg.Map.Width,
			Height:      cfg.Map.Height,
		})
		if err != nil {
			return eris.Wrap(err, "static")
		}

		fmt.Printf("Wrote map to %s\n", out)
		return nil
	},
}

func init() {
	mapStaticCmd.Flags().String("var", "schlppop", "variable for a univariate map")
	mapStaticCmd.Flags().String("vars", "", "two comma-separated variables for a bivariate map")
	mapStaticCmd.Flags().String("title", "", "map title")
	mapStaticCmd.Flags().String("legend-label", "", "legend caption (default: the variable name)")
	mapStaticCmd.Flags().String("out", "map.png", "output image path")
	mapCmd.AddCommand(mapStaticCmd)
}
