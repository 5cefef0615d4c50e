package stats

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sells-group/district-atlas/internal/region"
)

// WriteScatterPNG draws the two correlated variables as a scatter plot with a
// fitted regression line and writes it as a PNG. The title carries the r and
// p values so the chart stands on its own next to the text report.
func WriteScatterPNG(coll *region.Collection, rep Report, path string) error {
	complete := coll.DropMissing(rep.X, rep.Y)
	if complete.Len() < 2 {
		return eris.Wrapf(ErrInsufficientData, "scatter %s vs %s", rep.X, rep.Y)
	}

	points := chart.ContinuousSeries{
		Name:    "districts",
		XValues: complete.Values(rep.X),
		YValues: complete.Values(rep.Y),
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotColor:    drawing.Color{R: 0x2b, G: 0x6c, B: 0xb0, A: 255},
		},
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s vs %s (r=%.3f, p=%.3g, n=%d)", rep.X, rep.Y, rep.R, rep.P, rep.N),
		Width:  900,
		Height: 600,
		XAxis:  chart.XAxis{Name: rep.X},
		YAxis:  chart.YAxis{Name: rep.Y},
		Series: []chart.Series{
			points,
			&chart.LinearRegressionSeries{
				Name:        "fit",
				InnerSeries: points,
				Style: chart.Style{
					StrokeWidth: 2,
					StrokeColor: drawing.Color{R: 0xd7, G: 0x30, B: 0x27, A: 255},
				},
			},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "stats: create %s", path)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return eris.Wrap(err, "stats: render scatter")
	}
	return nil
}
