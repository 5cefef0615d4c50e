// Package render draws static choropleth maps of the district collection
// using gonum/plot. A map colors districts either on a continuous ramp over
// one variable or with the 3x3 joint palette over two.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"golang.org/x/image/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/district-atlas/internal/classify"
	"github.com/sells-group/district-atlas/internal/region"
)

// Options control the rendered map. Zero values pick the defaults: Web
// Mercator projection and a 10x10 inch canvas.
type Options struct {
	Title       string
	LegendLabel string
	OutPath     string
	EPSG        int
	Width       float64 // inches
	Height      float64 // inches
}

// legendLabel resolves the univariate legend caption: the explicit label when
// set, otherwise the variable name.
func (o Options) legendLabel(variable string) string {
	if o.LegendLabel != "" {
		return o.LegendLabel
	}
	return variable
}

func (o *Options) applyDefaults() {
	if o.EPSG == 0 {
		o.EPSG = region.SRIDWebMercator
	}
	if o.Width == 0 {
		o.Width = 10
	}
	if o.Height == 0 {
		o.Height = 10
	}
}

var outlineColor = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}

// Choropleth renders the collection as a filled district map and writes it to
// opts.OutPath. The file format follows the path extension; PNG is the usual
// choice.
func Choropleth(coll *region.Collection, mode classify.Mode, opts Options) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	opts.applyDefaults()

	projected, err := coll.Reproject(opts.EPSG)
	if err != nil {
		return eris.Wrap(err, "render: reproject")
	}

	fills, err := fillColors(projected, mode)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.TextStyle.Font.Weight = font.WeightBold
	p.HideAxes()

	for i, rec := range projected.Records {
		if err := addDistrict(p, rec.Geometry, fills[i]); err != nil {
			return eris.Wrapf(err, "render: district %s", rec.District)
		}
	}

	minX, minY, maxX, maxY, ok := collectionBounds(projected)
	if !ok {
		return eris.New("render: empty collection")
	}

	if mode.IsBivariate() {
		err = addBivariateLegend(p, mode, minX, minY, maxX, maxY)
	} else {
		err = addRampLegend(p, projected, mode.Vars()[0], opts.legendLabel(mode.Vars()[0]), minX, minY, maxX, maxY)
	}
	if err != nil {
		return err
	}

	if err := p.Save(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, opts.OutPath); err != nil {
		return eris.Wrapf(err, "render: save %s", opts.OutPath)
	}
	zap.L().Info("render: wrote choropleth",
		zap.String("path", opts.OutPath),
		zap.Strings("variables", mode.Vars()),
	)
	return nil
}

// fillColors resolves one fill per record in row order.
func fillColors(coll *region.Collection, mode classify.Mode) ([]color.Color, error) {
	out := make([]color.Color, coll.Len())

	if mode.IsBivariate() {
		vars := mode.Vars()
		joint, err := classify.Bivariate(coll, vars[0], vars[1])
		if err != nil {
			return nil, err
		}
		for i, c := range joint {
			if c == classify.Missing {
				out[i] = missingFill
				continue
			}
			out[i], err = bivariateColor(c)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	variable := mode.Vars()[0]
	values := coll.Values(variable)
	if len(values) == 0 {
		return nil, eris.Errorf("render: no values for %s", variable)
	}
	lo, hi := minMax(values)

	for i, rec := range coll.Records {
		v, ok := rec.Value(variable)
		if !ok {
			out[i] = missingFill
			continue
		}
		t := 0.0
		if hi > lo {
			t = (v - lo) / (hi - lo)
		}
		out[i] = rampColor(t)
	}
	return out, nil
}

// addDistrict adds every polygon part with all of its rings, so interior
// holes stay unfilled. Hole rings carry the opposite winding of their
// exterior, which excludes them under either fill rule.
func addDistrict(p *plot.Plot, g geom.T, fill color.Color) error {
	for _, poly := range polygons(g) {
		rings := ringXYs(poly)
		if len(rings) == 0 {
			continue
		}

		shape, err := plotter.NewPolygon(rings...)
		if err != nil {
			return eris.Wrap(err, "polygon")
		}
		shape.Color = fill
		shape.LineStyle.Color = outlineColor
		shape.LineStyle.Width = vg.Points(0.5)
		p.Add(shape)
	}
	return nil
}

// ringXYs converts every linear ring of a polygon to plot coordinates.
func ringXYs(poly *geom.Polygon) []plotter.XYer {
	out := make([]plotter.XYer, 0, poly.NumLinearRings())
	for r := 0; r < poly.NumLinearRings(); r++ {
		ring := poly.LinearRing(r)
		xys := make(plotter.XYs, ring.NumCoords())
		for i := 0; i < ring.NumCoords(); i++ {
			c := ring.Coord(i)
			xys[i].X = c[0]
			xys[i].Y = c[1]
		}
		out = append(out, xys)
	}
	return out
}

func polygons(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		out := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			out = append(out, t.Polygon(i))
		}
		return out
	default:
		return nil
	}
}

func collectionBounds(coll *region.Collection) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, rec := range coll.Records {
		if rec.Geometry == nil {
			continue
		}
		b := rec.Geometry.Bounds()
		minX = math.Min(minX, b.Min(0))
		minY = math.Min(minY, b.Min(1))
		maxX = math.Max(maxX, b.Max(0))
		maxY = math.Max(maxY, b.Max(1))
		ok = true
	}
	return minX, minY, maxX, maxY, ok
}

// addRampLegend draws a horizontal color bar under the map with the value
// range at its ends and the caption beneath.
func addRampLegend(p *plot.Plot, coll *region.Collection, variable, caption string, minX, minY, maxX, maxY float64) error {
	values := coll.Values(variable)
	if len(values) == 0 {
		return eris.Errorf("render: no values for %s", variable)
	}
	lo, hi := minMax(values)

	dx := maxX - minX
	dy := maxY - minY
	barLeft := minX + 0.15*dx
	barRight := maxX - 0.15*dx
	barTop := minY - 0.06*dy
	barBottom := minY - 0.09*dy

	const segments = 64
	step := (barRight - barLeft) / segments
	for i := 0; i < segments; i++ {
		x0 := barLeft + float64(i)*step
		seg, err := plotter.NewPolygon(plotter.XYs{
			{X: x0, Y: barBottom},
			{X: x0 + step, Y: barBottom},
			{X: x0 + step, Y: barTop},
			{X: x0, Y: barTop},
		})
		if err != nil {
			return eris.Wrap(err, "render: legend segment")
		}
		seg.Color = rampColor(float64(i) / float64(segments-1))
		seg.LineStyle.Width = 0
		p.Add(seg)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: []plotter.XY{
			{X: barLeft, Y: barBottom - 0.02*dy},
			{X: barRight, Y: barBottom - 0.02*dy},
			{X: (barLeft + barRight) / 2, Y: barBottom - 0.05*dy},
		},
		Labels: []string{
			fmt.Sprintf("%.2f", lo),
			fmt.Sprintf("%.2f", hi),
			caption,
		},
	})
	if err != nil {
		return eris.Wrap(err, "render: legend labels")
	}
	labels.TextStyle[2].Font.Weight = font.WeightBold
	p.Add(labels)
	return nil
}

// addBivariateLegend draws the 3x3 class matrix below the map with Low/High
// markers along both axes.
func addBivariateLegend(p *plot.Plot, mode classify.Mode, minX, minY, maxX, maxY float64) error {
	dx := maxX - minX
	dy := maxY - minY
	cell := 0.05 * dx
	originX := minX + 0.05*dx
	originY := minY - 0.28*dy

	for row := 0; row < classify.BivariateK; row++ {
		for col := 0; col < classify.BivariateK; col++ {
			fill, err := bivariateColor(row*classify.BivariateK + col)
			if err != nil {
				return err
			}
			x0 := originX + float64(col)*cell
			y0 := originY + float64(row)*cell
			sq, err := plotter.NewPolygon(plotter.XYs{
				{X: x0, Y: y0},
				{X: x0 + cell, Y: y0},
				{X: x0 + cell, Y: y0 + cell},
				{X: x0, Y: y0 + cell},
			})
			if err != nil {
				return eris.Wrap(err, "render: legend cell")
			}
			sq.Color = fill
			sq.LineStyle.Color = color.Black
			sq.LineStyle.Width = vg.Points(0.5)
			p.Add(sq)
		}
	}

	vars := mode.Vars()
	side := float64(classify.BivariateK) * cell

	// Low-to-high arrows along both axes of the matrix.
	head := 0.2 * cell
	arrows := append(
		arrowXYs(plotter.XY{X: originX, Y: originY - 0.015*dy}, plotter.XY{X: originX + side, Y: originY - 0.015*dy}, head),
		arrowXYs(plotter.XY{X: originX + side + 0.03*dx, Y: originY}, plotter.XY{X: originX + side + 0.03*dx, Y: originY + side}, head)...,
	)
	for _, seg := range arrows {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return eris.Wrap(err, "render: legend arrow")
		}
		line.LineStyle.Color = color.Black
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: []plotter.XY{
			{X: originX, Y: originY - 0.03*dy},
			{X: originX + side, Y: originY - 0.03*dy},
			{X: originX + side/2, Y: originY - 0.06*dy},
			{X: originX + side + 0.01*dx, Y: originY},
			{X: originX + side + 0.01*dx, Y: originY + side},
			{X: originX + side + 0.06*dx, Y: originY + side/2},
		},
		Labels: []string{
			"Low", "High", vars[0],
			"Low", "High", vars[1],
		},
	})
	if err != nil {
		return eris.Wrap(err, "render: legend labels")
	}
	labels.TextStyle[2].Font.Weight = font.WeightBold
	labels.TextStyle[5].Font.Weight = font.WeightBold
	p.Add(labels)
	return nil
}

// arrowXYs builds an arrow from one point to another as two polylines: the
// shaft, and the two head strokes meeting at the tip.
func arrowXYs(from, to plotter.XY, head float64) []plotter.XYs {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	ux, uy := dx/length, dy/length
	px, py := -uy, ux

	left := plotter.XY{X: to.X - ux*head + px*head/2, Y: to.Y - uy*head + py*head/2}
	right := plotter.XY{X: to.X - ux*head - px*head/2, Y: to.Y - uy*head - py*head/2}

	return []plotter.XYs{
		{from, to},
		{left, to, right},
	}
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
