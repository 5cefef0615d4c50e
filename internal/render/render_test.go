package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"gonum.org/v1/plot/plotter"

	"github.com/sells-group/district-atlas/internal/classify"
	"github.com/sells-group/district-atlas/internal/region"
)

func fptr(v float64) *float64 { return &v }

func renderFixture() *region.Collection {
	square := func(dx, dy float64) *geom.MultiPolygon {
		return geom.NewMultiPolygonFlat(geom.XY, []float64{
			dx, dy, dx + 0.8, dy, dx + 0.8, dy + 0.8, dx, dy + 0.8, dx, dy,
		}, [][]int{{10}})
	}
	coll := &region.Collection{SRID: region.SRIDGeographic}
	rates := []float64{0.8, 1.5, 2.2, 3.1, 3.9, 4.6, 5.3, 6.0, 6.8}
	pops := []float64{900, 800, 700, 600, 500, 400, 300, 200, 100}
	for i := 0; i < 9; i++ {
		coll.Records = append(coll.Records, region.Record{
			District:       string(rune('A' + i)),
			Geometry:       square(float64(i%3)+84, float64(i/3)+27),
			SchoolsPerKPop: fptr(rates[i]),
			Population:     fptr(pops[i]),
		})
	}
	return coll
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#3b4994")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x3b, G: 0x49, B: 0x94, A: 0xff}, c)

	_, err = parseHex("3b4994")
	assert.Error(t, err)
	_, err = parseHex("#3b49")
	assert.Error(t, err)
	_, err = parseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestRampColorEndpoints(t *testing.T) {
	assert.Equal(t, mustHex(redsRamp[0]), rampColor(0))
	assert.Equal(t, mustHex(redsRamp[len(redsRamp)-1]), rampColor(1))
	assert.Equal(t, mustHex(redsRamp[0]), rampColor(-0.5))
	assert.Equal(t, mustHex(redsRamp[len(redsRamp)-1]), rampColor(1.5))
}

func TestBivariateColorRange(t *testing.T) {
	for joint := 0; joint < 9; joint++ {
		c, err := bivariateColor(joint)
		require.NoError(t, err)
		assert.Equal(t, uint8(0xff), c.A)
	}
	_, err := bivariateColor(9)
	assert.Error(t, err)
	_, err = bivariateColor(-1)
	assert.Error(t, err)
}

func TestFillColorsMissingGetsGrey(t *testing.T) {
	coll := renderFixture()
	coll.Records[4].SchoolsPerKPop = nil

	fills, err := fillColors(coll, classify.Univariate(region.VarSchoolsPerK))
	require.NoError(t, err)
	require.Len(t, fills, 9)
	assert.Equal(t, color.Color(missingFill), fills[4])
	assert.NotEqual(t, color.Color(missingFill), fills[0])
}

func TestFillColorsUnivariateOrdering(t *testing.T) {
	coll := renderFixture()
	fills, err := fillColors(coll, classify.Univariate(region.VarSchoolsPerK))
	require.NoError(t, err)

	// Lowest value gets the lightest ramp color, highest the darkest.
	assert.Equal(t, color.Color(mustHex(redsRamp[0])), fills[0])
	assert.Equal(t, color.Color(mustHex(redsRamp[len(redsRamp)-1])), fills[8])
}

func TestChoroplethUnivariate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uni.png")

	err := Choropleth(renderFixture(), classify.Univariate(region.VarSchoolsPerK), Options{
		Title:   "Schools per 1000 population",
		OutPath: path,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestChoroplethBivariate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bi.png")

	mode := classify.BivariateMode(region.VarSchoolsPerK, region.VarPopulation)
	err := Choropleth(renderFixture(), mode, Options{
		Title:   "Rate vs population",
		OutPath: path,
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestLegendLabelFallback(t *testing.T) {
	assert.Equal(t, "schlppop", Options{}.legendLabel("schlppop"))
	assert.Equal(t, "Schools per 1,000 people",
		Options{LegendLabel: "Schools per 1,000 people"}.legendLabel("schlppop"))
}

func TestChoroplethCustomLegendLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labeled.png")

	err := Choropleth(renderFixture(), classify.Univariate(region.VarSchoolsPerK), Options{
		Title:       "Schools per 1000 population",
		LegendLabel: "Schools per 1,000 people",
		OutPath:     path,
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRingXYsKeepsHoles(t *testing.T) {
	// Donut: 10x10 exterior with a 2x2 hole, hole wound the opposite way.
	donut := geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 10, 0, 10, 10, 0, 10, 0, 0,
		4, 4, 4, 6, 6, 6, 6, 4, 4, 4,
	}, []int{10, 20})

	rings := ringXYs(donut)
	require.Len(t, rings, 2)

	outer, ok := rings[0].(plotter.XYs)
	require.True(t, ok)
	hole, ok := rings[1].(plotter.XYs)
	require.True(t, ok)
	assert.Len(t, outer, 5)
	assert.Len(t, hole, 5)
	assert.Equal(t, 4.0, hole[0].X)
}

func TestChoroplethRendersPolygonWithHole(t *testing.T) {
	donut := geom.NewMultiPolygonFlat(geom.XY, []float64{
		84, 27, 85, 27, 85, 28, 84, 28, 84, 27,
		84.4, 27.4, 84.4, 27.6, 84.6, 27.6, 84.6, 27.4, 84.4, 27.4,
	}, [][]int{{10, 20}})

	coll := renderFixture()
	coll.Records[0].Geometry = donut

	path := filepath.Join(t.TempDir(), "hole.png")
	err := Choropleth(coll, classify.Univariate(region.VarSchoolsPerK), Options{OutPath: path})
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestArrowXYs(t *testing.T) {
	from := plotter.XY{X: 0, Y: 0}
	to := plotter.XY{X: 10, Y: 0}

	segs := arrowXYs(from, to, 2)
	require.Len(t, segs, 2)

	shaft := segs[0]
	require.Len(t, shaft, 2)
	assert.Equal(t, from, shaft[0])
	assert.Equal(t, to, shaft[1])

	head := segs[1]
	require.Len(t, head, 3)
	// Both head strokes meet at the tip and trail behind it.
	assert.Equal(t, to, head[1])
	assert.InDelta(t, 8.0, head[0].X, 1e-12)
	assert.InDelta(t, 8.0, head[2].X, 1e-12)
	assert.InDelta(t, 1.0, head[0].Y, 1e-12)
	assert.InDelta(t, -1.0, head[2].Y, 1e-12)

	assert.Nil(t, arrowXYs(to, to, 2))
}

func TestChoroplethInvalidMode(t *testing.T) {
	var zero classify.Mode
	err := Choropleth(renderFixture(), zero, Options{OutPath: "unused.png"})
	assert.ErrorIs(t, err, classify.ErrInvalidVariables)
}
