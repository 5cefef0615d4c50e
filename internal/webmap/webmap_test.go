package webmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/district-atlas/internal/region"
)

func fptr(v float64) *float64 { return &v }

func webmapFixture() *region.Collection {
	square := func(dx, dy float64) *geom.MultiPolygon {
		return geom.NewMultiPolygonFlat(geom.XY, []float64{
			dx, dy, dx + 0.5, dy, dx + 0.5, dy + 0.5, dx, dy + 0.5, dx, dy,
		}, [][]int{{10}})
	}
	names := []string{"Kaski", "Mustang", "Manang", "Gorkha", "Lamjung"}
	rates := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	pops := []float64{492098, 13452, 6538, 271061, 167724}
	counts := []float64{712, 49, 24, 498, 301}

	coll := &region.Collection{SRID: region.SRIDGeographic}
	for i, name := range names {
		coll.Records = append(coll.Records, region.Record{
			District:       name,
			Geometry:       square(float64(i)+83, 28),
			Population:     fptr(pops[i]),
			SchoolCount:    fptr(counts[i]),
			SchoolsPerKPop: fptr(rates[i]),
		})
	}
	return coll
}

func testConfig() Config {
	return Config{
		CenterLat:    28.2,
		CenterLon:    84.1,
		Zoom:         7,
		SatelliteURL: "https://example.com/tiles/{z}/{y}/{x}",
		Caption:      "Schools per 1000 population",
	}
}

func TestBuildDocument(t *testing.T) {
	doc, err := Build(webmapFixture(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Districts)

	html := string(doc.HTML())

	for _, name := range []string{"Kaski", "Mustang", "Manang", "Gorkha", "Lamjung"} {
		assert.Contains(t, html, name)
	}

	// One marker per district.
	assert.Equal(t, 5, strings.Count(html, `"tooltip"`))

	// All three base layers with the layer control expanded.
	assert.Contains(t, html, "OpenStreetMap")
	assert.Contains(t, html, "CartoDB Positron")
	assert.Contains(t, html, "Satellite")
	assert.Contains(t, html, "collapsed: false")

	// Legend spans the observed rate range.
	assert.Contains(t, html, "1.00")
	assert.Contains(t, html, "5.00")
	assert.Contains(t, html, "Schools per 1000 population")

	// Tooltip population uses thousands separators.
	assert.Contains(t, html, "492,098")
}

func TestBuildMissingFieldFails(t *testing.T) {
	tests := []struct {
		name   string
		mangle func(*region.Record)
	}{
		{"geometry", func(r *region.Record) { r.Geometry = nil }},
		{"population", func(r *region.Record) { r.Population = nil }},
		{"schoolcnt", func(r *region.Record) { r.SchoolCount = nil }},
		{"schlppop", func(r *region.Record) { r.SchoolsPerKPop = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := webmapFixture()
			tt.mangle(&coll.Records[2])

			_, err := Build(coll, testConfig())
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestBuildRejectsProjectedCollection(t *testing.T) {
	coll := webmapFixture()
	projected, err := coll.Reproject(region.SRIDWebMercator)
	require.NoError(t, err)

	_, err = Build(projected, testConfig())
	assert.Error(t, err)
}

func TestBuildRejectsEmptyCollection(t *testing.T) {
	coll := &region.Collection{SRID: region.SRIDGeographic}
	_, err := Build(coll, testConfig())
	assert.Error(t, err)
}

func TestWriteHTML(t *testing.T) {
	doc, err := Build(webmapFixture(), testConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "images", "map.html")
	require.NoError(t, doc.WriteHTML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}

func TestScaleColorEndpoints(t *testing.T) {
	assert.Equal(t, scaleAnchors[0], scaleColor(1, 1, 5))
	assert.Equal(t, scaleAnchors[len(scaleAnchors)-1], scaleColor(5, 1, 5))

	// Degenerate range falls to the low anchor instead of dividing by zero.
	assert.Equal(t, scaleAnchors[0], scaleColor(3, 3, 3))

	mid := scaleColor(3, 1, 5)
	assert.True(t, strings.HasPrefix(mid, "#"))
	assert.Len(t, mid, 7)
}

func TestGradientCSS(t *testing.T) {
	css := gradientCSS()
	assert.True(t, strings.HasPrefix(css, "linear-gradient(to right,"))
	for _, anchor := range scaleAnchors {
		assert.Contains(t, css, anchor)
	}
}

func TestMarkerLabelsTwoDecimals(t *testing.T) {
	doc, err := Build(webmapFixture(), testConfig())
	require.NoError(t, err)

	html := string(doc.HTML())
	for _, rate := range []float64{1, 2, 3, 4, 5} {
		assert.Contains(t, html, fmt.Sprintf(`"label":"%.2f"`, rate))
	}
}
