// Package webmap builds the interactive district map as one self-contained
// HTML document: three switchable base layers, an outline overlay, and a
// colored rate marker per district.
package webmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/district-atlas/internal/region"
)

// ErrMissingField is returned when a district lacks geometry or one of the
// attributes the map needs. The document is all-or-nothing, so a single bad
// row fails the build.
var ErrMissingField = eris.New("webmap: district missing a required field")

// Simplification tolerance in degrees for the embedded boundary overlay.
// Roughly 100m at the equator, invisible at country zoom levels.
const simplifyTolerance = 0.001

// Config carries the document parameters. Zero values are valid only for
// testing; production values come from the config package.
type Config struct {
	CenterLat    float64
	CenterLon    float64
	Zoom         int
	SatelliteURL string
	Caption      string
}

// Document is a fully rendered map ready to be written.
type Document struct {
	html      []byte
	Districts int
}

// marker is one district's map annotation, precomputed so the embedded
// JavaScript stays data-only.
type marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color"`
	Label   string  `json:"label"`
	Tooltip string  `json:"tooltip"`
}

// Build validates the collection, renders the HTML into memory, and returns
// the document handle. The collection must be in geographic coordinates.
func Build(coll *region.Collection, cfg Config) (*Document, error) {
	if coll.SRID != region.SRIDGeographic {
		return nil, eris.Errorf("webmap: collection must be EPSG:%d, got %d", region.SRIDGeographic, coll.SRID)
	}
	if coll.Len() == 0 {
		return nil, eris.New("webmap: empty collection")
	}
	if err := checkRequired(coll); err != nil {
		return nil, err
	}

	rates := coll.Values(region.VarSchoolsPerK)
	lo, hi := minMax(rates)

	printer := message.NewPrinter(language.English)
	markers := make([]marker, 0, coll.Len())
	for _, rec := range coll.Records {
		pt, err := region.RepresentativePoint(rec.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "webmap: representative point %s", rec.District)
		}
		rate := *rec.SchoolsPerKPop
		markers = append(markers, marker{
			Lat:   pt[1],
			Lon:   pt[0],
			Color: scaleColor(rate, lo, hi),
			Label: fmt.Sprintf("%.2f", rate),
			Tooltip: fmt.Sprintf("<b>%s</b><br/>Schools: %d<br/>Schools per 1000: %.2f<br/>Population: %s",
				rec.District,
				int(*rec.SchoolCount),
				rate,
				printer.Sprintf("%d", int64(*rec.Population)),
			),
		})
	}

	boundaries, err := boundaryGeoJSON(coll)
	if err != nil {
		return nil, err
	}
	markerJSON, err := json.Marshal(markers)
	if err != nil {
		return nil, eris.Wrap(err, "webmap: marshal markers")
	}

	var buf bytes.Buffer
	err = documentTemplate.Execute(&buf, templateData{
		CenterLat:    cfg.CenterLat,
		CenterLon:    cfg.CenterLon,
		Zoom:         cfg.Zoom,
		SatelliteURL: cfg.SatelliteURL,
		Caption:      cfg.Caption,
		ScaleMin:     fmt.Sprintf("%.2f", lo),
		ScaleMax:     fmt.Sprintf("%.2f", hi),
		Gradient:     template.CSS(gradientCSS()),
		GeoJSON:      jsValue(boundaries),
		Markers:      jsValue(markerJSON),
	})
	if err != nil {
		return nil, eris.Wrap(err, "webmap: execute template")
	}

	zap.L().Info("webmap: built document",
		zap.Int("districts", coll.Len()),
		zap.Float64("rate_min", lo),
		zap.Float64("rate_max", hi),
	)
	return &Document{html: buf.Bytes(), Districts: coll.Len()}, nil
}

// WriteHTML writes the rendered document, creating parent directories.
func (d *Document) WriteHTML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "webmap: mkdir for %s", path)
	}
	if err := os.WriteFile(path, d.html, 0o644); err != nil {
		return eris.Wrapf(err, "webmap: write %s", path)
	}
	zap.L().Info("webmap: wrote document", zap.String("path", path))
	return nil
}

// HTML exposes the rendered bytes.
func (d *Document) HTML() []byte { return d.html }

func checkRequired(coll *region.Collection) error {
	for _, rec := range coll.Records {
		switch {
		case rec.Geometry == nil:
			return eris.Wrapf(ErrMissingField, "%s: geometry", rec.District)
		case rec.Population == nil:
			return eris.Wrapf(ErrMissingField, "%s: %s", rec.District, region.VarPopulation)
		case rec.SchoolCount == nil:
			return eris.Wrapf(ErrMissingField, "%s: %s", rec.District, region.VarSchoolCount)
		case rec.SchoolsPerKPop == nil:
			return eris.Wrapf(ErrMissingField, "%s: %s", rec.District, region.VarSchoolsPerK)
		}
	}
	return nil
}

// boundaryGeoJSON converts every district geometry to a simplified GeoJSON
// feature collection for the outline overlay.
func boundaryGeoJSON(coll *region.Collection) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	simplifier := simplify.DouglasPeucker(simplifyTolerance)

	for _, rec := range coll.Records {
		mp, err := toOrbMultiPolygon(rec.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "webmap: %s", rec.District)
		}
		feature := geojson.NewFeature(simplifier.MultiPolygon(mp))
		feature.Properties["district"] = rec.District
		fc.Append(feature)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "webmap: marshal boundaries")
	}
	return data, nil
}

func toOrbMultiPolygon(g geom.T) (orb.MultiPolygon, error) {
	var polys []*geom.Polygon
	switch t := g.(type) {
	case *geom.Polygon:
		polys = []*geom.Polygon{t}
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
	default:
		return nil, eris.Errorf("unsupported geometry %T", g)
	}

	out := make(orb.MultiPolygon, 0, len(polys))
	for _, poly := range polys {
		op := make(orb.Polygon, 0, poly.NumLinearRings())
		for r := 0; r < poly.NumLinearRings(); r++ {
			ring := poly.LinearRing(r)
			or := make(orb.Ring, ring.NumCoords())
			for i := 0; i < ring.NumCoords(); i++ {
				c := ring.Coord(i)
				or[i] = orb.Point{c[0], c[1]}
			}
			op = append(op, or)
		}
		out = append(out, op)
	}
	return out, nil
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
