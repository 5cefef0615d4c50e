package region

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// earthRadius is the WGS84 spherical radius used by Web Mercator (meters).
const earthRadius = 6378137.0

// Reproject returns a new collection with every geometry transformed to the
// target SRID. Only 4326 and 3857 are supported; reprojecting to the current
// SRID returns a copy. The receiver is left untouched so callers can keep
// working in geographic coordinates.
func (c *Collection) Reproject(srid int) (*Collection, error) {
	var fwd func(x, y float64) (float64, float64)
	switch {
	case srid == c.SRID:
		fwd = func(x, y float64) (float64, float64) { return x, y }
	case c.SRID == SRIDGeographic && srid == SRIDWebMercator:
		fwd = lonLatToMercator
	case c.SRID == SRIDWebMercator && srid == SRIDGeographic:
		fwd = mercatorToLonLat
	default:
		return nil, eris.Errorf("region: unsupported reprojection %d -> %d", c.SRID, srid)
	}

	out := &Collection{SRID: srid, Records: make([]Record, len(c.Records))}
	for i, rec := range c.Records {
		g, err := transformGeom(rec.Geometry, srid, fwd)
		if err != nil {
			return nil, eris.Wrapf(err, "region: reproject district %q", rec.District)
		}
		rec.Geometry = g
		out.Records[i] = rec
	}
	return out, nil
}

// lonLatToMercator converts EPSG:4326 degrees to EPSG:3857 meters.
func lonLatToMercator(lon, lat float64) (float64, float64) {
	x := earthRadius * lon * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// mercatorToLonLat converts EPSG:3857 meters to EPSG:4326 degrees.
func mercatorToLonLat(x, y float64) (float64, float64) {
	lon := x / earthRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

// transformGeom applies a coordinate transform to a polygonal geometry,
// returning a new geometry with the given SRID.
func transformGeom(g geom.T, srid int, fwd func(x, y float64) (float64, float64)) (geom.T, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		return transformFlat(geom.NewPolygon(geom.XY), t.FlatCoords(), t.Ends(), nil, srid, fwd)
	case *geom.MultiPolygon:
		return transformFlat(geom.NewMultiPolygon(geom.XY), t.FlatCoords(), nil, t.Endss(), srid, fwd)
	case *geom.Point:
		x, y := fwd(t.X(), t.Y())
		return geom.NewPointFlat(geom.XY, []float64{x, y}).SetSRID(srid), nil
	default:
		return nil, eris.Errorf("region: unsupported geometry type %T", g)
	}
}

// transformFlat rebuilds a polygon or multipolygon from transformed flat
// coordinates, preserving ring structure.
func transformFlat(dst geom.T, flat []float64, ends []int, endss [][]int, srid int, fwd func(x, y float64) (float64, float64)) (geom.T, error) {
	out := make([]float64, len(flat))
	for i := 0; i+1 < len(flat); i += 2 {
		out[i], out[i+1] = fwd(flat[i], flat[i+1])
	}
	switch d := dst.(type) {
	case *geom.Polygon:
		return geom.NewPolygonFlat(geom.XY, out, ends).SetSRID(srid), nil
	case *geom.MultiPolygon:
		return geom.NewMultiPolygonFlat(geom.XY, out, endss).SetSRID(srid), nil
	default:
		return nil, eris.Errorf("region: unsupported target geometry %T", d)
	}
}
