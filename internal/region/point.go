package region

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// RepresentativePoint returns a point guaranteed to lie inside the polygon,
// unlike the raw centroid which can fall outside concave or multi-part
// shapes. It scans a horizontal line through the vertical midpoint of the
// largest part and takes the midpoint of the widest interior interval. Marker
// anchors on the interactive map use this.
func RepresentativePoint(g geom.T) (geom.Coord, error) {
	poly, err := largestPolygon(g)
	if err != nil {
		return nil, err
	}

	bounds := poly.Bounds()
	y := (bounds.Min(1) + bounds.Max(1)) / 2

	// A scanline through a vertex can produce an odd crossing count; nudge
	// until the crossings pair up.
	for attempt := 0; attempt < 4; attempt++ {
		xs := ringCrossings(poly, y)
		if len(xs) >= 2 && len(xs)%2 == 0 {
			sort.Float64s(xs)
			bestMid, bestWidth := 0.0, -1.0
			for i := 0; i+1 < len(xs); i += 2 {
				if w := xs[i+1] - xs[i]; w > bestWidth {
					bestWidth = w
					bestMid = (xs[i] + xs[i+1]) / 2
				}
			}
			return geom.Coord{bestMid, y}, nil
		}
		y += (bounds.Max(1) - bounds.Min(1)) * 1e-6 * float64(attempt+1)
	}

	// Degenerate geometry; the centroid is the best remaining anchor.
	c, err := xy.Centroid(poly)
	if err != nil {
		return nil, eris.Wrap(err, "region: representative point fallback")
	}
	return c, nil
}

// largestPolygon returns the polygon itself, or the largest part of a
// multipolygon by area.
func largestPolygon(g geom.T) (*geom.Polygon, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		return t, nil
	case *geom.MultiPolygon:
		if t.NumPolygons() == 0 {
			return nil, eris.New("region: empty multipolygon")
		}
		best := t.Polygon(0)
		bestArea := math.Abs(best.Area())
		for i := 1; i < t.NumPolygons(); i++ {
			p := t.Polygon(i)
			if a := math.Abs(p.Area()); a > bestArea {
				best, bestArea = p, a
			}
		}
		return best, nil
	default:
		return nil, eris.Errorf("region: representative point needs a polygon, got %T", g)
	}
}

// ringCrossings collects the x coordinates where the horizontal line at y
// crosses any ring of the polygon, holes included.
func ringCrossings(poly *geom.Polygon, y float64) []float64 {
	var xs []float64
	for r := 0; r < poly.NumLinearRings(); r++ {
		flat := poly.LinearRing(r).FlatCoords()
		n := len(flat) / 2
		for i := 0; i < n; i++ {
			x1, y1 := flat[2*i], flat[2*i+1]
			j := (i + 1) % n
			x2, y2 := flat[2*j], flat[2*j+1]
			if (y1 <= y && y < y2) || (y2 <= y && y < y1) {
				xs = append(xs, x1+(y-y1)*(x2-x1)/(y2-y1))
			}
		}
	}
	return xs
}
