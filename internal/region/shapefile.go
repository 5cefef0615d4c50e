package region

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// FromShapefile reads district boundaries from a shapefile. nameField is the
// attribute column holding the district name (matched case-insensitively).
// Records with a missing name or an unusable shape are skipped and counted in
// a debug log line. Coordinates are assumed geographic (SRID 4326).
func FromShapefile(path, nameField string) (*Collection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("region: field %q not found in %s", nameField, path)
	}

	coll := &Collection{SRID: SRIDGeographic}
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			skipped++
			continue
		}

		g := shapeToMultiPolygon(shape)
		if g == nil {
			skipped++
			continue
		}

		coll.Records = append(coll.Records, Record{District: name, Geometry: g})
	}

	if skipped > 0 {
		zap.L().Debug("region: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	if err := coll.Validate(); err != nil {
		return nil, err
	}
	return coll, nil
}

// shapeToMultiPolygon converts a go-shp polygon to a geom.MultiPolygon.
// Returns nil for nil or non-polygon shapes.
func shapeToMultiPolygon(shape shp.Shape) geom.T {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(SRIDGeographic)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("region: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("region: skipping malformed part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
