// Package region holds the district boundary and statistics table that feeds
// the statistical reports and map renderers.
package region

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Well-known attribute names. The statistical and classification code is
// variable-name driven, so these are the only names Value understands.
const (
	VarPopulation   = "population"
	VarSchoolCount  = "schoolcnt"
	VarSchoolsPerK  = "schlppop"
	VarDistrictName = "district"
)

// SRIDs used by the toolkit.
const (
	SRIDGeographic  = 4326
	SRIDWebMercator = 3857
)

// Record is one district row: a unique name, a polygonal boundary and the
// nullable numeric attributes joined from the statistics file. A nil pointer
// means the value is missing.
type Record struct {
	District       string
	Geometry       geom.T
	Population     *float64
	SchoolCount    *float64
	SchoolsPerKPop *float64
}

// Value returns the named numeric attribute and whether it is present.
func (r Record) Value(name string) (float64, bool) {
	var p *float64
	switch name {
	case VarPopulation:
		p = r.Population
	case VarSchoolCount:
		p = r.SchoolCount
	case VarSchoolsPerK:
		p = r.SchoolsPerKPop
	default:
		return 0, false
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// setValue assigns the named attribute. Unknown names are ignored.
func (r *Record) setValue(name string, v float64) {
	switch name {
	case VarPopulation:
		r.Population = &v
	case VarSchoolCount:
		r.SchoolCount = &v
	case VarSchoolsPerK:
		r.SchoolsPerKPop = &v
	}
}

// Collection is an ordered set of district records sharing one coordinate
// reference system. Order is preserved through every derivation; overlapping
// markers draw last-on-top in collection order.
type Collection struct {
	SRID    int
	Records []Record
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.Records) }

// Values returns the named attribute for every record that has it, in
// collection order.
func (c *Collection) Values(name string) []float64 {
	vals := make([]float64, 0, len(c.Records))
	for _, rec := range c.Records {
		if v, ok := rec.Value(name); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// DropMissing returns a new collection containing only records that carry
// every named attribute. The receiver is not modified.
func (c *Collection) DropMissing(vars ...string) *Collection {
	out := &Collection{SRID: c.SRID, Records: make([]Record, 0, len(c.Records))}
	for _, rec := range c.Records {
		keep := true
		for _, v := range vars {
			if _, ok := rec.Value(v); !ok {
				keep = false
				break
			}
		}
		if keep {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// Find returns the record for a district name, or false.
func (c *Collection) Find(district string) (Record, bool) {
	for _, rec := range c.Records {
		if rec.District == district {
			return rec, true
		}
	}
	return Record{}, false
}

// Validate checks the collection invariants: district names unique and
// non-empty, geometry present on every record.
func (c *Collection) Validate() error {
	seen := make(map[string]bool, len(c.Records))
	for i, rec := range c.Records {
		if rec.District == "" {
			return eris.Errorf("region: record %d has empty district name", i)
		}
		if seen[rec.District] {
			return eris.Errorf("region: duplicate district %q", rec.District)
		}
		seen[rec.District] = true
		if rec.Geometry == nil {
			return eris.Errorf("region: district %q has no geometry", rec.District)
		}
	}
	return nil
}
