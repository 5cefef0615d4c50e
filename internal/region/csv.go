package region

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// JoinStatsCSV joins district statistics onto a boundary collection and
// returns a new collection; the input is not modified. The CSV must carry a
// header row with a "district" column; "population" and "schoolcnt" columns
// are joined when present, and the schools-per-1000-population rate is
// derived whenever both are known. Districts in the CSV with no matching
// boundary are logged and skipped; unparsable numeric cells are treated as
// missing.
func JoinStatsCSV(coll *Collection, path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: open stats csv %s", path)
	}
	defer func() { _ = f.Close() }()

	return joinStats(coll, f, path)
}

func joinStats(coll *Collection, r io.Reader, path string) (*Collection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "region: read csv header %s", path)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	districtIdx, ok := colIdx[VarDistrictName]
	if !ok {
		return nil, eris.Errorf("region: csv %s has no district column", path)
	}

	type row struct {
		population, schoolCount *float64
	}
	byDistrict := make(map[string]row)
	var unknown int

	known := make(map[string]bool, len(coll.Records))
	for _, rec := range coll.Records {
		known[rec.District] = true
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "region: read csv row %s", path)
		}
		if districtIdx >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[districtIdx])
		if name == "" {
			continue
		}
		if !known[name] {
			unknown++
			continue
		}
		byDistrict[name] = row{
			population:  parseCell(record, colIdx, VarPopulation),
			schoolCount: parseCell(record, colIdx, VarSchoolCount),
		}
	}

	if unknown > 0 {
		zap.L().Warn("region: stats rows with no matching boundary",
			zap.String("path", path),
			zap.Int("rows", unknown),
		)
	}

	out := &Collection{SRID: coll.SRID, Records: make([]Record, len(coll.Records))}
	for i, rec := range coll.Records {
		if st, ok := byDistrict[rec.District]; ok {
			rec.Population = st.population
			rec.SchoolCount = st.schoolCount
			if st.population != nil && st.schoolCount != nil && *st.population > 0 {
				rate := *st.schoolCount / *st.population * 1000
				rec.SchoolsPerKPop = &rate
			}
		}
		out.Records[i] = rec
	}
	return out, nil
}

// parseCell parses a named numeric column from a CSV record, returning nil
// for absent columns, empty cells, or unparsable values.
func parseCell(record []string, colIdx map[string]int, name string) *float64 {
	idx, ok := colIdx[name]
	if !ok || idx >= len(record) {
		return nil
	}
	s := strings.TrimSpace(record[idx])
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
