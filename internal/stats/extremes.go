package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/district-atlas/internal/region"
)

// DefaultExtremeN matches the original report size of five districts per side.
const DefaultExtremeN = 5

// Extremes holds the bottom-n and top-n districts for one variable. Both
// slices are ordered by value (ascending for Bottom, descending for Top) with
// original row order breaking ties, so the selection is stable.
type Extremes struct {
	Variable string
	N        int
	Bottom   []region.Record
	Top      []region.Record
}

// ExtremeValues selects the n lowest and n highest districts by the named
// variable after dropping rows missing it. When fewer than n rows remain,
// each side simply returns what is available.
func ExtremeValues(coll *region.Collection, variable string, n int) (Extremes, error) {
	if n < 1 {
		return Extremes{}, eris.Errorf("stats: extreme count must be positive, got %d", n)
	}

	complete := coll.DropMissing(variable)
	idx := make([]int, complete.Len())
	for i := range idx {
		idx[i] = i
	}

	value := func(i int) float64 {
		v, _ := complete.Records[i].Value(variable)
		return v
	}

	asc := make([]int, len(idx))
	copy(asc, idx)
	sort.SliceStable(asc, func(a, b int) bool { return value(asc[a]) < value(asc[b]) })

	desc := make([]int, len(idx))
	copy(desc, idx)
	sort.SliceStable(desc, func(a, b int) bool { return value(desc[a]) > value(desc[b]) })

	take := func(order []int) []region.Record {
		m := n
		if m > len(order) {
			m = len(order)
		}
		out := make([]region.Record, 0, m)
		for _, i := range order[:m] {
			out = append(out, complete.Records[i])
		}
		return out
	}

	return Extremes{
		Variable: variable,
		N:        n,
		Bottom:   take(asc),
		Top:      take(desc),
	}, nil
}

// Format renders the human-readable listing: lowest group first, then
// highest, each line "district: value" with two decimals.
func (e Extremes) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lowest %d districts by %s:\n", e.N, e.Variable)
	for _, rec := range e.Bottom {
		v, _ := rec.Value(e.Variable)
		fmt.Fprintf(&b, "%s: %.2f\n", rec.District, v)
	}
	fmt.Fprintf(&b, "\nHighest %d districts by %s:\n", e.N, e.Variable)
	for _, rec := range e.Top {
		v, _ := rec.Value(e.Variable)
		fmt.Fprintf(&b, "%s: %.2f\n", rec.District, v)
	}
	return b.String()
}

// WriteXLSX exports the extremes as a two-sheet workbook.
func (e Extremes) WriteXLSX(path string) error {
	file := xlsx.NewFile()

	writeSheet := func(name string, recs []region.Record) error {
		sheet, err := file.AddSheet(name)
		if err != nil {
			return eris.Wrapf(err, "stats: add sheet %s", name)
		}
		header := sheet.AddRow()
		header.AddCell().SetString("district")
		header.AddCell().SetString(e.Variable)
		for _, rec := range recs {
			v, _ := rec.Value(e.Variable)
			row := sheet.AddRow()
			row.AddCell().SetString(rec.District)
			row.AddCell().SetFloatWithFormat(v, "0.00")
		}
		return nil
	}

	if err := writeSheet("Lowest", e.Bottom); err != nil {
		return err
	}
	if err := writeSheet("Highest", e.Top); err != nil {
		return err
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "stats: save xlsx %s", path)
	}
	return nil
}
