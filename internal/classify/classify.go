// Package classify implements equal-frequency (quantile) classification and
// the joint bivariate class used by the bivariate choropleth.
package classify

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/district-atlas/internal/region"
)

// BivariateK is the per-variable class count of the bivariate choropleth.
// The joint class space is BivariateK * BivariateK.
const BivariateK = 3

// Missing is the class assigned to rows lacking a value for one of the
// classified variables. Renderers skip it.
const Missing = -1

// Quantiles computes k equal-frequency break points over values. Each break
// is the upper bound of a class; the last break is the maximum. Breaks use
// linearly interpolated quantiles of the sorted values, so values tied
// exactly on a break fall into the lower class.
func Quantiles(values []float64, k int) ([]float64, error) {
	if k < 2 {
		return nil, eris.Errorf("classify: need at least 2 classes, got %d", k)
	}
	if len(values) == 0 {
		return nil, eris.New("classify: no values to classify")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	breaks := make([]float64, k)
	for i := 1; i < k; i++ {
		breaks[i-1] = quantile(sorted, float64(i)/float64(k))
	}
	breaks[k-1] = sorted[len(sorted)-1]
	return breaks, nil
}

// quantile returns the p-quantile of a sorted slice using linear
// interpolation between closest ranks.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Assign returns the class of a value given its break points: the first
// class whose upper bound is >= the value. Values above the last break (only
// possible through float noise) land in the top class.
func Assign(value float64, breaks []float64) int {
	for i, b := range breaks {
		if value <= b {
			return i
		}
	}
	return len(breaks) - 1
}

// Classes assigns every record of the collection a class in [0, k) for the
// named variable, in row order. Records missing the variable get Missing.
// Breaks are computed over the non-missing values only.
func Classes(coll *region.Collection, variable string, k int) ([]int, error) {
	values := coll.Values(variable)
	breaks, err := Quantiles(values, k)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: variable %s", variable)
	}

	out := make([]int, coll.Len())
	for i, rec := range coll.Records {
		v, ok := rec.Value(variable)
		if !ok {
			out[i] = Missing
			continue
		}
		out[i] = Assign(v, breaks)
	}
	return out, nil
}

// Bivariate combines two per-variable quantile classifications into the
// joint class joint = class2*k + class1 with k = BivariateK, in row order.
// Rows missing either variable get Missing. The result depends only on the
// (variable, k) input, never on iteration order.
func Bivariate(coll *region.Collection, var1, var2 string) ([]int, error) {
	c1, err := Classes(coll, var1, BivariateK)
	if err != nil {
		return nil, err
	}
	c2, err := Classes(coll, var2, BivariateK)
	if err != nil {
		return nil, err
	}

	joint := make([]int, coll.Len())
	for i := range joint {
		if c1[i] == Missing || c2[i] == Missing {
			joint[i] = Missing
			continue
		}
		joint[i] = c2[i]*BivariateK + c1[i]
	}
	return joint, nil
}
