// Package stats computes the district-level statistical reports: Pearson
// correlation between two attributes and top/bottom extreme-value listings.
package stats

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/district-atlas/internal/region"
)

// ErrInsufficientData is returned when fewer than two complete paired
// observations remain after dropping missing values. With one or zero pairs
// the correlation is undefined, and surfacing an error beats returning a
// silently meaningless number.
var ErrInsufficientData = eris.New("stats: fewer than 2 paired observations")

// Report is the result of a Pearson correlation between two variables.
// R and P are NaN when either variable has zero variance; that mirrors the
// degenerate-input behavior of the underlying statistic rather than failing.
type Report struct {
	X string
	Y string
	R float64
	P float64
	N int
}

// PearsonReport drops rows missing either variable and computes the Pearson
// correlation coefficient with a two-sided p-value over the remaining pairs.
func PearsonReport(coll *region.Collection, x, y string) (Report, error) {
	complete := coll.DropMissing(x, y)
	n := complete.Len()
	if n < 2 {
		return Report{}, eris.Wrapf(ErrInsufficientData, "%s vs %s: %d rows", x, y, n)
	}

	xs := complete.Values(x)
	ys := complete.Values(y)

	r := pearson(xs, ys)
	p := twoSidedP(r, n)

	if math.IsNaN(r) {
		zap.L().Warn("stats: degenerate correlation input",
			zap.String("x", x),
			zap.String("y", y),
			zap.Int("n", n),
		)
	}

	return Report{X: x, Y: y, R: r, P: p, N: n}, nil
}

// pearson computes the sample correlation coefficient. Zero variance in
// either input yields NaN.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	r := cov / math.Sqrt(varX*varY)
	// Clamp float noise so perfectly collinear data reports exactly +/-1.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// twoSidedP converts r to a two-sided p-value through the t statistic with
// n-2 degrees of freedom. Two observations leave zero degrees of freedom, so
// the correlation carries no evidence and p is exactly 1, independent of
// whether float noise lands r on or just off +/-1.
func twoSidedP(r float64, n int) float64 {
	if math.IsNaN(r) {
		return math.NaN()
	}
	if n <= 2 {
		return 1
	}
	if r == 1 || r == -1 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := moremath.TDist{V: float64(n - 2)}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}
