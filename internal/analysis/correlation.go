package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"gonum.org/v1/gonum/stat/distuv"
)

// Point is one aligned (x, y) observation.
type Point struct {
	X, Y float64
}

// Correlation is the Pearson result for two columns of a Dataset.
type Correlation struct {
	XHeader string
	YHeader string
	Points  []Point
	// R is NaN when undefined (no pairs or zero variance).
	R float64
	N int
	// PValue is the two-tailed significance of R, NaN when it cannot be computed.
	PValue float64
}

// Defined reports whether R holds a number.
func (c *Correlation) Defined() bool { return !math.IsNaN(c.R) }

// Pearson computes r = (nΣxy − ΣxΣy) / sqrt((nΣx² − (Σx)²)(nΣy² − (Σy)²))
// over the common prefix of xs and ys. It returns NaN for no data, a
// constant series, or a zero denominator.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 0 || constant(xs[:n]) || constant(ys[:n]) {
		return math.NaN()
	}
	var sx, sy, sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		sx += x
		sy += y
		sxx += x * x
		syy += y * y
		sxy += x * y
	}
	fn := float64(n)
	den := math.Sqrt((fn*sxx - sx*sx) * (fn*syy - sy*sy))
	if den == 0 || math.IsNaN(den) {
		return math.NaN()
	}
	return (fn*sxy - sx*sy) / den
}

// constant reports whether every value equals the first.
func constant(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}

// Correlate resolves both labels against the full Dataset, aligns the two
// columns row by row and drops pairs where either side is not numeric.
func Correlate(ds *table.Dataset, xLabel, yLabel string, r table.Resolver) (*Correlation, error) {
	r.Headers = ds.Headers
	xi, err := r.Index(xLabel)
	if err != nil {
		return nil, err
	}
	yi, err := r.Index(yLabel)
	if err != nil {
		return nil, err
	}
	xs, ys := ds.Column(xi), ds.Column(yi)
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	c := &Correlation{XHeader: ds.Headers[xi], YHeader: ds.Headers[yi]}
	var xv, yv []float64
	for i := 0; i < n; i++ {
		x, okx := table.ParseNumber(xs[i])
		y, oky := table.ParseNumber(ys[i])
		if !okx || !oky {
			continue
		}
		xv = append(xv, x)
		yv = append(yv, y)
		c.Points = append(c.Points, Point{X: x, Y: y})
	}
	if len(c.Points) == 0 {
		return nil, &table.TypeMismatchError{
			Column: fmt.Sprintf("%s vs %s", c.XHeader, c.YHeader),
			Reason: "no rows where both columns are numeric",
		}
	}
	c.N = len(c.Points)
	c.R = Pearson(xv, yv)
	c.PValue = correlationPValue(c.R, c.N)
	return c, nil
}

// correlationPValue converts r to a t statistic with n-2 degrees of freedom.
func correlationPValue(r float64, n int) float64 {
	if math.IsNaN(r) || n < 3 {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}
