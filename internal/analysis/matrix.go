package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
	// N[i][j] counts rows where both columns parsed.
	N [][]int
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
	N    int
}

// CorrelationMatrix correlates every pair of numeric columns in ds using
// pairwise-complete rows. Pairs with fewer than two shared rows or no
// variance are NaN.
func CorrelationMatrix(ds *table.Dataset, c table.Classifier) *CorrMatrix {
	var idx []int
	m := &CorrMatrix{}
	for i, h := range ds.Headers {
		if c.ClassifyColumn(h, ds.Rows, i) == table.KindNumeric {
			idx = append(idx, i)
			m.Columns = append(m.Columns, h)
		}
	}
	k := len(idx)
	m.Values = make([][]float64, k)
	m.N = make([][]int, k)
	for i := range m.Values {
		m.Values[i] = make([]float64, k)
		m.N[i] = make([]int, k)
	}
	for a := 0; a < k; a++ {
		for b := a; b < k; b++ {
			var xs, ys []float64
			for _, row := range ds.Rows {
				x, okx := table.ParseNumber(cell(row, idx[a]))
				y, oky := table.ParseNumber(cell(row, idx[b]))
				if okx && oky {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			r := math.NaN()
			if len(xs) >= 2 && !constant(xs) && !constant(ys) {
				r = stat.Correlation(xs, ys, nil)
			}
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			m.Values[a][b], m.Values[b][a] = r, r
			m.N[a][b], m.N[b][a] = len(xs), len(xs)
		}
	}
	return m
}

// TopPairs lists off-diagonal pairs by descending |r|, skipping undefined ones.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			if math.IsNaN(m.Values[i][j]) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j], N: m.N[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func cell(r table.Row, col int) string {
	if col < len(r) {
		return r[col]
	}
	return ""
}
