package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric fields.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
	// N[i][j] is the number of rows where both fields are present.
	N [][]int `json:"n"`
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
	N int     `json:"n"`
}

// Correlation computes Pearson r for every pair of fields using the rows
// where both values are present. Pairs with fewer than two observations or
// zero variance get 0. Unknown or non-numeric fields are dropped.
func Correlation(t dataset.Table, fields []string) *CorrMatrix {
	var cols []string
	for _, name := range fields {
		if f, ok := dataset.LookupField(name); ok && f.Kind.Numeric() {
			cols = append(cols, f.Name)
		}
	}
	recs := t.Records()
	n := len(cols)
	m := &CorrMatrix{Columns: cols, Values: make([][]float64, n), N: make([][]int, n)}
	for i := range cols {
		m.Values[i] = make([]float64, n)
		m.N[i] = make([]int, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			xs, ys := pairs(recs, cols[a], cols[b])
			m.N[a][b], m.N[b][a] = len(xs), len(xs)
			if a == b {
				m.Values[a][b] = 1
				continue
			}
			r := pearson(xs, ys)
			m.Values[a][b], m.Values[b][a] = r, r
		}
	}
	return m
}

func pairs(recs []dataset.Record, fa, fb string) (xs, ys []float64) {
	for _, r := range recs {
		x, okx := r.Numeric(fa)
		y, oky := r.Numeric(fb)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Get returns r for two fields.
func (m *CorrMatrix) Get(a, b string) (float64, bool) {
	ia, ib := m.index(a), m.index(b)
	if ia < 0 || ib < 0 {
		return 0, false
	}
	return m.Values[ia][ib], true
}

func (m *CorrMatrix) index(name string) int {
	f, ok := dataset.LookupField(name)
	if !ok {
		return -1
	}
	for i, c := range m.Columns {
		if c == f.Name {
			return i
		}
	}
	return -1
}

// TopPairs lists the off-diagonal pairs ordered by |r|, strongest first.
// n <= 0 returns every pair.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var out []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			if m.N[i][j] < 2 {
				continue
			}
			out = append(out, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j], N: m.N[i][j]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].R), math.Abs(out[j].R)
		if ai == aj {
			return out[i].A+out[i].B < out[j].A+out[j].B
		}
		return ai > aj
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
