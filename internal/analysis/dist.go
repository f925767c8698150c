package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Bin is one histogram bucket over [Lo, Hi). The last bin is closed.
type Bin struct {
	Lo      float64 `json:"lo"`
	Hi      float64 `json:"hi"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Edges returns bins+1 equal-width edges spanning lo..hi. A degenerate
// range is widened by 0.5 on each side so every value lands in a bin.
func Edges(lo, hi float64, bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	if hi <= lo {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	edges[bins] = hi
	return edges
}

// Histogram counts values into the given edges. Percent is relative to the
// number of values, so overlaid groups of different sizes stay comparable.
func Histogram(values, edges []float64) []Bin {
	if len(edges) < 2 {
		return nil
	}
	out := make([]Bin, len(edges)-1)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1]}
	}
	last := len(out) - 1
	for _, v := range values {
		if v < edges[0] || v > edges[len(edges)-1] {
			continue
		}
		i := sort.SearchFloat64s(edges, v)
		// SearchFloat64s returns the first edge >= v
		if i < len(edges) && edges[i] == v {
			i++
		}
		i--
		if i > last {
			i = last
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	if len(values) > 0 {
		for i := range out {
			out[i].Percent = float64(out[i].Count) * 100 / float64(len(values))
		}
	}
	return out
}

// Range returns the smallest and largest value across every group.
func Range(groups ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		for _, v := range g {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// BoxStats is a five-number summary with Tukey whiskers.
type BoxStats struct {
	N            int       `json:"n"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	Mean         float64   `json:"mean"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// Box summarises values. Whiskers reach the most extreme values within
// 1.5 IQR of the quartiles; anything beyond is an outlier.
func Box(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	data := stats.Float64Data(values)
	b := BoxStats{N: len(values)}
	b.Min, _ = data.Min()
	b.Max, _ = data.Max()
	b.Mean, _ = data.Mean()
	b.Median, _ = data.Median()
	if q, err := stats.Quartile(data); err == nil && len(values) >= 4 {
		b.Q1, b.Q3 = q.Q1, q.Q3
	} else {
		b.Q1, b.Q3 = b.Median, b.Median
	}
	iqr := b.Q3 - b.Q1
	loFence, hiFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, v := range values {
		if v < loFence || v > hiFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}
	sort.Float64s(b.Outliers)
	return b
}

// DensityPoint is one sample of a kernel density estimate.
type DensityPoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// Density evaluates a Gaussian kernel density estimate at points evenly
// spaced over the data range, using Silverman's rule for the bandwidth.
func Density(values []float64, points int) []DensityPoint {
	if len(values) == 0 || points < 2 {
		return nil
	}
	bw := silverman(values)
	lo, hi, _ := Range(values)
	lo, hi = lo-bw, hi+bw
	xs := make([]float64, points)
	floats.Span(xs, lo, hi)
	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	out := make([]DensityPoint, points)
	n := float64(len(values))
	for i, x := range xs {
		sum := 0.0
		for _, v := range values {
			sum += kernel.Prob(x - v)
		}
		out[i] = DensityPoint{X: x, Density: sum / n}
	}
	return out
}

func silverman(values []float64) float64 {
	n := float64(len(values))
	sd := 0.0
	if len(values) > 1 {
		sd = stat.StdDev(values, nil)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	iqr := quantile(sorted, 0.75) - quantile(sorted, 0.25)
	spread := sd
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	if spread <= 0 {
		spread = math.Max(math.Abs(sorted[0])*0.1, 1)
	}
	return 0.9 * spread * math.Pow(n, -0.2)
}

// Trend is an ordinary least squares fit y = Intercept + Slope*x.
type Trend struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`
}

// At evaluates the fitted line.
func (t Trend) At(x float64) float64 { return t.Intercept + t.Slope*x }

// Fit returns the OLS trend of ys on xs, or nil when there are fewer than
// two points or xs has no variance.
func Fit(xs, ys []float64) *Trend {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil
	}
	if lo, hi, _ := Range(xs); lo == hi {
		return nil
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		r2 = 0
	}
	return &Trend{Intercept: alpha, Slope: beta, RSquared: r2, N: len(xs)}
}
