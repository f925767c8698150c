// Package analysis computes summaries, correlations and distribution
// statistics over a table of auto-mpg records.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

// Options controls analysis behavior.
type Options struct {
	// Name labels the report, e.g. the source or the active filter.
	Name string
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// GroupBy computes per-group summaries for a categorical field.
	GroupBy string
	// Correlations computes Pearson correlations among numeric fields.
	Correlations bool
	// CorrPerGroup computes correlations per group key.
	CorrPerGroup bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns the options used by the summary command and endpoint.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		GroupBy:          dataset.FieldOrigin,
		Correlations:     true,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly analysis of a table.
type Report struct {
	Name     string          `json:"name,omitempty"`
	Rows     int             `json:"rows"`
	Cols     []ColumnSummary `json:"columns"`
	Samples  [][]string      `json:"samples,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
	Groups   []GroupResult   `json:"groups,omitempty"`
	Corr     *CorrMatrix     `json:"correlation,omitempty"`
}

// ColumnSummary captures the kind and statistics of one field.
type ColumnSummary struct {
	Name    string       `json:"name"`
	Kind    dataset.Kind `json:"kind"`
	Unit    string       `json:"unit,omitempty"`
	NonNull int          `json:"non_null"`
	Missing int          `json:"missing"`
	Unique  int          `json:"unique"`
	// Numeric stats
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Mean   float64 `json:"mean,omitempty"`
	Std    float64 `json:"std,omitempty"`
	Median float64 `json:"median,omitempty"`
	// Outliers (robust Z via MAD)
	OutliersCount    int     `json:"outliers,omitempty"`
	OutliersMaxAbsZ  float64 `json:"outliers_max_abs_z,omitempty"`
	OutlierThreshold float64 `json:"outlier_threshold,omitempty"`
	// Categorical top values
	TopValues    []CategoryCount `json:"top_values,omitempty"`
	ExampleTexts []string        `json:"examples,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key       string                `json:"key"`
	Size      int                   `json:"size"`
	Metrics   map[string]NumSummary `json:"metrics"`
	CorrPairs []PairCorr            `json:"correlations,omitempty"`
}

type NumSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Summarize analyses every field of t. An empty table yields a report with
// zero rows and a note, never an error.
func Summarize(t dataset.Table, opt Options) *Report {
	recs := t.Records()
	rep := &Report{Name: opt.Name, Rows: len(recs)}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < len(recs) && i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, recs[i].Strings())
	}

	for _, f := range dataset.Schema() {
		if f.Kind.Numeric() {
			rep.Cols = append(rep.Cols, numericColumn(f, recs, opt))
		} else {
			rep.Cols = append(rep.Cols, categoryColumn(f, recs))
		}
	}

	if opt.GroupBy != "" {
		rep.Groups = groupBy(recs, opt)
	}
	if opt.Correlations {
		rep.Corr = Correlation(t, dataset.NumericFields())
	}

	if len(recs) == 0 {
		rep.Warnings = append(rep.Warnings, "no rows match the active filters")
	}
	for _, c := range rep.Cols {
		if c.Missing > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s has %d missing values; they are skipped in statistics and charts", c.Name, c.Missing))
		}
	}
	return rep
}

func numericColumn(f dataset.Field, recs []dataset.Record, opt Options) ColumnSummary {
	s := ColumnSummary{Name: f.Name, Kind: f.Kind, Unit: f.Unit}
	vals := Values(recs, f.Name)
	s.NonNull = len(vals)
	s.Missing = len(recs) - len(vals)
	if len(vals) == 0 {
		return s
	}

	// Welford update
	var n int
	var mean, m2 float64
	lo, hi := math.Inf(1), math.Inf(-1)
	uniq := make(map[float64]struct{})
	for _, x := range vals {
		n++
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		uniq[x] = struct{}{}
	}
	s.Min, s.Max, s.Mean, s.Unique = lo, hi, mean, len(uniq)
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	if med, err := stats.Median(vals); err == nil {
		s.Median = med
	}

	if opt.Outliers && len(vals) >= 8 {
		median, mad := medianMAD(vals)
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		var cnt int
		maxAbsZ := 0.0
		if mad > 0 {
			for _, v := range vals {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					cnt++
				}
				if az > maxAbsZ {
					maxAbsZ = az
				}
			}
		}
		s.OutliersCount = cnt
		s.OutliersMaxAbsZ = maxAbsZ
		s.OutlierThreshold = thr
	}
	return s
}

func categoryColumn(f dataset.Field, recs []dataset.Record) ColumnSummary {
	s := ColumnSummary{Name: f.Name, Kind: f.Kind}
	cats := map[string]int{}
	for _, r := range recs {
		v, ok := r.Category(f.Name)
		if !ok || v == "" {
			s.Missing++
			continue
		}
		s.NonNull++
		cats[v]++
		if f.Kind == dataset.KindText && len(s.ExampleTexts) < 3 {
			s.ExampleTexts = append(s.ExampleTexts, v)
		}
	}
	s.Unique = len(cats)
	if f.Kind != dataset.KindCategorical {
		return s
	}
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 8 {
		tops = tops[:8]
	}
	s.TopValues = tops
	return s
}

func groupBy(recs []dataset.Record, opt Options) []GroupResult {
	buckets := map[string][]dataset.Record{}
	var keys []string
	for _, r := range recs {
		v, ok := r.Category(opt.GroupBy)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s=%s", opt.GroupBy, safeVal(v))
		if _, seen := buckets[key]; !seen {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], r)
	}
	out := make([]GroupResult, 0, len(keys))
	for _, k := range keys {
		rows := buckets[k]
		gr := GroupResult{Key: k, Size: len(rows), Metrics: map[string]NumSummary{}}
		for _, name := range dataset.NumericFields() {
			vals := Values(rows, name)
			if len(vals) == 0 {
				continue
			}
			ns := NumSummary{Count: len(vals), Min: math.Inf(1), Max: math.Inf(-1)}
			sum := 0.0
			for _, x := range vals {
				sum += x
				ns.Min = math.Min(ns.Min, x)
				ns.Max = math.Max(ns.Max, x)
			}
			ns.Mean = sum / float64(len(vals))
			gr.Metrics[name] = ns
		}
		if opt.CorrPerGroup {
			gr.CorrPairs = Correlation(dataset.NewView(rows, nil), dataset.NumericFields()).TopPairs(10)
		}
		out = append(out, gr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

// Values extracts the non-missing values of a numeric field in row order.
func Values(recs []dataset.Record, field string) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		if v, ok := r.Numeric(field); ok {
			out = append(out, v)
		}
	}
	return out
}

// Column returns the summary for a field, or false when absent.
func (r *Report) Column(name string) (ColumnSummary, bool) {
	for _, c := range r.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

func formatNum(v float64) string { return strconv.FormatFloat(v, 'g', 4, 64) }
