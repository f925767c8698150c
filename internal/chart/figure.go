package chart

import (
	"sort"

	"github.com/KaramelBytes/autompg-cli/internal/analysis"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

// violinPoints is the number of density samples per violin.
const violinPoints = 64

// Figure is a renderer-independent chart: the data each trace needs,
// already computed from the working view.
type Figure struct {
	Spec   Spec   `json:"spec"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
	// Rows is the size of the view the figure was built from.
	Rows int `json:"rows"`
	// Skipped counts rows left out because a plotted value was missing.
	Skipped int                  `json:"skipped"`
	Traces  []Trace              `json:"traces"`
	Heatmap *analysis.CorrMatrix `json:"heatmap,omitempty"`
}

// Trace is one colour group.
type Trace struct {
	Name    string                  `json:"name"`
	Points  []Point                 `json:"points,omitempty"`
	Trend   *analysis.Trend         `json:"trend,omitempty"`
	Bins    []analysis.Bin          `json:"bins,omitempty"`
	Box     *analysis.BoxStats      `json:"box,omitempty"`
	Density []analysis.DensityPoint `json:"density,omitempty"`
	// Samples are the individual values behind a violin.
	Samples []Sample `json:"samples,omitempty"`
}

// Point is one scatter marker; Label is the car name shown on hover.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Sample is one observation drawn inside a violin with its hover labels.
type Sample struct {
	Value        float64 `json:"value"`
	CarName      string  `json:"car_name"`
	Manufacturer string  `json:"manufacturer"`
	ModelYear    int     `json:"model_year"`
}

// HasData reports whether anything would be drawn.
func (f *Figure) HasData() bool {
	if f.Heatmap != nil {
		return len(f.Heatmap.Columns) > 0 && f.Rows > 0
	}
	for _, t := range f.Traces {
		if len(t.Points) > 0 || len(t.Density) > 0 || (t.Box != nil && t.Box.N > 0) {
			return true
		}
		for _, b := range t.Bins {
			if b.Count > 0 {
				return true
			}
		}
	}
	return false
}

// Build computes the figure for s over t. An empty view yields a figure
// without traces rather than an error.
func Build(t dataset.Table, s Spec) (*Figure, error) {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	recs := t.Records()
	f := &Figure{Spec: s, Rows: len(recs), Traces: []Trace{}}
	switch s.Kind {
	case KindScatter:
		f.XLabel, f.YLabel = s.X, s.Y
		buildScatter(f, recs)
	case KindHistogram:
		f.XLabel, f.YLabel = s.X, "percent"
		buildHistogram(f, recs)
	case KindBox:
		f.XLabel, f.YLabel = colorLabel(s), s.Y
		for _, g := range groupRecords(recs, s) {
			vals := analysis.Values(g.recs, s.Y)
			f.Skipped += len(g.recs) - len(vals)
			b := analysis.Box(vals)
			f.Traces = append(f.Traces, Trace{Name: g.name, Box: &b})
		}
	case KindViolin:
		f.XLabel, f.YLabel = colorLabel(s), s.Y
		for _, g := range groupRecords(recs, s) {
			samples := violinSamples(g.recs, s.Y)
			f.Skipped += len(g.recs) - len(samples)
			vals := make([]float64, len(samples))
			for i, sm := range samples {
				vals[i] = sm.Value
			}
			b := analysis.Box(vals)
			f.Traces = append(f.Traces, Trace{
				Name:    g.name,
				Box:     &b,
				Density: analysis.Density(vals, violinPoints),
				Samples: samples,
			})
		}
	case KindHeatmap:
		f.Heatmap = analysis.Correlation(t, dataset.NumericFields())
	}
	return f, nil
}

func buildScatter(f *Figure, recs []dataset.Record) {
	s := f.Spec
	for _, g := range groupRecords(recs, s) {
		tr := Trace{Name: g.name, Points: []Point{}}
		var xs, ys []float64
		for _, r := range g.recs {
			x, okx := r.Numeric(s.X)
			y, oky := r.Numeric(s.Y)
			if !okx || !oky {
				f.Skipped++
				continue
			}
			tr.Points = append(tr.Points, Point{X: x, Y: y, Label: r.CarName})
			xs = append(xs, x)
			ys = append(ys, y)
		}
		if s.Trendline {
			tr.Trend = analysis.Fit(xs, ys)
		}
		f.Traces = append(f.Traces, tr)
	}
}

func violinSamples(recs []dataset.Record, field string) []Sample {
	out := make([]Sample, 0, len(recs))
	for _, r := range recs {
		v, ok := r.Numeric(field)
		if !ok {
			continue
		}
		out = append(out, Sample{Value: v, CarName: r.CarName, Manufacturer: r.Manufacturer, ModelYear: r.ModelYear})
	}
	return out
}

func buildHistogram(f *Figure, recs []dataset.Record) {
	s := f.Spec
	groups := groupRecords(recs, s)
	values := make([][]float64, len(groups))
	for i, g := range groups {
		values[i] = analysis.Values(g.recs, s.X)
		f.Skipped += len(g.recs) - len(values[i])
	}
	lo, hi, ok := analysis.Range(values...)
	if !ok {
		return
	}
	edges := analysis.Edges(lo, hi, s.Bins)
	for i, g := range groups {
		f.Traces = append(f.Traces, Trace{Name: g.name, Bins: analysis.Histogram(values[i], edges)})
	}
}

type group struct {
	name string
	recs []dataset.Record
}

// groupRecords splits recs by the colour field. Origin groups follow code
// order, numeric groups numeric order and the rest sort by name.
func groupRecords(recs []dataset.Record, s Spec) []group {
	if !s.Grouped() {
		if len(recs) == 0 {
			return nil
		}
		return []group{{name: "All", recs: recs}}
	}
	idx := map[string]int{}
	var out []group
	order := map[string]int{}
	for _, r := range recs {
		name, _ := r.Category(s.Color)
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, group{name: name})
			order[name] = sortKey(r, s.Color)
		}
		out[i].recs = append(out[i].recs, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := order[out[i].name], order[out[j].name]
		if oi != oj {
			return oi < oj
		}
		return out[i].name < out[j].name
	})
	return out
}

func sortKey(r dataset.Record, field string) int {
	switch field {
	case dataset.FieldOrigin:
		return int(r.Origin)
	case dataset.FieldCylinders:
		return r.Cylinders
	case dataset.FieldModelYear:
		return r.ModelYear
	}
	return 0
}

func colorLabel(s Spec) string {
	if s.Grouped() {
		return s.Color
	}
	return ""
}

// GroupNames lists trace names in draw order.
func (f *Figure) GroupNames() []string {
	out := make([]string, len(f.Traces))
	for i, t := range f.Traces {
		out[i] = t.Name
	}
	return out
}
