// Package report builds the narrative analysis of the full dataset.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/autompg-cli/internal/analysis"
	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

// Section is one numbered part of the report.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NamedFigure is a report chart with a stable file name.
type NamedFigure struct {
	Name   string        `json:"name"`
	Figure *chart.Figure `json:"figure"`
}

// Report is computed once over the unfiltered base table.
type Report struct {
	Title       string    `json:"title"`
	DatasetID   string    `json:"dataset_id"`
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`

	figures []NamedFigure
	corr    *analysis.CorrMatrix
}

// Build assembles the report for base.
func Build(base *dataset.Dataset) (*Report, error) {
	r := &Report{
		Title:       "Automobile Data Analysis Report",
		DatasetID:   base.ID,
		Source:      base.Source,
		Rows:        base.Len(),
		GeneratedAt: time.Now().UTC(),
	}

	hist, err := chart.Build(base, chart.Spec{
		Kind:  chart.KindHistogram,
		X:     dataset.FieldMPG,
		Color: chart.NoColor,
		Bins:  chart.ReportBins,
		Title: "MPG Distribution",
	})
	if err != nil {
		return nil, fmt.Errorf("mpg histogram: %w", err)
	}
	box, err := chart.Build(base, chart.Spec{Kind: chart.KindBox, Y: dataset.FieldMPG, Color: dataset.FieldOrigin, Title: "MPG by Vehicle Origin"})
	if err != nil {
		return nil, fmt.Errorf("mpg box: %w", err)
	}
	heat, err := chart.Build(base, chart.Spec{Kind: chart.KindHeatmap, Title: "Correlation Matrix"})
	if err != nil {
		return nil, fmt.Errorf("heatmap: %w", err)
	}
	trend, err := chart.Build(base, chart.Spec{Kind: chart.KindScatter, X: dataset.FieldModelYear, Y: dataset.FieldMPG, Color: chart.NoColor, Trendline: true})
	if err != nil {
		return nil, fmt.Errorf("year trend: %w", err)
	}
	r.figures = []NamedFigure{
		{Name: "mpg-distribution", Figure: hist},
		{Name: "mpg-by-origin", Figure: box},
		{Name: "correlation-matrix", Figure: heat},
		{Name: "mpg-by-model-year", Figure: trend},
	}
	r.corr = heat.Heatmap

	r.Sections = []Section{
		{Title: "Introduction", Body: r.introduction(base)},
		{Title: "Data Description", Body: r.description(base)},
		{Title: "Data Exploration", Body: r.exploration(hist, box)},
		{Title: "Key Correlations", Body: r.correlations()},
		{Title: "Conclusion", Body: r.conclusion(box, trend)},
	}
	return r, nil
}

// Figures returns the report charts in document order.
func (r *Report) Figures() []NamedFigure {
	out := make([]NamedFigure, len(r.figures))
	copy(out, r.figures)
	return out
}

func (r *Report) introduction(base *dataset.Dataset) string {
	lo, hi := base.YearBounds()
	return fmt.Sprintf("This report looks at what drives fuel efficiency in the Auto MPG dataset: %d vehicles "+
		"from model years 19%02d to 19%02d. It relates miles per gallon to engine size, power, weight, "+
		"acceleration, model year and region of manufacture.\n", base.Len(), lo, hi)
}

func (r *Report) description(base *dataset.Dataset) string {
	var b strings.Builder
	b.WriteString("### Source\n\n")
	b.WriteString(fmt.Sprintf("City-cycle fuel consumption records from the UCI Machine Learning Repository (`%s`). ", codeSpan(base.Source)))
	missing := 0
	base.Each(func(_ int, rec dataset.Record) {
		if !rec.Horsepower.Valid {
			missing++
		}
	})
	b.WriteString(fmt.Sprintf("%d rows were loaded; %d have an unknown horsepower and are left out of horsepower statistics only.\n\n", base.Len(), missing))
	b.WriteString("### Key Attributes\n\n")
	b.WriteString("| Attribute | Type | Unit | Description |\n|---|---|---|---|\n")
	for _, f := range dataset.Schema() {
		unit := f.Unit
		if unit == "" {
			unit = "-"
		}
		desc := f.Description
		if f.Derived {
			desc += " (derived)"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", f.Name, f.Kind, unit, desc))
	}
	return b.String()
}

// codeSpan keeps s inside a single-backtick code span.
func codeSpan(s string) string {
	return strings.NewReplacer("`", "'", "\n", " ", "\r", " ").Replace(s)
}

func (r *Report) exploration(hist, box *chart.Figure) string {
	var b strings.Builder
	b.WriteString("### Distribution of Miles Per Gallon\n\n")
	if len(hist.Traces) > 0 {
		bins := hist.Traces[0].Bins
		peak := 0
		for i, bin := range bins {
			if bin.Count > bins[peak].Count {
				peak = i
			}
		}
		if len(bins) > 0 {
			b.WriteString(fmt.Sprintf("Across %d equal-width bins the most common range is %.1f to %.1f mpg with %d vehicles (%.1f%%).\n\n",
				len(bins), bins[peak].Lo, bins[peak].Hi, bins[peak].Count, bins[peak].Percent))
		}
	}
	b.WriteString("### MPG by Origin\n\n")
	b.WriteString("| Origin | n | Min | Q1 | Median | Q3 | Max | Outliers |\n|---|---|---|---|---|---|---|---|\n")
	for _, t := range box.Traces {
		s := t.Box
		b.WriteString(fmt.Sprintf("| %s | %d | %.1f | %.1f | %.1f | %.1f | %.1f | %d |\n",
			t.Name, s.N, s.Min, s.Q1, s.Median, s.Q3, s.Max, len(s.Outliers)))
	}
	b.WriteString("\n### Correlation Heatmap\n\n")
	if r.corr != nil && len(r.corr.Columns) > 0 {
		b.WriteString("| |")
		for _, c := range r.corr.Columns {
			b.WriteString(" " + c + " |")
		}
		b.WriteString("\n|---|")
		for range r.corr.Columns {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for i, c := range r.corr.Columns {
			b.WriteString("| " + c + " |")
			for j := range r.corr.Columns {
				b.WriteString(fmt.Sprintf(" %.2f |", r.corr.Values[i][j]))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Report) correlations() string {
	if r.corr == nil {
		return "No correlations could be computed.\n"
	}
	type rel struct {
		field string
		r     float64
	}
	var rels []rel
	for _, f := range r.corr.Columns {
		if f == dataset.FieldMPG {
			continue
		}
		if v, ok := r.corr.Get(dataset.FieldMPG, f); ok {
			rels = append(rels, rel{field: f, r: v})
		}
	}
	sort.SliceStable(rels, func(i, j int) bool { return math.Abs(rels[i].r) > math.Abs(rels[j].r) })
	var b strings.Builder
	for _, x := range rels {
		b.WriteString(fmt.Sprintf("- **MPG and %s:** %s (r = %.2f). %s\n", x.field, Strength(x.r), x.r, direction(x.field, x.r)))
	}
	if pairs := r.corr.TopPairs(3); len(pairs) > 0 {
		b.WriteString("\nThe strongest relationships overall are ")
		for i, p := range pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%s ~ %s (r = %.2f)", p.A, p.B, p.R))
		}
		b.WriteString(".\n")
	}
	return b.String()
}

func direction(field string, r float64) string {
	switch {
	case math.Abs(r) < 0.1:
		return fmt.Sprintf("%s says little about fuel economy on its own.", field)
	case r < 0:
		return fmt.Sprintf("Higher %s goes with lower fuel economy.", strings.ToLower(field))
	default:
		return fmt.Sprintf("Higher %s goes with better fuel economy.", strings.ToLower(field))
	}
}

// Strength describes the magnitude and sign of a correlation coefficient.
func Strength(r float64) string {
	a := math.Abs(r)
	sign := "positive"
	if r < 0 {
		sign = "negative"
	}
	switch {
	case a >= 0.7:
		return "strong " + sign
	case a >= 0.4:
		return "moderate " + sign
	case a >= 0.1:
		return "weak " + sign
	}
	return "negligible"
}

func (r *Report) conclusion(box, trend *chart.Figure) string {
	var b strings.Builder
	n := 1
	if r.corr != nil {
		var worst string
		worstR := 0.0
		for _, f := range r.corr.Columns {
			if v, ok := r.corr.Get(dataset.FieldMPG, f); ok && f != dataset.FieldMPG && v < worstR {
				worst, worstR = f, v
			}
		}
		if worst != "" {
			b.WriteString(fmt.Sprintf("%d. **Size and mass cost efficiency:** %s has the strongest negative relationship with MPG (r = %.2f).\n", n, worst, worstR))
			n++
		}
	}
	best, bestMedian := "", math.Inf(-1)
	for _, t := range box.Traces {
		if t.Box != nil && t.Box.N > 0 && t.Box.Median > bestMedian {
			best, bestMedian = t.Name, t.Box.Median
		}
	}
	if best != "" {
		b.WriteString(fmt.Sprintf("%d. **Regional differences:** vehicles from %s have the highest median fuel economy (%.1f mpg).\n", n, best, bestMedian))
		n++
	}
	if len(trend.Traces) > 0 && trend.Traces[0].Trend != nil {
		tr := trend.Traces[0].Trend
		verb := "improves"
		if tr.Slope < 0 {
			verb = "declines"
		}
		b.WriteString(fmt.Sprintf("%d. **Improvement over time:** fitted MPG %s by %.2f mpg per model year (R² = %.2f).\n", n, verb, math.Abs(tr.Slope), tr.RSquared))
	}
	if b.Len() == 0 {
		return "The dataset is empty; no conclusions can be drawn.\n"
	}
	return b.String()
}

// Markdown renders the full report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + r.Title + "\n\n")
	b.WriteString(fmt.Sprintf("_Dataset %s, %d rows, generated %s._\n\n", r.DatasetID, r.Rows, r.GeneratedAt.Format(time.RFC3339)))
	for i, s := range r.Sections {
		b.WriteString(fmt.Sprintf("## %d.0 %s\n\n", i+1, s.Title))
		b.WriteString(s.Body)
		b.WriteString("\n")
	}
	return b.String()
}
