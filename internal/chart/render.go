package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is a raster or vector output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts png or svg in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: format %q", ErrUnsupported, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Size is the output size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a dimension is zero.
var DefaultSize = Size{Width: 960, Height: 540}

var palette = []string{"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a", "19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52"}

func colorAt(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, width float64) gochart.Style {
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: width,
	}
}

// Render draws f with go-chart. Heatmaps have no raster form and return
// ErrUnsupported; figures with nothing to draw return ErrNoData.
func Render(w io.Writer, f *Figure, format Format, size Size) error {
	if f.Spec.Kind == KindHeatmap {
		return fmt.Errorf("%w: %s as %s", ErrUnsupported, f.Spec.Kind, format)
	}
	if !f.HasData() {
		return ErrNoData
	}
	if size.Width <= 0 {
		size.Width = DefaultSize.Width
	}
	if size.Height <= 0 {
		size.Height = DefaultSize.Height
	}

	var (
		series []gochart.Series
		xAxis  gochart.XAxis
		yRange *gochart.ContinuousRange
	)
	switch f.Spec.Kind {
	case KindScatter:
		series, xAxis, yRange = scatterSeries(f)
	case KindHistogram:
		series, xAxis, yRange = histogramSeries(f)
	case KindBox:
		series, xAxis, yRange = boxSeries(f)
	case KindViolin:
		series, xAxis, yRange = violinSeries(f)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, f.Spec.Kind)
	}

	ch := gochart.Chart{
		Title:      f.Spec.Title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      gochart.YAxis{Name: f.YLabel, Range: yRange},
		Series:     series,
		Width:      size.Width,
		Height:     size.Height,
	}
	if len(f.Traces) > 1 || f.Spec.Trendline {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	rp := gochart.PNG
	if format == FormatSVG {
		rp = gochart.SVG
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render %s: %w", f.Spec.Kind, err)
	}
	return nil
}

func scatterSeries(f *Figure) ([]gochart.Series, gochart.XAxis, *gochart.ContinuousRange) {
	var series []gochart.Series
	var xsAll, ysAll []float64
	for i, t := range f.Traces {
		if len(t.Points) == 0 {
			continue
		}
		xs := make([]float64, len(t.Points))
		ys := make([]float64, len(t.Points))
		for j, p := range t.Points {
			xs[j], ys[j] = p.X, p.Y
		}
		xsAll = append(xsAll, xs...)
		ysAll = append(ysAll, ys...)
		series = append(series, gochart.ContinuousSeries{Name: t.Name, XValues: xs, YValues: ys, Style: pointStyle(colorAt(i))})
	}
	xr := paddedRange(xsAll)
	for i, t := range f.Traces {
		if t.Trend == nil {
			continue
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    t.Name + " trend",
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{t.Trend.At(xr.Min), t.Trend.At(xr.Max)},
			Style:   lineStyle(colorAt(i), 2),
		})
		ysAll = append(ysAll, t.Trend.At(xr.Min), t.Trend.At(xr.Max))
	}
	return series, gochart.XAxis{Name: f.XLabel, Range: xr}, paddedRange(ysAll)
}

// histogramSeries draws each group as a step outline over the shared edges.
func histogramSeries(f *Figure) ([]gochart.Series, gochart.XAxis, *gochart.ContinuousRange) {
	var series []gochart.Series
	var edges, top []float64
	for i, t := range f.Traces {
		if len(t.Bins) == 0 {
			continue
		}
		xs := []float64{t.Bins[0].Lo}
		ys := []float64{0}
		for _, b := range t.Bins {
			xs = append(xs, b.Lo, b.Hi)
			ys = append(ys, b.Percent, b.Percent)
			top = append(top, b.Percent)
		}
		xs = append(xs, t.Bins[len(t.Bins)-1].Hi)
		ys = append(ys, 0)
		edges = append(edges, xs...)
		st := lineStyle(colorAt(i), 2)
		st.FillColor = colorAt(i).WithAlpha(60)
		series = append(series, gochart.ContinuousSeries{Name: t.Name, XValues: xs, YValues: ys, Style: st})
	}
	top = append(top, 0)
	yr := paddedRange(top)
	yr.Min = 0
	lo, hi := minMax(edges)
	return series, gochart.XAxis{Name: f.XLabel, Range: &gochart.ContinuousRange{Min: lo, Max: hi}}, yr
}

// boxSeries traces each box, median and whiskers as a single polyline so a
// group occupies one legend entry.
func boxSeries(f *Figure) ([]gochart.Series, gochart.XAxis, *gochart.ContinuousRange) {
	const half = 0.3
	var series []gochart.Series
	var ys []float64
	for i, t := range f.Traces {
		b := t.Box
		if b == nil || b.N == 0 {
			continue
		}
		x := float64(i + 1)
		px := []float64{x, x, x - half, x - half, x, x, x, x + half, x + half, x - half, x + half, x + half, x}
		py := []float64{b.LowerWhisker, b.Q1, b.Q1, b.Q3, b.Q3, b.UpperWhisker, b.Q3, b.Q3, b.Median, b.Median, b.Median, b.Q1, b.Q1}
		series = append(series, gochart.ContinuousSeries{Name: t.Name, XValues: px, YValues: py, Style: lineStyle(colorAt(i), 1.5)})
		ys = append(ys, b.Min, b.Max)
		if len(b.Outliers) > 0 {
			ox := make([]float64, len(b.Outliers))
			for j := range ox {
				ox[j] = x
			}
			series = append(series, gochart.ContinuousSeries{Name: t.Name + " outliers", XValues: ox, YValues: b.Outliers, Style: pointStyle(colorAt(i))})
		}
	}
	return series, categoryAxis(f), paddedRange(ys)
}

// violinSeries mirrors each density around the group's slot.
func violinSeries(f *Figure) ([]gochart.Series, gochart.XAxis, *gochart.ContinuousRange) {
	const half = 0.4
	peak := 0.0
	for _, t := range f.Traces {
		for _, d := range t.Density {
			peak = math.Max(peak, d.Density)
		}
	}
	var series []gochart.Series
	var ys []float64
	for i, t := range f.Traces {
		if len(t.Density) == 0 || peak == 0 {
			continue
		}
		x := float64(i + 1)
		n := len(t.Density)
		px := make([]float64, 0, 2*n+1)
		py := make([]float64, 0, 2*n+1)
		for _, d := range t.Density {
			px = append(px, x+half*d.Density/peak)
			py = append(py, d.X)
		}
		for j := n - 1; j >= 0; j-- {
			d := t.Density[j]
			px = append(px, x-half*d.Density/peak)
			py = append(py, d.X)
		}
		px = append(px, px[0])
		py = append(py, py[0])
		ys = append(ys, t.Density[0].X, t.Density[n-1].X)
		series = append(series, gochart.ContinuousSeries{Name: t.Name, XValues: px, YValues: py, Style: lineStyle(colorAt(i), 1.5)})
		if len(t.Samples) > 0 {
			sx := make([]float64, len(t.Samples))
			sy := make([]float64, len(t.Samples))
			for j, sm := range t.Samples {
				sx[j], sy[j] = x, sm.Value
			}
			st := pointStyle(colorAt(i))
			st.DotWidth = 2
			series = append(series, gochart.ContinuousSeries{Name: t.Name + " points", XValues: sx, YValues: sy, Style: st})
		}
		if t.Box != nil && t.Box.N > 0 {
			series = append(series, gochart.ContinuousSeries{
				Name:    t.Name + " median",
				XValues: []float64{x - half/2, x + half/2},
				YValues: []float64{t.Box.Median, t.Box.Median},
				Style:   lineStyle(colorAt(i), 2),
			})
		}
	}
	return series, categoryAxis(f), paddedRange(ys)
}

func categoryAxis(f *Figure) gochart.XAxis {
	names := f.GroupNames()
	ticks := make([]gochart.Tick, 0, len(names))
	for i, name := range names {
		ticks = append(ticks, gochart.Tick{Value: float64(i + 1), Label: name})
	}
	return gochart.XAxis{
		Name:  f.XLabel,
		Ticks: ticks,
		Range: &gochart.ContinuousRange{Min: 0.4, Max: float64(len(names)) + 0.6},
	}
}

// paddedRange returns a range 5% wider than the data on each side and never
// zero-width.
func paddedRange(vals []float64) *gochart.ContinuousRange {
	lo, hi := minMax(vals)
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(lo)*0.05, 1)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func minMax(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 1
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
