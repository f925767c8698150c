package report_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/report"
	"github.com/KaramelBytes/autompg-cli/internal/testutil"
)

func TestBuild_Sections(t *testing.T) {
	ds := testutil.SampleDataset(t)
	rep, err := report.Build(ds)
	require.NoError(t, err)

	var titles []string
	for _, s := range rep.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Introduction", "Data Description", "Data Exploration", "Key Correlations", "Conclusion"}, titles)
	assert.Equal(t, ds.ID, rep.DatasetID)
	assert.Equal(t, testutil.SampleRows, rep.Rows)

	md := rep.Markdown()
	for _, want := range []string{
		"# Automobile Data Analysis Report",
		"## 1.0 Introduction",
		"18 vehicles from model years 1970 to 1982",
		"1 have an unknown horsepower",
		"| Manufacturer | categorical | - | first word of the car name (derived) |",
		"Across 30 equal-width bins",
		"| Japan | 9 |",
		"**MPG and Weight:** strong negative",
		"vehicles from Japan have the highest median fuel economy",
		"fitted MPG improves",
	} {
		assert.Contains(t, md, want)
	}
}

func TestBuild_Figures(t *testing.T) {
	rep, err := report.Build(testutil.SampleDataset(t))
	require.NoError(t, err)
	figs := rep.Figures()
	require.Len(t, figs, 4)
	assert.Equal(t, "mpg-distribution", figs[0].Name)
	require.Len(t, figs[0].Figure.Traces, 1)
	assert.Len(t, figs[0].Figure.Traces[0].Bins, chart.ReportBins)
	assert.Equal(t, chart.KindHeatmap, figs[2].Figure.Spec.Kind)
}

func TestHTML(t *testing.T) {
	rep, err := report.Build(testutil.SampleDataset(t))
	require.NoError(t, err)
	page, err := rep.HTML()
	require.NoError(t, err)
	s := string(page)
	assert.True(t, strings.HasPrefix(s, "<!DOCTYPE html>"))
	assert.Contains(t, s, "<title>Automobile Data Analysis Report</title>")
	assert.Contains(t, s, "<table>")
	assert.Contains(t, s, "Introduction</h2>")
}

func TestHTML_EscapesSource(t *testing.T) {
	recs := testutil.SampleDataset(t).Records()
	ds := dataset.FromRecords("x`<script>alert(1)</script>`<img src=x onerror=alert(2)>", recs)
	rep, err := report.Build(ds)
	require.NoError(t, err)
	page, err := rep.HTML()
	require.NoError(t, err)
	html := string(page)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestWriteCharts(t *testing.T) {
	rep, err := report.Build(testutil.SampleDataset(t))
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := rep.WriteCharts(context.Background(), dir, chart.FormatSVG, chart.Size{Width: 400, Height: 300})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "mpg-distribution.svg"),
		filepath.Join(dir, "mpg-by-origin.svg"),
		filepath.Join(dir, "mpg-by-model-year.svg"),
	}, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestBuild_EmptyDataset(t *testing.T) {
	rep, err := report.Build(dataset.FromRecords("empty", nil))
	require.NoError(t, err)
	md := rep.Markdown()
	assert.Contains(t, md, "0 vehicles")
	paths, err := rep.WriteCharts(context.Background(), t.TempDir(), chart.FormatPNG, chart.Size{})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStrength(t *testing.T) {
	assert.Equal(t, "strong negative", report.Strength(-0.83))
	assert.Equal(t, "moderate positive", report.Strength(0.58))
	assert.Equal(t, "weak negative", report.Strength(-0.2))
	assert.Equal(t, "negligible", report.Strength(0.05))
}
