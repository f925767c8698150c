package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autompg-cli/internal/logging"
	"github.com/KaramelBytes/autompg-cli/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.SampleDataset(t), Options{Logger: logging.Discard()})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, testutil.SampleRows, body["rows"])
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Rows          int      `json:"rows"`
		NumericFields []string `json:"numeric_fields"`
		Manufacturers []string `json:"manufacturers"`
	}
	decode(t, rec, &body)
	assert.Equal(t, testutil.SampleRows, body.Rows)
	assert.Len(t, body.NumericFields, 7)
	assert.Len(t, body.Manufacturers, 11)
}

func TestRecords_Filters(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		target string
		rows   int
	}{
		{"/api/records", testutil.SampleRows},
		{"/api/records?manufacturer=honda", 3},
		{"/api/records?year=70", 5},
		{"/api/records?year_from=77&year_to=78", 4},
		{"/api/records?manufacturer=honda&year=78", 2},
		{"/api/records?manufacturer=nobody", 0},
	}
	for _, tc := range cases {
		rec := get(t, s, tc.target)
		require.Equal(t, http.StatusOK, rec.Code, tc.target)
		var body recordsResponse
		decode(t, rec, &body)
		assert.Equal(t, tc.rows, body.Rows, tc.target)
		assert.Len(t, body.Records, tc.rows, tc.target)
	}
}

func TestRecords_EmptyViewIsAnArray(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/records?manufacturer=nobody")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"records":[]`)
}

func TestRecords_BadInputIsProblem(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{"/api/records?year=seventy", "/api/records?year_from=80&year_to=70"} {
		rec := get(t, s, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		var p Problem
		decode(t, rec, &p)
		assert.Equal(t, http.StatusBadRequest, p.Status)
		assert.Equal(t, typeValidation, p.Type)
		assert.NotEmpty(t, p.Param)
		assert.Equal(t, "/api/records", p.Instance)
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/summary?manufacturer=honda")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Name string `json:"name"`
		Rows int    `json:"rows"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Rows)
	assert.Contains(t, body.Name, "honda")

	rec = get(t, s, "/api/summary?format=md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[DATASET SUMMARY]")
}

func TestCorrelation(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/correlation")
	require.Equal(t, http.StatusOK, rec.Code)
	var body correlationResponse
	decode(t, rec, &body)
	assert.Len(t, body.Matrix.Columns, 7)
	assert.Len(t, body.Top, 5)

	rec = get(t, s, "/api/correlation?manufacturer=nobody")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, 0, body.Rows)
	assert.Empty(t, body.Top)
}

func TestChart_JSON(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts/scatter?x=Horsepower&y=MPG&trendline=true")
	require.Equal(t, http.StatusOK, rec.Code)
	var fig struct {
		Rows    int `json:"rows"`
		Skipped int `json:"skipped"`
		Traces  []struct {
			Name string `json:"name"`
		} `json:"traces"`
	}
	decode(t, rec, &fig)
	assert.Equal(t, testutil.SampleRows, fig.Rows)
	assert.Equal(t, 1, fig.Skipped)
	require.Len(t, fig.Traces, 3)
	assert.Equal(t, "USA", fig.Traces[0].Name)
}

func TestChart_EmptyViewJSON(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts/violin?manufacturer=nobody")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"traces":[]`)
}

func TestChart_Raster(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts/histogram?format=png&bins=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = get(t, s, "/api/charts/box?format=svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestChart_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	cases := map[string]int{
		"/api/charts/pie":                                http.StatusNotFound,
		"/api/charts/scatter?x=Torque":                   http.StatusBadRequest,
		"/api/charts/scatter?color=Car%20Name":           http.StatusBadRequest,
		"/api/charts/histogram?bins=many":                http.StatusBadRequest,
		"/api/charts/histogram?bins=1":                   http.StatusBadRequest,
		"/api/charts/scatter?trendline=maybe":            http.StatusBadRequest,
		"/api/charts/heatmap?format=png":                 http.StatusUnsupportedMediaType,
		"/api/charts/scatter?format=gif":                 http.StatusUnsupportedMediaType,
		"/api/charts/box?manufacturer=nobody&format=png": http.StatusUnprocessableEntity,
		"/api/charts/scatter?year=soon":                  http.StatusBadRequest,
	}
	for target, want := range cases {
		rec := get(t, s, target)
		assert.Equal(t, want, rec.Code, target)
		var p Problem
		decode(t, rec, &p)
		assert.Equal(t, want, p.Status, target)
	}
}

func TestReport(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Automobile Data Analysis Report")

	rec = get(t, s, "/report.md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "## 1.0 Introduction")

	first, _ := s.narrative()
	second, _ := s.narrative()
	assert.Same(t, first, second)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/api/records?manufacturer=honda")
	get(t, s, "/api/charts/scatter")
	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `autompg_http_requests_total{code="200",method="GET",route="/api/records"} 1`)
	assert.Contains(t, body, `autompg_chart_builds_total{format="json",kind="scatter"} 1`)
	assert.Contains(t, body, "autompg_view_rows_count 2")
}

func TestNotFoundIsProblem(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var p Problem
	decode(t, rec, &p)
	assert.Equal(t, typeNotFound, p.Type)
}

func TestChart_RateLimited(t *testing.T) {
	s := New(testutil.SampleDataset(t), Options{Logger: logging.Discard(), ChartRPS: 0.001, ChartBurst: 1})
	first := get(t, s, "/api/charts/scatter")
	require.Equal(t, http.StatusOK, first.Code)

	second := get(t, s, "/api/charts/scatter")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	var p Problem
	decode(t, second, &p)
	assert.Equal(t, typeRateLimit, p.Type)

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, get(t, s, "/api/catalog").Code)
}
