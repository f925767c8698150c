package server

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/autompg-cli/internal/analysis"
	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/query"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":     "ok",
		"dataset_id": s.base.ID,
		"rows":       s.base.Len(),
	})
}

func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, query.CatalogOf(s.base))
}

// view applies the filters in the query string. It writes the problem and
// returns false on bad input.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*dataset.View, query.Filter, bool) {
	f, err := query.ParseFilter(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return nil, f, false
	}
	v := query.Apply(s.base, f)
	s.metrics.viewRows.Observe(float64(v.Len()))
	return v, f, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err)
	if p.Status >= 500 {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeProblem(w, r, p)
}

type recordsResponse struct {
	Filter     string           `json:"filter"`
	Predicates []string         `json:"predicates"`
	Rows       int              `json:"rows"`
	Records    []dataset.Record `json:"records"`
}

func (s *Server) records(w http.ResponseWriter, r *http.Request) {
	v, f, ok := s.view(w, r)
	if !ok {
		return
	}
	preds := v.Predicates
	if preds == nil {
		preds = []string{}
	}
	render.JSON(w, r, recordsResponse{
		Filter:     f.String(),
		Predicates: preds,
		Rows:       v.Len(),
		Records:    v.Records(),
	})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	v, f, ok := s.view(w, r)
	if !ok {
		return
	}
	opt := analysis.DefaultOptions()
	opt.Name = f.String()
	rep := analysis.Summarize(v, opt)
	if strings.EqualFold(r.URL.Query().Get("format"), "md") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(rep.Markdown()))
		return
	}
	render.JSON(w, r, rep)
}

type correlationResponse struct {
	Filter string               `json:"filter"`
	Rows   int                  `json:"rows"`
	Matrix *analysis.CorrMatrix `json:"matrix"`
	Top    []analysis.PairCorr  `json:"top_pairs"`
}

func (s *Server) correlation(w http.ResponseWriter, r *http.Request) {
	v, f, ok := s.view(w, r)
	if !ok {
		return
	}
	m := analysis.Correlation(v, dataset.NumericFields())
	top := m.TopPairs(5)
	if top == nil {
		top = []analysis.PairCorr{}
	}
	render.JSON(w, r, correlationResponse{Filter: f.String(), Rows: v.Len(), Matrix: m, Top: top})
}

// chartSpec reads x, y, color, bins, trendline and title from the query.
func (s *Server) chartSpec(kind chart.Kind, r *http.Request) (chart.Spec, error) {
	q := r.URL.Query()
	spec := chart.Spec{
		Kind:  kind,
		X:     q.Get("x"),
		Y:     q.Get("y"),
		Color: q.Get("color"),
		Title: q.Get("title"),
		Bins:  s.opt.Bins,
	}
	if raw := q.Get("bins"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return spec, &query.InputError{Param: "bins", Value: raw, Err: err}
		}
		spec.Bins = n
	}
	if raw := q.Get("trendline"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return spec, &query.InputError{Param: "trendline", Value: raw, Err: err}
		}
		spec.Trendline = b
	}
	return spec, nil
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	spec, err := s.chartSpec(kind, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, _, ok := s.view(w, r)
	if !ok {
		return
	}
	fig, err := chart.Build(v, spec)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" || format == "json" {
		s.metrics.chartBuilds.WithLabelValues(string(kind), "json").Inc()
		render.JSON(w, r, fig)
		return
	}
	f, err := chart.ParseFormat(format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf, fig, f, s.opt.ChartSize); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.chartBuilds.WithLabelValues(string(kind), string(f)).Inc()
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) reportHTML(w http.ResponseWriter, r *http.Request) {
	rep, err := s.narrative()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := rep.HTML()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) reportMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, err := s.narrative()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(rep.Markdown()))
}
