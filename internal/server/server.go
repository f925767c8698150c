// Package server exposes the dashboard over HTTP: catalog, filtered
// records, summaries, correlation, charts and the narrative report.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/report"
)

// Options configures the HTTP surface.
type Options struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	// Bins is the histogram bin count used when a request does not set one.
	Bins      int
	ChartSize chart.Size
	// ChartRPS limits chart requests per second across all clients; zero
	// disables the limit. ChartBurst defaults to twice the rate.
	ChartRPS   float64
	ChartBurst int
}

// Server serves one loaded base table. Handlers only read it.
type Server struct {
	base    *dataset.Dataset
	opt     Options
	logger  *slog.Logger
	metrics *metrics
	router  chi.Router

	reportOnce sync.Once
	report     *report.Report
	reportErr  error
}

// New builds the router for base. base must already be loaded.
func New(base *dataset.Dataset, opt Options) *Server {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 30 * time.Second
	}
	if opt.Bins <= 0 {
		opt.Bins = chart.DefaultBins
	}
	if opt.ChartSize.Width <= 0 || opt.ChartSize.Height <= 0 {
		opt.ChartSize = chart.DefaultSize
	}
	s := &Server{
		base:    base,
		opt:     opt,
		logger:  opt.Logger.With(slog.String("component", "http")),
		metrics: newMetrics(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metrics.handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.opt.RequestTimeout))
		r.Get("/report", s.reportHTML)
		r.Get("/report.md", s.reportMarkdown)

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/catalog", s.catalog)
			r.Get("/records", s.records)
			r.Get("/summary", s.summary)
			r.Get("/correlation", s.correlation)
			r.With(rateLimit(s.opt.ChartRPS, s.opt.ChartBurst, s.logger)).Get("/charts/{kind}", s.chart)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, newProblem(http.StatusNotFound, "Not Found", "no route for "+r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr), slog.String("dataset_id", s.base.ID))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// narrative builds the report on first use and keeps it for later requests.
func (s *Server) narrative() (*report.Report, error) {
	s.reportOnce.Do(func() {
		s.report, s.reportErr = report.Build(s.base)
	})
	return s.report, s.reportErr
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			level := slog.LevelInfo
			if ww.Status() >= 500 {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "request completed",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
