package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/query"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Param     string `json:"param,omitempty"`
}

const (
	typeValidation  = "/errors/validation"
	typeNotFound    = "/errors/not-found"
	typeUnsupported = "/errors/unsupported-media-type"
	typeNoData      = "/errors/no-data"
	typeRateLimit   = "/errors/rate-limit"
	typeInternal    = "/errors/internal"
)

func newProblem(status int, title, detail string) *Problem {
	typ := typeInternal
	switch status {
	case http.StatusBadRequest:
		typ = typeValidation
	case http.StatusNotFound:
		typ = typeNotFound
	case http.StatusUnsupportedMediaType:
		typ = typeUnsupported
	case http.StatusUnprocessableEntity:
		typ = typeNoData
	case http.StatusTooManyRequests:
		typ = typeRateLimit
	}
	return &Problem{Type: typ, Title: title, Status: status, Detail: detail}
}

// Render implements render.Renderer.
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	if p.Instance == "" {
		p.Instance = r.URL.Path
	}
	p.RequestID = middleware.GetReqID(r.Context())
	render.Status(r, p.Status)
	return nil
}

// problemFor maps domain errors onto HTTP statuses.
func problemFor(err error) *Problem {
	var inErr *query.InputError
	switch {
	case errors.As(err, &inErr):
		p := newProblem(http.StatusBadRequest, "Invalid Parameter", err.Error())
		p.Param = inErr.Param
		return p
	case errors.Is(err, chart.ErrUnknownField), errors.Is(err, chart.ErrInvalidSpec):
		return newProblem(http.StatusBadRequest, "Invalid Chart Specification", err.Error())
	case errors.Is(err, chart.ErrUnknownKind):
		return newProblem(http.StatusNotFound, "Unknown Chart Kind", err.Error())
	case errors.Is(err, chart.ErrUnsupported):
		return newProblem(http.StatusUnsupportedMediaType, "Unsupported Output", err.Error())
	case errors.Is(err, chart.ErrNoData):
		return newProblem(http.StatusUnprocessableEntity, "Nothing To Draw", err.Error())
	}
	return newProblem(http.StatusInternalServerError, "Internal Server Error", "the request could not be completed")
}

func writeProblem(w http.ResponseWriter, r *http.Request, p *Problem) {
	_ = render.Render(w, r, p)
}
