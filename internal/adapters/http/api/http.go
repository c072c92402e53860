// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/madness/internal/adapters/feed"
	service "github.com/okian/madness/internal/app"
	"github.com/okian/madness/internal/domain/bracket"
	"github.com/okian/madness/internal/domain/rating"
	"github.com/okian/madness/internal/domain/types"
	"github.com/okian/madness/internal/domain/weighting"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RatingsDependencies
	SegmentsDependencies
	BracketDependencies
	RefreshDependencies
}

// DefaultMaxLimit caps GET /ratings?limit when no WithMaxLimit option is given.
const DefaultMaxLimit = 400

// Option configures the Server.
type Option func(*Server)

// WithMaxLimit caps GET /ratings?limit.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxLimit int

	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	ratingsHandler  *RatingsHandler
	segmentsHandler *SegmentsHandler
	bracketHandler  *BracketHandler
	refreshHandler  *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxLimit: DefaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.ratingsHandler = NewRatingsHandler(deps, s.maxLimit)
	s.segmentsHandler = NewSegmentsHandler(deps)
	s.bracketHandler = NewBracketHandler(deps)
	s.refreshHandler = NewRefreshHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ratings", MetricsMiddleware(s.ratingsHandler.HandleGetRatings, "ratings"))
	mux.HandleFunc("/segments", MetricsMiddleware(s.segmentsHandler.HandleGetSegments, "segments"))
	mux.HandleFunc("/bracket/simulate", MetricsMiddleware(s.bracketHandler.HandleSimulate, "bracket_simulate"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Re-exported result shapes.
type (
	RatingsResult    = types.RatingsResult
	SimulationResult = types.SimulationResult
	SegmentsResult   = types.SegmentsResult
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates domain and upstream errors to a status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, weighting.ErrConfiguration):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, bracket.ErrLookup):
		writeError(w, http.StatusNotFound, "team_not_found", err)
	case errors.Is(err, service.ErrNoBracket):
		writeError(w, http.StatusNotFound, "no_bracket", err)
	case errors.Is(err, rating.ErrDataIntegrity):
		writeError(w, http.StatusUnprocessableEntity, "data_integrity", err)
	case errors.Is(err, rating.ErrSolve):
		writeError(w, http.StatusUnprocessableEntity, "solve_failed", err)
	case errors.Is(err, bracket.ErrMalformedBracket):
		writeError(w, http.StatusUnprocessableEntity, "malformed_bracket", err)
	case errors.Is(err, feed.ErrUpstream), errors.Is(err, feed.ErrParse):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
