// Package server exposes hop, trim and weight queries over HTTP.
//
// A Server answers every request from one loaded [pipeline.Input]; the
// identity graph and frames are built once and shared by all requests.
//
//	GET /healthz
//	GET /v1/hops?origin=ada&parent=true&child=true
//	GET /v1/trim?origin=ada&max_hops=2&min_born=1800
//	GET /v1/weights?origin=ada&at=1843-09-01&at=1852
//
// Errors are returned as {"error": "...", "code": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/timeweave/pkg/buildinfo"
	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/observability"
	"github.com/matzehuels/timeweave/pkg/pipeline"
	"github.com/matzehuels/timeweave/pkg/report"
)

// Server serves queries against a single input.
type Server struct {
	Runner *pipeline.Runner
	Input  *pipeline.Input
	Logger *log.Logger
	// MaxHops applies when a request has no max_hops parameter.
	MaxHops int
}

// New creates a server. A nil logger uses the runner's.
func New(runner *pipeline.Runner, in *pipeline.Input, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{Runner: runner, Input: in, Logger: logger, MaxHops: pipeline.DefaultMaxHops}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.Logger))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/hops", s.hops)
		r.Get("/trim", s.trim)
		r.Get("/weights", s.weights)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("shutdown", "err", err)
		}
	}()

	s.Logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	<-done
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"build":     buildinfo.Get(),
		"timelines": len(s.Input.Timelines),
		"input":     s.Input.Hash,
	})
}

// HopsResponse is the body of /v1/hops.
type HopsResponse struct {
	Origin string           `json:"origin"`
	Edges  []string         `json:"edges,omitempty"`
	Hops   report.Distances `json:"hops"`
}

func (s *Server) hops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin := q.Get("origin")
	if err := errors.ValidateIdentityID(origin); err != nil {
		respondError(w, err)
		return
	}
	edges, err := edgeParams(q.Get)
	if err != nil {
		respondError(w, err)
		return
	}

	hops, err := s.Runner.Hops(r.Context(), s.Input, origin, edges)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, HopsResponse{Origin: origin, Edges: edges, Hops: report.FromHops(hops)})
}

func (s *Server) trim(w http.ResponseWriter, r *http.Request) {
	opts, err := s.analysisOptions(r)
	if err != nil {
		respondError(w, err)
		return
	}
	res, err := s.Runner.Analyze(r.Context(), s.Input, opts)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res.Report)
}

// WeightsResponse is the body of /v1/weights. Each probe's weights align
// with Timelines.
type WeightsResponse struct {
	Origin    string          `json:"origin"`
	Timelines []WeightedTitle `json:"timelines"`
	Probes    []report.Probe  `json:"probes"`
}

// WeightedTitle is a retained timeline and its baseline weight.
type WeightedTitle struct {
	Title    string  `json:"title"`
	Identity string  `json:"identity,omitempty"`
	Weight   float64 `json:"weight"`
}

func (s *Server) weights(w http.ResponseWriter, r *http.Request) {
	opts, err := s.analysisOptions(r)
	if err != nil {
		respondError(w, err)
		return
	}
	opts.Probes = r.URL.Query()["at"]
	if len(opts.Probes) == 0 {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "at least one at parameter is required"))
		return
	}

	res, err := s.Runner.Analyze(r.Context(), s.Input, opts)
	if err != nil {
		respondError(w, err)
		return
	}
	out := WeightsResponse{Origin: res.Report.Origin, Probes: res.Report.Probes}
	for _, t := range res.Report.Retained {
		out.Timelines = append(out.Timelines, WeightedTitle{Title: t.Title, Identity: t.Identity, Weight: t.Weight})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) analysisOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Origin:  q.Get("origin"),
		MaxHops: s.MaxHops,
		MinBorn: q.Get("min_born"),
		Logger:  s.Logger,
	}
	if err := errors.ValidateIdentityID(opts.Origin); err != nil {
		return opts, err
	}
	if v := q.Get("max_hops"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "max_hops must be an integer, got %q", v)
		}
		opts.MaxHops = n
	}
	edges, err := edgeParams(q.Get)
	if err != nil {
		return opts, err
	}
	opts.Edges = edges
	return opts, nil
}

// edgeParams collects the enabled edge flags. No flags at all returns nil,
// the origin's default edges; once any flag is given the result is non-nil,
// so all flags false disables every edge.
func edgeParams(get func(string) string) ([]string, error) {
	var edges []string
	for _, name := range []string{pipeline.EdgeParent, pipeline.EdgeChild, pipeline.EdgeMarriage, pipeline.EdgeLink} {
		v := get(name)
		if v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
		}
		if edges == nil {
			edges = []string{}
		}
		if on {
			edges = append(edges, name)
		}
	}
	return edges, nil
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			elapsed := time.Since(start)
			observability.Server().OnRequest(r.Context(), r.Method, route, ww.Status(), elapsed)
			logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", elapsed,
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case errors.IsLookup(err):
		return http.StatusNotFound
	case code == errors.ErrCodeInvalidInput, code == errors.ErrCodeInvalidDate:
		return http.StatusBadRequest
	case errors.IsDataConsistency(err), code == errors.ErrCodeInvalidDocument:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
