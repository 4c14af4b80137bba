// Package server exposes graph generation over HTTP.
//
// Routes:
//
//	POST /v1/generate   generate a graph and render artifacts
//	GET  /v1/models     list models, layouts and weight distributions
//	GET  /healthz       liveness
//	GET  /metrics       Prometheus metrics
//
// Error responses carry the error code from pkg/errors. CONFIG_ERROR and
// INVALID_FORMAT map to 400, GENERATION_ERROR to 422 and everything else to
// 500.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/graphsynth/pkg/buildinfo"
	"github.com/matzehuels/graphsynth/pkg/errors"
	"github.com/matzehuels/graphsynth/pkg/layout"
	"github.com/matzehuels/graphsynth/pkg/models"
	"github.com/matzehuels/graphsynth/pkg/observability"
	"github.com/matzehuels/graphsynth/pkg/pipeline"
	"github.com/matzehuels/graphsynth/pkg/weights"
)

const (
	// MaxBodyBytes bounds a generate request body.
	MaxBodyBytes = 1 << 20

	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	gatherer prometheus.Gatherer
}

// New creates a server around runner. Metrics are served from gatherer;
// a nil gatherer serves the default registry.
func New(runner *pipeline.Runner, logger *log.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{runner: runner, logger: logger, gatherer: gatherer}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", s.generate)
		r.Get("/models", s.models)
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

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

// generateRequest is a Config with render options alongside. Omitted config
// fields take their defaults.
type generateRequest struct {
	pipeline.Config
	Formats []string `json:"formats"`
	Labels  bool     `json:"labels"`

	EdgeLabels bool `json:"edge_labels"`
}

type generateResponse struct {
	RequestID string           `json:"request_id"`
	Summary   pipeline.Summary `json:"summary"`

	// Artifacts holds text formats verbatim and PNG as base64.
	Artifacts map[string]string `json:"artifacts"`
	Cached    bool              `json:"cached"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	req := generateRequest{Config: pipeline.DefaultConfig()}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeConfig, err, "invalid request body"))
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Config:  req.Config,
		Formats: req.Formats,
		Labels:     req.Labels,
		EdgeLabels: req.EdgeLabels,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := generateResponse{
		RequestID: requestIDFrom(r.Context()),
		Summary:   res.Graph.Summary(),
		Artifacts: make(map[string]string, len(res.Artifacts)),
		Cached:    res.CacheInfo.RenderHit,
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatPNG {
			out.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
			continue
		}
		out.Artifacts[format] = string(data)
	}
	s.respondJSON(w, http.StatusOK, out)
}

type catalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type catalog struct {
	Models        []catalogEntry `json:"models"`
	Layouts       []string       `json:"layouts"`
	Distributions []string       `json:"distributions"`
	Formats       []string       `json:"formats"`
}

func (s *Server) models(w http.ResponseWriter, _ *http.Request) {
	c := catalog{
		Layouts:       layout.Names(),
		Distributions: weights.Names(),
		Formats:       pipeline.Formats,
	}
	for _, k := range models.Kinds() {
		c.Models = append(c.Models, catalogEntry{Name: k.String(), Description: k.Description()})
	}
	s.respondJSON(w, http.StatusOK, c)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error     bool   `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfig, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeGeneration:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	s.respondJSON(w, status, errorResponse{
		Error:     true,
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID propagates the caller's X-Request-ID or assigns a UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// observe reports each request to the HTTP hooks and the logger. The route
// label is the chi pattern, so ids in paths do not explode cardinality.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status,
			"duration", d, "request_id", requestIDFrom(r.Context()))
	})
}
