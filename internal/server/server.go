package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/deusflow/newsletter/internal/logger"
	"github.com/deusflow/newsletter/internal/metrics"
	"github.com/deusflow/newsletter/internal/pipeline"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Runner builds a newsletter for a keyword.
type Runner interface {
	Run(ctx context.Context, keyword string) (*pipeline.Result, error)
}

// StatsProvider reports component statistics for /metrics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

type Options struct {
	RequestTimeout time.Duration
	Version        string
	// SummarizerStats is optional.
	SummarizerStats StatsProvider
}

type Server struct {
	runner  Runner
	metrics *metrics.Metrics
	opts    Options
}

func New(runner Runner, m *metrics.Metrics, opts Options) *Server {
	if m == nil {
		m = metrics.Global
	}
	return &Server{runner: runner, metrics: m, opts: opts}
}

type summarizeRequest struct {
	Keyword string `json:"keyword"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	r.HandleFunc("/summarize", s.summarizeHandler).Methods(http.MethodPost)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.metricsHandler).Methods(http.MethodGet)

	return r
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, map[string]string{"Version": s.opts.Version}); err != nil {
		logger.Error("Failed to render index", "error", err)
	}
}

func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncrementRequests()

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.metrics.IncrementFailedRequests()
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	res, err := s.runner.Run(ctx, req.Keyword)
	if err != nil {
		s.metrics.IncrementFailedRequests()
		s.metrics.SetError(err.Error())
		logger.Error("Newsletter generation failed", "keyword", req.Keyword, "error", err)

		if errors.Is(err, context.DeadlineExceeded) {
			WriteError(w, http.StatusGatewayTimeout, "newsletter generation timed out")
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to build newsletter")
		return
	}

	s.metrics.SetLastRun()
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: res.Text})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.metrics.GetStats()

	status := "ok"
	code := http.StatusOK
	if !s.metrics.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"version":    s.opts.Version,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.metrics.GetStats()
	if s.opts.SummarizerStats != nil {
		stats["summarizer"] = s.opts.SummarizerStats.GetStats()
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// WriteError sends {"error": message} with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
