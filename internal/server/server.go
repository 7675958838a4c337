// Package server exposes interview sessions and the application log over HTTP.
package server

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/application"
	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
)

const maxBodyBytes = 1 << 20

// LogStore persists application records received by the sink endpoint.
type LogStore interface {
	Save(ctx context.Context, rec application.Record) error
	List(ctx context.Context) ([]application.Record, error)
}

// Deps aggregates server collaborators.
type Deps struct {
	Machine   *interview.Machine
	Scheduler interview.Scheduler
	Assembler *application.Assembler
	Submitter *application.Submitter
	Store     LogStore
	Logger    *zap.Logger
	Metrics   metrics.Recorder
	Gatherer  prometheus.Gatherer
	// Token, when set, is required as a bearer token on every /api/logs route.
	Token string
	NewID func() string
	// SessionIdleTimeout is how long a session survives without requests.
	// Completed sessions are evicted the same way once clients stop polling.
	SessionIdleTimeout time.Duration
	Now                func() time.Time
}

const defaultSessionIdleTimeout = 30 * time.Minute

// Server handles HTTP requests.
type Server struct {
	deps     Deps
	logger   *zap.Logger
	sessions *registry
}

func New(deps Deps) *Server {
	if deps.Machine == nil {
		deps.Machine = interview.NewMachine(interview.DefaultConfig())
	}
	if deps.Scheduler == nil {
		deps.Scheduler = interview.TimerScheduler{}
	}
	if deps.Assembler == nil {
		deps.Assembler = application.NewAssembler()
	}
	deps.Metrics = metrics.OrNop(deps.Metrics)
	if deps.SessionIdleTimeout <= 0 {
		deps.SessionIdleTimeout = defaultSessionIdleTimeout
	}
	if deps.Submitter == nil {
		deps.Submitter = application.NewSubmitter(nil, 0, deps.Logger, deps.Metrics)
	}

	log := logger.WithFields(deps.Logger, zap.String("component", "server"))

	return &Server{
		deps:     deps,
		logger:   log,
		sessions: newRegistry(deps.NewID, deps.Now),
	}
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/resume", s.handleResume)
	mux.HandleFunc("POST /api/sessions/{id}/manual", s.handleManual)
	mux.HandleFunc("POST /api/sessions/{id}/answer", s.handleAnswer)
	mux.HandleFunc("POST /api/sessions/{id}/toggle", s.handleToggle)
	mux.HandleFunc("POST /api/sessions/{id}/continue", s.handleContinue)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	mux.HandleFunc("POST /api/logs", s.handleCreateLog)
	mux.HandleFunc("GET /api/logs", s.handleListLogs)
	mux.HandleFunc("GET /api/logs/export", s.handleExportLogs)

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return s.loggingMiddleware(mux)
}

// EvictIdleSessions closes and forgets sessions idle for longer than
// SessionIdleTimeout. It returns the number of evicted sessions.
func (s *Server) EvictIdleSessions() int {
	cutoff := s.sessions.now().Add(-s.deps.SessionIdleTimeout)
	evicted := s.sessions.evictIdle(cutoff)
	for _, id := range evicted {
		s.logger.Info("session evicted", zap.String("session_id", id), zap.String("reason", "idle"))
	}
	return len(evicted)
}

// RunJanitor evicts idle sessions periodically until ctx is done.
func (s *Server) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(s.deps.SessionIdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictIdleSessions()
		}
	}
}

// Shutdown closes all sessions and waits for pending submissions.
func (s *Server) Shutdown() {
	s.sessions.closeAll()
	s.deps.Submitter.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// respondGzipJSON compresses the payload when the client accepts gzip.
func (s *Server) respondGzipJSON(w http.ResponseWriter, r *http.Request, payload any) {
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		s.respondJSON(w, http.StatusOK, payload)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Encoding", "gzip")
	w.WriteHeader(http.StatusOK)

	gz := gzip.NewWriter(w)
	defer gz.Close()
	if err := json.NewEncoder(gz).Encode(payload); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
