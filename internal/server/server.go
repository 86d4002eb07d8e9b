// Package server exposes ledger analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	AllowedOrigins []string
	ReportsBuffer  int // analysed reports kept for GET /v1/reports
	App            config.Config
	Log            zerolog.Logger
}

// Status is served at /v1/status.
type Status struct {
	StartedAt      time.Time `json:"started_at"`
	Analyses       int64     `json:"analyses"`
	Failures       int64     `json:"failures"`
	LastAnalysisAt time.Time `json:"last_analysis_at,omitzero"`
	LastError      string    `json:"last_error,omitempty"`
	ReportCount    int       `json:"report_count"`
	MaxUploadBytes int64     `json:"max_upload_bytes"`
}

// Server provides the HTTP API.
type Server struct {
	cfg    Config
	router *chi.Mux
	log    zerolog.Logger

	mu             sync.RWMutex
	startedAt      time.Time
	analyses       int64
	failures       int64
	lastAnalysisAt time.Time
	lastError      string
	reports        []*model.Report // oldest first, capped at ReportsBuffer
}

// New returns a server with routes and middleware installed.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.MaxUploadBytes < 1 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.ReportsBuffer < 1 {
		cfg.ReportsBuffer = 50
	}

	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		startedAt: time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/schema", s.handleSchema)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/reports", s.handleReports)
		r.Get("/reports/{id}", s.handleReport)
	})
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

// remember records a finished analysis and keeps the newest reports.
func (s *Server) remember(rep *model.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAnalysisAt = time.Now()
	if err != nil {
		s.failures++
		s.lastError = err.Error()
		return
	}
	s.analyses++
	s.reports = append(s.reports, rep)
	if extra := len(s.reports) - s.cfg.ReportsBuffer; extra > 0 {
		s.reports = append([]*model.Report(nil), s.reports[extra:]...)
	}
}

func (s *Server) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:      s.startedAt,
		Analyses:       s.analyses,
		Failures:       s.failures,
		LastAnalysisAt: s.lastAnalysisAt,
		LastError:      s.lastError,
		ReportCount:    len(s.reports),
		MaxUploadBytes: s.cfg.MaxUploadBytes,
	}
}

func (s *Server) findReport(id string) (*model.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].ID == id {
			return s.reports[i], true
		}
	}
	return nil, false
}
