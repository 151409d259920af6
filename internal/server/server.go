// Package server exposes the truss engine over HTTP.
//
// Routes:
//
//	POST /api/analyze           input record in, result record out
//	POST /api/project/analyze   project in, result record with summary out
//	POST /api/report/pdf        input record or project in, PDF report out
//	POST /api/report/xlsx       input record or project in, workbook out
//	GET  /api/materials         material presets and load combinations
//	GET  /healthz               liveness
//
// Request bodies are JSON unless the Content-Type names YAML, TOML or an
// XLSX workbook. Every analysis owns its model and system, so requests are
// served concurrently.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/alexiusacademia/gotruss/internal/config"
	"github.com/alexiusacademia/gotruss/internal/version"
)

// Server is the HTTP API.
type Server struct {
	cfg     *config.Config
	logger  *log.Logger
	router  *mux.Router
	limiter *IPRateLimiter
}

// New builds the server and its routes.
func New(cfg *config.Config, logger *log.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		router:  mux.NewRouter(),
		limiter: NewIPRateLimiter(rate.Limit(cfg.Server.Rate), cfg.Server.Burst),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(RequestID, Logging(s.logger))
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.limiter.LimitMiddleware, BodyLimit(s.cfg.Server.BodyLimit))

	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/project/analyze", s.handleProjectAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/report/pdf", s.handleReportPDF).Methods(http.MethodPost)
	api.HandleFunc("/report/xlsx", s.handleReportXLSX).Methods(http.MethodPost)
	api.HandleFunc("/materials", s.handleMaterials).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path}})
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.limiter.Run(sweepCtx, sweepInterval, clientIdle)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "version", version.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
