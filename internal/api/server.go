// Package api exposes the reconciliation engine and the local product
// store over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api/handlers"
	"github.com/MertalpTasdelen/yeninesilevim/internal/api/middleware"
	"github.com/MertalpTasdelen/yeninesilevim/internal/application/report"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config        Config
	router        chi.Router
	httpServer    *http.Server
	logger        *slog.Logger
	repo          storage.Repository
	reportService *report.Service
}

// NewServer creates a new API server.
// If reportService is nil, report endpoints will not be available.
func NewServer(cfg Config, repo storage.Repository, reportService *report.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:        cfg,
		router:        chi.NewRouter(),
		logger:        logger,
		repo:          repo,
		reportService: reportService,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		// Product store
		productsHandler := handlers.NewProductsHandler(s.repo)
		r.Get("/products", productsHandler.List)
		r.Get("/products/{barcode}", productsHandler.Get)
		r.Put("/products", productsHandler.Upsert)

		// Report run history
		runsHandler := handlers.NewRunsHandler(s.repo)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)

		// Reconciliation reports
		if s.reportService != nil {
			reportsHandler := handlers.NewReportsHandler(s.reportService)
			r.Get("/reports/profit", reportsHandler.RunProfit)
			r.Post("/reports", reportsHandler.StartJob)
			r.Get("/reports", reportsHandler.ListJobs)
			r.Get("/reports/{jobId}", reportsHandler.GetJob)
			r.Delete("/reports/{jobId}", reportsHandler.CancelJob)
		}
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // synchronous report runs are slow
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
