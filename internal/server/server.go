package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/evemaps/pipecleaner/internal/api"
	"github.com/evemaps/pipecleaner/internal/config"
	"github.com/evemaps/pipecleaner/internal/engine"
	"github.com/evemaps/pipecleaner/internal/handlers"
	"github.com/evemaps/pipecleaner/internal/middleware"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	logger     logrus.FieldLogger
}

// New creates a new HTTP server with all routes and middleware.
func New(
	logger logrus.FieldLogger,
	cfg *config.Config,
	eng *engine.Engine,
) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	mux := http.NewServeMux()

	// Health endpoint (no middleware needed for simple health check)
	mux.HandleFunc("GET /health", handlers.Health())
	logger.WithField("route", "GET /health").Info("Registered route")

	// Metrics endpoint (Prometheus format)
	mux.Handle("GET /metrics", promhttp.Handler())
	logger.WithField("route", "GET /metrics").Info("Registered route")

	// Activity endpoints: the refreshing read and the cached read
	mux.Handle("GET /api/v1/activity", api.NewActivityHandler(eng, logger))
	logger.WithField("route", "GET /api/v1/activity").Info("Registered route")

	mux.Handle("GET /api/v1/activity/latest", api.NewLatestActivityHandler(eng, logger))
	logger.WithField("route", "GET /api/v1/activity/latest").Info("Registered route")

	// Sovereignty endpoint (cached read)
	mux.Handle("GET /api/v1/sovereignty", api.NewSovereigntyHandler(eng, logger))
	logger.WithField("route", "GET /api/v1/sovereignty").Info("Registered route")

	// Apply middleware chain: Logging → Metrics → CORS → Recovery
	handler := middleware.Logging(logger)(mux)
	handler = middleware.Metrics()(handler)
	handler = middleware.CORS()(handler)
	handler = middleware.Recovery(logger)(handler)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Start starts the HTTP server (blocking call).
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	return s.httpServer.Shutdown(ctx)
}
