package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yaron8/microlink/gateway/config"
	"github.com/yaron8/microlink/gateway/publisher"
	"github.com/yaron8/microlink/telemetrics"
)

// MetricsAcquirer is what the API needs from the acquisition layer.
type MetricsAcquirer interface {
	Fetch(ctx context.Context) telemetrics.LinkMetrics
	IsAvailable(ctx context.Context) bool
}

type APIServer struct {
	config    *config.Config
	server    *http.Server
	acquirer  MetricsAcquirer
	publisher publisher.Publisher
	logger    *slog.Logger
}

func NewAPIServer(config *config.Config, acquirer MetricsAcquirer, pub publisher.Publisher, logger *slog.Logger) *APIServer {
	if pub == nil {
		pub = publisher.Nop{}
	}
	api := &APIServer{
		config:    config,
		acquirer:  acquirer,
		publisher: pub,
		logger:    logger,
	}

	// Shutdown may run before Start
	api.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      api.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return api
}

// Handler returns the routed and wrapped HTTP handler
func (api *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			api.logger.Error("Error writing health check response", "error", err)
		}
	})

	// Metrics API
	mux.HandleFunc("GET /api/v1/metrics", api.GetMetricsHandler)
	mux.HandleFunc("POST /api/v1/metrics", api.PostMetricsHandler)
	mux.HandleFunc("GET /api/v1/metrics/health", api.MetricsHealthHandler)

	// Pages
	for route, page := range pages {
		mux.HandleFunc("GET "+route, api.pageHandler(page))
	}

	return api.middleware(mux)
}

// Start initializes and starts the HTTP server
func (api *APIServer) Start() error {
	api.logger.Info("Gateway APIServer starting",
		"port", api.config.Port,
		"mode", api.config.Simulator.Mode)

	if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		api.logger.Error("Server failed to start", "error", err, "port", api.config.Port)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server. Start returns once it is called.
func (api *APIServer) Shutdown(ctx context.Context) error {
	api.logger.Info("Gateway APIServer shutting down")
	return api.server.Shutdown(ctx)
}
