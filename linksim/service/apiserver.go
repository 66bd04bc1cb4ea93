package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yaron8/microlink/linksim/config"
	"github.com/yaron8/microlink/linksim/simulator"
)

type APIServer struct {
	simulator *simulator.Simulator
	config    *config.Config
	server    *http.Server
	logger    *slog.Logger
	now       func() time.Time
}

func NewAPIServer(config *config.Config, sim *simulator.Simulator, logger *slog.Logger) *APIServer {
	api := &APIServer{
		config:    config,
		simulator: sim,
		logger:    logger,
		now:       time.Now,
	}

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

	mux.HandleFunc("GET /metrics", api.metricsHandler)

	return api.middleware(mux)
}

// Start starts the HTTP server and blocks until it is shut down
func (api *APIServer) Start() error {
	api.logger.Info("Link simulator APIServer starting", "port", api.config.Port, "seed", api.simulator.Seed())

	if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (api *APIServer) Shutdown(ctx context.Context) error {
	return api.server.Shutdown(ctx)
}
