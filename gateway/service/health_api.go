package service

import (
	"net/http"
	"time"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

type HealthResponse struct {
	Status             string `json:"status"`
	SimulatorAvailable bool   `json:"simulator_available"`
	// Timestamp is Unix milliseconds
	Timestamp int64 `json:"timestamp"`
}

func (api *APIServer) MetricsHealthHandler(w http.ResponseWriter, r *http.Request) {
	available := api.acquirer.IsAvailable(r.Context())

	status := statusHealthy
	if !available {
		status = statusDegraded
	}

	api.writeJSON(w, http.StatusOK, HealthResponse{
		Status:             status,
		SimulatorAvailable: available,
		Timestamp:          time.Now().UnixMilli(),
	})
}
