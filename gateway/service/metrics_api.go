package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yaron8/microlink/gateway/publisher"
	"github.com/yaron8/microlink/telemetrics"
)

const (
	maxRequestBody = 1 << 20
	publishTimeout = 500 * time.Millisecond
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GetMetricsHandler serves one snapshot. It is always 200 since Fetch never fails.
func (api *APIServer) GetMetricsHandler(w http.ResponseWriter, r *http.Request) {
	api.logger.Info("Received request for link metrics")

	metrics := api.acquirer.Fetch(r.Context())
	api.publish(r.Context(), publisher.OriginServed, metrics)

	api.writeJSON(w, http.StatusOK, metrics)
}

// PostMetricsHandler accepts an externally produced snapshot, acknowledges it
// and does not store it.
func (api *APIServer) PostMetricsHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		api.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Bad request",
			Message: fmt.Sprintf("Error reading body: %v", err),
		})
		return
	}

	metrics, err := telemetrics.Decode(body)
	if err == nil {
		err = metrics.Validate()
	}
	if err != nil {
		api.logger.Warn("Rejected external metrics", "error", err)
		api.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Bad request",
			Message: err.Error(),
		})
		return
	}

	api.logger.Info("Received external metrics", "metrics", metrics.String())
	api.publish(r.Context(), publisher.OriginReceived, metrics)

	api.writeJSON(w, http.StatusOK, ackResponse{
		Status:  "received",
		Message: "Metrics received successfully",
	})
}

func (api *APIServer) publish(ctx context.Context, origin publisher.Origin, metrics telemetrics.LinkMetrics) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := api.publisher.Publish(ctx, origin, metrics); err != nil {
		api.logger.Warn("Error publishing metrics", "origin", origin, "error", err)
	}
}

// writeJSON encodes before writing the header so an encoding failure can
// still be reported as a 500.
func (api *APIServer) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		api.writeInternalError(w, fmt.Errorf("error encoding response: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		api.logger.Error("Error writing response", "error", err)
	}
}

func (api *APIServer) writeInternalError(w http.ResponseWriter, err error) {
	api.logger.Error("Unexpected error", "error", err)

	// errorResponse holds only strings, marshalling cannot fail
	data, _ := json.Marshal(errorResponse{
		Error:   "Internal server error",
		Message: err.Error(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(data)
}
