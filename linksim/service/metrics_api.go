package service

import (
	"bytes"
	"net/http"

	"github.com/yaron8/microlink/linksim/simulator"
)

// metricsHandler handles the /metrics endpoint
func (api *APIServer) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := api.simulator.Generate(api.now())

	var buf bytes.Buffer
	if err := simulator.WriteJSON(&buf, m); err != nil {
		api.logger.Error("Error rendering metrics", "error", err)
		http.Error(w, "Error rendering metrics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		api.logger.Error("Error writing metrics response", "error", err)
	}
}
