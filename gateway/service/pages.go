package service

import (
	"embed"
	"net/http"
)

//go:embed web/*.html
var webFS embed.FS

// pages maps a route to its embedded HTML file
var pages = map[string]string{
	"/{$}":          "web/home.html",
	"/dashboard":    "web/dashboard.html",
	"/metrics-page": "web/metrics.html",
	"/health-page":  "web/health.html",
}

func (api *APIServer) pageHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := webFS.ReadFile(page)
		if err != nil {
			api.writeInternalError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			api.logger.Error("Error writing page", "page", page, "error", err)
		}
	}
}
