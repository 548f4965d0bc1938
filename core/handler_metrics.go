package core

import (
	"net/http"
	"slices"
)

// MetricsHandler serves the Prometheus registry to the configured IPs.
// Disabled metrics and unknown clients both get a 404.
// Endpoint: GET /metrics
// Authenticated: No
func (a *App) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	cfg := a.Config()
	if !cfg.Metrics.Enabled || a.Metrics() == nil {
		writeJsonError(w, errorNotFound)
		return
	}

	ip := clientIP(r, cfg.Server.ClientIpProxyHeader)
	if !slices.Contains(cfg.Metrics.AllowedIPs, ip) {
		writeJsonError(w, errorNotFound)
		return
	}

	a.Metrics().Handler().ServeHTTP(w, r)
}
