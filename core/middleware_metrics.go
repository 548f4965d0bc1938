package core

import "net/http"

// RecordMetrics counts every request by its final status code.
func (a *App) RecordMetrics(next http.Handler) http.Handler {
	if a.Metrics() == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.Metrics().RecordRequest(rec.status)
	})
}
