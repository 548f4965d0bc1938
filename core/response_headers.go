package core

import (
	"net/http"
)

// HeadersJson are set on every API response.
var HeadersJson = map[string]string{
	"Content-Type": "application/json; charset=utf-8",

	// Stop browsers from sniffing a different content type.
	"X-Content-Type-Options": "nosniff",

	// Responses carry tokens and profile data: never cache.
	"Cache-Control": "no-store, no-cache, must-revalidate",

	"X-Frame-Options": "DENY",

	// JSON is never a document; forbid loading and framing anything.
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

// setHeaders applies one or more sets of headers to the response writer.
// Headers from later maps will overwrite headers from earlier maps if keys conflict.
func setHeaders(w http.ResponseWriter, headers ...map[string]string) {
	for _, headerMap := range headers {
		for key, value := range headerMap {
			w.Header().Set(key, value)
		}
	}
}
