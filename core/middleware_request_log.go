package core

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

const requestLogMessage = "http_request"

var logTypeRequest = slog.String("type", "request")

// responseRecorder captures the status code. It starts at 200 because a
// handler that only writes a body never calls WriteHeader.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// cutStr limits string length by adding ellipsis if needed
func cutStr(str string, max int) string {
	if max > 0 && len(str) > max {
		return str[:max] + "..."
	}
	return str
}

// clientIP returns the request's remote address, or the first address of
// the configured proxy header when set and present.
func clientIP(r *http.Request, proxyHeader string) string {
	if proxyHeader != "" {
		if forwarded := r.Header.Get(proxyHeader); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if parsed, err := netip.ParseAddr(ip); err == nil {
		return parsed.String()
	}
	return ip
}

// RequestLog logs one line per request once the handler returns.
func (a *App) RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := a.Config()
		if !cfg.Log.Request.Activated {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		limits := cfg.Log.Request.Limits
		attrs := make([]any, 0, 12)
		attrs = append(attrs, logTypeRequest)
		attrs = append(attrs, slog.String("method", strings.ToUpper(r.Method)))
		attrs = append(attrs, slog.String("uri", cutStr(r.URL.RequestURI(), limits.URILength)))
		attrs = append(attrs, slog.Int("status", rec.status))
		attrs = append(attrs, slog.Int("bytes", rec.bytes))
		attrs = append(attrs, slog.String("duration", time.Since(start).String()))
		attrs = append(attrs, slog.String("remote_ip", cutStr(clientIP(r, cfg.Server.ClientIpProxyHeader), limits.RemoteIPLength)))
		attrs = append(attrs, slog.String("user_agent", cutStr(r.UserAgent(), limits.UserAgentLength)))
		attrs = append(attrs, slog.String("referer", cutStr(r.Referer(), limits.RefererLength)))
		attrs = append(attrs, slog.String("proto", r.Proto))
		attrs = append(attrs, slog.Int64("content_length", r.ContentLength))

		a.Logger().Info(requestLogMessage, attrs...)
	})
}
