package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/medroute/pilot/internal/interfaces"
)

// Logging writes one entry per request with its status, size and latency.
func Logging(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", m.Code,
				"size", m.Written,
				"latency", m.Duration.String(),
				"remote_addr", r.RemoteAddr,
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}
