package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sattvadev/fincast-ai-stock-predictor/internal/metrics"
)

// statusWriter wraps http.ResponseWriter to capture status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Metrics returns middleware that records Prometheus metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, path, strconv.Itoa(wrapped.status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, path,
		).Observe(duration)
	})
}

// normalizePath collapses id segments to avoid high cardinality in metrics.
func normalizePath(path string) string {
	switch {
	case path == "/api/users/deleteMany" || path == "/api/chats/deleteMany":
		return path
	case strings.HasPrefix(path, "/api/chats/") && strings.HasSuffix(path, "/messages"):
		return "/api/chats/:id/messages"
	case strings.HasPrefix(path, "/api/chats/") && len(path) > len("/api/chats/"):
		return "/api/chats/:id"
	case strings.HasPrefix(path, "/api/users/") && len(path) > len("/api/users/"):
		return "/api/users/:id"
	}
	return path
}
