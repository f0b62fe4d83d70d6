package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/PhanidrasGitHub/smart-expenses-tracker/internal/logging"
)

// probe endpoints are polled constantly and would drown out real traffic.
var quietPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

type responseMeter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (m *responseMeter) WriteHeader(code int) {
	m.status = code
	m.ResponseWriter.WriteHeader(code)
}

func (m *responseMeter) Write(p []byte) (int, error) {
	n, err := m.ResponseWriter.Write(p)
	m.bytes += n
	return n, err
}

// Logging seeds the request context with a logger bound to the request id,
// then emits one completion line per request. Server errors log at Error,
// client errors at Warn.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if quietPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		logger := slog.Default().With("request_id", RequestIDFromContext(r.Context()))
		r = r.WithContext(logging.WithLogger(r.Context(), logger))

		meter := &responseMeter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(meter, r)

		level := slog.LevelInfo
		switch {
		case meter.status >= 500:
			level = slog.LevelError
		case meter.status >= 400:
			level = slog.LevelWarn
		}

		logger.Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", meter.status,
			"bytes", meter.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
