package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/planmyoutings/outings/internal/auth"
	"github.com/planmyoutings/outings/internal/metrics"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const userIDKey contextKey = "user_id"

// UserID extracts the authenticated user ID from the context. Returns empty
// string when the request carried no valid token.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// optionalAuth validates a bearer token when one is present and stores the
// subject in the request context. Requests without a token pass through:
// the core contract identifies voters by the user_id in the body, and the
// JWT subject is only a fallback for authenticated clients.
func optionalAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if claims, err := jwtManager.Validate(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userIDKey, claims.UserID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs every request and feeds the Prometheus collectors,
// labeled by the chi route pattern rather than the raw path so tokens and
// ids do not explode metric cardinality.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)

		metrics.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())

		logFn := slog.Info
		if rec.status >= http.StatusInternalServerError {
			logFn = slog.Error
		}
		logFn("Request completed",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", duration.Milliseconds(),
		)
	})
}
