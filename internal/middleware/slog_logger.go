package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewSlogLogger returns a middleware that logs each request as a structured
// line via the provided slog.Logger. It captures method, path, HTTP status,
// duration, the request ID set by chi's RequestID middleware and, when the
// identity middleware ran, the requesting user. 5xx responses log at error
// level, everything else at info.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// WrapResponseWriter intercepts WriteHeader so we can read the
			// status code after the downstream handler has run.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// The identity middleware runs further down the chain, so it
			// reports the user back through this holder.
			holder := &userHolder{}
			next.ServeHTTP(ww, r.WithContext(withUserHolder(r.Context(), holder)))

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			if holder.set {
				attrs = append(attrs, "user_id", holder.id.String())
			}
			log.Log(r.Context(), level, "request", attrs...)
		})
	}
}
