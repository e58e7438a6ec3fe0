package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// UserIDHeader carries the requesting user's ID. It stands in for a session:
// clients obtain the ID from POST /users or POST /users/login.
const UserIDHeader = "X-User-ID"

type userIDKey struct{}

type userHolderKey struct{}

// userHolder lets an outer middleware (the request logger) see the user the
// identity middleware resolved further down the chain.
type userHolder struct {
	id  uuid.UUID
	set bool
}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, userHolderKey{}, h)
}

// WithUserID returns a copy of ctx carrying the requesting user's ID.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	if h, ok := ctx.Value(userHolderKey{}).(*userHolder); ok {
		h.id, h.set = id, true
	}
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromContext returns the requesting user's ID stored by RequireUser.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// RequireUser rejects requests without a well-formed X-User-ID header with a
// 401 JSON error and stores the parsed ID in the request context otherwise.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			writeUnauthorized(w, r, "missing "+UserIDHeader+" header")
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			writeUnauthorized(w, r, "malformed "+UserIDHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

// writeUnauthorized writes the API's standard error envelope. It is kept local
// so this package does not import the handler package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	body := map[string]any{
		"error": map[string]string{
			"code":       "unauthorized",
			"message":    message,
			"request_id": chimiddleware.GetReqID(r.Context()),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}
