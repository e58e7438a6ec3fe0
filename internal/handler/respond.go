package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-share/backend/internal/middleware"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON request body into dst. On failure it writes the
// error response itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(r, "request body is required"))
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(r, "payload_too_large", "request body too large"))
			return false
		}
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(r, "invalid request body: "+err.Error()))
		return false
	}
	return true
}

// pathUUID binds a UUID path parameter the same way oapi-codegen's generated
// wrappers do. On failure it writes a 400 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(r, fmt.Sprintf("invalid format for parameter %s", name)))
		return uuid.Nil, false
	}
	return id, true
}

// queryParam binds an optional query parameter into dst (a pointer to a
// pointer). On failure it writes a 400 and returns false.
func queryParam(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(r, fmt.Sprintf("invalid format for parameter %s", name)))
		return false
	}
	return true
}

// currentUser returns the requester placed in the context by
// middleware.RequireUser. Routes that call it are always mounted behind that
// middleware, so a missing ID is a wiring bug and answered with 401.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody(r, "unauthorized", "missing "+middleware.UserIDHeader+" header"))
		return uuid.Nil, false
	}
	return id, true
}
