package handler

import (
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/trip-share/backend/internal/domain"
)

// errorBody builds the standard error envelope, tagged with the request ID
// chi's RequestID middleware placed in the context.
func errorBody(r *http.Request, code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   message,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}}
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "trip not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(r *http.Request, message string) ErrorResponse {
	return errorBody(r, "not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(r *http.Request, err error) ErrorResponse {
	return errorBody(r, "validation_error", unwrapMessage(err))
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(r *http.Request, message string) ErrorResponse {
	return errorBody(r, "validation_error", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Update: validation error: date is required" → "date is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// writeServiceError maps a service error onto the HTTP error surface.
// notFound is the message used when err wraps domain.ErrNotFound.
// Anything unrecognised is logged and answered with 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrDateInPast):
		writeJSON(w, http.StatusBadRequest, validationBody(r, err))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(r, err))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(r, notFound))
	case errors.Is(err, domain.ErrNoSeats):
		writeJSON(w, http.StatusConflict, errorBody(r, "no_seats", "No available seats."))
	case errors.Is(err, domain.ErrAlreadyBooked):
		writeJSON(w, http.StatusConflict, errorBody(r, "already_booked", "You have already booked this trip."))
	case errors.Is(err, domain.ErrOwnTrip):
		writeJSON(w, http.StatusConflict, errorBody(r, "own_trip", "You cannot book your own trip."))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(r, "conflict", "username is already taken"))
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody(r, "unauthorized", "invalid username or password"))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody(r, "internal_error", "internal server error"))
	}
}
