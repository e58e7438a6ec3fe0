package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-share/backend/internal/domain"
)

// BookTrip handles POST /trips/{tripId}/book.
// Rule violations come back as 409 with codes own_trip, no_seats or
// already_booked.
func (s *Server) BookTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	b, err := s.bookings.Book(r.Context(), userID, tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, Booking{TripID: b.TripID, UserID: b.UserID, CreatedAt: b.CreatedAt})
}

// UnbookTrip handles DELETE /trips/booked/{tripId}.
func (s *Server) UnbookTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	if err := s.bookings.Unbook(r.Context(), userID, tripID); err != nil {
		s.writeServiceError(w, r, err, "booking not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookedTrips handles GET /trips/booked.
func (s *Server) ListBookedTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	trips, err := s.bookings.Booked(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	out := make([]BookedTrip, len(trips))
	for i, t := range trips {
		out[i] = bookedTripToResponse(t)
	}
	writeJSON(w, http.StatusOK, BookedTripList{BookedTrips: out})
}

func bookedTripToResponse(t domain.BookedTrip) BookedTrip {
	resp := BookedTrip{
		ID:            t.TripID,
		OwnerID:       t.OwnerID,
		StartLocation: t.StartLocation,
		Date:          openapi_types.Date{Time: t.Date},
		BookedAt:      t.BookedAt,
	}
	if t.EndLocation != "" {
		resp.EndLocation = &t.EndLocation
	}
	return resp
}
