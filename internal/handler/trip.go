package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-share/backend/internal/domain"
)

// GetTripOverview handles GET /trips: the requester, their own trips and
// every trip offered by someone else.
func (s *Server) GetTripOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ov, err := s.trips.Overview(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, TripOverview{
		User:           userToResponse(ov.User),
		Trips:          tripsToResponse(ov.Mine),
		AvailableTrips: tripsToResponse(ov.Available),
	})
}

// GetNewTripForm handles GET /trips/new. It returns the requester's profile so
// a client can prefill the profile fields of the trip form.
func (s *Server) GetNewTripForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := s.users.Get(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, NewTripForm{User: userToResponse(user)})
}

// ListAvailableTrips handles GET /trips/available.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListAvailableTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var page, limit *int
	if !queryParam(w, r, "page", &page) || !queryParam(w, r, "limit", &limit) {
		return
	}

	params := domain.NewPaginationParams(page, limit)
	result, err := s.trips.Available(r.Context(), userID, params)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: tripsToResponse(result.Items),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(result.Total),
		},
	})
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	trip, profile, msg := requestToTrip(body)
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(r, msg))
		return
	}

	created, err := s.trips.Create(r.Context(), userID, trip, profile)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// GetTrip handles GET /trips/{tripId}. Any user may view any trip.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	detail, err := s.trips.Get(r.Context(), userID, tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, TripDetail{
		Trip:                   tripToResponse(detail.Trip),
		Owner:                  userToResponse(detail.Owner),
		BookedByCurrentUser:    detail.BookedByViewer,
		CurrentUserBookedTrips: detail.ViewerBookedTrips,
	})
}

// GetTripEdit handles GET /trips/{tripId}/edit. Only the owner may load it.
func (s *Server) GetTripEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	edit, err := s.trips.GetOwned(r.Context(), userID, tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, TripEdit{
		Trip: tripToResponse(edit.Trip),
		User: userToResponse(edit.User),
	})
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	trip, profile, msg := requestToTrip(body)
	if msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(r, msg))
		return
	}
	trip.ID = tripID

	updated, err := s.trips.Update(r.Context(), userID, trip, profile)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripId}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), userID, tripID); err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a TripRequest body into a domain.Trip and the
// profile fields sent alongside it. A non-empty msg reports a missing field.
func requestToTrip(body TripRequest) (domain.Trip, domain.ProfileUpdate, string) {
	if body.AvailableSeats == nil {
		return domain.Trip{}, domain.ProfileUpdate{}, "available_seats is required"
	}
	t := domain.Trip{
		StartLocation:  body.StartLocation,
		AvailableSeats: *body.AvailableSeats,
	}
	if body.EndLocation != nil {
		t.EndLocation = *body.EndLocation
	}
	if body.Date != nil {
		t.Date = body.Date.Time
	}
	if body.Notes != nil {
		t.Notes = *body.Notes
	}

	p := domain.ProfileUpdate{Name: body.Name, Age: body.Age}
	if body.Email != nil {
		e := string(*body.Email)
		p.Email = &e
	}
	if body.Gender != nil {
		g := domain.Gender(*body.Gender)
		p.Gender = &g
	}
	return t, p, ""
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		ID:             t.ID,
		OwnerID:        t.OwnerID,
		StartLocation:  t.StartLocation,
		AvailableSeats: t.AvailableSeats,
		Date:           openapi_types.Date{Time: t.Date},
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.EndLocation != "" {
		resp.EndLocation = &t.EndLocation
	}
	if t.Notes != "" {
		resp.Notes = &t.Notes
	}
	return resp
}

func tripsToResponse(trips []domain.Trip) []Trip {
	out := make([]Trip, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}
