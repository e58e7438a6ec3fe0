package handler

import (
	"net/http"

	"github.com/pkordes/trip-share/backend/internal/domain"
)

// RegisterUser handles POST /users.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !decodeBody(w, r, &body) {
		return
	}

	in := domain.Registration{Username: body.Username, Password: body.Password}
	if body.Name != nil {
		in.Profile.Name = *body.Name
	}
	if body.Email != nil {
		in.Profile.Email = string(*body.Email)
	}
	if body.Gender != nil {
		in.Profile.Gender = domain.Gender(*body.Gender)
	}
	in.Profile.Age = body.Age

	user, err := s.users.Register(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(user))
}

// LoginUser handles POST /users/login. A successful response carries the
// user's ID, which the client sends back in the X-User-ID header.
func (s *Server) LoginUser(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	user, err := s.users.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// GetCurrentUser handles GET /users/me.
func (s *Server) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	agg, err := s.users.Aggregate(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, UserAggregate{
		User:        userToResponse(agg.User),
		Trips:       tripsToResponse(agg.Trips),
		BookedTrips: agg.BookedTrips,
	})
}

// --- mapping helpers --------------------------------------------------------

// userToResponse converts a domain.User into its public view.
// Empty profile fields are omitted.
func userToResponse(u domain.User) User {
	resp := User{
		ID:        u.ID,
		Username:  u.Username,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Name != "" {
		resp.Name = &u.Name
	}
	if u.Email != "" {
		resp.Email = &u.Email
	}
	if u.Gender != "" {
		g := string(u.Gender)
		resp.Gender = &g
	}
	return resp
}
