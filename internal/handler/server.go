// Package handler implements the HTTP handlers for the Trip Share API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies. Routes wires them onto a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/middleware"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip, profile domain.ProfileUpdate) (domain.Trip, error)
	Overview(ctx context.Context, userID uuid.UUID) (domain.TripOverview, error)
	Available(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	Get(ctx context.Context, viewerID, tripID uuid.UUID) (domain.TripDetail, error)
	GetOwned(ctx context.Context, ownerID, tripID uuid.UUID) (domain.TripEdit, error)
	Update(ctx context.Context, ownerID uuid.UUID, trip domain.Trip, profile domain.ProfileUpdate) (domain.Trip, error)
	Delete(ctx context.Context, ownerID, tripID uuid.UUID) error
}

// BookingServicer defines the seat booking operations.
type BookingServicer interface {
	Book(ctx context.Context, userID, tripID uuid.UUID) (domain.Booking, error)
	Unbook(ctx context.Context, userID, tripID uuid.UUID) error
	Booked(ctx context.Context, userID uuid.UUID) ([]domain.BookedTrip, error)
}

// UserServicer defines the account operations.
type UserServicer interface {
	Register(ctx context.Context, in domain.Registration) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (domain.User, error)
	Aggregate(ctx context.Context, id uuid.UUID) (domain.UserAggregate, error)
}

// ExportServicer defines the manifest export operation.
type ExportServicer interface {
	Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds every service the HTTP handlers call.
type Server struct {
	trips    TripServicer
	bookings BookingServicer
	users    UserServicer
	export   ExportServicer
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, bookings BookingServicer, users UserServicer, export ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, bookings: bookings, users: users, export: export, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Routes returns the API router. Health, the OpenAPI document, registration
// and login are public; everything else requires the caller's user ID header.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Post("/users", s.RegisterUser)
	r.Post("/users/login", s.LoginUser)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/users/me", s.GetCurrentUser)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.GetTripOverview)
			r.Post("/", s.CreateTrip)
			r.Get("/new", s.GetNewTripForm)
			r.Get("/available", s.ListAvailableTrips)
			r.Get("/booked", s.ListBookedTrips)
			r.Delete("/booked/{tripId}", s.UnbookTrip)
			r.Get("/export", s.GetExport)

			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				r.Get("/edit", s.GetTripEdit)
				r.Post("/book", s.BookTrip)
			})
		})
	})

	return r
}
