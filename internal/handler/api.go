package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types for the JSON API, mirroring the schemas in spec/openapi.yaml.
// Optional fields are pointers so an absent field can be told apart from a
// zero value.

// ErrorResponse is the envelope of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// User is the public view of a user. The password hash is never included.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      *string   `json:"name,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Age       *int      `json:"age,omitempty"`
	Gender    *string   `json:"gender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserAggregate is a user with the trips they own and the IDs of the trips
// they have booked.
type UserAggregate struct {
	User
	Trips       []Trip      `json:"trips"`
	BookedTrips []uuid.UUID `json:"booked_trips"`
}

type RegisterRequest struct {
	Username string               `json:"username"`
	Password string               `json:"password"`
	Name     *string              `json:"name,omitempty"`
	Email    *openapi_types.Email `json:"email,omitempty"`
	Age      *int                 `json:"age,omitempty"`
	Gender   *string              `json:"gender,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Trip struct {
	ID             uuid.UUID          `json:"id"`
	OwnerID        uuid.UUID          `json:"owner_id"`
	StartLocation  string             `json:"start_location"`
	EndLocation    *string            `json:"end_location,omitempty"`
	AvailableSeats int                `json:"available_seats"`
	Date           openapi_types.Date `json:"date"`
	Notes          *string            `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// TripRequest is the body of POST /trips and PUT /trips/{tripId}. The profile
// fields at the bottom are written to the requesting user when present.
type TripRequest struct {
	StartLocation  string              `json:"start_location"`
	EndLocation    *string             `json:"end_location,omitempty"`
	AvailableSeats *int                `json:"available_seats"`
	Date           *openapi_types.Date `json:"date"`
	Notes          *string             `json:"notes,omitempty"`

	Name   *string              `json:"name,omitempty"`
	Email  *openapi_types.Email `json:"email,omitempty"`
	Age    *int                 `json:"age,omitempty"`
	Gender *string              `json:"gender,omitempty"`
}

type TripOverview struct {
	User           User   `json:"user"`
	Trips          []Trip `json:"trips"`
	AvailableTrips []Trip `json:"available_trips"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type TripDetail struct {
	Trip                   Trip        `json:"trip"`
	Owner                  User        `json:"owner"`
	BookedByCurrentUser    bool        `json:"booked_by_current_user"`
	CurrentUserBookedTrips []uuid.UUID `json:"current_user_booked_trips"`
}

type TripEdit struct {
	Trip Trip `json:"trip"`
	User User `json:"user"`
}

type NewTripForm struct {
	User User `json:"user"`
}

type Booking struct {
	TripID    uuid.UUID `json:"trip_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type BookedTrip struct {
	ID            uuid.UUID          `json:"id"`
	OwnerID       uuid.UUID          `json:"owner_id"`
	StartLocation string             `json:"start_location"`
	EndLocation   *string            `json:"end_location,omitempty"`
	Date          openapi_types.Date `json:"date"`
	BookedAt      time.Time          `json:"booked_at"`
}

type BookedTripList struct {
	BookedTrips []BookedTrip `json:"booked_trips"`
}

type ExportRow struct {
	TripID            uuid.UUID          `json:"trip_id"`
	StartLocation     string             `json:"start_location"`
	EndLocation       *string            `json:"end_location,omitempty"`
	TripDate          openapi_types.Date `json:"trip_date"`
	AvailableSeats    int                `json:"available_seats"`
	PassengerUsername *string            `json:"passenger_username,omitempty"`
	PassengerName     *string            `json:"passenger_name,omitempty"`
	PassengerEmail    *string            `json:"passenger_email,omitempty"`
	BookedAt          *time.Time         `json:"booked_at,omitempty"`
}
