package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing start location, negative seat count).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDateInPast is returned when a trip date falls before the current day.
// It wraps ErrValidation, but handlers check it first and map it to HTTP 400.
var ErrDateInPast = fmt.Errorf("%w: the trip date cannot be in the past", ErrValidation)

// ErrConflict is returned when a write collides with a unique constraint,
// e.g. registering a username that is already taken. Maps to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidCredentials is returned by login when the username is unknown or
// the password does not match. Maps to HTTP 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Booking rule violations. All map to HTTP 409 and leave state unchanged.
var (
	ErrNoSeats       = errors.New("no available seats")
	ErrAlreadyBooked = errors.New("trip already booked")
	ErrOwnTrip       = errors.New("cannot book own trip")
)
