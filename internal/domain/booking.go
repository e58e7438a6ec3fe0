package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one user's claim on one seat of a trip they do not own.
// A user holds at most one booking per trip.
type Booking struct {
	TripID    uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// BookedTrip is the summary of a booked trip shown in a user's booked list.
type BookedTrip struct {
	TripID        uuid.UUID
	OwnerID       uuid.UUID
	StartLocation string
	EndLocation   string
	Date          time.Time
	BookedAt      time.Time
}

// Passenger is a user holding a booking on a trip, as seen by the trip owner.
type Passenger struct {
	TripID   uuid.UUID
	UserID   uuid.UUID
	Username string
	Name     string
	Email    string
	BookedAt time.Time
}
