// Package domain contains the core data types for the Trip Share application.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a journey offered by its owner. Other users book seats on it.
// Trips are a top-level entity keyed by ID; OwnerID points at the user who
// created it, so a trip can be found system-wide without knowing its owner.
type Trip struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	StartLocation  string
	EndLocation    string // empty when the destination is open
	AvailableSeats int
	Date           time.Time // calendar date, time of day is zero
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TripOverview is what a user sees on the trips landing page: their own trips
// and every trip offered by someone else.
type TripOverview struct {
	User      User
	Mine      []Trip
	Available []Trip
}

// TripDetail is a single trip as seen by a viewer, who may or may not own it.
type TripDetail struct {
	Trip  Trip
	Owner User

	// BookedByViewer reports whether the viewer holds a booking on Trip.
	BookedByViewer bool
	// ViewerBookedTrips lists every trip ID the viewer has booked.
	ViewerBookedTrips []uuid.UUID
}

// TripEdit carries the data needed to render the edit form of an owned trip.
type TripEdit struct {
	Trip Trip
	User User
}

// IsDateInPast reports whether date falls on a calendar day before now.
// Both values are compared as UTC dates, so a trip dated today is accepted.
func IsDateInPast(date, now time.Time) bool {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := date.UTC().Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).Before(today)
}
