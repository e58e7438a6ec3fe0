package domain

import "time"

// ExportRow is a single row in an owner's passenger manifest.
// It is a flat, denormalized view: one row per passenger, with trip fields
// repeated for every passenger on that trip. Trips with no passengers yield
// one row with zero values for all passenger fields.
type ExportRow struct {
	// Trip fields, repeated for every passenger on the trip.
	TripID         string
	StartLocation  string
	EndLocation    string
	TripDate       string // "2006-01-02" formatted date
	AvailableSeats int

	// Passenger fields, zero values when the trip has no bookings.
	PassengerUsername string
	PassengerName     string
	PassengerEmail    string
	BookedAt          *time.Time
}

// HasPassenger reports whether the row describes a booking rather than an
// empty trip.
func (r ExportRow) HasPassenger() bool {
	return r.PassengerUsername != ""
}
