package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/repo"
)

// BookingService implements seat booking. Every state change locks the trip
// row and runs in one transaction, so the seat count and the booking record
// move together or not at all.
type BookingService struct {
	repos repo.Repos
	tx    repo.Transactor
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(repos repo.Repos, tx repo.Transactor) *BookingService {
	return &BookingService{repos: repos, tx: tx}
}

// Book claims one seat on tripID for userID.
// Rules are checked in order and the first violation leaves state unchanged:
//   - domain.ErrNotFound if the trip does not exist,
//   - domain.ErrOwnTrip if userID owns the trip,
//   - domain.ErrNoSeats if no seats are left,
//   - domain.ErrAlreadyBooked if userID already holds a booking on it.
func (s *BookingService) Book(ctx context.Context, userID, tripID uuid.UUID) (domain.Booking, error) {
	var booking domain.Booking
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByIDForUpdate(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.OwnerID == userID {
			return domain.ErrOwnTrip
		}
		if trip.AvailableSeats <= 0 {
			return domain.ErrNoSeats
		}
		booked, err := r.Bookings.Exists(ctx, tripID, userID)
		if err != nil {
			return err
		}
		if booked {
			return domain.ErrAlreadyBooked
		}

		if booking, err = r.Bookings.Create(ctx, tripID, userID); err != nil {
			return err
		}
		_, err = r.Trips.AdjustSeats(ctx, tripID, -1)
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Book: %w", err)
	}
	return booking, nil
}

// Unbook releases userID's seat on tripID and gives it back to the trip.
// Returns domain.ErrNotFound if the trip does not exist or userID holds no
// booking on it; the seat count is untouched in both cases.
func (s *BookingService) Unbook(ctx context.Context, userID, tripID uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetByIDForUpdate(ctx, tripID); err != nil {
			return err
		}
		if err := r.Bookings.Delete(ctx, tripID, userID); err != nil {
			return err
		}
		_, err := r.Trips.AdjustSeats(ctx, tripID, 1)
		return err
	})
	if err != nil {
		return fmt.Errorf("service.BookingService.Unbook: %w", err)
	}
	return nil
}

// Booked returns summaries of every trip userID has booked.
// Always returns a non-nil slice.
func (s *BookingService) Booked(ctx context.Context, userID uuid.UUID) ([]domain.BookedTrip, error) {
	trips, err := s.repos.Bookings.ListBookedTrips(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Booked: %w", err)
	}
	return nonNil(trips), nil
}
