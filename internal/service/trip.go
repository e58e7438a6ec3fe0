// Package service contains the business logic for the Trip Share API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces.
// The requesting user is always an explicit parameter; nothing reads it from
// ambient state.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-share/backend/internal/clock"
	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repos repo.Repos
	tx    repo.Transactor
	clock clock.Clock
}

// NewTripService constructs a TripService. Reads go through repos; writes that
// touch both the trip and its owner's profile run inside tx.
func NewTripService(repos repo.Repos, tx repo.Transactor, clk clock.Clock) *TripService {
	return &TripService{repos: repos, tx: tx, clock: clk}
}

// Create validates the trip, stamps ownerID on it and persists it. Any profile
// fields submitted with the trip form are written to the owner in the same
// transaction.
// Returns domain.ErrValidation (or domain.ErrDateInPast) for invalid input and
// domain.ErrNotFound if the owner does not exist.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip, profile domain.ProfileUpdate) (domain.Trip, error) {
	if err := s.validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if err := validateProfileUpdate(profile); err != nil {
		return domain.Trip{}, err
	}
	trip.OwnerID = ownerID

	var created domain.Trip
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		if err := applyProfile(ctx, r.Users, ownerID, profile); err != nil {
			return err
		}
		var err error
		created, err = r.Trips.Create(ctx, trip)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Overview returns the user's own trips and every trip offered by others.
// Returns domain.ErrNotFound if the user does not exist.
func (s *TripService) Overview(ctx context.Context, userID uuid.UUID) (domain.TripOverview, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return domain.TripOverview{}, fmt.Errorf("service.TripService.Overview: %w", err)
	}
	mine, err := s.repos.Trips.ListByOwner(ctx, userID)
	if err != nil {
		return domain.TripOverview{}, fmt.Errorf("service.TripService.Overview: %w", err)
	}
	available, err := s.repos.Trips.ListNotOwnedBy(ctx, userID)
	if err != nil {
		return domain.TripOverview{}, fmt.Errorf("service.TripService.Overview: %w", err)
	}
	return domain.TripOverview{User: user, Mine: nonNil(mine), Available: nonNil(available)}, nil
}

// Available returns one page of trips offered by users other than userID.
// Always returns a non-nil Items slice.
func (s *TripService) Available(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	trips, total, err := s.repos.Trips.ListNotOwnedByPaged(ctx, userID, p)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.Available: %w", err)
	}
	return domain.Page[domain.Trip]{Items: nonNil(trips), Total: total, PaginationParams: p}, nil
}

// Get returns a trip by ID regardless of owner, together with the owner and
// the viewer's booking state.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Get(ctx context.Context, viewerID, tripID uuid.UUID) (domain.TripDetail, error) {
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	owner, err := s.repos.Users.GetByID(ctx, trip.OwnerID)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: owner: %w", err)
	}
	booked, err := s.repos.Bookings.ListTripIDsByUser(ctx, viewerID)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}

	detail := domain.TripDetail{Trip: trip, Owner: owner, ViewerBookedTrips: nonNil(booked)}
	for _, id := range booked {
		if id == trip.ID {
			detail.BookedByViewer = true
			break
		}
	}
	return detail, nil
}

// GetOwned returns one of ownerID's own trips together with the owner, as the
// edit form needs both. A trip owned by someone else is reported as
// domain.ErrNotFound.
func (s *TripService) GetOwned(ctx context.Context, ownerID, tripID uuid.UUID) (domain.TripEdit, error) {
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.TripEdit{}, fmt.Errorf("service.TripService.GetOwned: %w", err)
	}
	if trip.OwnerID != ownerID {
		return domain.TripEdit{}, fmt.Errorf("service.TripService.GetOwned: %w", domain.ErrNotFound)
	}
	user, err := s.repos.Users.GetByID(ctx, ownerID)
	if err != nil {
		return domain.TripEdit{}, fmt.Errorf("service.TripService.GetOwned: %w", err)
	}
	return domain.TripEdit{Trip: trip, User: user}, nil
}

// Update validates and replaces the mutable fields of one of ownerID's trips,
// and applies any submitted profile fields to the owner.
// Returns domain.ErrDateInPast if the new date is before today, leaving the
// stored trip unchanged, and domain.ErrNotFound if ownerID owns no such trip.
func (s *TripService) Update(ctx context.Context, ownerID uuid.UUID, trip domain.Trip, profile domain.ProfileUpdate) (domain.Trip, error) {
	if err := s.validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if err := validateProfileUpdate(profile); err != nil {
		return domain.Trip{}, err
	}
	trip.OwnerID = ownerID

	var updated domain.Trip
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		var err error
		if updated, err = r.Trips.Update(ctx, trip); err != nil {
			return err
		}
		return applyProfile(ctx, r.Users, ownerID, profile)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes one of ownerID's trips. Bookings on it are removed too.
// Returns domain.ErrNotFound if ownerID owns no such trip.
func (s *TripService) Delete(ctx context.Context, ownerID, tripID uuid.UUID) error {
	if err := s.repos.Trips.Delete(ctx, ownerID, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - StartLocation must be non-empty (whitespace-only is rejected).
//   - AvailableSeats must fit an INTEGER column and not be negative.
//   - Date is required and must not be before today.
func (s *TripService) validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.StartLocation) == "" {
		return fmt.Errorf("%w: start_location is required", domain.ErrValidation)
	}
	if trip.AvailableSeats < 0 {
		return fmt.Errorf("%w: available_seats must not be negative", domain.ErrValidation)
	}
	if trip.AvailableSeats > maxStoredInt {
		return fmt.Errorf("%w: available_seats must be at most %d", domain.ErrValidation, maxStoredInt)
	}
	if trip.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if domain.IsDateInPast(trip.Date, s.clock.Now()) {
		return domain.ErrDateInPast
	}
	return nil
}

// validateProfileUpdate checks the optional profile fields sent with a trip form.
func validateProfileUpdate(p domain.ProfileUpdate) error {
	if p.Gender != nil && !p.Gender.Valid() {
		return fmt.Errorf("%w: gender must be one of male, female", domain.ErrValidation)
	}
	return validateAge(p.Age)
}

// applyProfile merges p into the stored profile of userID. It is a no-op for
// an empty update.
func applyProfile(ctx context.Context, users repo.UserRepo, userID uuid.UUID, p domain.ProfileUpdate) error {
	if p.IsEmpty() {
		return nil
	}
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	_, err = users.UpdateProfile(ctx, userID, p.Apply(user.Profile))
	return err
}

// nonNil turns a nil slice into an empty one so callers can range and
// serialise it as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
