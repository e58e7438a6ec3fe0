package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/repo"
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// maxStoredInt is the largest value an INTEGER column accepts.
const maxStoredInt = math.MaxInt32

// validateAge accepts a missing age or one in [0, maxStoredInt].
func validateAge(age *int) error {
	if age == nil {
		return nil
	}
	if *age < 0 {
		return fmt.Errorf("%w: age must not be negative", domain.ErrValidation)
	}
	if *age > maxStoredInt {
		return fmt.Errorf("%w: age must be at most %d", domain.ErrValidation, maxStoredInt)
	}
	return nil
}

// UserService implements registration, login and the user aggregate view.
type UserService struct {
	repos repo.Repos
	cost  int
}

// NewUserService constructs a UserService. cost is the bcrypt work factor;
// values outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewUserService(repos repo.Repos, cost int) *UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserService{repos: repos, cost: cost}
}

// Register validates the input, hashes the password and persists the user.
// Returns domain.ErrValidation for invalid input and domain.ErrConflict if
// the username is taken.
func (s *UserService) Register(ctx context.Context, in domain.Registration) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if in.Password == "" {
		return domain.User{}, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if len(in.Password) > maxPasswordBytes {
		return domain.User{}, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}
	if !in.Profile.Gender.Valid() {
		return domain.User{}, fmt.Errorf("%w: gender must be one of male, female", domain.ErrValidation)
	}
	if err := validateAge(in.Profile.Age); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: hash: %w", err)
	}

	user, err := s.repos.Users.Create(ctx, domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Profile:      in.Profile,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return user, nil
}

// Login checks a username and password pair.
// Returns domain.ErrInvalidCredentials for an unknown user or a wrong password.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.repos.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Get returns a user by ID. Returns domain.ErrNotFound if absent.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Get: %w", err)
	}
	return user, nil
}

// Aggregate returns the user with the trips they own and the IDs of the trips
// they have booked. Returns domain.ErrNotFound if the user does not exist.
func (s *UserService) Aggregate(ctx context.Context, id uuid.UUID) (domain.UserAggregate, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return domain.UserAggregate{}, fmt.Errorf("service.UserService.Aggregate: %w", err)
	}
	trips, err := s.repos.Trips.ListByOwner(ctx, id)
	if err != nil {
		return domain.UserAggregate{}, fmt.Errorf("service.UserService.Aggregate: %w", err)
	}
	booked, err := s.repos.Bookings.ListTripIDsByUser(ctx, id)
	if err != nil {
		return domain.UserAggregate{}, fmt.Errorf("service.UserService.Aggregate: %w", err)
	}
	return domain.UserAggregate{User: user, Trips: nonNil(trips), BookedTrips: nonNil(booked)}, nil
}
