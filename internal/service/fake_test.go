package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/repo"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same rules the schema enforces (unique usernames, one booking per user
// and trip, cascading deletes, non-negative seats) so service tests can check
// end-to-end state without a database.
//
// WithinTx serialises transactions and restores a snapshot when fn fails,
// which is what the row lock plus rollback give us in Postgres.
type memStore struct {
	txMu sync.Mutex // held for the whole of a WithinTx call
	mu   sync.Mutex // guards the maps below

	users    map[uuid.UUID]domain.User
	trips    map[uuid.UUID]domain.Trip
	bookings map[bookingKey]domain.Booking
	clock    time.Time
}

type bookingKey struct{ trip, user uuid.UUID }

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]domain.User{},
		trips:    map[uuid.UUID]domain.Trip{},
		bookings: map[bookingKey]domain.Booking{},
		clock:    time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp. Callers hold s.mu.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) repos() repo.Repos {
	return repo.Repos{Users: memUsers{s}, Trips: memTrips{s}, Bookings: memBookings{s}}
}

var _ repo.Transactor = (*memStore)(nil)

func (s *memStore) WithinTx(_ context.Context, fn func(repo.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	users, trips, bookings := cloneMap(s.users), cloneMap(s.trips), cloneMap(s.bookings)
	s.mu.Unlock()

	if err := fn(s.repos()); err != nil {
		s.mu.Lock()
		s.users, s.trips, s.bookings = users, trips, bookings
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ---- test accessors ---------------------------------------------------------

func (s *memStore) trip(id uuid.UUID) (domain.Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	return t, ok
}

func (s *memStore) user(id uuid.UUID) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// ---- users ------------------------------------------------------------------

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return domain.User{}, domain.ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = r.s.tick()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return u, nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r memUsers) UpdateProfile(_ context.Context, id uuid.UUID, p domain.Profile) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	u.Profile = p
	u.UpdatedAt = r.s.tick()
	r.s.users[id] = u
	return u, nil
}

// ---- trips ------------------------------------------------------------------

type memTrips struct{ s *memStore }

func (r memTrips) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[t.OwnerID]; !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	t.ID = uuid.New()
	t.CreatedAt = r.s.tick()
	t.UpdatedAt = t.CreatedAt
	r.s.trips[t.ID] = t
	return t, nil
}

func (r memTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (r memTrips) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r memTrips) filter(keep func(domain.Trip) bool) []domain.Trip {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Trip{}
	for _, t := range r.s.trips {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r memTrips) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	return r.filter(func(t domain.Trip) bool { return t.OwnerID == ownerID }), nil
}

func (r memTrips) ListNotOwnedBy(_ context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return r.filter(func(t domain.Trip) bool { return t.OwnerID != userID }), nil
}

func (r memTrips) ListNotOwnedByPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	all, _ := r.ListNotOwnedBy(ctx, userID)
	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (r memTrips) Update(_ context.Context, t domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.trips[t.ID]
	if !ok || stored.OwnerID != t.OwnerID {
		return domain.Trip{}, domain.ErrNotFound
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = r.s.tick()
	r.s.trips[t.ID] = t
	return t, nil
}

func (r memTrips) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.trips[id]
	if !ok || stored.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.s.trips, id)
	for k := range r.s.bookings {
		if k.trip == id {
			delete(r.s.bookings, k)
		}
	}
	return nil
}

func (r memTrips) AdjustSeats(_ context.Context, id uuid.UUID, delta int) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	if t.AvailableSeats+delta < 0 {
		return domain.Trip{}, domain.ErrNoSeats
	}
	t.AvailableSeats += delta
	r.s.trips[id] = t
	return t, nil
}

// ---- bookings ---------------------------------------------------------------

type memBookings struct{ s *memStore }

func (r memBookings) Create(_ context.Context, tripID, userID uuid.UUID) (domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[tripID]; !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	key := bookingKey{tripID, userID}
	if _, ok := r.s.bookings[key]; ok {
		return domain.Booking{}, domain.ErrAlreadyBooked
	}
	b := domain.Booking{TripID: tripID, UserID: userID, CreatedAt: r.s.tick()}
	r.s.bookings[key] = b
	return b, nil
}

func (r memBookings) Exists(_ context.Context, tripID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.bookings[bookingKey{tripID, userID}]
	return ok, nil
}

func (r memBookings) Delete(_ context.Context, tripID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := bookingKey{tripID, userID}
	if _, ok := r.s.bookings[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.bookings, key)
	return nil
}

// byUser returns userID's bookings oldest first. Callers hold s.mu.
func (r memBookings) byUser(userID uuid.UUID) []domain.Booking {
	out := []domain.Booking{}
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r memBookings) ListTripIDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := []uuid.UUID{}
	for _, b := range r.byUser(userID) {
		ids = append(ids, b.TripID)
	}
	return ids, nil
}

func (r memBookings) ListBookedTrips(_ context.Context, userID uuid.UUID) ([]domain.BookedTrip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.BookedTrip{}
	for _, b := range r.byUser(userID) {
		t := r.s.trips[b.TripID]
		out = append(out, domain.BookedTrip{
			TripID:        t.ID,
			OwnerID:       t.OwnerID,
			StartLocation: t.StartLocation,
			EndLocation:   t.EndLocation,
			Date:          t.Date,
			BookedAt:      b.CreatedAt,
		})
	}
	return out, nil
}

func (r memBookings) ListPassengersByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Passenger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Passenger{}
	for _, b := range r.s.bookings {
		if r.s.trips[b.TripID].OwnerID != ownerID {
			continue
		}
		u := r.s.users[b.UserID]
		out = append(out, domain.Passenger{
			TripID:   b.TripID,
			UserID:   u.ID,
			Username: u.Username,
			Name:     u.Name,
			Email:    u.Email,
			BookedAt: b.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.Before(out[j].BookedAt) })
	return out, nil
}

// ---- fixtures ---------------------------------------------------------------

// addUser registers a user directly in the store.
func (s *memStore) addUser(username string) domain.User {
	u, err := memUsers{s}.Create(context.Background(), domain.User{Username: username, PasswordHash: "x"})
	if err != nil {
		panic(err)
	}
	return u
}

// addTrip stores a trip for owner with the given seats, dated after today.
func (s *memStore) addTrip(owner uuid.UUID, seats int) domain.Trip {
	t, err := memTrips{s}.Create(context.Background(), domain.Trip{
		OwnerID:        owner,
		StartLocation:  "Berlin",
		EndLocation:    "Hamburg",
		AvailableSeats: seats,
		Date:           today.AddDate(0, 0, 7),
	})
	if err != nil {
		panic(err)
	}
	return t
}
