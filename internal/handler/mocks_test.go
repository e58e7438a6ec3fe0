package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/handler"
	"github.com/pkordes/trip-share/backend/internal/middleware"
)

// ---- mocks -----------------------------------------------------------------
// Each mock is a test double for one handler.*Servicer interface.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create    func(ctx context.Context, ownerID uuid.UUID, trip domain.Trip, p domain.ProfileUpdate) (domain.Trip, error)
	overview  func(ctx context.Context, userID uuid.UUID) (domain.TripOverview, error)
	available func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error)
	get       func(ctx context.Context, viewerID, tripID uuid.UUID) (domain.TripDetail, error)
	getOwned  func(ctx context.Context, ownerID, tripID uuid.UUID) (domain.TripEdit, error)
	update    func(ctx context.Context, ownerID uuid.UUID, trip domain.Trip, p domain.ProfileUpdate) (domain.Trip, error)
	delete    func(ctx context.Context, ownerID, tripID uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, ownerID uuid.UUID, t domain.Trip, p domain.ProfileUpdate) (domain.Trip, error) {
	return m.create(ctx, ownerID, t, p)
}
func (m *mockTripServicer) Overview(ctx context.Context, userID uuid.UUID) (domain.TripOverview, error) {
	return m.overview(ctx, userID)
}
func (m *mockTripServicer) Available(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) (domain.Page[domain.Trip], error) {
	return m.available(ctx, userID, p)
}
func (m *mockTripServicer) Get(ctx context.Context, viewerID, tripID uuid.UUID) (domain.TripDetail, error) {
	return m.get(ctx, viewerID, tripID)
}
func (m *mockTripServicer) GetOwned(ctx context.Context, ownerID, tripID uuid.UUID) (domain.TripEdit, error) {
	return m.getOwned(ctx, ownerID, tripID)
}
func (m *mockTripServicer) Update(ctx context.Context, ownerID uuid.UUID, t domain.Trip, p domain.ProfileUpdate) (domain.Trip, error) {
	return m.update(ctx, ownerID, t, p)
}
func (m *mockTripServicer) Delete(ctx context.Context, ownerID, tripID uuid.UUID) error {
	return m.delete(ctx, ownerID, tripID)
}

type mockBookingServicer struct {
	book   func(ctx context.Context, userID, tripID uuid.UUID) (domain.Booking, error)
	unbook func(ctx context.Context, userID, tripID uuid.UUID) error
	booked func(ctx context.Context, userID uuid.UUID) ([]domain.BookedTrip, error)
}

func (m *mockBookingServicer) Book(ctx context.Context, userID, tripID uuid.UUID) (domain.Booking, error) {
	return m.book(ctx, userID, tripID)
}
func (m *mockBookingServicer) Unbook(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.unbook(ctx, userID, tripID)
}
func (m *mockBookingServicer) Booked(ctx context.Context, userID uuid.UUID) ([]domain.BookedTrip, error) {
	return m.booked(ctx, userID)
}

type mockUserServicer struct {
	register  func(ctx context.Context, in domain.Registration) (domain.User, error)
	login     func(ctx context.Context, username, password string) (domain.User, error)
	get       func(ctx context.Context, id uuid.UUID) (domain.User, error)
	aggregate func(ctx context.Context, id uuid.UUID) (domain.UserAggregate, error)
}

func (m *mockUserServicer) Register(ctx context.Context, in domain.Registration) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockUserServicer) Login(ctx context.Context, username, password string) (domain.User, error) {
	return m.login(ctx, username, password)
}
func (m *mockUserServicer) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.get(ctx, id)
}
func (m *mockUserServicer) Aggregate(ctx context.Context, id uuid.UUID) (domain.UserAggregate, error) {
	return m.aggregate(ctx, id)
}

type mockExportServicer struct {
	export func(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, ownerID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer    = (*mockTripServicer)(nil)
	_ handler.BookingServicer = (*mockBookingServicer)(nil)
	_ handler.UserServicer    = (*mockUserServicer)(nil)
	_ handler.ExportServicer  = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services bundles the mocks a test wants wired; nil fields stay nil.
type services struct {
	trips    handler.TripServicer
	bookings handler.BookingServicer
	users    handler.UserServicer
	export   handler.ExportServicer
}

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors how main.go mounts it in production.
func newHTTPHandler(s services) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(s.trips, s.bookings, s.users, s.export, log)
	return srv.Routes()
}

// do sends one request through h as user (uuid.Nil sends no identity header).
func do(t *testing.T, h http.Handler, method, target string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != uuid.Nil {
		req.Header.Set(middleware.UserIDHeader, user.String())
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// futureDate is a calendar date safely after any test run.
func futureDate() time.Time {
	return time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
}

func tripFixture(owner uuid.UUID) domain.Trip {
	now := time.Now().UTC()
	return domain.Trip{
		ID:             uuid.New(),
		OwnerID:        owner,
		StartLocation:  "Berlin",
		EndLocation:    "Hamburg",
		AvailableSeats: 3,
		Date:           futureDate(),
		Notes:          "no smoking",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func userFixture() domain.User {
	now := time.Now().UTC()
	age := 31
	return domain.User{
		ID:        uuid.New(),
		Username:  "alice",
		Profile:   domain.Profile{Name: "Alice", Email: "alice@example.com", Age: &age, Gender: domain.GenderFemale},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
