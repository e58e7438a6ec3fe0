package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-share/backend/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// Seat counts live on the trip; keeping both in step is the service's job,
// which runs booking writes inside Transactor.WithinTx.
type BookingRepo interface {
	// Create records a booking of tripID by userID.
	// Returns domain.ErrAlreadyBooked if the pair already exists.
	Create(ctx context.Context, tripID, userID uuid.UUID) (domain.Booking, error)

	// Exists reports whether userID holds a booking on tripID.
	Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error)

	// Delete removes the booking of tripID by userID.
	// Returns domain.ErrNotFound if there is no such booking.
	Delete(ctx context.Context, tripID, userID uuid.UUID) error

	// ListTripIDsByUser returns the IDs of every trip userID has booked,
	// oldest booking first.
	ListTripIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// ListBookedTrips returns summaries of the trips userID has booked,
	// oldest booking first.
	ListBookedTrips(ctx context.Context, userID uuid.UUID) ([]domain.BookedTrip, error)

	// ListPassengersByOwner returns every booking on trips owned by ownerID,
	// grouped by trip and ordered by booking time.
	ListPassengersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Passenger, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

func (r *pgBookingRepo) Create(ctx context.Context, tripID, userID uuid.UUID) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (trip_id, user_id)
		VALUES (@trip_id, @user_id)
		RETURNING trip_id, user_id, created_at`

	var (
		b   domain.Booking
		tid pgtype.UUID
		uid pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}).
		Scan(&tid, &uid, &b.CreatedAt)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case uniqueViolation:
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", domain.ErrAlreadyBooked)
		case foreignKeyViolation:
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", domain.ErrNotFound)
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	b.TripID = uuid.UUID(tid.Bytes)
	b.UserID = uuid.UUID(uid.Bytes)
	return b, nil
}

func (r *pgBookingRepo) Exists(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings WHERE trip_id = @trip_id AND user_id = @user_id
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.BookingRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *pgBookingRepo) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM bookings WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgBookingRepo) ListTripIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT trip_id
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY created_at, trip_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListTripIDsByUser: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListTripIDsByUser: scan: %w", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListTripIDsByUser: rows: %w", err)
	}
	return ids, nil
}

func (r *pgBookingRepo) ListBookedTrips(ctx context.Context, userID uuid.UUID) ([]domain.BookedTrip, error) {
	const q = `
		SELECT t.id, t.owner_id, t.start_location, t.end_location, t.date, b.created_at
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE b.user_id = @user_id
		ORDER BY b.created_at, t.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBookedTrips: %w", err)
	}
	defer rows.Close()

	out := []domain.BookedTrip{}
	for rows.Next() {
		var (
			bt      domain.BookedTrip
			tripID  pgtype.UUID
			ownerID pgtype.UUID
			date    pgtype.Date
		)
		if err := rows.Scan(&tripID, &ownerID, &bt.StartLocation, &bt.EndLocation, &date, &bt.BookedAt); err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListBookedTrips: scan: %w", err)
		}
		bt.TripID = uuid.UUID(tripID.Bytes)
		bt.OwnerID = uuid.UUID(ownerID.Bytes)
		bt.Date = date.Time
		out = append(out, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBookedTrips: rows: %w", err)
	}
	return out, nil
}

func (r *pgBookingRepo) ListPassengersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Passenger, error) {
	const q = `
		SELECT b.trip_id, u.id, u.username, u.name, u.email, b.created_at
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		JOIN users u ON u.id = b.user_id
		WHERE t.owner_id = @owner_id
		ORDER BY b.trip_id, b.created_at, u.username`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListPassengersByOwner: %w", err)
	}
	defer rows.Close()

	out := []domain.Passenger{}
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListPassengersByOwner: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListPassengersByOwner: rows: %w", err)
	}
	return out, nil
}

func scanPassenger(s scanner) (domain.Passenger, error) {
	var (
		p      domain.Passenger
		tripID pgtype.UUID
		userID pgtype.UUID
	)
	if err := s.Scan(&tripID, &userID, &p.Username, &p.Name, &p.Email, &p.BookedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Passenger{}, domain.ErrNotFound
		}
		return domain.Passenger{}, err
	}
	p.TripID = uuid.UUID(tripID.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	return p, nil
}
