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

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip for trip.OwnerID and returns the persisted record
	// (with DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrNotFound if the owner does not exist.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key, whoever owns it.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByIDForUpdate is GetByID plus a row lock held until the surrounding
	// transaction ends. Only meaningful inside Transactor.WithinTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns the trips owned by ownerID ordered by date ascending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)

	// ListNotOwnedBy returns every trip owned by someone other than userID,
	// ordered by date ascending.
	ListNotOwnedBy(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// ListNotOwnedByPaged returns one page of ListNotOwnedBy and the total count.
	ListNotOwnedByPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of a trip owned by trip.OwnerID and
	// returns the updated record. Returns domain.ErrNotFound if no such trip
	// exists for that owner.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip owned by ownerID. Returns domain.ErrNotFound if it
	// does not exist for that owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// AdjustSeats adds delta to the trip's available seats and returns the
	// updated record. Returns domain.ErrNoSeats if the result would be negative.
	AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, start_location, end_location, available_seats, date, notes, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, start_location, end_location, available_seats, date, notes)
		VALUES (@owner_id, @start_location, @end_location, @available_seats, @date, @notes)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_id":        trip.OwnerID,
		"start_location":  trip.StartLocation,
		"end_location":    trip.EndLocation,
		"available_seats": trip.AvailableSeats,
		"date":            trip.Date,
		"notes":           trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if code, _ := pgErrorCode(err); code == foreignKeyViolation {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: owner: %w", domain.ErrNotFound)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByIDForUpdate retrieves a trip by primary key and locks its row.
func (r *pgTripRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByIDForUpdate: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's trips, soonest first.
func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id
		ORDER BY date, created_at, id`

	trips, err := r.list(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	return trips, nil
}

// ListNotOwnedBy returns every other user's trips, soonest first.
func (r *pgTripRepo) ListNotOwnedBy(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id <> @user_id
		ORDER BY date, created_at, id`

	trips, err := r.list(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListNotOwnedBy: %w", err)
	}
	return trips, nil
}

// ListNotOwnedByPaged returns one page of other users' trips and the total count.
func (r *pgTripRepo) ListNotOwnedByPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips WHERE owner_id <> @user_id`
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id <> @user_id
		ORDER BY date, created_at, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListNotOwnedByPaged: count: %w", err)
	}

	trips, err := r.list(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListNotOwnedByPaged: %w", err)
	}
	return trips, total, nil
}

// Update overwrites the mutable fields of an owned trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET start_location  = @start_location,
		    end_location    = @end_location,
		    available_seats = @available_seats,
		    date            = @date,
		    notes           = @notes,
		    updated_at      = now()
		WHERE id = @id AND owner_id = @owner_id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":              trip.ID,
		"owner_id":        trip.OwnerID,
		"start_location":  trip.StartLocation,
		"end_location":    trip.EndLocation,
		"available_seats": trip.AvailableSeats,
		"date":            trip.Date,
		"notes":           trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes an owned trip. Its bookings go with it (ON DELETE CASCADE).
func (r *pgTripRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// AdjustSeats changes the seat count by delta. The WHERE guard keeps the count
// non-negative even without a row lock; a missing row and a refused decrement
// are told apart with a follow-up existence check.
func (r *pgTripRepo) AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET available_seats = available_seats + @delta,
		    updated_at      = now()
		WHERE id = @id AND available_seats + @delta >= 0
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "delta": delta}))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.AdjustSeats: %w", err)
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.AdjustSeats: %w", getErr)
	}
	return domain.Trip{}, fmt.Errorf("repo.TripRepo.AdjustSeats: %w", domain.ErrNoSeats)
}

// list runs a multi-row trip query. It always returns a non-nil slice.
func (r *pgTripRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t       domain.Trip
		id      pgtype.UUID
		ownerID pgtype.UUID
		date    pgtype.Date
	)

	err := s.Scan(&id, &ownerID, &t.StartLocation, &t.EndLocation, &t.AvailableSeats,
		&date, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(ownerID.Bytes)
	t.Date = date.Time
	return t, nil
}
