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

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	// Returns domain.ErrConflict if the username is already taken.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a user by UUID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByUsername retrieves a user by exact username.
	// Returns domain.ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// UpdateProfile overwrites the profile fields of a user and returns the
	// updated record. Returns domain.ErrNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, id uuid.UUID, p domain.Profile) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, username, password_hash, name, email, age, gender, created_at, updated_at`

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (username, password_hash, name, email, age, gender)
		VALUES (@username, @password_hash, @name, @email, @age, @gender)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"name":          user.Name,
		"email":         user.Email,
		"age":           user.Age, // nil becomes NULL
		"gender":        genderArg(user.Gender),
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if code, constraint := pgErrorCode(err); code == uniqueViolation && constraint == "users_username_unique" {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: username taken: %w", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = @username`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"username": username}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByUsername: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, p domain.Profile) (domain.User, error) {
	const q = `
		UPDATE users
		SET name       = @name,
		    email      = @email,
		    age        = @age,
		    gender     = @gender,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"id":     id,
		"name":   p.Name,
		"email":  p.Email,
		"age":    p.Age,
		"gender": genderArg(p.Gender),
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.UpdateProfile: %w", err)
	}
	return result, nil
}

// genderArg maps the unset gender to NULL so the CHECK constraint accepts it.
func genderArg(g domain.Gender) *string {
	if g == "" {
		return nil
	}
	s := string(g)
	return &s
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u      domain.User
		id     pgtype.UUID
		age    pgtype.Int4
		gender pgtype.Text
	)

	err := s.Scan(&id, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &age, &gender,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	if age.Valid {
		a := int(age.Int32)
		u.Age = &a
	}
	if gender.Valid {
		u.Gender = domain.Gender(gender.String)
	}
	return u, nil
}
