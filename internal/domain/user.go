package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gender is restricted to the two values the profile form offers.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is empty (unset) or one of the known values.
func (g Gender) Valid() bool {
	switch g {
	case "", GenderMale, GenderFemale:
		return true
	}
	return false
}

// User is a registered account. PasswordHash holds a bcrypt hash and is never
// serialised to clients.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile holds the optional personal details a user fills in alongside
// their trips.
type Profile struct {
	Name   string
	Email  string
	Age    *int // nil when not given
	Gender Gender
}

// ProfileUpdate carries profile fields submitted with a trip form.
// A nil field leaves the stored value untouched.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Age    *int
	Gender *Gender
}

// IsEmpty reports whether the update carries no fields at all.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && p.Gender == nil
}

// Apply returns a copy of prof with every non-nil field of p written over it.
func (p ProfileUpdate) Apply(prof Profile) Profile {
	if p.Name != nil {
		prof.Name = *p.Name
	}
	if p.Email != nil {
		prof.Email = *p.Email
	}
	if p.Age != nil {
		age := *p.Age
		prof.Age = &age
	}
	if p.Gender != nil {
		prof.Gender = *p.Gender
	}
	return prof
}

// UserAggregate is a user together with the trips they own and the IDs of
// the trips they have booked.
type UserAggregate struct {
	User        User
	Trips       []Trip
	BookedTrips []uuid.UUID
}

// Registration is the data a new user submits. Password is plain text and
// only lives long enough to be hashed.
type Registration struct {
	Username string
	Password string
	Profile  Profile
}
