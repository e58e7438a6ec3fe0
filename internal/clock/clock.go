// Package clock provides time to the application.
// Services take a Clock instead of calling time.Now so date rules can be
// tested deterministically.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System returns the current wall-clock time in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
