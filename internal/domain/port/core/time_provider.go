package core

import (
	"context"
	"time"
)

// Duration is a domain-specific wrapper around time.Duration
type Duration time.Duration

// Common duration constants
const (
	Millisecond = Duration(time.Millisecond)
	Second      = Duration(time.Second)
	Minute      = Duration(time.Minute)
)

// Std converts domain Duration to time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Milliseconds returns the duration as an integer millisecond count
func (d Duration) Milliseconds() int64 {
	return time.Duration(d).Milliseconds()
}

// TimeProvider abstracts the clock for the domain.
// Ledger timestamps and status changes are all taken from Now.
type TimeProvider interface {
	// Now returns the current instant in UTC
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) Duration
	// WithTimeout derives a context that expires after timeout
	WithTimeout(ctx context.Context, timeout Duration) (context.Context, context.CancelFunc)
}
