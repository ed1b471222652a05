package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrNoAvailability      = errors.New("no table available for the requested window")
	ErrTableUnavailable    = errors.New("table unavailable")
	ErrTooEarly            = errors.New("reservation has not started yet")
	ErrNothingToChange     = errors.New("reschedule request changes nothing")
)

// RateLimitedError rejects a create before any lock is taken.
type RateLimitedError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (%s), retry in %s", e.Key, e.RetryAfter)
}

// InvariantError reports state that concurrency control should have made impossible,
// such as a table occupied by a party that has no claim on it. It is never a user error.
type InvariantError struct {
	ReservationID uuid.UUID
	TableID       uuid.UUID
	Err           error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: reservation %s table %s: %v", e.ReservationID, e.TableID, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
