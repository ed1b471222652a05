package domain

import (
	"fmt"
	"time"
)

// MaxDurationMinutes bounds a single reservation window to one day.
const MaxDurationMinutes = 24 * 60

// TimeWindow is the half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, fmt.Errorf("%w: end %s is not after start %s",
			ErrInvalidWindow, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if end.Sub(start) > MaxDurationMinutes*time.Minute {
		return TimeWindow{}, fmt.Errorf("%w: window longer than %d minutes", ErrInvalidWindow, MaxDurationMinutes)
	}

	return TimeWindow{Start: start, End: end}, nil
}

func DeriveWindow(start time.Time, durationMinutes int) (TimeWindow, error) {
	if durationMinutes <= 0 {
		return TimeWindow{}, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidWindow, durationMinutes)
	}
	if durationMinutes > MaxDurationMinutes {
		return TimeWindow{}, fmt.Errorf("%w: duration %d exceeds %d minutes", ErrInvalidWindow, durationMinutes, MaxDurationMinutes)
	}

	return NewWindow(start, start.Add(time.Duration(durationMinutes)*time.Minute))
}

// ResolveWindow builds a window from a start and either an explicit end or a duration.
// An explicit end always wins; the duration (default 120 minutes) only fills a missing end.
func ResolveWindow(start time.Time, end *time.Time, durationMinutes int) (TimeWindow, error) {
	if start.IsZero() {
		return TimeWindow{}, fmt.Errorf("%w: start is required", ErrInvalidWindow)
	}

	if end != nil {
		return NewWindow(start, *end)
	}

	if durationMinutes == 0 {
		durationMinutes = DefaultDurationMinutes
	}

	return DeriveWindow(start, durationMinutes)
}

// Overlaps reports whether two half-open windows intersect. Touching endpoints do not.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w TimeWindow) Minutes() int {
	return int(w.Duration() / time.Minute)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
