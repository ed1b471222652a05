// Package tables drives a table's physical lifecycle: available, reserved, occupied.
package tables

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/repository"
)

// ErrAlreadyOccupied means a table was asked to seat a party while another one sits there.
// Reservation-level checks make this unreachable; seeing it means concurrency control failed.
var ErrAlreadyOccupied = errors.New("table already occupied")

type Machine struct {
	now func() time.Time
}

func NewMachine(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

// Hold marks an available table as reserved. The hold is advisory; tables in any other
// state are left as they are.
func (m *Machine) Hold(ctx context.Context, repo repository.TableRepository, id uuid.UUID) (*domain.Table, error) {
	const op = "tables.Machine.Hold"

	t, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	next, ok := domain.NextTableStatus(t.Status, domain.ActionHold)
	if !ok {
		return t, nil
	}

	if err := repo.SetStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	t.Status = next

	return t, nil
}

// Occupy seats reservationID at the table. Occupying a table again for the same
// reservation is a no-op.
func (m *Machine) Occupy(
	ctx context.Context,
	repo repository.TableRepository,
	id, reservationID uuid.UUID,
	guests int,
) (*domain.Table, error) {
	const op = "tables.Machine.Occupy"

	t, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if t.Status == domain.TableOccupied {
		if t.CurrentOccupancy != nil && t.CurrentOccupancy.ReservationID == reservationID {
			return t, nil
		}
		return nil, fmt.Errorf("%s: table %d: %w", op, t.Number, ErrAlreadyOccupied)
	}

	next, ok := domain.NextTableStatus(t.Status, domain.ActionOccupy)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, domain.TableTransitionError(id, t.Status, domain.ActionOccupy))
	}

	occ := &domain.Occupancy{
		ReservationID: reservationID,
		StartTime:     m.now(),
		GuestCount:    guests,
	}

	if err := repo.SetStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := repo.SetOccupancy(ctx, id, occ); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	t.Status = next
	t.CurrentOccupancy = occ

	return t, nil
}

// Release returns the table to available. When the table was occupied it folds the
// elapsed time into the running average as (old + minutes) / 2 and returns it.
// Releasing an available or maintenance table changes nothing.
func (m *Machine) Release(ctx context.Context, repo repository.TableRepository, id uuid.UUID) (time.Duration, error) {
	const op = "tables.Machine.Release"

	t, err := repo.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	next, ok := domain.NextTableStatus(t.Status, domain.ActionRelease)
	if !ok {
		return 0, nil
	}

	var elapsed time.Duration
	if t.Status == domain.TableOccupied && t.CurrentOccupancy != nil {
		elapsed = m.now().Sub(t.CurrentOccupancy.StartTime)
		if elapsed < 0 {
			elapsed = 0
		}

		avg := (t.Metadata.AverageOccupancyTime + elapsed.Minutes()) / 2
		if err := repo.SetAverageOccupancyTime(ctx, id, avg); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := repo.SetStatus(ctx, id, next); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := repo.SetOccupancy(ctx, id, nil); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return elapsed, nil
}
