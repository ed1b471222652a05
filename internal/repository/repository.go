package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/tablebook/internal/domain"
)

// TableRepository is the table registry. Mutators are plain writes; callers own atomicity.
type TableRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Table, error)
	// ListByRestaurant returns tables with capacity >= minCapacity that are not under
	// maintenance, in no particular order.
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, minCapacity int) ([]domain.Table, error)
	// List returns every table of the restaurant ordered by number.
	List(ctx context.Context, restaurantID uuid.UUID) ([]domain.Table, error)
	Create(ctx context.Context, t *domain.Table) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.TableStatus) error
	SetOccupancy(ctx context.Context, id uuid.UUID, occ *domain.Occupancy) error
	SetAverageOccupancyTime(ctx context.Context, id uuid.UUID, minutes float64) error
	SetLastMaintenance(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ReservationFilter narrows Find. Zero fields do not filter.
type ReservationFilter struct {
	RestaurantID uuid.UUID
	CustomerID   uuid.UUID
	TableIDs     []uuid.UUID
	Statuses     []domain.ReservationStatus
	// Overlapping keeps reservations whose window intersects it.
	Overlapping *domain.TimeWindow
	// StartFrom and StartBefore bound window.start as [StartFrom, StartBefore).
	StartFrom   time.Time
	StartBefore time.Time
	Limit       int
	Offset      int
}

type ReservationRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	Create(ctx context.Context, r *domain.Reservation) error
	Update(ctx context.Context, r *domain.Reservation) error
	Find(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error)
}

type CustomerStatsRepository interface {
	IncrementReservations(ctx context.Context, customerID uuid.UUID, at time.Time) error
	IncrementCancellations(ctx context.Context, customerID uuid.UUID) error
	IncrementNoShows(ctx context.Context, customerID uuid.UUID) error
}

// Repos is the set of repositories bound to one transaction (or to no transaction).
type Repos struct {
	Tables       TableRepository
	Reservations ReservationRepository
}

type Store interface {
	Repos() Repos
	// RunTx runs fn in a transaction that commits only when fn returns nil.
	RunTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
