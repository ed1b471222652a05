package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/repository"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/uow"
)

type Service struct {
	store  repository.Store
	cache  *redisrepo.Cache
	uow    *uow.UoW
	now    func() time.Time
	logger *slog.Logger
}

func New(
	store repository.Store,
	g guard.Guard,
	cache *redisrepo.Cache,
	now func() time.Time,
	logger *slog.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:  store,
		cache:  cache,
		uow:    uow.NewUoW(store, g, logger),
		now:    now,
		logger: logger,
	}
}

type CreateTableRequest struct {
	RestaurantID uuid.UUID
	Number       int
	Capacity     int
	Zone         domain.Zone
}

// CreateTable registers a new available table.
//
// Parameters:
//   - ctx: request-scoped context.
//   - req: restaurant, table number, capacity (1..12) and zone.
//
// Returns:
//   - *domain.Table: the created table.
//   - error: domain.ErrInvalidTable for bad input, admin.ErrTableConflict if the number is taken.
func (s *Service) CreateTable(ctx context.Context, req CreateTableRequest) (*domain.Table, error) {
	const op = "service.admin.CreateTable"

	if req.RestaurantID == uuid.Nil {
		return nil, fmt.Errorf("%s:%w", op, domain.ErrMissingReference)
	}

	if req.Number < 1 {
		return nil, fmt.Errorf("%s:%w: number must be positive", op, domain.ErrInvalidTable)
	}

	if req.Capacity < domain.MinTableCapacity || req.Capacity > domain.MaxTableCapacity {
		return nil, fmt.Errorf("%s:%w: capacity must be between %d and %d",
			op, domain.ErrInvalidTable, domain.MinTableCapacity, domain.MaxTableCapacity)
	}

	zone := req.Zone
	if zone == "" {
		zone = domain.ZoneMain
	}
	if !zone.Valid() {
		return nil, fmt.Errorf("%s:%w: unknown zone %q", op, domain.ErrInvalidTable, zone)
	}

	t := &domain.Table{
		ID:           uuid.New(),
		RestaurantID: req.RestaurantID,
		Number:       req.Number,
		Capacity:     req.Capacity,
		Zone:         zone,
		Status:       domain.TableAvailable,
	}

	err := s.uow.Do(ctx, guard.RestaurantKey(req.RestaurantID), func(
		ctx context.Context,
		repos repository.Repos,
		after func(uow.AfterCommit),
	) error {
		if err := repos.Tables.Create(ctx, t); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrTableConflict
			}
			return err
		}

		after(func(ctx context.Context) {
			s.invalidate(ctx, t.RestaurantID)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return t, nil
}

// SetMaintenance takes a table out of service or puts it back. An occupied table
// cannot enter maintenance. Reservations already bound to the table keep it; they
// must be rescheduled before check-in.
func (s *Service) SetMaintenance(ctx context.Context, tableID uuid.UUID, enabled bool) (*domain.Table, error) {
	const op = "service.admin.SetMaintenance"

	cur, err := s.store.Repos().Tables.Get(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var out *domain.Table

	err = s.uow.Do(ctx, guard.RestaurantKey(cur.RestaurantID), func(
		ctx context.Context,
		repos repository.Repos,
		after func(uow.AfterCommit),
	) error {
		t, err := repos.Tables.Get(ctx, tableID)
		if err != nil {
			return err
		}

		switch {
		case enabled && t.Status == domain.TableMaintenance, !enabled && t.Status != domain.TableMaintenance:
			out = t
			return nil
		case enabled && t.Status == domain.TableOccupied:
			return ErrTableOccupied
		}

		next := domain.TableAvailable
		if enabled {
			next = domain.TableMaintenance
		}

		if err := repos.Tables.SetStatus(ctx, t.ID, next); err != nil {
			return err
		}
		t.Status = next

		if !enabled {
			at := s.now()
			if err := repos.Tables.SetLastMaintenance(ctx, t.ID, at); err != nil {
				return err
			}
			t.Metadata.LastMaintenance = &at
		}

		out = t

		after(func(ctx context.Context) {
			s.logger.Info("table maintenance changed", "table_id", t.ID, "number", t.Number, "status", t.Status)
			s.invalidate(ctx, t.RestaurantID)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) invalidate(ctx context.Context, restaurantID uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateRestaurant(ctx, restaurantID); err != nil {
		s.logger.Warn("availability cache invalidation failed", "restaurant_id", restaurantID, "error", err)
	}
}
