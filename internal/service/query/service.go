package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/repository"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service/allocation"
)

type Config struct {
	AvailabilityTTL time.Duration
	// DefaultDuration in minutes for availability requests without an end.
	DefaultDuration int
}

// Service serves read-only views. Nothing here takes the allocation guard, so answers
// may be stale by the time a caller acts on them.
type Service struct {
	store repository.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store repository.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = domain.DefaultDurationMinutes
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

type AvailabilityRequest struct {
	RestaurantID uuid.UUID
	Start        time.Time
	End          *time.Time
	DurationMin  int
	PartySize    int
}

// AvailableTables lists the tables that could seat the party for the whole window,
// best fit first.
//
// Parameters:
//   - ctx: request-scoped context.
//   - req: restaurant, window and party size.
//
// Returns:
//   - []domain.Table: free tables, possibly empty.
//   - error: domain validation errors for a malformed window or party size.
func (s *Service) AvailableTables(ctx context.Context, req AvailabilityRequest) ([]domain.Table, error) {
	const op = "service.query.AvailableTables"

	if req.RestaurantID == uuid.Nil {
		return nil, fmt.Errorf("%s:%w", op, domain.ErrMissingReference)
	}

	if req.PartySize < 1 || req.PartySize > domain.MaxTableCapacity {
		return nil, fmt.Errorf("%s:%w", op, domain.ErrInvalidPartySize)
	}

	window, err := s.Window(req)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	load := func(ctx context.Context) ([]domain.Table, error) {
		free, err := allocation.FindAvailable(ctx, s.store.Repos(), req.RestaurantID, window, req.PartySize, uuid.Nil)
		if err != nil {
			return nil, err
		}
		return allocation.Rank(free, req.PartySize), nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		return out, nil
	}

	gen, err := s.cache.AvailabilityGeneration(ctx, req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	key := redisrepo.KeyAvailability(req.RestaurantID, gen, window.Start.Unix(), window.End.Unix(), req.PartySize)

	out, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, s.cfg.AvailabilityTTL, load)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Window resolves the request's window the same way AvailableTables does: an explicit
// end wins, otherwise the duration (or the configured default) is added to start.
func (s *Service) Window(req AvailabilityRequest) (domain.TimeWindow, error) {
	if req.DurationMin < 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: negative duration", domain.ErrInvalidWindow)
	}

	duration := req.DurationMin
	if duration == 0 {
		duration = s.cfg.DefaultDuration
	}

	return domain.ResolveWindow(req.Start, req.End, duration)
}

// ReservationsByDate returns the restaurant's reservations starting on the UTC day of
// date, ordered by start time. Empty statuses means all statuses.
func (s *Service) ReservationsByDate(
	ctx context.Context,
	restaurantID uuid.UUID,
	date time.Time,
	statuses []domain.ReservationStatus,
) ([]domain.Reservation, error) {
	const op = "service.query.ReservationsByDate"

	if restaurantID == uuid.Nil {
		return nil, fmt.Errorf("%s:%w", op, domain.ErrMissingReference)
	}

	d := date.UTC()
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	out, err := s.store.Repos().Reservations.Find(ctx, repository.ReservationFilter{
		RestaurantID: restaurantID,
		Statuses:     statuses,
		StartFrom:    from,
		StartBefore:  from.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if out == nil {
		out = []domain.Reservation{}
	}

	return out, nil
}

func (s *Service) Table(ctx context.Context, id uuid.UUID) (*domain.Table, error) {
	const op = "service.query.Table"

	t, err := s.store.Repos().Tables.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return t, nil
}

// Tables lists every table of the restaurant ordered by number, including those under
// maintenance.
func (s *Service) Tables(ctx context.Context, restaurantID uuid.UUID) ([]domain.Table, error) {
	const op = "service.query.Tables"

	if restaurantID == uuid.Nil {
		return nil, fmt.Errorf("%s:%w", op, domain.ErrMissingReference)
	}

	out, err := s.store.Repos().Tables.List(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if out == nil {
		out = []domain.Table{}
	}

	return out, nil
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ReservationQuery selects a page of a restaurant's reservations. Zero fields do not
// filter; From and To bound the start time as [From, To).
type ReservationQuery struct {
	RestaurantID uuid.UUID
	CustomerID   uuid.UUID
	Statuses     []domain.ReservationStatus
	From         time.Time
	To           time.Time
	// Limit defaults to DefaultPageSize.
	Limit  int
	Offset int
}

// Reservations returns one page of the restaurant's reservations ordered by start time.
//
// Returns:
//   - ErrInvalidPage for a negative offset, a limit outside [0, MaxPageSize] or To not after From.
func (s *Service) Reservations(ctx context.Context, q ReservationQuery) ([]domain.Reservation, error) {
	const op = "service.query.Reservations"

	if q.RestaurantID == uuid.Nil {
		return nil, fmt.Errorf("%s:%w", op, domain.ErrMissingReference)
	}

	if q.Offset < 0 || q.Limit < 0 || q.Limit > MaxPageSize {
		return nil, fmt.Errorf("%s:%w: limit %d offset %d", op, ErrInvalidPage, q.Limit, q.Offset)
	}
	if !q.From.IsZero() && !q.To.IsZero() && !q.From.Before(q.To) {
		return nil, fmt.Errorf("%s:%w: empty date range", op, ErrInvalidPage)
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}

	out, err := s.store.Repos().Reservations.Find(ctx, repository.ReservationFilter{
		RestaurantID: q.RestaurantID,
		CustomerID:   q.CustomerID,
		Statuses:     q.Statuses,
		StartFrom:    q.From,
		StartBefore:  q.To,
		Limit:        limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if out == nil {
		out = []domain.Reservation{}
	}

	return out, nil
}
