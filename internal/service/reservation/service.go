package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/repository"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service/allocation"
	"github.com/kirinyoku/tablebook/internal/service/tables"
	"github.com/kirinyoku/tablebook/internal/telemetry"
	"github.com/kirinyoku/tablebook/internal/uow"
)

// Publisher receives domain events after the change that produced them is committed.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type Limiter interface {
	Allow(ctx context.Context, id string) (redisrepo.Decision, error)
}

type AvailabilityCache interface {
	InvalidateRestaurant(ctx context.Context, restaurantID uuid.UUID) error
}

// Deps are optional collaborators. A nil field disables that side effect.
type Deps struct {
	Customers repository.CustomerStatsRepository
	Notifier  Publisher
	Analytics Publisher
	Limiter   Limiter
	Cache     AvailabilityCache
}

type Config struct {
	// DefaultDuration in minutes, used when a request names neither end nor duration.
	DefaultDuration int
	ReminderLead    time.Duration
	// NoShowGrace is how long after start the sweeper waits before marking a no-show.
	NoShowGrace time.Duration
	SweepBatch  int
	Now         func() time.Time
}

type Service struct {
	store  repository.Store
	uow    *uow.UoW
	tables *tables.Machine
	deps   Deps
	cfg    Config
	logger *slog.Logger
}

func New(
	store repository.Store,
	g guard.Guard,
	deps Deps,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = domain.DefaultDurationMinutes
	}

	if cfg.ReminderLead <= 0 {
		cfg.ReminderLead = 2 * time.Hour
	}

	if cfg.NoShowGrace <= 0 {
		cfg.NoShowGrace = 15 * time.Minute
	}

	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = 100
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:  store,
		uow:    uow.NewUoW(store, g, logger),
		tables: tables.NewMachine(cfg.Now),
		deps:   deps,
		cfg:    cfg,
		logger: logger,
	}
}

type CreateRequest struct {
	RestaurantID uuid.UUID
	CustomerID   uuid.UUID
	Start        time.Time
	// End wins over DurationMin when both are set.
	End         *time.Time
	DurationMin int
	Adults      int
	Children    int
	// SpecialRequirements are validated and deduplicated.
	SpecialRequirements []domain.SpecialRequirement
	Source              domain.Source
	Notes               domain.ReservationNotes
	// RateKey identifies the caller for rate limiting; empty skips the check.
	RateKey string
}

// Create books the best-fitting free table for the request and stores a pending
// reservation bound to it.
//
// Returns:
//   - domain validation errors (window, party, source) before any lock is taken.
//   - *RateLimitedError when the caller exceeded the create rate.
//   - ErrNoAvailability when no eligible table is free for the whole window.
func (s *Service) Create(ctx context.Context, req CreateRequest) (_ *domain.Reservation, err error) {
	const op = "service.reservation.Create"

	ctx, span := telemetry.StartSpan(ctx, op, attribute.String("restaurant_id", req.RestaurantID.String()))
	defer func() { telemetry.End(span, err) }()

	if req.RestaurantID == uuid.Nil || req.CustomerID == uuid.Nil {
		return nil, fmt.Errorf("%s:%w", op, domain.ErrMissingReference)
	}

	source := req.Source
	if source == "" {
		source = domain.SourceWeb
	}
	if !source.Valid() {
		return nil, fmt.Errorf("%s:%w: %q", op, domain.ErrInvalidSource, source)
	}

	if req.DurationMin < 0 {
		return nil, fmt.Errorf("%s:%w: negative duration", op, domain.ErrInvalidWindow)
	}
	duration := req.DurationMin
	if duration == 0 {
		duration = s.cfg.DefaultDuration
	}

	window, err := domain.ResolveWindow(req.Start, req.End, duration)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	party, err := domain.NewParty(req.Adults, req.Children, req.SpecialRequirements...)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if err := s.checkRate(ctx, req.RateKey); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	now := s.cfg.Now()
	res := &domain.Reservation{
		ID:           uuid.New(),
		RestaurantID: req.RestaurantID,
		CustomerID:   req.CustomerID,
		Window:       window,
		Duration:     window.Minutes(),
		Party:        party,
		Status:       domain.ReservationPending,
		Source:       source,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.uow.Do(ctx, guard.RestaurantKey(req.RestaurantID), func(
		ctx context.Context,
		repos repository.Repos,
		after func(uow.AfterCommit),
	) error {
		free, err := allocation.FindAvailable(ctx, repos, req.RestaurantID, window, party.Total, uuid.Nil)
		if err != nil {
			return err
		}

		best, err := allocation.SelectBest(free, party.Total)
		if err != nil {
			if errors.Is(err, allocation.ErrNoCandidates) {
				return ErrNoAvailability
			}
			return err
		}

		tableID := best.ID
		res.TableID = &tableID

		if err := repos.Reservations.Create(ctx, res); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			if s.deps.Customers != nil {
				if err := s.deps.Customers.IncrementReservations(ctx, res.CustomerID, now); err != nil {
					s.logger.Warn("customer stats update failed", "op", op, "customer_id", res.CustomerID, "error", err)
				}
			}
			s.notify(ctx, domain.NewReservationEvent(domain.EventReservationCreated, res, now))
			s.invalidate(ctx, res.RestaurantID)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return res, nil
}

// Get returns a reservation by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservation.Get"

	res, err := s.store.Repos().Reservations.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, notFound(err, ErrReservationNotFound))
	}

	return res, nil
}

// Confirm moves a pending reservation to confirmed and puts an advisory hold on its table.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservation.Confirm"

	return s.transition(ctx, op, id, domain.ActionConfirm, func(
		ctx context.Context,
		repos repository.Repos,
		res *domain.Reservation,
		now time.Time,
		after func(uow.AfterCommit),
	) error {
		if res.TableID != nil {
			if _, err := s.tables.Hold(ctx, repos.Tables, *res.TableID); err != nil {
				return notFound(err, ErrTableNotFound)
			}
		}

		remindAt := res.Window.Start.Add(-s.cfg.ReminderLead)
		if remindAt.Before(now) {
			remindAt = now
		}

		after(func(ctx context.Context) {
			s.notify(ctx, domain.NewReservationEvent(domain.EventReservationConfirmed, res, now))

			reminder := domain.NewReservationEvent(domain.EventReminderScheduled, res, now)
			reminder.RemindAt = &remindAt
			s.notify(ctx, reminder)

			s.invalidate(ctx, res.RestaurantID)
		})

		return nil
	})
}

// CheckIn seats a confirmed reservation at its table.
//
// Returns ErrTableUnavailable when the table is under maintenance or still occupied
// by an earlier party.
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservation.CheckIn"

	return s.transition(ctx, op, id, domain.ActionCheckIn, func(
		ctx context.Context,
		repos repository.Repos,
		res *domain.Reservation,
		now time.Time,
		after func(uow.AfterCommit),
	) error {
		if res.TableID == nil {
			return &InvariantError{ReservationID: res.ID, Err: errors.New("live reservation without a table")}
		}

		t, err := repos.Tables.Get(ctx, *res.TableID)
		if err != nil {
			return notFound(err, ErrTableNotFound)
		}

		if t.Status != domain.TableAvailable && t.Status != domain.TableReserved {
			return fmt.Errorf("%w: table %d is %s", ErrTableUnavailable, t.Number, t.Status)
		}

		if _, err := s.tables.Occupy(ctx, repos.Tables, t.ID, res.ID, res.Party.Total); err != nil {
			if errors.Is(err, tables.ErrAlreadyOccupied) {
				return &InvariantError{ReservationID: res.ID, TableID: t.ID, Err: err}
			}
			return err
		}

		res.SeatedAt = &now

		after(func(ctx context.Context) {
			s.notify(ctx, domain.NewReservationEvent(domain.EventReservationSeated, res, now))
			s.invalidate(ctx, res.RestaurantID)
		})

		return nil
	})
}

// Cancel cancels a pending or confirmed reservation. The table is released only if
// this reservation occupies it.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*domain.Reservation, error) {
	const op = "service.reservation.Cancel"

	return s.transition(ctx, op, id, domain.ActionCancel, func(
		ctx context.Context,
		repos repository.Repos,
		res *domain.Reservation,
		now time.Time,
		after func(uow.AfterCommit),
	) error {
		res.CancelReason = reason

		if res.TableID != nil {
			t, err := repos.Tables.Get(ctx, *res.TableID)
			if err != nil {
				return notFound(err, ErrTableNotFound)
			}

			switch {
			case t.Status == domain.TableOccupied && t.CurrentOccupancy != nil &&
				t.CurrentOccupancy.ReservationID == res.ID:
				if _, err := s.tables.Release(ctx, repos.Tables, t.ID); err != nil {
					return err
				}
			case t.Status == domain.TableReserved:
				if err := s.dropHold(ctx, repos, t.ID, res.ID); err != nil {
					return err
				}
			}
		}

		after(func(ctx context.Context) {
			if s.deps.Customers != nil {
				if err := s.deps.Customers.IncrementCancellations(ctx, res.CustomerID); err != nil {
					s.logger.Warn("customer stats update failed", "op", op, "customer_id", res.CustomerID, "error", err)
				}
			}
			s.notify(ctx, domain.NewReservationEvent(domain.EventReservationCancelled, res, now))
			s.invalidate(ctx, res.RestaurantID)
		})

		return nil
	})
}

// Complete ends a seated reservation, frees its table and reports the turnover.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservation.Complete"

	return s.transition(ctx, op, id, domain.ActionComplete, func(
		ctx context.Context,
		repos repository.Repos,
		res *domain.Reservation,
		now time.Time,
		after func(uow.AfterCommit),
	) error {
		if res.TableID == nil {
			return &InvariantError{ReservationID: res.ID, Err: errors.New("seated reservation without a table")}
		}

		t, err := repos.Tables.Get(ctx, *res.TableID)
		if err != nil {
			return notFound(err, ErrTableNotFound)
		}

		if t.Status == domain.TableOccupied && (t.CurrentOccupancy == nil || t.CurrentOccupancy.ReservationID != res.ID) {
			return &InvariantError{ReservationID: res.ID, TableID: t.ID, Err: tables.ErrAlreadyOccupied}
		}

		elapsed, err := s.tables.Release(ctx, repos.Tables, t.ID)
		if err != nil {
			return err
		}

		res.CompletedAt = &now

		after(func(ctx context.Context) {
			s.record(ctx, domain.NewReservationEvent(domain.EventReservationCompleted, res, now))

			turnover := domain.NewReservationEvent(domain.EventTableTurnover, res, now)
			turnover.OccupancyMinutes = elapsed.Minutes()
			s.record(ctx, turnover)

			s.invalidate(ctx, res.RestaurantID)
		})

		return nil
	})
}

// MarkNoShow closes a confirmed reservation whose party never arrived. It fails with
// ErrTooEarly before the window starts.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservation.MarkNoShow"

	return s.transition(ctx, op, id, domain.ActionNoShow, func(
		ctx context.Context,
		repos repository.Repos,
		res *domain.Reservation,
		now time.Time,
		after func(uow.AfterCommit),
	) error {
		if now.Before(res.Window.Start) {
			return fmt.Errorf("%w: starts at %s", ErrTooEarly, res.Window.Start.Format(time.RFC3339))
		}

		if res.TableID != nil {
			if err := s.dropHold(ctx, repos, *res.TableID, res.ID); err != nil {
				return err
			}
		}

		after(func(ctx context.Context) {
			if s.deps.Customers != nil {
				if err := s.deps.Customers.IncrementNoShows(ctx, res.CustomerID); err != nil {
					s.logger.Warn("customer stats update failed", "op", op, "customer_id", res.CustomerID, "error", err)
				}
			}
			ev := domain.NewReservationEvent(domain.EventReservationNoShow, res, now)
			s.notify(ctx, ev)
			s.record(ctx, ev)
			s.invalidate(ctx, res.RestaurantID)
		})

		return nil
	})
}

type RescheduleRequest struct {
	Start *time.Time
	// End wins over DurationMin. With neither, the current length is kept.
	End         *time.Time
	DurationMin int
	// TableID asks for a specific table; nil keeps the current one when it is still free.
	TableID *uuid.UUID
}

// Reschedule moves a pending or confirmed reservation to a new window and/or table.
// The reservation's own claim is ignored while checking the new slot.
//
// Returns ErrTableUnavailable when the requested (or any) table is not free.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*domain.Reservation, error) {
	const op = "service.reservation.Reschedule"

	if req.Start == nil && req.End == nil && req.DurationMin == 0 && req.TableID == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrNothingToChange)
	}
	if req.DurationMin < 0 {
		return nil, fmt.Errorf("%s:%w: negative duration", op, domain.ErrInvalidWindow)
	}
	if req.Start != nil && req.End != nil {
		if _, err := domain.NewWindow(*req.Start, *req.End); err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
	}

	return s.transition(ctx, op, id, domain.ActionReschedule, func(
		ctx context.Context,
		repos repository.Repos,
		res *domain.Reservation,
		now time.Time,
		after func(uow.AfterCommit),
	) error {
		window, err := rescheduledWindow(res, req)
		if err != nil {
			return err
		}

		free, err := allocation.FindAvailable(ctx, repos, res.RestaurantID, window, res.Party.Total, res.ID)
		if err != nil {
			return err
		}

		target, err := s.pickTable(ctx, repos, res, req.TableID, free)
		if err != nil {
			return err
		}

		moving := res.TableID == nil || *res.TableID != target.ID
		if moving && res.Status == domain.ReservationConfirmed {
			if res.TableID != nil {
				if err := s.dropHold(ctx, repos, *res.TableID, res.ID); err != nil {
					return err
				}
			}
			if _, err := s.tables.Hold(ctx, repos.Tables, target.ID); err != nil {
				return err
			}
		}

		tableID := target.ID
		res.TableID = &tableID
		res.Window = window
		res.Duration = window.Minutes()

		after(func(ctx context.Context) {
			s.notify(ctx, domain.NewReservationEvent(domain.EventReservationMoved, res, now))
			s.invalidate(ctx, res.RestaurantID)
		})

		return nil
	})
}

func rescheduledWindow(res *domain.Reservation, req RescheduleRequest) (domain.TimeWindow, error) {
	start := res.Window.Start
	if req.Start != nil {
		start = *req.Start
	}

	switch {
	case req.End != nil:
		return domain.NewWindow(start, *req.End)
	case req.DurationMin > 0:
		return domain.DeriveWindow(start, req.DurationMin)
	default:
		return domain.NewWindow(start, start.Add(res.Window.Duration()))
	}
}

func (s *Service) pickTable(
	ctx context.Context,
	repos repository.Repos,
	res *domain.Reservation,
	requested *uuid.UUID,
	free []domain.Table,
) (domain.Table, error) {
	if requested != nil {
		t, err := repos.Tables.Get(ctx, *requested)
		if err != nil {
			return domain.Table{}, notFound(err, ErrTableNotFound)
		}
		if t.RestaurantID != res.RestaurantID {
			return domain.Table{}, fmt.Errorf("%w: table belongs to another restaurant", ErrTableUnavailable)
		}
		for _, f := range free {
			if f.ID == t.ID {
				return f, nil
			}
		}
		return domain.Table{}, fmt.Errorf("%w: table %d", ErrTableUnavailable, t.Number)
	}

	if res.TableID != nil {
		for _, f := range free {
			if f.ID == *res.TableID {
				return f, nil
			}
		}
	}

	best, err := allocation.SelectBest(free, res.Party.Total)
	if err != nil {
		return domain.Table{}, ErrTableUnavailable
	}

	return best, nil
}

// SweepNoShows marks confirmed reservations that started more than the grace period
// ago as no-shows. It returns how many were marked.
func (s *Service) SweepNoShows(ctx context.Context) (int, error) {
	const op = "service.reservation.SweepNoShows"

	cutoff := s.cfg.Now().Add(-s.cfg.NoShowGrace)

	due, err := s.store.Repos().Reservations.Find(ctx, repository.ReservationFilter{
		Statuses:    []domain.ReservationStatus{domain.ReservationConfirmed},
		StartBefore: cutoff,
		Limit:       s.cfg.SweepBatch,
	})
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	marked := 0
	for _, r := range due {
		if ctx.Err() != nil {
			return marked, ctx.Err()
		}
		if !r.Late(cutoff) {
			continue
		}

		if _, err := s.MarkNoShow(ctx, r.ID); err != nil {
			// checked in or cancelled since the scan
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			s.logger.Warn("no-show sweep failed", "reservation_id", r.ID, "error", err)
			continue
		}
		marked++
	}

	return marked, nil
}

type step func(
	ctx context.Context,
	repos repository.Repos,
	res *domain.Reservation,
	now time.Time,
	after func(uow.AfterCommit),
) error

// transition re-reads the reservation under its restaurant's guard, applies action and
// then fn, and persists the result.
func (s *Service) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	action domain.ReservationAction,
	fn step,
) (_ *domain.Reservation, err error) {
	ctx, span := telemetry.StartSpan(ctx, op, attribute.String("reservation_id", id.String()))
	defer func() { telemetry.End(span, err) }()

	cur, err := s.store.Repos().Reservations.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, notFound(err, ErrReservationNotFound))
	}

	var out *domain.Reservation

	err = s.uow.Do(ctx, guard.RestaurantKey(cur.RestaurantID), func(
		ctx context.Context,
		repos repository.Repos,
		after func(uow.AfterCommit),
	) error {
		res, err := repos.Reservations.Get(ctx, id)
		if err != nil {
			return notFound(err, ErrReservationNotFound)
		}

		if err := res.Transition(action); err != nil {
			return err
		}

		now := s.cfg.Now()
		res.UpdatedAt = now

		if err := fn(ctx, repos, res, now, after); err != nil {
			return err
		}

		if err := repos.Reservations.Update(ctx, res); err != nil {
			return err
		}

		out = res
		return nil
	})
	if err != nil {
		if IsInvariantError(err) {
			s.logger.Error("reservation invariant violated", "op", op, "reservation_id", id, "error", err)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// dropHold returns a reserved table to available once no other confirmed
// reservation is bound to it.
func (s *Service) dropHold(ctx context.Context, repos repository.Repos, tableID, exclude uuid.UUID) error {
	t, err := repos.Tables.Get(ctx, tableID)
	if err != nil {
		return notFound(err, ErrTableNotFound)
	}

	if t.Status != domain.TableReserved {
		return nil
	}

	others, err := repos.Reservations.Find(ctx, repository.ReservationFilter{
		TableIDs: []uuid.UUID{tableID},
		Statuses: []domain.ReservationStatus{domain.ReservationConfirmed},
	})
	if err != nil {
		return err
	}

	for _, o := range others {
		if o.ID != exclude {
			return nil
		}
	}

	_, err = s.tables.Release(ctx, repos.Tables, tableID)
	return err
}

func (s *Service) checkRate(ctx context.Context, key string) error {
	if s.deps.Limiter == nil || key == "" {
		return nil
	}

	d, err := s.deps.Limiter.Allow(ctx, key)
	if err != nil {
		return err
	}

	if !d.Allowed {
		return &RateLimitedError{Key: key, RetryAfter: d.RetryAfter}
	}

	return nil
}

func (s *Service) notify(ctx context.Context, ev domain.Event) {
	if s.deps.Notifier == nil {
		return
	}

	if err := s.deps.Notifier.Publish(ctx, ev); err != nil {
		s.logger.Warn("notification failed", "type", ev.Type, "reservation_id", ev.ReservationID, "error", err)
	}
}

func (s *Service) record(ctx context.Context, ev domain.Event) {
	if s.deps.Analytics == nil {
		return
	}

	if err := s.deps.Analytics.Publish(ctx, ev); err != nil {
		s.logger.Warn("analytics publish failed", "type", ev.Type, "reservation_id", ev.ReservationID, "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context, restaurantID uuid.UUID) {
	if s.deps.Cache == nil {
		return
	}

	if err := s.deps.Cache.InvalidateRestaurant(ctx, restaurantID); err != nil {
		s.logger.Warn("availability cache invalidation failed", "restaurant_id", restaurantID, "error", err)
	}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
