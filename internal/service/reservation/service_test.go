package reservation

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/repository"
	"github.com/kirinyoku/tablebook/internal/repository/memory"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service/tables"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(_ context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) find(t domain.EventType) (domain.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Type == t {
			return ev, true
		}
	}
	return domain.Event{}, false
}

type LimiterMock struct {
	AllowFunc func(ctx context.Context, id string) (redisrepo.Decision, error)
}

func (m *LimiterMock) Allow(ctx context.Context, id string) (redisrepo.Decision, error) {
	return m.AllowFunc(ctx, id)
}

type CacheMock struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (m *CacheMock) InvalidateRestaurant(_ context.Context, restaurantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, restaurantID)
	return nil
}

type harness struct {
	svc          *Service
	store        *memory.Store
	customers    *memory.CustomerStatsRepo
	notes        *recorder
	analytics    *recorder
	cache        *CacheMock
	clock        *fakeClock
	restaurantID uuid.UUID
	customerID   uuid.UUID
	tables       []domain.Table
}

func newHarness(t *testing.T, capacities ...int) *harness {
	t.Helper()
	return newHarnessWith(t, memory.NewStore(), guard.NewLocal(), Deps{}, capacities...)
}

func newHarnessWith(t *testing.T, store *memory.Store, g guard.Guard, deps Deps, capacities ...int) *harness {
	t.Helper()

	h := &harness{
		store:        store,
		customers:    memory.NewCustomerStatsRepo(),
		notes:        &recorder{},
		analytics:    &recorder{},
		cache:        &CacheMock{},
		clock:        &fakeClock{t: at(8)},
		restaurantID: uuid.New(),
		customerID:   uuid.New(),
	}

	for i, c := range capacities {
		tb := domain.Table{
			RestaurantID: h.restaurantID,
			Number:       i + 1,
			Capacity:     c,
			Zone:         domain.ZoneMain,
			Status:       domain.TableAvailable,
		}
		require.NoError(t, store.Repos().Tables.Create(context.Background(), &tb))
		h.tables = append(h.tables, tb)
	}

	deps.Customers = h.customers
	deps.Notifier = h.notes
	deps.Analytics = h.analytics
	deps.Cache = h.cache

	h.svc = New(store, g, deps, Config{Now: h.clock.Now}, nil)
	return h
}

func (h *harness) create(from, to, adults int) (*domain.Reservation, error) {
	end := at(to)
	return h.svc.Create(context.Background(), CreateRequest{
		RestaurantID: h.restaurantID,
		CustomerID:   h.customerID,
		Start:        at(from),
		End:          &end,
		Adults:       adults,
	})
}

func (h *harness) table(t *testing.T, id uuid.UUID) *domain.Table {
	t.Helper()
	tb, err := h.store.Repos().Tables.Get(context.Background(), id)
	require.NoError(t, err)
	return tb
}

func TestCreate_BestFitAndOverlap(t *testing.T) {
	h := newHarness(t, 4, 6)
	a, b := h.tables[0], h.tables[1]

	first, err := h.create(10, 12, 4)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *first.TableID)
	assert.Equal(t, domain.ReservationPending, first.Status)
	assert.Equal(t, 120, first.Duration)

	_, err = h.svc.Confirm(context.Background(), first.ID)
	require.NoError(t, err)

	second, err := h.create(11, 13, 4)
	require.NoError(t, err)
	assert.Equal(t, b.ID, *second.TableID)

	third, err := h.create(12, 14, 4)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *third.TableID, "touching windows do not overlap")
}

func TestCreate_PendingBlocksTable(t *testing.T) {
	h := newHarness(t, 4)

	_, err := h.create(10, 12, 2)
	require.NoError(t, err)

	_, err = h.create(11, 13, 2)
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestCreate_DefaultDuration(t *testing.T) {
	h := newHarness(t, 4)

	res, err := h.svc.Create(context.Background(), CreateRequest{
		RestaurantID: h.restaurantID,
		CustomerID:   h.customerID,
		Start:        at(18),
		Adults:       2,
		Children:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, at(20), res.Window.End)
	assert.Equal(t, 3, res.Party.Total)
	assert.Equal(t, domain.SourceWeb, res.Source)
}

func TestCreate_ExplicitEndWinsOverDuration(t *testing.T) {
	h := newHarness(t, 4)
	end := at(19)

	res, err := h.svc.Create(context.Background(), CreateRequest{
		RestaurantID: h.restaurantID,
		CustomerID:   h.customerID,
		Start:        at(18),
		End:          &end,
		DurationMin:  240,
		Adults:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, end, res.Window.End)
	assert.Equal(t, 60, res.Duration)
}

type failingGuard struct{ t *testing.T }

func (g failingGuard) Acquire(context.Context, string) (func(), error) {
	g.t.Fatal("guard acquired for a request that should have been rejected")
	return nil, nil
}

func TestCreate_ValidationHappensBeforeLocking(t *testing.T) {
	h := newHarnessWith(t, memory.NewStore(), failingGuard{t}, Deps{}, 4)
	ctx := context.Background()
	end := at(10)

	cases := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"end before start", CreateRequest{Start: at(12), End: &end, Adults: 2}, domain.ErrInvalidWindow},
		{"end equals start", CreateRequest{Start: at(10), End: &end, Adults: 2}, domain.ErrInvalidWindow},
		{"missing start", CreateRequest{Adults: 2}, domain.ErrInvalidWindow},
		{"negative duration", CreateRequest{Start: at(10), DurationMin: -5, Adults: 2}, domain.ErrInvalidWindow},
		{"no adults", CreateRequest{Start: at(10), Children: 2}, domain.ErrInvalidPartySize},
		{"negative children", CreateRequest{Start: at(10), Adults: 2, Children: -1}, domain.ErrInvalidPartySize},
		{"bad source", CreateRequest{Start: at(10), Adults: 2, Source: "fax"}, domain.ErrInvalidSource},
		{"party total overflows", CreateRequest{Start: at(10), Adults: math.MaxInt, Children: 1}, domain.ErrInvalidPartySize},
		{"party above largest table", CreateRequest{Start: at(10), Adults: 12, Children: 1}, domain.ErrInvalidPartySize},
		{"duration spans years", CreateRequest{Start: at(10), DurationMin: 310000000, Adults: 2}, domain.ErrInvalidWindow},
		{"explicit end a week later", CreateRequest{Start: at(10), End: ptr(at(10).AddDate(0, 0, 7)), Adults: 2}, domain.ErrInvalidWindow},
		{"unknown requirement", CreateRequest{
			Start: at(10), Adults: 2, SpecialRequirements: []domain.SpecialRequirement{"valet_parking"},
		}, domain.ErrInvalidRequirement},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.RestaurantID = h.restaurantID
			tc.req.CustomerID = h.customerID
			_, err := h.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, domain.IsValidationError(err))
		})
	}

	_, err := h.svc.Create(ctx, CreateRequest{CustomerID: h.customerID, Start: at(10), Adults: 2})
	assert.ErrorIs(t, err, domain.ErrMissingReference)
}

func TestCreate_CapacityRespected(t *testing.T) {
	h := newHarness(t, 2, 4, 12)

	res, err := h.create(10, 12, 5)
	require.NoError(t, err)
	assert.Equal(t, h.tables[2].ID, *res.TableID)

	_, err = h.create(10, 12, 11)
	assert.ErrorIs(t, err, ErrNoAvailability, "the only table big enough is taken")

	_, err = h.create(10, 12, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidPartySize, "no table could ever seat the party")
}

func TestCreate_SkipsMaintenance(t *testing.T) {
	h := newHarness(t, 4)
	require.NoError(t, h.store.Repos().Tables.SetStatus(context.Background(), h.tables[0].ID, domain.TableMaintenance))

	_, err := h.create(10, 12, 2)
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestCreate_ConcurrentRaceHasOneWinner(t *testing.T) {
	h := newHarness(t, 4)

	const callers = 12
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, callers)
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = h.create(10, 12, 4)
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrNoAvailability)
	}
	assert.Equal(t, 1, wins)

	live, err := h.store.Repos().Reservations.Find(context.Background(), repository.ReservationFilter{
		RestaurantID: h.restaurantID,
		Statuses:     domain.LiveStatuses,
	})
	require.NoError(t, err)
	assert.Len(t, live, 1)
}

type brokenFindStore struct {
	*memory.Store
}

type brokenReservations struct {
	repository.ReservationRepository
}

func (brokenReservations) Find(context.Context, repository.ReservationFilter) ([]domain.Reservation, error) {
	return nil, errors.New("i/o timeout")
}

func (s brokenFindStore) RunTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	return s.Store.RunTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		repos.Reservations = brokenReservations{repos.Reservations}
		return fn(ctx, repos)
	})
}

func TestCreate_FailsClosedWhenAvailabilityUnknown(t *testing.T) {
	h := newHarness(t, 4)
	broken := New(brokenFindStore{h.store}, guard.NewLocal(), Deps{}, Config{Now: h.clock.Now}, nil)
	end := at(12)

	_, err := broken.Create(context.Background(), CreateRequest{
		RestaurantID: h.restaurantID,
		CustomerID:   h.customerID,
		Start:        at(10),
		End:          &end,
		Adults:       2,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoAvailability)

	all, err := h.store.Repos().Reservations.Find(context.Background(), repository.ReservationFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate_RateLimited(t *testing.T) {
	var seen string
	limiter := &LimiterMock{AllowFunc: func(_ context.Context, id string) (redisrepo.Decision, error) {
		seen = id
		return redisrepo.Decision{Allowed: false, RetryAfter: 30 * time.Second}, nil
	}}
	h := newHarnessWith(t, memory.NewStore(), guard.NewLocal(), Deps{Limiter: limiter}, 4)

	_, err := h.svc.Create(context.Background(), CreateRequest{
		RestaurantID: h.restaurantID,
		CustomerID:   h.customerID,
		Start:        at(10),
		Adults:       2,
		RateKey:      "ip:10.0.0.1",
	})
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, "ip:10.0.0.1", seen)

	var rl *RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 30*time.Second, rl.RetryAfter)
}

func TestCreate_SideEffects(t *testing.T) {
	h := newHarness(t, 4)

	res, err := h.create(10, 12, 2)
	require.NoError(t, err)

	stats := h.customers.Get(h.customerID)
	assert.Equal(t, 1, stats.TotalReservations)
	assert.Equal(t, at(8), stats.LastVisit)

	ev, ok := h.notes.find(domain.EventReservationCreated)
	require.True(t, ok)
	assert.Equal(t, res.ID, ev.ReservationID)
	assert.Equal(t, []uuid.UUID{h.restaurantID}, h.cache.invalidated)
}

func TestConfirm_HoldsTableAndSchedulesReminder(t *testing.T) {
	h := newHarness(t, 4)
	res, err := h.create(19, 21, 2)
	require.NoError(t, err)

	confirmed, err := h.svc.Confirm(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, confirmed.Status)
	assert.Equal(t, domain.TableReserved, h.table(t, *res.TableID).Status)

	assert.Equal(t, []domain.EventType{
		domain.EventReservationCreated,
		domain.EventReservationConfirmed,
		domain.EventReminderScheduled,
	}, h.notes.types())

	reminder, ok := h.notes.find(domain.EventReminderScheduled)
	require.True(t, ok)
	require.NotNil(t, reminder.RemindAt)
	assert.Equal(t, at(17), *reminder.RemindAt)

	_, err = h.svc.Confirm(context.Background(), res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirm_ReminderNeverInThePast(t *testing.T) {
	h := newHarness(t, 4)
	res, err := h.create(9, 11, 2)
	require.NoError(t, err)

	_, err = h.svc.Confirm(context.Background(), res.ID)
	require.NoError(t, err)

	reminder, ok := h.notes.find(domain.EventReminderScheduled)
	require.True(t, ok)
	assert.Equal(t, at(8), *reminder.RemindAt)
}

func TestCheckIn(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()
	res, err := h.create(10, 12, 3)
	require.NoError(t, err)

	_, err = h.svc.CheckIn(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending cannot be seated")

	_, err = h.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	h.clock.Set(at(10))
	seated, err := h.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationSeated, seated.Status)
	require.NotNil(t, seated.SeatedAt)

	tb := h.table(t, *res.TableID)
	assert.Equal(t, domain.TableOccupied, tb.Status)
	require.NotNil(t, tb.CurrentOccupancy)
	assert.Equal(t, res.ID, tb.CurrentOccupancy.ReservationID)
	assert.Equal(t, 3, tb.CurrentOccupancy.GuestCount)
	assert.Equal(t, at(10), tb.CurrentOccupancy.StartTime)
}

func TestCheckIn_TableStillOccupiedByEarlierParty(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	early, err := h.create(10, 12, 2)
	require.NoError(t, err)
	late, err := h.create(12, 14, 2)
	require.NoError(t, err)
	require.Equal(t, *early.TableID, *late.TableID)

	for _, id := range []uuid.UUID{early.ID, late.ID} {
		_, err = h.svc.Confirm(ctx, id)
		require.NoError(t, err)
	}
	_, err = h.svc.CheckIn(ctx, early.ID)
	require.NoError(t, err)

	_, err = h.svc.CheckIn(ctx, late.ID)
	assert.ErrorIs(t, err, ErrTableUnavailable)

	got, err := h.svc.Get(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, got.Status)
}

func TestCancel(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	early, err := h.create(10, 12, 2)
	require.NoError(t, err)
	late, err := h.create(12, 14, 2)
	require.NoError(t, err)
	for _, id := range []uuid.UUID{early.ID, late.ID} {
		_, err = h.svc.Confirm(ctx, id)
		require.NoError(t, err)
	}
	_, err = h.svc.CheckIn(ctx, early.ID)
	require.NoError(t, err)

	_, err = h.svc.Cancel(ctx, early.ID, "changed mind")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "seated cannot be cancelled")

	cancelled, err := h.svc.Cancel(ctx, late.ID, "weather")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, cancelled.Status)
	assert.Equal(t, "weather", cancelled.CancelReason)

	tb := h.table(t, *early.TableID)
	assert.Equal(t, domain.TableOccupied, tb.Status, "cancelling a party that never sat releases nothing")
	assert.Equal(t, early.ID, tb.CurrentOccupancy.ReservationID)

	assert.Equal(t, 1, h.customers.Get(h.customerID).CanceledReservations)
	_, ok := h.notes.find(domain.EventReservationCancelled)
	assert.True(t, ok)

	_, err = h.svc.Cancel(ctx, late.ID, "again")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_DropsHoldOnlyWhenLastConfirmed(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	first, err := h.create(10, 12, 2)
	require.NoError(t, err)
	second, err := h.create(14, 16, 2)
	require.NoError(t, err)
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		_, err = h.svc.Confirm(ctx, id)
		require.NoError(t, err)
	}
	tableID := *first.TableID

	_, err = h.svc.Cancel(ctx, first.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TableReserved, h.table(t, tableID).Status)

	_, err = h.svc.Cancel(ctx, second.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TableAvailable, h.table(t, tableID).Status)
}

func TestCancel_FreesWindow(t *testing.T) {
	h := newHarness(t, 4)

	res, err := h.create(10, 12, 2)
	require.NoError(t, err)
	_, err = h.svc.Cancel(context.Background(), res.ID, "")
	require.NoError(t, err)

	again, err := h.create(10, 12, 2)
	require.NoError(t, err)
	assert.Equal(t, *res.TableID, *again.TableID)
}

func TestComplete(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	res, err := h.create(10, 12, 2)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	_, err = h.svc.Complete(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "confirmed cannot complete")

	h.clock.Set(at(10))
	_, err = h.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	h.clock.Set(at(10).Add(80 * time.Minute))
	done, err := h.svc.Complete(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	tb := h.table(t, *res.TableID)
	assert.Equal(t, domain.TableAvailable, tb.Status)
	assert.Nil(t, tb.CurrentOccupancy)
	assert.InDelta(t, 40.0, tb.Metadata.AverageOccupancyTime, 1e-9)

	assert.Equal(t, []domain.EventType{domain.EventReservationCompleted, domain.EventTableTurnover}, h.analytics.types())
	turnover, _ := h.analytics.find(domain.EventTableTurnover)
	assert.InDelta(t, 80.0, turnover.OccupancyMinutes, 1e-9)

	for _, op := range []func(context.Context, uuid.UUID) (*domain.Reservation, error){
		h.svc.Confirm, h.svc.CheckIn, h.svc.Complete, h.svc.MarkNoShow,
	} {
		_, err = op(ctx, res.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "completed is terminal")
	}
}

func TestComplete_ForeignOccupantIsInvariantViolation(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	res, err := h.create(10, 12, 2)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	_, err = h.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	require.NoError(t, h.store.Repos().Tables.SetOccupancy(ctx, *res.TableID, &domain.Occupancy{
		ReservationID: uuid.New(),
		StartTime:     at(10),
		GuestCount:    2,
	}))

	_, err = h.svc.Complete(ctx, res.ID)
	assert.True(t, IsInvariantError(err))
	assert.ErrorIs(t, err, tables.ErrAlreadyOccupied)

	got, err := h.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationSeated, got.Status, "nothing is committed")
}

func TestMarkNoShow(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	res, err := h.create(10, 12, 2)
	require.NoError(t, err)

	_, err = h.svc.MarkNoShow(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending cannot be a no-show")

	_, err = h.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	_, err = h.svc.MarkNoShow(ctx, res.ID)
	assert.ErrorIs(t, err, ErrTooEarly)

	h.clock.Set(at(10))
	got, err := h.svc.MarkNoShow(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationNoShow, got.Status)

	assert.Equal(t, domain.TableAvailable, h.table(t, *res.TableID).Status)
	assert.Equal(t, 1, h.customers.Get(h.customerID).NoShows)
	_, ok := h.analytics.find(domain.EventReservationNoShow)
	assert.True(t, ok)
}

func TestReschedule(t *testing.T) {
	h := newHarness(t, 4, 6)
	ctx := context.Background()
	a, b := h.tables[0], h.tables[1]

	mine, err := h.create(10, 12, 4)
	require.NoError(t, err)
	require.Equal(t, a.ID, *mine.TableID)

	// overlapping its own old window keeps the same table
	start := at(11)
	moved, err := h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{Start: &start})
	require.NoError(t, err)
	assert.Equal(t, a.ID, *moved.TableID)
	assert.Equal(t, at(13), moved.Window.End, "length is kept")

	other, err := h.create(14, 16, 4)
	require.NoError(t, err)
	require.Equal(t, a.ID, *other.TableID)

	start = at(15)
	moved, err = h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{Start: &start})
	require.NoError(t, err)
	assert.Equal(t, b.ID, *moved.TableID, "falls back to another table when its own is taken")

	_, err = h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{TableID: &a.ID})
	assert.ErrorIs(t, err, ErrTableUnavailable)

	missing := uuid.New()
	_, err = h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{TableID: &missing})
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{})
	assert.ErrorIs(t, err, ErrNothingToChange)

	_, ok := h.notes.find(domain.EventReservationMoved)
	assert.True(t, ok)
}

func TestReschedule_NoFreeTable(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	mine, err := h.create(10, 12, 2)
	require.NoError(t, err)
	_, err = h.create(14, 16, 2)
	require.NoError(t, err)

	start := at(15)
	_, err = h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{Start: &start})
	assert.ErrorIs(t, err, ErrTableUnavailable)

	got, err := h.svc.Get(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, at(10), got.Window.Start, "a failed reschedule changes nothing")
}

func TestReschedule_MovesHold(t *testing.T) {
	h := newHarness(t, 4, 4)
	ctx := context.Background()
	a, b := h.tables[0], h.tables[1]

	res, err := h.create(10, 12, 2)
	require.NoError(t, err)
	require.Equal(t, a.ID, *res.TableID)
	_, err = h.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	_, err = h.svc.Reschedule(ctx, res.ID, RescheduleRequest{TableID: &b.ID})
	require.NoError(t, err)

	assert.Equal(t, domain.TableAvailable, h.table(t, a.ID).Status)
	assert.Equal(t, domain.TableReserved, h.table(t, b.ID).Status)
}

func TestReschedule_RejectsSeatedAndTerminal(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	res, err := h.create(10, 12, 2)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	_, err = h.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	start := at(13)
	_, err = h.svc.Reschedule(ctx, res.ID, RescheduleRequest{Start: &start})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReschedule_InvalidWindow(t *testing.T) {
	h := newHarness(t, 4)
	res, err := h.create(10, 12, 2)
	require.NoError(t, err)

	start, end := at(14), at(13)
	_, err = h.svc.Reschedule(context.Background(), res.ID, RescheduleRequest{Start: &start, End: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	end = at(9)
	_, err = h.svc.Reschedule(context.Background(), res.ID, RescheduleRequest{End: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow, "new end before the kept start")
}

func TestUnknownReservation(t *testing.T) {
	h := newHarness(t, 4)
	id := uuid.New()

	_, err := h.svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = h.svc.Confirm(context.Background(), id)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestSweepNoShows(t *testing.T) {
	h := newHarness(t, 4, 4, 4)
	ctx := context.Background()

	overdue, err := h.create(9, 11, 2)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, overdue.ID)
	require.NoError(t, err)

	pending, err := h.create(9, 11, 2)
	require.NoError(t, err)

	later, err := h.create(10, 12, 2)
	require.NoError(t, err)
	_, err = h.svc.Confirm(ctx, later.ID)
	require.NoError(t, err)

	h.clock.Set(at(10).Add(10 * time.Minute))
	n, err := h.svc.SweepNoShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := h.svc.Get(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationNoShow, got.Status)

	got, err = h.svc.Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, got.Status)

	got, err = h.svc.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, got.Status, "still inside the grace period")
}

func TestNoDoubleBookingAcrossLifecycle(t *testing.T) {
	h := newHarness(t, 2, 4, 4, 6)
	ctx := context.Background()

	for hour := 9; hour < 20; hour++ {
		for party := 1; party <= 6; party++ {
			res, err := h.create(hour, hour+2, party)
			if errors.Is(err, ErrNoAvailability) {
				continue
			}
			require.NoError(t, err)
			if party%2 == 0 {
				_, err = h.svc.Confirm(ctx, res.ID)
				require.NoError(t, err)
			}
		}
	}

	live, err := h.store.Repos().Reservations.Find(ctx, repository.ReservationFilter{
		RestaurantID: h.restaurantID,
		Statuses:     domain.LiveStatuses,
	})
	require.NoError(t, err)
	require.NotEmpty(t, live)

	capacity := make(map[uuid.UUID]int)
	for _, tb := range h.tables {
		capacity[tb.ID] = tb.Capacity
	}

	for i := range live {
		assert.GreaterOrEqual(t, capacity[*live[i].TableID], live[i].Party.Total)
		for j := i + 1; j < len(live); j++ {
			if *live[i].TableID != *live[j].TableID {
				continue
			}
			assert.False(t, live[i].Window.Overlaps(live[j].Window),
				"%s and %s double-book a table", live[i].Window, live[j].Window)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_KeepsRequirementsAndNotes(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	res, err := h.svc.Create(ctx, CreateRequest{
		RestaurantID:        h.restaurantID,
		CustomerID:          h.customerID,
		Start:               at(19),
		Adults:              2,
		Children:            1,
		SpecialRequirements: []domain.SpecialRequirement{domain.RequirementWheelchairAccess, domain.RequirementWheelchairAccess},
		Notes:               domain.ReservationNotes{Staff: "regular", Kitchen: "gluten free"},
	})
	require.NoError(t, err)

	stored, err := h.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Party.Total)
	assert.Equal(t, []domain.SpecialRequirement{domain.RequirementWheelchairAccess}, stored.Party.SpecialRequirements)
	assert.Equal(t, domain.ReservationNotes{Staff: "regular", Kitchen: "gluten free"}, stored.Notes)
}

func TestReschedule_RejectsOverlongWindow(t *testing.T) {
	h := newHarness(t, 4)
	ctx := context.Background()

	mine, err := h.create(10, 12, 2)
	require.NoError(t, err)

	_, err = h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{DurationMin: domain.MaxDurationMinutes + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	_, err = h.svc.Reschedule(ctx, mine.ID, RescheduleRequest{End: ptr(at(10).AddDate(1, 0, 0))})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	stored, err := h.svc.Get(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, at(12), stored.Window.End, "rejected reschedule leaves the window alone")
}
