// Package memory is an in-process implementation of the repository contracts.
//
// Transactions buffer their writes and apply them on commit. They are not isolated from
// each other: like a read-committed database, two transactions can both read a row and
// then both write it. Callers that need check-then-act atomicity must hold a guard.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/repository"
)

type Store struct {
	mu           sync.RWMutex
	tables       map[uuid.UUID]domain.Table
	reservations map[uuid.UUID]domain.Reservation
}

func NewStore() *Store {
	return &Store{
		tables:       make(map[uuid.UUID]domain.Table),
		reservations: make(map[uuid.UUID]domain.Reservation),
	}
}

func (s *Store) Repos() repository.Repos {
	v := &view{store: s}
	return repository.Repos{
		Tables:       &TableRepo{v: v},
		Reservations: &ReservationRepo{v: v},
	}
}

func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	v := &view{store: s, tx: newTxn()}

	if err := fn(ctx, repository.Repos{
		Tables:       &TableRepo{v: v},
		Reservations: &ReservationRepo{v: v},
	}); err != nil {
		return err
	}

	// an aborted caller must not see its writes land
	if err := ctx.Err(); err != nil {
		return err
	}

	s.commit(v.tx)

	return nil
}

func (s *Store) commit(tx *txn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range tx.tables {
		s.tables[id] = t
	}
	for id, r := range tx.reservations {
		s.reservations[id] = r
	}
}

type txn struct {
	mu           sync.Mutex
	tables       map[uuid.UUID]domain.Table
	reservations map[uuid.UUID]domain.Reservation
}

func newTxn() *txn {
	return &txn{
		tables:       make(map[uuid.UUID]domain.Table),
		reservations: make(map[uuid.UUID]domain.Reservation),
	}
}

// view reads through a transaction's pending writes to the committed state.
type view struct {
	store *Store
	tx    *txn
}

func (v *view) table(id uuid.UUID) (domain.Table, bool) {
	if v.tx != nil {
		v.tx.mu.Lock()
		t, ok := v.tx.tables[id]
		v.tx.mu.Unlock()
		if ok {
			return cloneTable(t), true
		}
	}

	v.store.mu.RLock()
	defer v.store.mu.RUnlock()

	t, ok := v.store.tables[id]
	return cloneTable(t), ok
}

func (v *view) putTable(t domain.Table) {
	t = cloneTable(t)

	if v.tx != nil {
		v.tx.mu.Lock()
		v.tx.tables[t.ID] = t
		v.tx.mu.Unlock()
		return
	}

	v.store.mu.Lock()
	v.store.tables[t.ID] = t
	v.store.mu.Unlock()
}

func (v *view) allTables() []domain.Table {
	merged := make(map[uuid.UUID]domain.Table)

	v.store.mu.RLock()
	for id, t := range v.store.tables {
		merged[id] = t
	}
	v.store.mu.RUnlock()

	if v.tx != nil {
		v.tx.mu.Lock()
		for id, t := range v.tx.tables {
			merged[id] = t
		}
		v.tx.mu.Unlock()
	}

	out := make([]domain.Table, 0, len(merged))
	for _, t := range merged {
		out = append(out, cloneTable(t))
	}

	return out
}

func (v *view) reservation(id uuid.UUID) (domain.Reservation, bool) {
	if v.tx != nil {
		v.tx.mu.Lock()
		r, ok := v.tx.reservations[id]
		v.tx.mu.Unlock()
		if ok {
			return cloneReservation(r), true
		}
	}

	v.store.mu.RLock()
	defer v.store.mu.RUnlock()

	r, ok := v.store.reservations[id]
	return cloneReservation(r), ok
}

func (v *view) putReservation(r domain.Reservation) {
	r = cloneReservation(r)

	if v.tx != nil {
		v.tx.mu.Lock()
		v.tx.reservations[r.ID] = r
		v.tx.mu.Unlock()
		return
	}

	v.store.mu.Lock()
	v.store.reservations[r.ID] = r
	v.store.mu.Unlock()
}

func (v *view) allReservations() []domain.Reservation {
	merged := make(map[uuid.UUID]domain.Reservation)

	v.store.mu.RLock()
	for id, r := range v.store.reservations {
		merged[id] = r
	}
	v.store.mu.RUnlock()

	if v.tx != nil {
		v.tx.mu.Lock()
		for id, r := range v.tx.reservations {
			merged[id] = r
		}
		v.tx.mu.Unlock()
	}

	out := make([]domain.Reservation, 0, len(merged))
	for _, r := range merged {
		out = append(out, cloneReservation(r))
	}

	return out
}

type TableRepo struct {
	v *view
}

func (r *TableRepo) Get(_ context.Context, id uuid.UUID) (*domain.Table, error) {
	t, ok := r.v.table(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TableRepo) List(_ context.Context, restaurantID uuid.UUID) ([]domain.Table, error) {
	var out []domain.Table
	for _, t := range r.v.allTables() {
		if t.RestaurantID == restaurantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *TableRepo) ListByRestaurant(_ context.Context, restaurantID uuid.UUID, minCapacity int) ([]domain.Table, error) {
	var out []domain.Table
	for _, t := range r.v.allTables() {
		if t.RestaurantID != restaurantID {
			continue
		}
		if t.Capacity < minCapacity || t.Status == domain.TableMaintenance {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TableRepo) Create(_ context.Context, t *domain.Table) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	for _, existing := range r.v.allTables() {
		if existing.ID == t.ID {
			return repository.ErrConflict
		}
		if existing.RestaurantID == t.RestaurantID && existing.Number == t.Number {
			return repository.ErrConflict
		}
	}

	r.v.putTable(*t)
	return nil
}

func (r *TableRepo) update(id uuid.UUID, fn func(t *domain.Table)) error {
	t, ok := r.v.table(id)
	if !ok {
		return repository.ErrNotFound
	}
	fn(&t)
	r.v.putTable(t)
	return nil
}

func (r *TableRepo) SetStatus(_ context.Context, id uuid.UUID, status domain.TableStatus) error {
	return r.update(id, func(t *domain.Table) { t.Status = status })
}

func (r *TableRepo) SetOccupancy(_ context.Context, id uuid.UUID, occ *domain.Occupancy) error {
	return r.update(id, func(t *domain.Table) {
		if occ == nil {
			t.CurrentOccupancy = nil
			return
		}
		cp := *occ
		t.CurrentOccupancy = &cp
	})
}

func (r *TableRepo) SetAverageOccupancyTime(_ context.Context, id uuid.UUID, minutes float64) error {
	return r.update(id, func(t *domain.Table) { t.Metadata.AverageOccupancyTime = minutes })
}

func (r *TableRepo) SetLastMaintenance(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.update(id, func(t *domain.Table) { t.Metadata.LastMaintenance = &at })
}

type ReservationRepo struct {
	v *view
}

func (r *ReservationRepo) Get(_ context.Context, id uuid.UUID) (*domain.Reservation, error) {
	res, ok := r.v.reservation(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (r *ReservationRepo) Create(_ context.Context, res *domain.Reservation) error {
	if _, ok := r.v.reservation(res.ID); ok {
		return repository.ErrConflict
	}
	r.v.putReservation(*res)
	return nil
}

func (r *ReservationRepo) Update(_ context.Context, res *domain.Reservation) error {
	if _, ok := r.v.reservation(res.ID); !ok {
		return repository.ErrNotFound
	}
	r.v.putReservation(*res)
	return nil
}

func (r *ReservationRepo) Find(_ context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, res := range r.v.allReservations() {
		if matches(res, f) {
			out = append(out, res)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Window.Start.Equal(out[j].Window.Start) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Window.Start.Before(out[j].Window.Start)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}

	return out, nil
}

func matches(res domain.Reservation, f repository.ReservationFilter) bool {
	if f.RestaurantID != uuid.Nil && res.RestaurantID != f.RestaurantID {
		return false
	}

	if f.CustomerID != uuid.Nil && res.CustomerID != f.CustomerID {
		return false
	}

	if len(f.TableIDs) > 0 {
		if res.TableID == nil || !containsID(f.TableIDs, *res.TableID) {
			return false
		}
	}

	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, res.Status) {
		return false
	}

	if f.Overlapping != nil && !res.Window.Overlaps(*f.Overlapping) {
		return false
	}

	if !f.StartFrom.IsZero() && res.Window.Start.Before(f.StartFrom) {
		return false
	}

	if !f.StartBefore.IsZero() && !res.Window.Start.Before(f.StartBefore) {
		return false
	}

	return true
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func containsStatus(ss []domain.ReservationStatus, s domain.ReservationStatus) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func cloneTable(t domain.Table) domain.Table {
	if t.CurrentOccupancy != nil {
		occ := *t.CurrentOccupancy
		t.CurrentOccupancy = &occ
	}
	if t.Metadata.LastMaintenance != nil {
		lm := *t.Metadata.LastMaintenance
		t.Metadata.LastMaintenance = &lm
	}
	return t
}

func cloneReservation(r domain.Reservation) domain.Reservation {
	if r.TableID != nil {
		id := *r.TableID
		r.TableID = &id
	}
	if r.SeatedAt != nil {
		at := *r.SeatedAt
		r.SeatedAt = &at
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		r.CompletedAt = &at
	}
	r.Party.SpecialRequirements = slices.Clone(r.Party.SpecialRequirements)
	return r
}
