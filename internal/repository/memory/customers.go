package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type CustomerStats struct {
	TotalReservations    int
	CanceledReservations int
	NoShows              int
	LastVisit            time.Time
}

type CustomerStatsRepo struct {
	mu    sync.Mutex
	stats map[uuid.UUID]CustomerStats
}

func NewCustomerStatsRepo() *CustomerStatsRepo {
	return &CustomerStatsRepo{stats: make(map[uuid.UUID]CustomerStats)}
}

func (r *CustomerStatsRepo) IncrementReservations(_ context.Context, customerID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats[customerID]
	s.TotalReservations++
	s.LastVisit = at
	r.stats[customerID] = s

	return nil
}

func (r *CustomerStatsRepo) IncrementCancellations(_ context.Context, customerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats[customerID]
	s.CanceledReservations++
	r.stats[customerID] = s

	return nil
}

func (r *CustomerStatsRepo) IncrementNoShows(_ context.Context, customerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats[customerID]
	s.NoShows++
	r.stats[customerID] = s

	return nil
}

func (r *CustomerStatsRepo) Get(customerID uuid.UUID) CustomerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stats[customerID]
}
