package postgresrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerStatsRepo keeps the per-customer counters owned by the customer collaborator.
type CustomerStatsRepo struct {
	pool *pgxpool.Pool
}

func (r *CustomerStatsRepo) IncrementReservations(ctx context.Context, customerID uuid.UUID, at time.Time) error {
	const op = "postgresrepo.CustomerStatsRepo.IncrementReservations"

	_, err := r.pool.Exec(ctx,
		`INSERT INTO customer_stats(customer_id, total_reservations, last_visit)
		 VALUES ($1, 1, $2)
		 ON CONFLICT (customer_id) DO UPDATE
		 SET total_reservations = customer_stats.total_reservations + 1,
		 	last_visit = EXCLUDED.last_visit`,
		customerID, at,
	)

	return wrapDBErr(op, err)
}

func (r *CustomerStatsRepo) IncrementCancellations(ctx context.Context, customerID uuid.UUID) error {
	const op = "postgresrepo.CustomerStatsRepo.IncrementCancellations"

	_, err := r.pool.Exec(ctx,
		`INSERT INTO customer_stats(customer_id, canceled_reservations)
		 VALUES ($1, 1)
		 ON CONFLICT (customer_id) DO UPDATE
		 SET canceled_reservations = customer_stats.canceled_reservations + 1`,
		customerID,
	)

	return wrapDBErr(op, err)
}

func (r *CustomerStatsRepo) IncrementNoShows(ctx context.Context, customerID uuid.UUID) error {
	const op = "postgresrepo.CustomerStatsRepo.IncrementNoShows"

	_, err := r.pool.Exec(ctx,
		`INSERT INTO customer_stats(customer_id, no_shows)
		 VALUES ($1, 1)
		 ON CONFLICT (customer_id) DO UPDATE
		 SET no_shows = customer_stats.no_shows + 1`,
		customerID,
	)

	return wrapDBErr(op, err)
}
