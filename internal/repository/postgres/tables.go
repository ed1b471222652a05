package postgresrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/repository"
)

type TableRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TableRepo) With(db DB) *TableRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TableRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const tableColumns = `id, restaurant_id, number, capacity, zone, status,
	occupancy_reservation_id, occupancy_start, occupancy_guests,
	avg_occupancy_minutes, last_maintenance`

func scanTable(row pgx.Row) (domain.Table, error) {
	var (
		t        domain.Table
		occResID *uuid.UUID
		occStart *time.Time
		occGuest *int
	)

	err := row.Scan(
		&t.ID, &t.RestaurantID, &t.Number, &t.Capacity, &t.Zone, &t.Status,
		&occResID, &occStart, &occGuest,
		&t.Metadata.AverageOccupancyTime, &t.Metadata.LastMaintenance,
	)
	if err != nil {
		return domain.Table{}, err
	}

	if occResID != nil && occStart != nil {
		t.CurrentOccupancy = &domain.Occupancy{
			ReservationID: *occResID,
			StartTime:     *occStart,
		}
		if occGuest != nil {
			t.CurrentOccupancy.GuestCount = *occGuest
		}
	}

	return t, nil
}

// Get retrieves a table by its ID.
//
// Returns:
//   - *domain.Table: the table when found.
//   - error: repository.ErrNotFound if the table is not found.
func (r *TableRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Table, error) {
	const op = "postgresrepo.TableRepo.Get"

	t, err := scanTable(r.handle().QueryRow(ctx,
		`SELECT `+tableColumns+`
		 FROM restaurant_tables WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &t, nil
}

// List lists every table of a restaurant ordered by number, maintenance included.
func (r *TableRepo) List(ctx context.Context, restaurantID uuid.UUID) ([]domain.Table, error) {
	const op = "postgresrepo.TableRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT `+tableColumns+`
		 FROM restaurant_tables
		 WHERE restaurant_id = $1
		 ORDER BY number`,
		restaurantID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Table, error) {
		return scanTable(row)
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// ListByRestaurant lists tables of a restaurant that can seat minCapacity guests and are
// not under maintenance.
func (r *TableRepo) ListByRestaurant(
	ctx context.Context,
	restaurantID uuid.UUID,
	minCapacity int,
) ([]domain.Table, error) {
	const op = "postgresrepo.TableRepo.ListByRestaurant"

	rows, err := r.handle().Query(ctx,
		`SELECT `+tableColumns+`
		 FROM restaurant_tables
		 WHERE restaurant_id = $1
		 	AND capacity >= $2
		 	AND status <> 'maintenance'`,
		restaurantID, minCapacity,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Create inserts a table.
//
// Returns:
//   - error: repository.ErrConflict if the number is already used in the restaurant.
func (r *TableRepo) Create(ctx context.Context, t *domain.Table) error {
	const op = "postgresrepo.TableRepo.Create"

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	_, err := r.handle().Exec(ctx,
		`INSERT INTO restaurant_tables(id, restaurant_id, number, capacity, zone, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.RestaurantID, t.Number, t.Capacity, t.Zone, t.Status,
	)

	return wrapDBErr(op, err)
}

func (r *TableRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.TableStatus) error {
	const op = "postgresrepo.TableRepo.SetStatus"

	return r.exec(ctx, op,
		`UPDATE restaurant_tables SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
}

func (r *TableRepo) SetOccupancy(ctx context.Context, id uuid.UUID, occ *domain.Occupancy) error {
	const op = "postgresrepo.TableRepo.SetOccupancy"

	if occ == nil {
		return r.exec(ctx, op,
			`UPDATE restaurant_tables
			 SET occupancy_reservation_id = NULL, occupancy_start = NULL, occupancy_guests = NULL,
			 	updated_at = now()
			 WHERE id = $1`,
			id,
		)
	}

	return r.exec(ctx, op,
		`UPDATE restaurant_tables
		 SET occupancy_reservation_id = $2, occupancy_start = $3, occupancy_guests = $4,
		 	updated_at = now()
		 WHERE id = $1`,
		id, occ.ReservationID, occ.StartTime, occ.GuestCount,
	)
}

func (r *TableRepo) SetAverageOccupancyTime(ctx context.Context, id uuid.UUID, minutes float64) error {
	const op = "postgresrepo.TableRepo.SetAverageOccupancyTime"

	return r.exec(ctx, op,
		`UPDATE restaurant_tables SET avg_occupancy_minutes = $2, updated_at = now() WHERE id = $1`,
		id, minutes,
	)
}

func (r *TableRepo) SetLastMaintenance(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "postgresrepo.TableRepo.SetLastMaintenance"

	return r.exec(ctx, op,
		`UPDATE restaurant_tables SET last_maintenance = $2, updated_at = now() WHERE id = $1`,
		id, at,
	)
}

func (r *TableRepo) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.handle().Exec(ctx, sql, args...)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}
