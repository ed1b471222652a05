package postgresrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/repository"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const reservationColumns = `id, restaurant_id, customer_id, table_id, start_time, end_time,
	duration_minutes, adults, children, special_requirements, status, source, cancel_reason,
	notes, staff_notes, kitchen_notes, created_at, updated_at, seated_at, completed_at`

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var (
		res          domain.Reservation
		requirements []string
	)

	err := row.Scan(
		&res.ID, &res.RestaurantID, &res.CustomerID, &res.TableID,
		&res.Window.Start, &res.Window.End,
		&res.Duration, &res.Party.Adults, &res.Party.Children, &requirements,
		&res.Status, &res.Source, &res.CancelReason,
		&res.Notes.Customer, &res.Notes.Staff, &res.Notes.Kitchen,
		&res.CreatedAt, &res.UpdatedAt, &res.SeatedAt, &res.CompletedAt,
	)
	if err != nil {
		return domain.Reservation{}, err
	}

	res.Party.Total = res.Party.Adults + res.Party.Children
	for _, r := range requirements {
		res.Party.SpecialRequirements = append(res.Party.SpecialRequirements, domain.SpecialRequirement(r))
	}

	return res, nil
}

func requirementStrings(reqs []domain.SpecialRequirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = string(r)
	}
	return out
}

// Get retrieves a reservation by its ID.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - id: unique identifier of the reservation.
//
// Returns:
//   - *domain.Reservation: the reservation when found.
//   - error: repository.ErrNotFound if the reservation is not found.
func (r *ReservationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "postgresrepo.ReservationRepo.Get"

	res, err := scanReservation(r.handle().QueryRow(ctx,
		`SELECT `+reservationColumns+`
		 FROM reservations WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &res, nil
}

// Create inserts a reservation.
//
// Returns:
//   - error: repository.ErrConflict if a reservation with the same ID exists.
func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	const op = "postgresrepo.ReservationRepo.Create"

	_, err := r.handle().Exec(ctx,
		`INSERT INTO reservations(
		 	id, restaurant_id, customer_id, table_id, start_time, end_time,
		 	duration_minutes, adults, children, special_requirements, status, source,
		 	cancel_reason, notes, staff_notes, kitchen_notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		res.ID, res.RestaurantID, res.CustomerID, res.TableID,
		res.Window.Start, res.Window.End,
		res.Duration, res.Party.Adults, res.Party.Children, requirementStrings(res.Party.SpecialRequirements),
		res.Status, res.Source, res.CancelReason,
		res.Notes.Customer, res.Notes.Staff, res.Notes.Kitchen,
		res.CreatedAt, res.UpdatedAt,
	)

	return wrapDBErr(op, err)
}

// Update overwrites the mutable fields of a reservation.
//
// Returns:
//   - error: repository.ErrNotFound if the reservation is not found.
func (r *ReservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	const op = "postgresrepo.ReservationRepo.Update"

	tag, err := r.handle().Exec(ctx,
		`UPDATE reservations
		 SET table_id = $2, start_time = $3, end_time = $4, duration_minutes = $5,
		 	status = $6, cancel_reason = $7, notes = $8, staff_notes = $9, kitchen_notes = $10,
		 	updated_at = $11, seated_at = $12, completed_at = $13
		 WHERE id = $1`,
		res.ID, res.TableID, res.Window.Start, res.Window.End, res.Duration,
		res.Status, res.CancelReason, res.Notes.Customer, res.Notes.Staff, res.Notes.Kitchen,
		res.UpdatedAt, res.SeatedAt, res.CompletedAt,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// Find lists reservations matching the filter ordered by start time.
func (r *ReservationRepo) Find(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	const op = "postgresrepo.ReservationRepo.Find"

	where, args := buildReservationWhere(f)

	sql := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY start_time, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		sql += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.handle().Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func buildReservationWhere(f repository.ReservationFilter) ([]string, []any) {
	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.RestaurantID != uuid.Nil {
		where = append(where, "restaurant_id = "+arg(f.RestaurantID))
	}

	if f.CustomerID != uuid.Nil {
		where = append(where, "customer_id = "+arg(f.CustomerID))
	}

	if len(f.TableIDs) > 0 {
		where = append(where, "table_id = ANY("+arg(f.TableIDs)+")")
	}

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}

	if f.Overlapping != nil {
		// half-open overlap: start < other.end AND other.start < end
		where = append(where, "start_time < "+arg(f.Overlapping.End))
		where = append(where, "end_time > "+arg(f.Overlapping.Start))
	}

	if !f.StartFrom.IsZero() {
		where = append(where, "start_time >= "+arg(f.StartFrom))
	}

	if !f.StartBefore.IsZero() {
		where = append(where, "start_time < "+arg(f.StartBefore))
	}

	return where, args
}
