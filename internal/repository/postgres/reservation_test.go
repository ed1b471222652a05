package postgresrepo

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestBuildReservationWhere_Empty(t *testing.T) {
	where, args := buildReservationWhere(repository.ReservationFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildReservationWhere_OverlapIsHalfOpen(t *testing.T) {
	start := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	w := domain.TimeWindow{Start: start, End: start.Add(2 * time.Hour)}
	rid := uuid.New()

	where, args := buildReservationWhere(repository.ReservationFilter{
		RestaurantID: rid,
		TableIDs:     []uuid.UUID{uuid.New()},
		Statuses:     []domain.ReservationStatus{domain.ReservationConfirmed, domain.ReservationSeated},
		Overlapping:  &w,
	})

	assert.Equal(t, []string{
		"restaurant_id = $1",
		"table_id = ANY($2)",
		"status = ANY($3)",
		"start_time < $4",
		"end_time > $5",
	}, where)
	assert.Equal(t, rid, args[0])
	assert.Equal(t, []string{"confirmed", "seated"}, args[2])
	assert.Equal(t, w.End, args[3])
	assert.Equal(t, w.Start, args[4])
	assert.False(t, strings.Contains(strings.Join(where, " "), "<="), "touching windows must not match")
}

func TestBuildReservationWhere_Customer(t *testing.T) {
	cid := uuid.New()
	from := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	where, args := buildReservationWhere(repository.ReservationFilter{
		CustomerID: cid,
		StartFrom:  from,
		Limit:      10,
		Offset:     20,
	})

	assert.Equal(t, []string{"customer_id = $1", "start_time >= $2"}, where)
	assert.Equal(t, []any{cid, from}, args, "paging is appended by Find, not the where builder")
}

func TestRequirementStrings(t *testing.T) {
	assert.Equal(t, []string{}, requirementStrings(nil))
	assert.Equal(t, []string{"high_chair", "birthday"}, requirementStrings([]domain.SpecialRequirement{
		domain.RequirementHighChair, domain.RequirementBirthday,
	}))
}

func TestTranslateDBErr(t *testing.T) {
	assert.ErrorIs(t, translateDBErr(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, translateDBErr(&pgconn.PgError{Code: "23505"}), repository.ErrConflict)
	assert.ErrorIs(t, translateDBErr(&pgconn.PgError{Code: "40001"}), repository.ErrRetryable)
	assert.ErrorIs(t, translateDBErr(&pgconn.PgError{Code: "40P01"}), repository.ErrRetryable)

	other := errors.New("other")
	assert.Equal(t, other, translateDBErr(other))
	assert.NoError(t, translateDBErr(nil))
}
