package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/repository/memory"
)

var now = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return New(store, guard.NewLocal(), nil, func() time.Time { return now }, nil), store
}

func TestCreateTable(t *testing.T) {
	s, store := newService()
	ctx := context.Background()
	rid := uuid.New()

	tb, err := s.CreateTable(ctx, CreateTableRequest{RestaurantID: rid, Number: 7, Capacity: 4, Zone: domain.ZoneBar})
	require.NoError(t, err)
	assert.Equal(t, domain.TableAvailable, tb.Status)

	got, err := store.Repos().Tables.Get(ctx, tb.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Number)
	assert.Equal(t, domain.ZoneBar, got.Zone)

	_, err = s.CreateTable(ctx, CreateTableRequest{RestaurantID: rid, Number: 7, Capacity: 2})
	assert.ErrorIs(t, err, ErrTableConflict)
}

func TestCreateTable_Validation(t *testing.T) {
	s, _ := newService()
	rid := uuid.New()

	cases := []CreateTableRequest{
		{RestaurantID: rid, Number: 1, Capacity: 0},
		{RestaurantID: rid, Number: 1, Capacity: 13},
		{RestaurantID: rid, Number: 0, Capacity: 4},
		{RestaurantID: rid, Number: 1, Capacity: 4, Zone: "rooftop"},
	}
	for _, req := range cases {
		_, err := s.CreateTable(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidTable, "%+v", req)
	}

	for _, c := range []int{domain.MinTableCapacity, domain.MaxTableCapacity} {
		_, err := s.CreateTable(context.Background(), CreateTableRequest{RestaurantID: rid, Number: c, Capacity: c})
		assert.NoError(t, err)
	}
}

func TestSetMaintenance(t *testing.T) {
	s, store := newService()
	ctx := context.Background()

	tb, err := s.CreateTable(ctx, CreateTableRequest{RestaurantID: uuid.New(), Number: 1, Capacity: 4})
	require.NoError(t, err)

	got, err := s.SetMaintenance(ctx, tb.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TableMaintenance, got.Status)

	got, err = s.SetMaintenance(ctx, tb.ID, true)
	require.NoError(t, err, "entering maintenance twice is a no-op")
	assert.Equal(t, domain.TableMaintenance, got.Status)

	got, err = s.SetMaintenance(ctx, tb.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TableAvailable, got.Status)
	require.NotNil(t, got.Metadata.LastMaintenance)
	assert.Equal(t, now, *got.Metadata.LastMaintenance)

	require.NoError(t, store.Repos().Tables.SetStatus(ctx, tb.ID, domain.TableOccupied))
	_, err = s.SetMaintenance(ctx, tb.ID, true)
	assert.ErrorIs(t, err, ErrTableOccupied)

	_, err = s.SetMaintenance(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrTableNotFound)
}
