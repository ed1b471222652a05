package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() domain.Event {
	table := uuid.New()
	return domain.Event{
		ID:               uuid.New(),
		Type:             domain.EventTableTurnover,
		RestaurantID:     uuid.New(),
		ReservationID:    uuid.New(),
		TableID:          &table,
		OccupancyMinutes: 75,
		OccurredAt:       time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC),
	}
}

func TestRecord(t *testing.T) {
	ev := sampleEvent()

	rec, err := record("reservations", ev)
	require.NoError(t, err)

	assert.Equal(t, "reservations", rec.Topic)
	assert.Equal(t, ev.RestaurantID.String(), string(rec.Key))
	assert.Equal(t, ev.OccurredAt, rec.Timestamp)
	require.Len(t, rec.Headers, 1)
	assert.Equal(t, "table.turnover", string(rec.Headers[0].Value))

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, ev.ID, decoded.ID)
	assert.InDelta(t, 75.0, decoded.OccupancyMinutes, 1e-9)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	ev := sampleEvent()
	require.NoError(t, p.Publish(context.Background(), ev))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "table.turnover", line["msg"])
	assert.Equal(t, ev.ReservationID.String(), line["reservation_id"])
	assert.Equal(t, ev.TableID.String(), line["table_id"])
}

type recorder struct {
	got []domain.Event
	err error
}

func (r *recorder) Publish(_ context.Context, ev domain.Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestFanout(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recorder{err: boom}, &recorder{}

	err := Fanout{a, b}.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1, "a failing publisher does not starve the rest")
}
