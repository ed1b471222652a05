package events

import (
	"context"
	"log/slog"

	"github.com/kirinyoku/tablebook/internal/domain"
)

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev domain.Event) error {
	attrs := []any{
		"event_id", ev.ID,
		"restaurant_id", ev.RestaurantID,
		"reservation_id", ev.ReservationID,
	}
	if ev.TableID != nil {
		attrs = append(attrs, "table_id", *ev.TableID)
	}
	if ev.OccupancyMinutes > 0 {
		attrs = append(attrs, "occupancy_minutes", ev.OccupancyMinutes)
	}

	p.logger.InfoContext(ctx, string(ev.Type), attrs...)
	return nil
}

// Fanout delivers each event to every publisher and returns the first error.
type Fanout []interface {
	Publish(ctx context.Context, ev domain.Event) error
}

func (f Fanout) Publish(ctx context.Context, ev domain.Event) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
