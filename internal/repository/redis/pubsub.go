package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/tablebook/internal/domain"
)

// ReservationEvents fans reservation lifecycle events out to every subscribed instance.
type ReservationEvents struct {
	rdb     *redis.Client
	channel string
}

func NewReservationEvents(rdb *redis.Client) *ReservationEvents {
	return &ReservationEvents{
		rdb:     rdb,
		channel: ChannelReservationEvents(),
	}
}

func (p *ReservationEvents) Publish(ctx context.Context, ev domain.Event) error {
	const op = "repository.redis.ReservationEvents.Publish"

	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Subscribe calls handler for every event until ctx is done. A uuid.Nil restaurantID
// receives events for all restaurants.
func (p *ReservationEvents) Subscribe(
	ctx context.Context,
	restaurantID uuid.UUID,
	handler func(ctx context.Context, ev domain.Event),
) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("repository.redis.ReservationEvents.Subscribe:%w", err)
	}

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.Event
			if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
				continue
			}
			if restaurantID != uuid.Nil && ev.RestaurantID != restaurantID {
				continue
			}
			handler(ctx, ev)
		}
	}
}
