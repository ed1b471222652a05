// Package guard serializes allocation decisions. Every read-check-write on a restaurant's
// tables and reservations runs while holding that restaurant's key.
package guard

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Guard grants exclusive ownership of a key. release must be called exactly once on
// every path after a successful Acquire; calling it again is a no-op.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

func RestaurantKey(restaurantID uuid.UUID) string {
	return "restaurant:" + restaurantID.String()
}

// Local is an in-process keyed mutex. Waiting for a key honours ctx cancellation.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{locks: make(map[string]*entry)}
}

func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.unref(key, e)
		})
	}, nil
}

func (l *Local) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
