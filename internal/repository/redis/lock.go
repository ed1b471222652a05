package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the lock only while it still carries the caller's token.
const luaUnlock = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`

const (
	lockPollMin = 5 * time.Millisecond
	lockPollMax = 100 * time.Millisecond
)

// Locker is a cross-process mutex on a single Redis instance. Each lock expires after
// ttl, so a crashed holder cannot wedge a key forever; operations under the lock must
// finish well within ttl.
type Locker struct {
	rdb    *redis.Client
	ttl    time.Duration
	script *redis.Script
}

func NewLocker(rdb *redis.Client, ttl time.Duration) *Locker {
	return &Locker{
		rdb:    rdb,
		ttl:    ttl,
		script: redis.NewScript(luaUnlock),
	}
}

// Acquire blocks until it owns name or ctx is done.
func (l *Locker) Acquire(ctx context.Context, name string) (func(), error) {
	const op = "repository.redis.Locker.Acquire"

	key := KeyLock(name)
	token := uuid.NewString()
	wait := lockPollMin

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%s:%w", op, ctx.Err())
		case <-timer.C:
		}

		wait *= 2
		if wait > lockPollMax {
			wait = lockPollMax
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's ctx may already be cancelled; the key must still go
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			_ = l.script.Run(rctx, l.rdb, []string{key}, token).Err()
		})
	}, nil
}
