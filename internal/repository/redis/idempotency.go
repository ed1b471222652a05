package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemLocked    = "LOCK"
	idemResultTag = "RES:"
)

// IdempotencyStore remembers the response to a request carrying an Idempotency-Key.
// A key is either claimed (request in flight) or holds the saved response.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Claim marks key as in flight. It returns false when another request owns the key
// or already finished it.
func (s *IdempotencyStore) Claim(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, idemLocked, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("repository.redis.IdempotencyStore.Claim:%w", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, status int, payload []byte) error {
	val := fmt.Sprintf("%s%d:%s", idemResultTag, status, payload)
	if err := s.rdb.Set(ctx, key, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("repository.redis.IdempotencyStore.SaveResult:%w", err)
	}
	return nil
}

// GetResult returns the saved status and body for key, if the original request finished.
func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (int, []byte, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, fmt.Errorf("repository.redis.IdempotencyStore.GetResult:%w", err)
	}

	rest, ok := strings.CutPrefix(v, idemResultTag)
	if !ok {
		return 0, nil, false, nil
	}

	code, body, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, nil, false, nil
	}

	var status int
	if _, err := fmt.Sscanf(code, "%d", &status); err != nil {
		return 0, nil, false, nil
	}

	return status, []byte(body), true, nil
}

// Release forgets key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
