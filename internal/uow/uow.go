package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/repository"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

const (
	defaultMaxAttempts = 3
	retryBackoff       = 10 * time.Millisecond
)

// UoW represents a unit of work: a guarded transaction followed by after-commit hooks.
type UoW struct {
	store       repository.Store
	guard       guard.Guard
	maxAttempts int
	logger      *slog.Logger
}

func NewUoW(store repository.Store, g guard.Guard, logger *slog.Logger) *UoW {
	if logger == nil {
		logger = slog.Default()
	}
	return &UoW{
		store:       store,
		guard:       g,
		maxAttempts: defaultMaxAttempts,
		logger:      logger,
	}
}

// WithMaxAttempts overrides how many times a retryable transaction is run.
func (u *UoW) WithMaxAttempts(n int) *UoW {
	if n > 0 {
		u.maxAttempts = n
	}
	return u
}

// Do acquires key, runs fn inside a transaction and releases key. After a successful
// commit, and only once key is released, it executes all after-commit hooks.
// Hooks see a context that is not cancelled with the caller's.
func (u *UoW) Do(
	ctx context.Context,
	key string,
	fn func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error,
) error {
	const op = "uow.UoW.Do"

	release, err := u.guard.Acquire(ctx, key)
	if err != nil {
		return fmt.Errorf("%s: acquire %s: %w", op, key, err)
	}

	hooks, err := u.runTx(ctx, fn)
	release()
	if err != nil {
		return err
	}

	hookCtx := context.WithoutCancel(ctx)
	for _, h := range hooks {
		h(hookCtx)
	}

	return nil
}

func (u *UoW) runTx(
	ctx context.Context,
	fn func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error,
) ([]AfterCommit, error) {
	var (
		hooks []AfterCommit
		err   error
	)

	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		hooks = hooks[:0]
		err = u.store.RunTx(ctx, func(ctx context.Context, repos repository.Repos) error {
			return fn(ctx, repos, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil || !errors.Is(err, repository.ErrRetryable) {
			return hooks, err
		}

		u.logger.Warn("retrying transaction", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	return nil, err
}
