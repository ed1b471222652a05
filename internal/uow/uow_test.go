package uow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/kirinyoku/tablebook/internal/domain"
	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/repository"
	"github.com/kirinyoku/tablebook/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeGuard records whether the key is held and how often it was acquired.
type probeGuard struct {
	inner    guard.Guard
	held     bool
	acquired int
	released int
}

func (g *probeGuard) Acquire(ctx context.Context, key string) (func(), error) {
	release, err := g.inner.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	g.held = true
	g.acquired++
	return func() {
		g.held = false
		g.released++
		release()
	}, nil
}

type flakyStore struct {
	repository.Store
	failures int
	calls    int
}

func (s *flakyStore) RunTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.calls++
	if err := s.Store.RunTx(ctx, fn); err != nil {
		return err
	}
	if s.calls <= s.failures {
		return fmt.Errorf("commit: %w", repository.ErrRetryable)
	}
	return nil
}

func TestUoW_HooksRunAfterReleaseOnSuccess(t *testing.T) {
	g := &probeGuard{inner: guard.NewLocal()}
	u := NewUoW(memory.NewStore(), g, nil)

	var heldDuringHook bool
	ran := false

	err := u.Do(context.Background(), "k", func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error {
		assert.True(t, g.held)
		after(func(ctx context.Context) {
			ran = true
			heldDuringHook = g.held
		})
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, heldDuringHook, "hooks must run after the key is released")
	assert.Equal(t, 1, g.released)
}

func TestUoW_ErrorSkipsHooksAndReleases(t *testing.T) {
	g := &probeGuard{inner: guard.NewLocal()}
	u := NewUoW(memory.NewStore(), g, nil)
	boom := errors.New("boom")

	ran := false
	err := u.Do(context.Background(), "k", func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error {
		after(func(ctx context.Context) { ran = true })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)
	assert.Equal(t, 1, g.released)
}

func TestUoW_RetriesRetryableErrors(t *testing.T) {
	store := &flakyStore{Store: memory.NewStore(), failures: 2}
	u := NewUoW(store, guard.NewLocal(), nil)

	hookRuns := 0
	err := u.Do(context.Background(), "k", func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error {
		after(func(ctx context.Context) { hookRuns++ })
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.calls)
	assert.Equal(t, 1, hookRuns, "hooks from failed attempts are discarded")
}

func TestUoW_GivesUpAfterMaxAttempts(t *testing.T) {
	store := &flakyStore{Store: memory.NewStore(), failures: 10}
	u := NewUoW(store, guard.NewLocal(), nil).WithMaxAttempts(2)

	err := u.Do(context.Background(), "k", func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error {
		return nil
	})
	assert.ErrorIs(t, err, repository.ErrRetryable)
	assert.Equal(t, 2, store.calls)
}

func TestUoW_AcquireFailureSkipsTransaction(t *testing.T) {
	local := guard.NewLocal()
	release, err := local.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &flakyStore{Store: memory.NewStore()}
	u := NewUoW(store, local, nil)
	err = u.Do(ctx, "k", func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.calls)
}

func TestUoW_WritesCommit(t *testing.T) {
	store := memory.NewStore()
	u := NewUoW(store, guard.NewLocal(), nil)
	tb := &domain.Table{ID: uuid.New(), RestaurantID: uuid.New(), Number: 1, Capacity: 2, Zone: domain.ZoneBar, Status: domain.TableAvailable}

	err := u.Do(context.Background(), "k", func(ctx context.Context, repos repository.Repos, after func(AfterCommit)) error {
		return repos.Tables.Create(ctx, tb)
	})
	require.NoError(t, err)

	got, err := store.Repos().Tables.Get(context.Background(), tb.ID)
	require.NoError(t, err)
	assert.Equal(t, tb.Number, got.Number)
}
