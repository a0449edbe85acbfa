package study

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/progress"
	"github.com/w-udagawa/vlingual-cards/internal/scheduler"
)

func newTestManager(ttl time.Duration) (*Manager, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pool := staticPool(testRecords())
	m := NewManager(slog.Default(), ttl, func() *Controller {
		sched := scheduler.New(scheduler.Options{Policy: domain.PolicyMastery, Rand: rand.New(rand.NewPCG(1, 1))})
		return NewController(slog.Default(), pool, progress.NewMasteryStore(), sched, nil, nil, Options{Clock: &fakeClock{}})
	})
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(time.Hour)
	ctx := context.Background()

	id, st, err := m.Create(ctx, domain.PoolRef{VideoID: "bbbbbbbbbbb"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, "gamma", st.Current.Term)
	assert.Equal(t, 1, m.Len())

	ctrl, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "gamma", ctrl.Snapshot().Current.Term)

	require.NoError(t, m.Delete(id))
	_, err = m.Get(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, m.Delete(id), domain.ErrNotFound)
}

func TestManager_CreateUnknownPool(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(time.Hour)
	_, _, err := m.Create(context.Background(), domain.PoolRef{VideoID: "zzzzzzzzzzz"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(time.Hour)
	ctx := context.Background()
	a, _, err := m.Create(ctx, domain.PoolRef{VideoID: "bbbbbbbbbbb"})
	require.NoError(t, err)
	b, _, err := m.Create(ctx, domain.PoolRef{VideoID: "bbbbbbbbbbb"})
	require.NoError(t, err)

	ca, _ := m.Get(a)
	_, err = ca.Rate(ctx, domain.RatingEasy)
	require.NoError(t, err)

	cb, _ := m.Get(b)
	assert.Equal(t, 1, ca.Snapshot().Mastered)
	assert.Equal(t, 0, cb.Snapshot().Mastered)
}

func TestManager_SweepExpiresIdleSessions(t *testing.T) {
	t.Parallel()

	m, now := newTestManager(time.Hour)
	ctx := context.Background()

	old, _, err := m.Create(ctx, domain.PoolRef{})
	require.NoError(t, err)
	*now = now.Add(45 * time.Minute)
	fresh, _, err := m.Create(ctx, domain.PoolRef{})
	require.NoError(t, err)

	*now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err = m.Get(old)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = m.Get(fresh)
	assert.NoError(t, err)
}

func TestManager_GetRefreshesIdleTime(t *testing.T) {
	t.Parallel()

	m, now := newTestManager(time.Hour)
	id, _, err := m.Create(context.Background(), domain.PoolRef{})
	require.NoError(t, err)

	*now = now.Add(50 * time.Minute)
	_, err = m.Get(id)
	require.NoError(t, err)
	*now = now.Add(50 * time.Minute)

	assert.Equal(t, 0, m.Sweep())
}

func TestManager_NoTTL(t *testing.T) {
	t.Parallel()

	m, now := newTestManager(0)
	_, _, err := m.Create(context.Background(), domain.PoolRef{})
	require.NoError(t, err)
	*now = now.Add(1000 * time.Hour)
	assert.Equal(t, 0, m.Sweep())
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(time.Hour)
	_, _, err := m.Create(context.Background(), domain.PoolRef{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Run(ctx, time.Millisecond)
	}()
	cancel()
	wg.Wait()

	assert.Equal(t, 0, m.Len())
}
