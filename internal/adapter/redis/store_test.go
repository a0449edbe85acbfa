package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-udagawa/vlingual-cards/internal/adapter/kvtest"
	"github.com/w-udagawa/vlingual-cards/internal/config"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := New(rdb, prefix)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()
	kvtest.Run(t, func(t *testing.T) kvtest.Store {
		s, _ := newTestStore(t, "vlingual:")
		return s
	})
}

func TestStore_NamespacesKeys(t *testing.T) {
	t.Parallel()

	s, mr := newTestStore(t, "cards:")
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "theme_preference", "light"))
	require.NoError(t, mr.Set("other:theme_preference", "dark"))

	got, err := mr.Get("cards:theme_preference")
	require.NoError(t, err)
	assert.Equal(t, "light", got)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"theme_preference"}, keys)
}

func TestOpen_PingsServer(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	s, err := Open(context.Background(), config.RedisConfig{Addr: mr.Addr(), Prefix: "p:", DialTimeout: time.Second})
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), config.RedisConfig{Addr: addr, DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
