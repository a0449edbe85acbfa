// Package kvtest holds the behaviour every key/value store driver must share.
// Driver packages call Run from their own tests.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Store is the driver surface under test.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

// Run exercises a fresh store returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) Store) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		s := open(t)
		v, ok, err := s.Get(context.Background(), "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "theme_preference", "dark"))

		v, ok, err := s.Get(ctx, "theme_preference")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "dark", v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", "one"))
		require.NoError(t, s.Set(ctx, "k", "two"))

		v, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", v)
	})

	t.Run("empty value is stored", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", ""))

		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("unicode values", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		value := `{"ホロライブ":["達成する"]}`
		require.NoError(t, s.Set(ctx, "vocabulary_checked", value))

		v, _, err := s.Get(ctx, "vocabulary_checked")
		require.NoError(t, err)
		assert.Equal(t, value, v)
	})

	t.Run("remove", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", "v"))
		require.NoError(t, s.Remove(ctx, "k"))

		_, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		// Missing key.
		require.NoError(t, s.Remove(ctx, "k"))
	})

	t.Run("set many", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "a", "old"))
		require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))

		for k, want := range map[string]string{"a": "1", "b": "2"} {
			v, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			assert.True(t, ok, k)
			assert.Equal(t, want, v, k)
		}

		require.NoError(t, s.SetMany(ctx, nil))
	})

	t.Run("keys by prefix", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.SetMany(ctx, map[string]string{
			"vocab_progress":             "{}",
			"vocab_progress:BBBBBBBBBBB": "{}",
			"vocab_progress:AAAAAAAAAAA": "{}",
			"audio_enabled":              "true",
		}))

		keys, err := s.Keys(ctx, "vocab_progress")
		require.NoError(t, err)
		assert.Equal(t, []string{"vocab_progress", "vocab_progress:AAAAAAAAAAA", "vocab_progress:BBBBBBBBBBB"}, keys)

		keys, err = s.Keys(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("ping", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
