package file

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-udagawa/vlingual-cards/internal/adapter/kvtest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "vlingual.json"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()
	kvtest.Run(t, func(t *testing.T) kvtest.Store { return openTemp(t) })
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	first, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "audio_enabled", "false"))
	require.NoError(t, first.Close())

	second, err := Open(path, nil)
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "audio_enabled")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", v)
}

func TestStore_CorruptFileReadsAsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var logs bytes.Buffer
	s, err := Open(path, slog.New(slog.NewJSONHandler(&logs, nil)))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "vocab_progress")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), `"msg":"prefs.corrupt"`)
	assert.Contains(t, logs.String(), `"level":"WARN"`)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	// The next write replaces the file and keeps the bad copy aside.
	require.NoError(t, s.Set(ctx, "audio_enabled", "true"))

	v, ok, err := s.Get(ctx, "audio_enabled")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	aside, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(aside))
}

func TestStore_CorruptFileRemoveIsNoop(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Remove(context.Background(), "vocab_progress"))
	require.NoError(t, s.Ping(context.Background()))
}

func TestStore_EmptyFileIsEmptyState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	a, err := Open(path, nil)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(path, nil)
	require.NoError(t, err)
	defer b.Close()

	var wg sync.WaitGroup
	for i, s := range []*Store{a, b} {
		wg.Add(1)
		go func(i int, s *Store) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				key := string(rune('a'+i)) + string(rune('0'+j%10))
				assert.NoError(t, s.Set(ctx, key, "v"))
			}
		}(i, s)
	}
	wg.Wait()

	keys, err := a.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 20)
}

func TestStore_ContextCanceled(t *testing.T) {
	t.Parallel()

	s := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
}
