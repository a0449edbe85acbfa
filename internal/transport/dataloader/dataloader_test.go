package dataloader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-udagawa/vlingual-cards/internal/config"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
	dl "github.com/w-udagawa/vlingual-cards/internal/transport/dataloader"
)

// ---------------------------------------------------------------------------
// Mock stores
// ---------------------------------------------------------------------------

type mockProgress struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	reads  []string
}

func (m *mockProgress) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, key)
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockProgress) Reads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reads...)
}

type mockChecked struct {
	result map[string][]string
	err    error
	calls  int
}

func (m *mockChecked) CheckedByVideo(context.Context) (map[string][]string, error) {
	m.calls++
	return m.result, m.err
}

func newRepos(scope string, progress *mockProgress, checked *mockChecked) *dl.Repos {
	return &dl.Repos{Progress: progress, Checked: checked, Scope: scope}
}

// ---------------------------------------------------------------------------
// Context / Middleware tests
// ---------------------------------------------------------------------------

func TestFromContext_ReturnsLoaders(t *testing.T) {
	loaders := dl.NewLoaders(newRepos(config.ScopeGlobal, &mockProgress{}, &mockChecked{}))
	ctx := dl.WithLoaders(context.Background(), loaders)

	assert.Equal(t, loaders, dl.FromContext(ctx))
}

func TestFromContext_PanicsWhenMissing(t *testing.T) {
	assert.Panics(t, func() {
		dl.FromContext(context.Background())
	})
}

func TestMiddleware_InjectsLoaders(t *testing.T) {
	mw := dl.Middleware(newRepos(config.ScopeGlobal, &mockProgress{}, &mockChecked{}))

	var gotLoaders *dl.Loaders
	handler := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotLoaders = dl.FromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	require.NotNil(t, gotLoaders)
	assert.NotNil(t, gotLoaders.ProgressByVideoID)
	assert.NotNil(t, gotLoaders.CheckedByVideoID)
}

// ---------------------------------------------------------------------------
// Batch function tests
// ---------------------------------------------------------------------------

func TestProgressLoader_GlobalScopeReadsOnce(t *testing.T) {
	progress := &mockProgress{values: map[string]string{
		domain.KeyProgress: `{"alpha":{"seen":2,"again":1,"ok":1,"easy":0}}`,
	}}
	loaders := dl.NewLoaders(newRepos(config.ScopeGlobal, progress, &mockChecked{}))
	ctx := context.Background()

	t1 := loaders.ProgressByVideoID.Load(ctx, "aaaaaaaaaaa")
	t2 := loaders.ProgressByVideoID.Load(ctx, "bbbbbbbbbbb")

	d1, err := t1()
	require.NoError(t, err)
	d2, err := t2()
	require.NoError(t, err)

	assert.Equal(t, 2, d1["alpha"].Seen)
	assert.Equal(t, d1, d2)
	assert.Equal(t, []string{domain.KeyProgress}, progress.Reads())
}

func TestProgressLoader_VideoScope(t *testing.T) {
	progress := &mockProgress{values: map[string]string{
		domain.ProgressKey("aaaaaaaaaaa"): `{"alpha":{"seen":1,"again":0,"ok":1,"easy":0}}`,
		domain.ProgressKey("bbbbbbbbbbb"): `not json`,
	}}
	loaders := dl.NewLoaders(newRepos(config.ScopeVideo, progress, &mockChecked{}))
	ctx := context.Background()

	t1 := loaders.ProgressByVideoID.Load(ctx, "aaaaaaaaaaa")
	t2 := loaders.ProgressByVideoID.Load(ctx, "bbbbbbbbbbb")

	d1, err := t1()
	require.NoError(t, err)
	assert.Equal(t, 1, d1["alpha"].OK)

	d2, err := t2()
	require.NoError(t, err)
	assert.NotNil(t, d2)
	assert.Empty(t, d2, "corrupt progress reads as empty")
	assert.Len(t, progress.Reads(), 2)
}

func TestProgressLoader_Error(t *testing.T) {
	progress := &mockProgress{err: errors.New("connection reset")}
	loaders := dl.NewLoaders(newRepos(config.ScopeGlobal, progress, &mockChecked{}))

	_, err := loaders.ProgressByVideoID.Load(context.Background(), "aaaaaaaaaaa")()
	assert.Error(t, err)
}

func TestCheckedLoader_GroupsByVideoID(t *testing.T) {
	checked := &mockChecked{result: map[string][]string{
		"aaaaaaaaaaa": {"alpha", "beta"},
	}}
	loaders := dl.NewLoaders(newRepos(config.ScopeGlobal, &mockProgress{}, checked))
	ctx := context.Background()

	t1 := loaders.CheckedByVideoID.Load(ctx, "aaaaaaaaaaa")
	t2 := loaders.CheckedByVideoID.Load(ctx, "bbbbbbbbbbb")

	s1, err := t1()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"alpha": true, "beta": true}, s1)

	s2, err := t2()
	require.NoError(t, err)
	assert.NotNil(t, s2, "should return empty map, not nil")
	assert.Empty(t, s2)
	assert.Equal(t, 1, checked.calls)
}

func TestProgressKey(t *testing.T) {
	assert.Equal(t, "vocab_progress", dl.ProgressKey(config.ScopeGlobal, "abc"))
	assert.Equal(t, "vocab_progress:abc", dl.ProgressKey(config.ScopeVideo, "abc"))
}
