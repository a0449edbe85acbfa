package csvsource

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

func TestHTTPSource_Fetch_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("単語,和訳\n")) //nolint:errcheck
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/vocab.csv", time.Second, slog.Default())
	text, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "単語,和訳\n", text)
}

func TestHTTPSource_Fetch_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, slog.Default())
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusNotFound, te.Status)
}

func TestHTTPSource_Fetch_RetriesOnceOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, slog.Default())
	text, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPSource_Fetch_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	src := NewHTTPSource(url, 200*time.Millisecond, slog.Default())
	_, err := src.Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestFileSource_Fetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.csv")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	text, err := NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "data", text)

	_, err = NewFileSource(filepath.Join(dir, "missing.csv")).Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrTransport))
}
