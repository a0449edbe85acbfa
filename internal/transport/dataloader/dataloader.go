// Package dataloader provides per-request loaders that batch the persisted
// state reads behind catalog responses: one store read serves every video
// that shares a progress key, and one read of the checked map serves every
// video of the page.
package dataloader

import (
	"context"
	"log/slog"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/w-udagawa/vlingual-cards/internal/config"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// ---------------------------------------------------------------------------
// Store interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type progressReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

type checkedReader interface {
	CheckedByVideo(ctx context.Context) (map[string][]string, error)
}

// Repos holds what the loaders read from. Scope is the configured progress
// scope; under the global scope every video shares one progress key.
type Repos struct {
	Progress progressReader
	Checked  checkedReader
	Scope    string
	Log      *slog.Logger
}

// ---------------------------------------------------------------------------
// Loaders
// ---------------------------------------------------------------------------

// Loaders is created per request via NewLoaders.
type Loaders struct {
	ProgressByVideoID *dataloader.Loader[string, domain.ProgressData]
	CheckedByVideoID  *dataloader.Loader[string, map[string]bool]
}

// NewLoaders creates loaders backed by repos. Results are cached for the
// loaders' lifetime, so build one set per request.
func NewLoaders(repos *Repos) *Loaders {
	log := repos.Log
	if log == nil {
		log = slog.Default()
	}
	return &Loaders{
		ProgressByVideoID: newLoader(newProgressBatchFn(repos.Progress, repos.Scope, log)),
		CheckedByVideoID:  newLoader(newCheckedBatchFn(repos.Checked)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[string, V]) *dataloader.Loader[string, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[string, V](wait),
		dataloader.WithBatchCapacity[string, V](maxBatch),
	)
}

// ProgressKey is the storage key holding a video's counters under scope.
func ProgressKey(scope, videoID string) string {
	if scope == config.ScopeVideo {
		return domain.ProgressKey(videoID)
	}
	return domain.ProgressKey("")
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context; is the middleware configured?")
	}
	return l
}
