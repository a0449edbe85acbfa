package dataloader

import (
	"context"
	"log/slog"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/progress"
)

// ---------------------------------------------------------------------------
// Progress by video ID
// ---------------------------------------------------------------------------

func newProgressBatchFn(repo progressReader, scope string, log *slog.Logger) dataloader.BatchFunc[string, domain.ProgressData] {
	return func(ctx context.Context, videoIDs []string) []*dataloader.Result[domain.ProgressData] {
		byKey := make(map[string]domain.ProgressData)
		for _, id := range videoIDs {
			key := ProgressKey(scope, id)
			if _, done := byKey[key]; done {
				continue
			}
			data, err := progress.ReadProgress(ctx, repo, log, key)
			if err != nil {
				return errorResults[domain.ProgressData](len(videoIDs), err)
			}
			byKey[key] = data
		}

		grouped := make(map[string]domain.ProgressData, len(videoIDs))
		for _, id := range videoIDs {
			grouped[id] = byKey[ProgressKey(scope, id)]
		}
		return mapResults(videoIDs, grouped, func() domain.ProgressData { return domain.ProgressData{} })
	}
}

// ---------------------------------------------------------------------------
// Checked terms by video ID
// ---------------------------------------------------------------------------

func newCheckedBatchFn(repo checkedReader) dataloader.BatchFunc[string, map[string]bool] {
	return func(ctx context.Context, videoIDs []string) []*dataloader.Result[map[string]bool] {
		all, err := repo.CheckedByVideo(ctx)
		if err != nil {
			return errorResults[map[string]bool](len(videoIDs), err)
		}

		grouped := make(map[string]map[string]bool, len(videoIDs))
		for _, id := range videoIDs {
			terms, ok := all[id]
			if !ok {
				continue
			}
			set := make(map[string]bool, len(terms))
			for _, t := range terms {
				set[t] = true
			}
			grouped[id] = set
		}
		return mapResults(videoIDs, grouped, func() map[string]bool { return map[string]bool{} })
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults returns n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []string, grouped map[string]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}
