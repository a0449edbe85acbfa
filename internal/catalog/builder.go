// Package catalog groups parsed records into videos and casts and orders the
// result for display. Everything here is a pure function of its input.
package catalog

import (
	"fmt"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

// SkippedRecord is a record left out of every group because its video URL
// has no recognizable id.
type SkippedRecord struct {
	Term     string
	VideoURL string
}

// Options tunes catalog construction.
type Options struct {
	// OrganizationOrder lists organization names that must come first, in
	// this order. Organizations not listed follow in collated order.
	OrganizationOrder []string
}

// GroupByVideo groups records by video id in first-seen order. Records keep
// their input order inside each group.
func GroupByVideo(records []domain.VocabRecord) ([]domain.VideoGroup, []SkippedRecord) {
	var (
		groups  []domain.VideoGroup
		skipped []SkippedRecord
		index   = make(map[string]int)
	)

	for _, r := range records {
		id, ok := ExtractVideoID(r.VideoURL)
		if !ok {
			skipped = append(skipped, SkippedRecord{Term: r.Term, VideoURL: r.VideoURL})
			continue
		}

		i, seen := index[id]
		if !seen {
			i = len(groups)
			index[id] = i
			groups = append(groups, domain.VideoGroup{
				ID:           id,
				Title:        r.VideoTitle.Or(fmt.Sprintf("動画 %d", i+1)),
				URL:          r.VideoURL,
				ThumbnailURL: ThumbnailURL(id),
			})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	return groups, skipped
}

// GroupByCast groups videos by the presenter of each video's first record.
// Videos without a presenter go to the unclassified cast. The result is in
// first-seen order; use Sort for display order.
func GroupByCast(videos []domain.VideoGroup) []domain.CastGroup {
	var (
		casts []domain.CastGroup
		index = make(map[string]int)
	)

	for _, v := range videos {
		if len(v.Records) == 0 {
			continue
		}
		first := v.Records[0]
		name := first.Presenter.Or(domain.UnclassifiedCast)

		i, seen := index[name]
		if !seen {
			i = len(casts)
			index[name] = i
			casts = append(casts, domain.CastGroup{
				ID:           Slug(name),
				Name:         name,
				Organization: first.Organization,
				ThumbnailURL: v.ThumbnailURL,
			})
		}
		casts[i].Videos = append(casts[i].Videos, v)
		casts[i].WordCount += v.Count()
	}

	return casts
}

// Build runs both grouping steps and sorts casts for display.
func Build(records []domain.VocabRecord, opts Options) *Catalog {
	videos, skipped := GroupByVideo(records)
	casts := GroupByCast(videos)
	Sort(casts, opts.OrganizationOrder)
	return newCatalog(casts, skipped)
}
