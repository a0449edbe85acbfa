package catalog

import "github.com/w-udagawa/vlingual-cards/internal/domain"

type videoPos struct {
	cast, video int
}

// Catalog is the navigable result of Build. It is read-only after
// construction and safe for concurrent readers.
type Catalog struct {
	casts   []domain.CastGroup
	skipped []SkippedRecord
	byCast  map[string]int
	byVideo map[string]videoPos
}

func newCatalog(casts []domain.CastGroup, skipped []SkippedRecord) *Catalog {
	c := &Catalog{
		casts:   casts,
		skipped: skipped,
		byCast:  make(map[string]int, len(casts)),
		byVideo: make(map[string]videoPos),
	}
	for ci := range casts {
		c.byCast[casts[ci].ID] = ci
		for vi := range casts[ci].Videos {
			c.byVideo[casts[ci].Videos[vi].ID] = videoPos{cast: ci, video: vi}
		}
	}
	return c
}

// Casts returns the casts in display order.
func (c *Catalog) Casts() []domain.CastGroup { return c.casts }

// Skipped returns records whose video id could not be extracted.
func (c *Catalog) Skipped() []SkippedRecord { return c.skipped }

// Cast looks up a cast by id.
func (c *Catalog) Cast(id string) (*domain.CastGroup, bool) {
	i, ok := c.byCast[id]
	if !ok {
		return nil, false
	}
	return &c.casts[i], true
}

// Video looks up a video by id, returning it with its cast.
func (c *Catalog) Video(id string) (*domain.VideoGroup, *domain.CastGroup, bool) {
	p, ok := c.byVideo[id]
	if !ok {
		return nil, nil, false
	}
	cast := &c.casts[p.cast]
	return &cast.Videos[p.video], cast, true
}

// VideoInCast looks up a video and checks that it belongs to castID.
func (c *Catalog) VideoInCast(castID, videoID string) (*domain.VideoGroup, bool) {
	v, cast, ok := c.Video(videoID)
	if !ok || cast.ID != castID {
		return nil, false
	}
	return v, true
}

// All returns every grouped record in display order.
func (c *Catalog) All() []domain.VocabRecord {
	var out []domain.VocabRecord
	for i := range c.casts {
		out = append(out, c.casts[i].Records()...)
	}
	return out
}

// VideoIDs returns every video id in display order.
func (c *Catalog) VideoIDs() []string {
	var out []string
	for i := range c.casts {
		for j := range c.casts[i].Videos {
			out = append(out, c.casts[i].Videos[j].ID)
		}
	}
	return out
}

// Organizations returns distinct organizations in display order.
func (c *Catalog) Organizations() []string { return Organizations(c.casts) }

// WordCount is the number of grouped records.
func (c *Catalog) WordCount() int {
	n := 0
	for i := range c.casts {
		n += c.casts[i].WordCount
	}
	return n
}

// Pool resolves a pool reference to its records. An empty reference is the
// whole catalog; a video id alone is enough; a cast id with a video id must
// agree.
func (c *Catalog) Pool(ref domain.PoolRef) ([]domain.VocabRecord, error) {
	switch {
	case ref.IsAll():
		return c.All(), nil
	case ref.VideoID != "" && ref.CastID != "":
		v, ok := c.VideoInCast(ref.CastID, ref.VideoID)
		if !ok {
			return nil, domain.ErrNotFound
		}
		return v.Records, nil
	case ref.VideoID != "":
		v, _, ok := c.Video(ref.VideoID)
		if !ok {
			return nil, domain.ErrNotFound
		}
		return v.Records, nil
	default:
		cast, ok := c.Cast(ref.CastID)
		if !ok {
			return nil, domain.ErrNotFound
		}
		return cast.Records(), nil
	}
}
