package domain

// UnclassifiedCast is the cast name given to videos whose first record has no
// presenter.
const UnclassifiedCast = "unclassified"

// VideoGroup collects the records that share one source video.
type VideoGroup struct {
	ID           string
	Title        string
	URL          string
	ThumbnailURL string
	Records      []VocabRecord
}

// Count returns the number of words in the group.
func (g *VideoGroup) Count() int { return len(g.Records) }

// CastGroup collects the video groups of one presenter.
type CastGroup struct {
	ID           string
	Name         string
	Organization Optional
	Videos       []VideoGroup
	WordCount    int
	ThumbnailURL string
}

// Records flattens every video's records in video order.
func (c *CastGroup) Records() []VocabRecord {
	out := make([]VocabRecord, 0, c.WordCount)
	for i := range c.Videos {
		out = append(out, c.Videos[i].Records...)
	}
	return out
}
