package domain

// ProgressEntry holds the cumulative rating counters for one word under the
// counter policy. Every rating increments Seen and exactly one of
// Again/OK/Easy, so Seen == Again+OK+Easy holds after each rating.
type ProgressEntry struct {
	Seen  int `json:"seen"`
	Again int `json:"again"`
	OK    int `json:"ok"`
	Easy  int `json:"easy"`
}

// Apply returns the entry after one rating.
func (p ProgressEntry) Apply(r Rating) ProgressEntry {
	p.Seen++
	switch r {
	case RatingAgain:
		p.Again++
	case RatingOK:
		p.OK++
	case RatingEasy:
		p.Easy++
	}
	return p
}

// Score ranks a fully seen word for review: higher means more difficult.
func (p ProgressEntry) Score() int {
	return p.Seen + p.Again*3 - p.Easy
}

// ProgressData maps term to its counters. It is the persisted JSON shape.
type ProgressData map[string]ProgressEntry

// Clone returns an independent copy.
func (d ProgressData) Clone() ProgressData {
	out := make(ProgressData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// PoolRef addresses a study pool. Both fields empty addresses every record.
type PoolRef struct {
	CastID  string `json:"castId,omitempty"`
	VideoID string `json:"videoId,omitempty"`
}

// IsAll reports whether the reference addresses the whole catalog.
func (p PoolRef) IsAll() bool { return p.CastID == "" && p.VideoID == "" }
