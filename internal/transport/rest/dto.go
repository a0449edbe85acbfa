package rest

import (
	"github.com/w-udagawa/vlingual-cards/internal/catalog"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

type progressResponse struct {
	Seen  int `json:"seen"`
	Again int `json:"again"`
	OK    int `json:"ok"`
	Easy  int `json:"easy"`
}

func newProgressResponse(e *domain.ProgressEntry) *progressResponse {
	if e == nil {
		return nil
	}
	return &progressResponse{Seen: e.Seen, Again: e.Again, OK: e.OK, Easy: e.Easy}
}

// cardResponse is one vocabulary record as the client renders it.
type cardResponse struct {
	Term            string  `json:"term"`
	Translation     string  `json:"translation"`
	Difficulty      string  `json:"difficulty"`
	DifficultyLabel string  `json:"difficultyLabel"`
	PartOfSpeech    string  `json:"partOfSpeech"`
	Context         string  `json:"context"`
	VideoURL        string  `json:"videoUrl"`
	VideoID         string  `json:"videoId,omitempty"`
	ThumbnailURL    string  `json:"thumbnailUrl,omitempty"`
	VideoTitle      *string `json:"videoTitle,omitempty"`
	Organization    *string `json:"organization,omitempty"`
	Presenter       *string `json:"presenter,omitempty"`
}

func optionalPtr(o domain.Optional) *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

func newCardResponse(r *domain.VocabRecord) *cardResponse {
	if r == nil {
		return nil
	}
	resp := &cardResponse{
		Term:            r.Term,
		Translation:     r.Translation,
		Difficulty:      r.Difficulty.String(),
		DifficultyLabel: r.Difficulty.Label(),
		PartOfSpeech:    r.PartOfSpeech,
		Context:         r.Context,
		VideoURL:        r.VideoURL,
		VideoTitle:      optionalPtr(r.VideoTitle),
		Organization:    optionalPtr(r.Organization),
		Presenter:       optionalPtr(r.Presenter),
	}
	if id, ok := catalog.ExtractVideoID(r.VideoURL); ok {
		resp.VideoID = id
		resp.ThumbnailURL = catalog.ThumbnailURL(id)
	}
	return resp
}

type videoSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	WordCount    int    `json:"wordCount"`
	Studied      int    `json:"studied"`
}

type castSummary struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Organization *string        `json:"organization,omitempty"`
	ThumbnailURL string         `json:"thumbnailUrl"`
	WordCount    int            `json:"wordCount"`
	VideoCount   int            `json:"videoCount"`
	Studied      int            `json:"studied"`
	Videos       []videoSummary `json:"videos"`
}

type castRef struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Organization *string `json:"organization,omitempty"`
}

func newCastRef(c *domain.CastGroup) castRef {
	return castRef{ID: c.ID, Name: c.Name, Organization: optionalPtr(c.Organization)}
}

// newCastSummary renders a cast. studied maps video id to the number of the
// video's words seen at least once; a nil map reports zero everywhere.
func newCastSummary(c *domain.CastGroup, studied map[string]int) castSummary {
	resp := castSummary{
		ID:           c.ID,
		Name:         c.Name,
		Organization: optionalPtr(c.Organization),
		ThumbnailURL: c.ThumbnailURL,
		WordCount:    c.WordCount,
		VideoCount:   len(c.Videos),
		Videos:       make([]videoSummary, len(c.Videos)),
	}
	for i := range c.Videos {
		v := &c.Videos[i]
		resp.Videos[i] = videoSummary{
			ID:           v.ID,
			Title:        v.Title,
			URL:          v.URL,
			ThumbnailURL: v.ThumbnailURL,
			WordCount:    v.Count(),
			Studied:      studied[v.ID],
		}
		resp.Studied += studied[v.ID]
	}
	return resp
}

type wordResponse struct {
	cardResponse
	Checked  bool              `json:"checked"`
	Progress *progressResponse `json:"progress,omitempty"`
}

func newWordResponses(records []domain.VocabRecord, checked map[string]bool, data domain.ProgressData) []wordResponse {
	out := make([]wordResponse, len(records))
	for i := range records {
		out[i] = wordResponse{
			cardResponse: *newCardResponse(&records[i]),
			Checked:      checked[records[i].Term],
		}
		if e, ok := data[records[i].Term]; ok {
			out[i].Progress = newProgressResponse(&e)
		}
	}
	return out
}

type poolResponse struct {
	CastID  string `json:"castId,omitempty"`
	VideoID string `json:"videoId,omitempty"`
}

type poolRequest struct {
	CastID  string `json:"castId"`
	VideoID string `json:"videoId"`
}

func (p poolRequest) ref() domain.PoolRef {
	return domain.PoolRef{CastID: p.CastID, VideoID: p.VideoID}
}
