package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/w-udagawa/vlingual-cards/internal/catalog"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/transport/dataloader"
)

type catalogProvider interface {
	Catalog() *catalog.Catalog
}

type checkedService interface {
	ToggleChecked(ctx context.Context, videoID, term string) (bool, error)
	ClearChecked(ctx context.Context, videoID string) error
}

// CatalogHandler serves the cast and video navigation plus the per-video
// review list. Progress and checked flags come from the request's loaders.
type CatalogHandler struct {
	lib     catalogProvider
	checked checkedService
	log     *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(lib catalogProvider, checked checkedService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{lib: lib, checked: checked, log: logger.With("handler", "catalog")}
}

type skippedResponse struct {
	Term     string `json:"term"`
	VideoURL string `json:"videoUrl"`
}

type catalogResponse struct {
	Casts         []castSummary     `json:"casts"`
	Organizations []string          `json:"organizations"`
	WordCount     int               `json:"wordCount"`
	Skipped       []skippedResponse `json:"skipped,omitempty"`
}

// List handles GET /api/catalog.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	cat := h.lib.Catalog()

	studied, err := h.studiedCounts(r.Context(), cat, cat.VideoIDs())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	casts := cat.Casts()
	resp := catalogResponse{
		Casts:         make([]castSummary, len(casts)),
		Organizations: cat.Organizations(),
		WordCount:     cat.WordCount(),
	}
	for i := range casts {
		resp.Casts[i] = newCastSummary(&casts[i], studied)
	}
	for _, s := range cat.Skipped() {
		resp.Skipped = append(resp.Skipped, skippedResponse{Term: s.Term, VideoURL: s.VideoURL})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Cast handles GET /api/casts/{castID}.
func (h *CatalogHandler) Cast(w http.ResponseWriter, r *http.Request) {
	cat := h.lib.Catalog()
	cast, ok := cat.Cast(r.PathValue("castID"))
	if !ok {
		writeError(w, http.StatusNotFound, "cast not found")
		return
	}

	ids := make([]string, len(cast.Videos))
	for i := range cast.Videos {
		ids[i] = cast.Videos[i].ID
	}
	studied, err := h.studiedCounts(r.Context(), cat, ids)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCastSummary(cast, studied))
}

type videoDetailResponse struct {
	Cast  castRef        `json:"cast"`
	Video videoSummary   `json:"video"`
	Words []wordResponse `json:"words"`
}

// Video handles GET /api/casts/{castID}/videos/{videoID}.
func (h *CatalogHandler) Video(w http.ResponseWriter, r *http.Request) {
	cat := h.lib.Catalog()
	castID := r.PathValue("castID")
	video, ok := cat.VideoInCast(castID, r.PathValue("videoID"))
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	cast, _ := cat.Cast(castID)
	h.writeVideo(w, r, cast, video)
}

// Words handles GET /api/videos/{videoID}/words.
func (h *CatalogHandler) Words(w http.ResponseWriter, r *http.Request) {
	video, cast, ok := h.lib.Catalog().Video(r.PathValue("videoID"))
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	h.writeVideo(w, r, cast, video)
}

func (h *CatalogHandler) writeVideo(w http.ResponseWriter, r *http.Request, cast *domain.CastGroup, video *domain.VideoGroup) {
	ctx := r.Context()
	loaders := dataloader.FromContext(ctx)

	progressThunk := loaders.ProgressByVideoID.Load(ctx, video.ID)
	checkedThunk := loaders.CheckedByVideoID.Load(ctx, video.ID)

	data, err := progressThunk()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	checked, err := checkedThunk()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, videoDetailResponse{
		Cast: newCastRef(cast),
		Video: videoSummary{
			ID:           video.ID,
			Title:        video.Title,
			URL:          video.URL,
			ThumbnailURL: video.ThumbnailURL,
			WordCount:    video.Count(),
			Studied:      studiedIn(video.Records, data),
		},
		Words: newWordResponses(video.Records, checked, data),
	})
}

type checkResponse struct {
	Term    string `json:"term"`
	Checked bool   `json:"checked"`
}

// ToggleCheck handles POST /api/videos/{videoID}/words/{term}/check.
func (h *CatalogHandler) ToggleCheck(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoID")
	term := r.PathValue("term")

	video, _, ok := h.lib.Catalog().Video(videoID)
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	if !hasTerm(video.Records, term) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("term %q not in video", term))
		return
	}

	checked, err := h.checked.ToggleChecked(r.Context(), videoID, term)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Term: term, Checked: checked})
}

// ClearChecked handles DELETE /api/videos/{videoID}/checked.
func (h *CatalogHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoID")
	if _, _, ok := h.lib.Catalog().Video(videoID); !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	if err := h.checked.ClearChecked(r.Context(), videoID); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// studiedCounts resolves the progress of every listed video in one batch.
func (h *CatalogHandler) studiedCounts(ctx context.Context, cat *catalog.Catalog, videoIDs []string) (map[string]int, error) {
	if len(videoIDs) == 0 {
		return map[string]int{}, nil
	}
	loaders := dataloader.FromContext(ctx)
	results, errs := loaders.ProgressByVideoID.LoadMany(ctx, videoIDs)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]int, len(videoIDs))
	for i, id := range videoIDs {
		video, _, ok := cat.Video(id)
		if !ok {
			continue
		}
		out[id] = studiedIn(video.Records, results[i])
	}
	return out, nil
}

func studiedIn(records []domain.VocabRecord, data domain.ProgressData) int {
	n := 0
	for i := range records {
		if data[records[i].Term].Seen > 0 {
			n++
		}
	}
	return n
}

func hasTerm(records []domain.VocabRecord, term string) bool {
	for i := range records {
		if records[i].Term == term {
			return true
		}
	}
	return false
}
