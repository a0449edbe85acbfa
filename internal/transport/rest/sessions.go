package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/service/study"
	"github.com/w-udagawa/vlingual-cards/internal/transport/middleware"
	"github.com/w-udagawa/vlingual-cards/pkg/ctxutil"
)

type sessionManager interface {
	Create(ctx context.Context, ref domain.PoolRef) (uuid.UUID, study.State, error)
	Get(id uuid.UUID) (*study.Controller, error)
	Delete(id uuid.UUID) error
}

// SessionHandler exposes study sessions. Every session route carries the
// session id in its path.
type SessionHandler struct {
	sessions sessionManager
	log      *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions sessionManager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, log: logger.With("handler", "session")}
}

type sessionResponse struct {
	ID        string            `json:"id"`
	Accepted  *bool             `json:"accepted,omitempty"`
	Pool      poolResponse      `json:"pool"`
	Card      *cardResponse     `json:"card,omitempty"`
	Flipped   bool              `json:"flipped"`
	Phase     string            `json:"phase"`
	Filter    string            `json:"filter"`
	Policy    string            `json:"policy"`
	Reviewed  int               `json:"reviewed"`
	Remaining int               `json:"remaining"`
	PoolSize  int               `json:"poolSize"`
	Studied   int               `json:"studied"`
	Mastered  int               `json:"mastered"`
	Progress  *progressResponse `json:"progress,omitempty"`
}

func newSessionResponse(id uuid.UUID, st study.State) sessionResponse {
	return sessionResponse{
		ID:        id.String(),
		Pool:      poolResponse{CastID: st.Pool.CastID, VideoID: st.Pool.VideoID},
		Card:      newCardResponse(st.Current),
		Flipped:   st.Flipped,
		Phase:     string(st.Phase),
		Filter:    st.Filter.String(),
		Policy:    st.Policy.String(),
		Reviewed:  st.Reviewed,
		Remaining: len(st.Cards),
		PoolSize:  st.PoolSize,
		Studied:   st.Studied,
		Mastered:  st.Mastered,
		Progress:  newProgressResponse(st.Entry),
	}
}

// writeResult answers 200 for an accepted action and 409 with the unchanged
// snapshot when the session ignored it.
func writeResult(w http.ResponseWriter, id uuid.UUID, res study.Result) {
	resp := newSessionResponse(id, res.State)
	accepted := res.Accepted
	resp.Accepted = &accepted

	status := http.StatusOK
	if !res.Accepted {
		status = http.StatusConflict
	}
	writeJSON(w, status, resp)
}

// Create handles POST /api/sessions. An empty body studies every card.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req poolRequest
	if !readOptionalJSON(w, r, &req) {
		return
	}

	id, st, err := h.sessions.Create(r.Context(), req.ref())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.Header().Set(middleware.SessionIDHeader, id.String())
	writeJSON(w, http.StatusCreated, newSessionResponse(id, st))
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ctrl, r, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(id, ctrl.Snapshot()))
}

// Flip handles POST /api/sessions/{id}/flip.
func (h *SessionHandler) Flip(w http.ResponseWriter, r *http.Request) {
	id, ctrl, r, ok := h.session(w, r)
	if !ok {
		return
	}
	writeResult(w, id, ctrl.Flip(r.Context()))
}

type rateRequest struct {
	Rating string `json:"rating"`
}

// Rate handles POST /api/sessions/{id}/rate.
func (h *SessionHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ctrl, r, ok := h.session(w, r)
	if !ok {
		return
	}

	var req rateRequest
	if !readJSON(w, r, &req) {
		return
	}
	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := ctrl.Rate(r.Context(), rating)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeResult(w, id, res)
}

type filterRequest struct {
	Mode string `json:"mode"`
}

// Filter handles POST /api/sessions/{id}/filter.
func (h *SessionHandler) Filter(w http.ResponseWriter, r *http.Request) {
	id, ctrl, r, ok := h.session(w, r)
	if !ok {
		return
	}

	var req filterRequest
	if !readJSON(w, r, &req) {
		return
	}
	res, err := ctrl.SetFilter(domain.FilterMode(req.Mode))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeResult(w, id, res)
}

// Reset handles POST /api/sessions/{id}/reset.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ctrl, r, ok := h.session(w, r)
	if !ok {
		return
	}
	st, err := ctrl.Reset(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(id, st))
}

// SelectPool handles PUT /api/sessions/{id}/pool.
func (h *SessionHandler) SelectPool(w http.ResponseWriter, r *http.Request) {
	id, ctrl, r, ok := h.session(w, r)
	if !ok {
		return
	}

	var req poolRequest
	if !readJSON(w, r, &req) {
		return
	}
	st, err := ctrl.SelectPool(r.Context(), req.ref())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(id, st))
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	r = r.WithContext(ctxutil.WithSessionID(r.Context(), id))
	if err := h.sessions.Delete(id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the path's session and returns the request with the
// session id attached to its context.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (uuid.UUID, *study.Controller, *http.Request, bool) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return uuid.Nil, nil, r, false
	}
	ctrl, err := h.sessions.Get(id)
	if err != nil {
		handleError(h.log, w, r, err)
		return uuid.Nil, nil, r, false
	}
	return id, ctrl, r.WithContext(ctxutil.WithSessionID(r.Context(), id)), true
}

func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return uuid.Nil, false
	}
	w.Header().Set(middleware.SessionIDHeader, id.String())
	return id, true
}
