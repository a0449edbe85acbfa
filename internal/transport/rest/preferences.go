package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/w-udagawa/vlingual-cards/internal/catalog"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

type prefsService interface {
	AudioEnabled(ctx context.Context) (bool, error)
	SetAudioEnabled(ctx context.Context, enabled bool) error
	BannerDismissed(ctx context.Context) (bool, error)
	DismissBanner(ctx context.Context) error
	Theme(ctx context.Context, systemDefault domain.Theme) (domain.Theme, error)
	SetTheme(ctx context.Context, t domain.Theme) error
	OrganizationOrder(ctx context.Context) ([]string, error)
	SetOrganizationOrder(ctx context.Context, order []string) error
	ResetOrganizationOrder(ctx context.Context) error
	Export(ctx context.Context) (map[string]string, error)
	Import(ctx context.Context, values map[string]string) error
}

type catalogRebuilder interface {
	Catalog() *catalog.Catalog
	Rebuild(ctx context.Context)
}

// PreferencesHandler serves persisted user preferences and the state backup.
// Changes that affect catalog order rebuild the catalog before answering.
type PreferencesHandler struct {
	prefs prefsService
	lib   catalogRebuilder
	log   *slog.Logger
}

// NewPreferencesHandler creates a PreferencesHandler.
func NewPreferencesHandler(prefs prefsService, lib catalogRebuilder, logger *slog.Logger) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs, lib: lib, log: logger.With("handler", "preferences")}
}

type preferencesResponse struct {
	AudioEnabled    bool   `json:"audioEnabled"`
	Theme           string `json:"theme"`
	BannerDismissed bool   `json:"bannerDismissed"`
}

// Get handles GET /api/preferences. The optional ?system= query names the
// client's colour scheme, used while no theme is stored.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.read(r.Context(), systemTheme(r))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type preferencesRequest struct {
	AudioEnabled    *bool   `json:"audioEnabled"`
	Theme           *string `json:"theme"`
	BannerDismissed *bool   `json:"bannerDismissed"`
}

// Update handles PUT /api/preferences. Omitted fields are left unchanged.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if !readJSON(w, r, &req) {
		return
	}
	ctx := r.Context()

	if req.BannerDismissed != nil && !*req.BannerDismissed {
		handleError(h.log, w, r, domain.NewValidationError("bannerDismissed", "the banner can only be dismissed"))
		return
	}
	if req.Theme != nil {
		if err := h.prefs.SetTheme(ctx, domain.Theme(*req.Theme)); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}
	if req.AudioEnabled != nil {
		if err := h.prefs.SetAudioEnabled(ctx, *req.AudioEnabled); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}
	if req.BannerDismissed != nil {
		if err := h.prefs.DismissBanner(ctx); err != nil {
			handleError(h.log, w, r, err)
			return
		}
	}

	resp, err := h.read(ctx, systemTheme(r))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PreferencesHandler) read(ctx context.Context, system domain.Theme) (preferencesResponse, error) {
	audio, err := h.prefs.AudioEnabled(ctx)
	if err != nil {
		return preferencesResponse{}, err
	}
	theme, err := h.prefs.Theme(ctx, system)
	if err != nil {
		return preferencesResponse{}, err
	}
	banner, err := h.prefs.BannerDismissed(ctx)
	if err != nil {
		return preferencesResponse{}, err
	}
	return preferencesResponse{AudioEnabled: audio, Theme: string(theme), BannerDismissed: banner}, nil
}

func systemTheme(r *http.Request) domain.Theme {
	if t := domain.Theme(r.URL.Query().Get("system")); t.IsValid() {
		return t
	}
	return domain.ThemeLight
}

// ---------------------------------------------------------------------------
// Organization order
// ---------------------------------------------------------------------------

type orderResponse struct {
	// Order is the stored override; empty means the built-in order applies.
	Order []string `json:"order"`
	// Organizations is the order currently displayed.
	Organizations []string `json:"organizations"`
}

type orderRequest struct {
	Order []string `json:"order"`
}

// Order handles GET /api/preferences/organization-order.
func (h *PreferencesHandler) Order(w http.ResponseWriter, r *http.Request) {
	h.writeOrder(w, r)
}

// SetOrder handles PUT /api/preferences/organization-order.
func (h *PreferencesHandler) SetOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := h.prefs.SetOrganizationOrder(r.Context(), req.Order); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.lib.Rebuild(r.Context())
	h.writeOrder(w, r)
}

// ResetOrder handles DELETE /api/preferences/organization-order.
func (h *PreferencesHandler) ResetOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.prefs.ResetOrganizationOrder(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.lib.Rebuild(r.Context())
	h.writeOrder(w, r)
}

func (h *PreferencesHandler) writeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.prefs.OrganizationOrder(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if order == nil {
		order = []string{}
	}
	orgs := h.lib.Catalog().Organizations()
	if orgs == nil {
		orgs = []string{}
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order, Organizations: orgs})
}

// ---------------------------------------------------------------------------
// State backup
// ---------------------------------------------------------------------------

// Export handles GET /api/state/export.
func (h *PreferencesHandler) Export(w http.ResponseWriter, r *http.Request) {
	values, err := h.prefs.Export(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="vlingual-state.json"`)
	writeJSON(w, http.StatusOK, values)
}

// Import handles POST /api/state/import.
func (h *PreferencesHandler) Import(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if !readJSON(w, r, &values) {
		return
	}
	if err := h.prefs.Import(r.Context(), values); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.lib.Rebuild(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
