package rest

import "net/http"

// Handlers groups the handlers served by NewRouter.
type Handlers struct {
	Health      *HealthHandler
	Dataset     *DatasetHandler
	Catalog     *CatalogHandler
	Sessions    *SessionHandler
	Preferences *PreferencesHandler
}

// NewRouter registers every route. loaders wraps the catalog routes, which
// read progress and checked flags through per-request dataloaders.
func NewRouter(h Handlers, loaders func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/dataset", h.Dataset.Status)
	mux.HandleFunc("POST /api/dataset/reload", h.Dataset.Reload)
	mux.HandleFunc("POST /api/dataset/sample", h.Dataset.UseSample)

	withLoaders := func(f http.HandlerFunc) http.Handler { return loaders(f) }
	mux.Handle("GET /api/catalog", withLoaders(h.Catalog.List))
	mux.Handle("GET /api/casts/{castID}", withLoaders(h.Catalog.Cast))
	mux.Handle("GET /api/casts/{castID}/videos/{videoID}", withLoaders(h.Catalog.Video))
	mux.Handle("GET /api/videos/{videoID}/words", withLoaders(h.Catalog.Words))
	mux.HandleFunc("POST /api/videos/{videoID}/words/{term}/check", h.Catalog.ToggleCheck)
	mux.HandleFunc("DELETE /api/videos/{videoID}/checked", h.Catalog.ClearChecked)

	mux.HandleFunc("POST /api/sessions", h.Sessions.Create)
	mux.HandleFunc("GET /api/sessions/{id}", h.Sessions.Get)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.Sessions.Delete)
	mux.HandleFunc("POST /api/sessions/{id}/flip", h.Sessions.Flip)
	mux.HandleFunc("POST /api/sessions/{id}/rate", h.Sessions.Rate)
	mux.HandleFunc("POST /api/sessions/{id}/filter", h.Sessions.Filter)
	mux.HandleFunc("POST /api/sessions/{id}/reset", h.Sessions.Reset)
	mux.HandleFunc("PUT /api/sessions/{id}/pool", h.Sessions.SelectPool)

	mux.HandleFunc("GET /api/preferences", h.Preferences.Get)
	mux.HandleFunc("PUT /api/preferences", h.Preferences.Update)
	mux.HandleFunc("GET /api/preferences/organization-order", h.Preferences.Order)
	mux.HandleFunc("PUT /api/preferences/organization-order", h.Preferences.SetOrder)
	mux.HandleFunc("DELETE /api/preferences/organization-order", h.Preferences.ResetOrder)
	mux.HandleFunc("GET /api/state/export", h.Preferences.Export)
	mux.HandleFunc("POST /api/state/import", h.Preferences.Import)

	return mux
}
