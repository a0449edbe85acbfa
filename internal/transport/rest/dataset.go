package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/w-udagawa/vlingual-cards/internal/service/library"
)

type datasetStatus = library.Status

type datasetService interface {
	Status() library.Status
	Load(ctx context.Context) (library.Status, error)
	UseSample(ctx context.Context) library.Status
}

// DatasetHandler exposes the load state of the vocabulary dataset.
type DatasetHandler struct {
	svc datasetService
	log *slog.Logger
}

// NewDatasetHandler creates a DatasetHandler.
func NewDatasetHandler(svc datasetService, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{svc: svc, log: logger.With("handler", "dataset")}
}

// Status handles GET /api/dataset.
func (h *DatasetHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// Reload handles POST /api/dataset/reload. A failed fetch still answers 200
// because the library falls back to the sample; the status carries the error.
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Load(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UseSample handles POST /api/dataset/sample.
func (h *DatasetHandler) UseSample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.UseSample(r.Context()))
}
