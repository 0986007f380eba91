package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gamezone/internal/errors"
	"gamezone/internal/files"
)

// DataHandler exposes the data directory inventory.
type DataHandler struct {
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewDataHandler creates a data handler.
func NewDataHandler(discovery *files.Discovery, logger *slog.Logger) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		discovery: discovery,
		logger:    logger.With(slog.String("handler", "data")),
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/files", h.GetFiles)
	return r
}

// GetFiles handles GET /api/data/files
func (h *DataHandler) GetFiles(w http.ResponseWriter, r *http.Request) {
	raw, err := h.discovery.RawInputs()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FromAppError(err)))
		return
	}
	reports, err := h.discovery.Reports()
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FromAppError(err)))
		return
	}
	render.JSON(w, r, map[string]any{
		"raw_inputs": raw,
		"reports":    reports,
	})
}
