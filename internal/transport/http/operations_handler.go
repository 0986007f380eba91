package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "gamezone/internal/errors"
	"gamezone/internal/operations"
)

// OperationsHandler starts and inspects pipeline runs.
type OperationsHandler struct {
	manager  *operations.Manager
	validate *validator.Validate
	logger   *slog.Logger
}

// NewOperationsHandler creates an operations handler.
func NewOperationsHandler(manager *operations.Manager, logger *slog.Logger) *OperationsHandler {
	if manager == nil {
		panic("manager cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsHandler{
		manager:  manager,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "operations")),
	}
}

// Routes returns the operation routes.
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.StartRun)
	r.Get("/", h.ListRuns)
	r.Get("/{runID}", h.GetRun)

	return r
}

// StartRun handles POST /api/operations. The run executes asynchronously;
// progress streams over the WebSocket hub and the response carries the run
// ID for polling.
func (h *OperationsHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req operations.RunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.New(http.StatusBadRequest, "INVALID_REQUEST", "request body must be valid JSON")))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "invalid run request", err.Error())))
		return
	}

	h.logger.InfoContext(r.Context(), "starting pipeline run",
		slog.String("request_id", reqID),
		slog.String("source", req.Source))

	// Detach from the request context so the run survives the response.
	go func() {
		if _, err := h.manager.Execute(detachedContext(r), req); err != nil {
			h.logger.Error("pipeline run failed",
				slog.String("request_id", reqID),
				slog.String("error", err.Error()))
		}
	}()

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]any{"status": "accepted"})
}

// GetRun handles GET /api/operations/{runID}
func (h *OperationsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, ok := h.manager.GetRun(runID)
	if !ok {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.NotFoundError("run")))
		return
	}
	render.JSON(w, r, run.Response())
}

// ListRuns handles GET /api/operations
func (h *OperationsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs := h.manager.ListRuns()
	responses := make([]operations.RunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, run.Response())
	}
	render.JSON(w, r, map[string]any{"runs": responses, "count": len(responses)})
}
