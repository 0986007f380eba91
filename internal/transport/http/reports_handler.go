package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "gamezone/internal/errors"
	"gamezone/internal/services"
)

// ReportsHandler serves the derived analytics reports.
type ReportsHandler struct {
	service *services.ReportService
	logger  *slog.Logger
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(service *services.ReportService, logger *slog.Logger) *ReportsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "reports")),
	}
}

// Routes returns the report routes.
func (h *ReportsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/rfm", h.GetRFM)
	r.Get("/rfm/histogram", h.GetRecencyHistogram)
	r.Get("/daily-sales", h.GetDailySales)
	r.Get("/top-products", h.GetTopProducts)
	r.Get("/monthly-trends", h.GetMonthlyTrends)
	r.Get("/top-customers", h.GetTopCustomers)
	r.Get("/snapshot", h.GetSnapshot)
	r.Get("/summary", h.GetSummary)

	return r
}

func (h *ReportsHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "report request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	render.Render(w, r, apierrors.NewErrorResponse(apierrors.FromAppError(err)))
}

// queryInt reads an optional positive integer query parameter; 0 means
// "use the configured default".
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// GetRFM handles GET /api/reports/rfm
func (h *ReportsHandler) GetRFM(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.RFM(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"customers": rows, "count": len(rows)})
}

// GetRecencyHistogram handles GET /api/reports/rfm/histogram
func (h *ReportsHandler) GetRecencyHistogram(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.RecencyHistogram(r.Context(), queryInt(r, "width_days"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"buckets": buckets})
}

// GetDailySales handles GET /api/reports/daily-sales
func (h *ReportsHandler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.DailySales(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"days": rows, "count": len(rows)})
}

// GetTopProducts handles GET /api/reports/top-products
func (h *ReportsHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.TopProducts(r.Context(), queryInt(r, "k"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"products": rows})
}

// GetMonthlyTrends handles GET /api/reports/monthly-trends
func (h *ReportsHandler) GetMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.MonthlyTrends(r.Context(), queryInt(r, "k"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"trends": rows})
}

// GetTopCustomers handles GET /api/reports/top-customers
func (h *ReportsHandler) GetTopCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.TopCustomers(r.Context(), queryInt(r, "k"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"customers": rows})
}

// GetSummary handles GET /api/reports/summary
func (h *ReportsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetSnapshot handles GET /api/reports/snapshot
func (h *ReportsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, found, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	resp := map[string]any{"found": found}
	if found {
		resp["snapshot"] = snapshot
	}
	render.JSON(w, r, resp)
}
