package transport

import (
	"net/http"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/middleware"
	"sales-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler generates and serves stored reports
type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// RegisterRoutes registers all report routes. Generation writes the
// report row, so it sits behind the auth guard with the other mutations.
func (h *ReportHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(g.auth())
			r.Post("/low-stock", h.LowStock)
			r.Post("/average-consumption", h.AverageConsumption)
			r.Post("/top-sellers", h.TopSellers)
			r.Post("/customer-products/{ref}", h.CustomerProducts)

			r.With(g.admin()).Delete("/{id}", h.Delete)
		})
	})
}

type generator func() (*domain.Report, error)

func (h *ReportHandler) generate(w http.ResponseWriter, op string, gen generator) {
	report, err := gen()
	if err != nil {
		respondError(w, h.logger, op, err)
		return
	}

	h.logger.Info("Report generated",
		zap.String("report_id", report.ID.String()),
		zap.String("key", report.Key),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, report)
}

// LowStock generates the low stock report
func (h *ReportHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	h.generate(w, "Generate low stock report", func() (*domain.Report, error) {
		return h.reports.LowStock(r.Context())
	})
}

// AverageConsumption generates the consumption report, scoped to one
// product when the product query parameter is set
func (h *ReportHandler) AverageConsumption(w http.ResponseWriter, r *http.Request) {
	h.generate(w, "Generate consumption report", func() (*domain.Report, error) {
		return h.reports.AverageConsumption(r.Context(), r.URL.Query().Get("product"))
	})
}

// TopSellers generates the best sellers report
func (h *ReportHandler) TopSellers(w http.ResponseWriter, r *http.Request) {
	h.generate(w, "Generate top sellers report", func() (*domain.Report, error) {
		return h.reports.TopSellers(r.Context())
	})
}

// CustomerProducts generates the report of products bought by a customer
func (h *ReportHandler) CustomerProducts(w http.ResponseWriter, r *http.Request) {
	h.generate(w, "Generate customer products report", func() (*domain.Report, error) {
		return h.reports.CustomerProducts(r.Context(), chi.URLParam(r, "ref"))
	})
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context())
	if err != nil {
		respondError(w, h.logger, "List reports", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "report")
	if !ok {
		return
	}

	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, "Get report", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "report")
	if !ok {
		return
	}

	if err := h.reports.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, "Delete report", err)
		return
	}

	h.logger.Info("Report deleted", zap.String("report_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "report deleted"})
}
