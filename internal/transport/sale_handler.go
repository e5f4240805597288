package transport

import (
	"encoding/json"
	"net/http"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/middleware"
	"sales-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateSaleRequest names the customer, seller and product of a sale by
// id, national id or name. Quantity is kept as the raw JSON number so
// fractions can be told apart from malformed bodies.
type CreateSaleRequest struct {
	Customer string      `json:"customer" validate:"required"`
	Seller   string      `json:"seller" validate:"required"`
	Product  string      `json:"product" validate:"required"`
	Quantity json.Number `json:"quantity"`
}

// SaleHandler handles HTTP requests for sales
type SaleHandler struct {
	sales  service.SaleService
	logger *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		sales:  sales,
		logger: logger,
	}
}

// RegisterRoutes registers all sale routes. Sales are immutable, so there
// is no update or delete.
func (h *SaleHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(g.auth())
			r.Use(g.rateLimit())
			r.Post("/", h.Create)
		})
	})
}

// Create handles a sale
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	quantity, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		respondError(w, h.logger, "Create sale", err)
		return
	}

	sale, err := h.sales.CreateSale(r.Context(), service.CreateSaleInput{
		CustomerRef: req.Customer,
		SellerRef:   req.Seller,
		ProductRef:  req.Product,
		Quantity:    quantity,
	})
	if err != nil {
		respondError(w, h.logger, "Create sale", err)
		return
	}

	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", sale.ProductID.String()),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// List handles paginated sale listing, newest first
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	sales, total, err := h.sales.ListSales(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, h.logger, "List sales", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, Page[*domain.Sale]{
		Items:    sales,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get handles retrieving one sale
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "sale")
	if !ok {
		return
	}

	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, "Get sale", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sale)
}
