package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/middleware"
	"sales-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PurchaseOrderRequest moves stock of one product.
type PurchaseOrderRequest struct {
	Product  string      `json:"product" validate:"required"`
	Quantity json.Number `json:"quantity"`
}

// PurchaseOrderHandler handles receiving and cancelling purchase orders
type PurchaseOrderHandler struct {
	orders service.PurchaseOrderService
	logger *zap.Logger
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orders service.PurchaseOrderService, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers the purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Route("/api/purchase-orders", func(r chi.Router) {
		r.Use(g.auth())
		r.Use(g.rateLimit())
		r.Post("/receive", h.Receive)
		r.Post("/cancel", h.Cancel)
	})
}

// Receive adds the ordered quantity to stock
func (h *PurchaseOrderHandler) Receive(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Receive purchase order", h.orders.Receive)
}

// Cancel takes the ordered quantity back out of stock
func (h *PurchaseOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Cancel purchase order", h.orders.Cancel)
}

type stockMovement func(ctx context.Context, productRef string, quantity int) (*domain.Product, error)

func (h *PurchaseOrderHandler) handle(w http.ResponseWriter, r *http.Request, op string, move stockMovement) {
	var req PurchaseOrderRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	quantity, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		respondError(w, h.logger, op, err)
		return
	}

	product, err := move(r.Context(), req.Product, quantity)
	if err != nil {
		respondError(w, h.logger, op, err)
		return
	}

	h.logger.Info(op+" applied",
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", quantity),
		zap.Int("stock", product.Stock),
	)
	middleware.RespondWithJSON(w, http.StatusOK, product)
}
