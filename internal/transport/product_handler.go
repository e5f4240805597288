package transport

import (
	"net/http"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/middleware"
	"sales-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest is the payload for a new product. Stock is the
// opening balance; later movements go through sales and purchase orders.
type CreateProductRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price" validate:"money"`
	Stock *int            `json:"stock" validate:"required,gte=0,lte=2147483647"`
}

// UpdateProductRequest changes the catalog fields of a product.
type UpdateProductRequest struct {
	Name  *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Price *decimal.Decimal `json:"price" validate:"omitempty,money"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/stock", h.StockLevels)
		r.Get("/{ref}", h.Get)
		r.Get("/{ref}/stock", h.Stock)

		r.Group(func(r chi.Router) {
			r.Use(g.auth())
			r.Post("/", h.Create)
			r.Put("/{ref}", h.Update)
			r.Delete("/{ref}", h.Delete)
		})
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	product, err := h.products.Create(r.Context(), service.ProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: *req.Stock,
	})
	if err != nil {
		respondError(w, h.logger, "Create product", err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.Int("stock", product.Stock),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// List handles paginated product listing with an optional name filter
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	products, total, err := h.products.List(r.Context(), r.URL.Query().Get("name"), page, pageSize)
	if err != nil {
		respondError(w, h.logger, "List products", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, Page[*domain.Product]{
		Items:    products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get handles retrieving a product by id or name
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respondError(w, h.logger, "Get product", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// StockLevels handles the stock view of every product
func (h *ProductHandler) StockLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.products.StockLevels(r.Context())
	if err != nil {
		respondError(w, h.logger, "List stock", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, levels)
}

// Stock handles the stock view of one product
func (h *ProductHandler) Stock(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respondError(w, h.logger, "Get stock", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, domain.StockLevel{
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
	})
}

// Update handles name and price changes
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	product, changes, err := h.products.Update(r.Context(), chi.URLParam(r, "ref"), domain.ProductUpdate{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		respondError(w, h.logger, "Update product", err)
		return
	}

	h.logger.Info("Product updated",
		zap.String("product_id", product.ID.String()),
		zap.Int("changes", len(changes)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, UpdateResponse[*domain.Product]{Data: product, Changes: changes})
}

// Delete handles product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Delete(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respondError(w, h.logger, "Delete product", err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, DeleteResponse[*domain.Product]{
		Message: "product deleted",
		Deleted: product,
	})
}
