package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/middleware"
	"sales-inventory/internal/repository/memory"
	"sales-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t      *testing.T
	store  *memory.Store
	router chi.Router
}

func newTestAPI(t *testing.T, g Guards) *testAPI {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()

	r := chi.NewRouter()
	NewPartyHandler(service.NewCustomerService(store), domain.PartyCustomer, logger).RegisterRoutes(r, g)
	NewPartyHandler(service.NewSellerService(store), domain.PartySeller, logger).RegisterRoutes(r, g)
	NewProductHandler(service.NewProductService(store), logger).RegisterRoutes(r, g)
	NewSaleHandler(service.NewSaleService(store), logger).RegisterRoutes(r, g)
	NewPurchaseOrderHandler(service.NewPurchaseOrderService(store), logger).RegisterRoutes(r, g)
	NewReportHandler(service.NewReportService(store, service.DefaultReportOptions()), logger).RegisterRoutes(r, g)

	return &testAPI{t: t, store: store, router: r}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// seed creates Jailson, Alberto and arroz through the API.
func (a *testAPI) seed(price string, stock int) {
	a.t.Helper()
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/customers", map[string]any{
		"name": "Jailson", "national_id": "111.222.333-44", "address": "Endereço 1",
	}).Code)
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/sellers", map[string]any{
		"name": "Alberto", "national_id": "157.177.158-61",
	}).Code)
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/products", `{"name":"arroz","price":`+price+`,"stock":`+itoa(stock)+`}`).Code)
}

func (a *testAPI) stock(ref string) int {
	a.t.Helper()
	w := a.do(http.MethodGet, "/api/products/"+ref+"/stock", nil)
	require.Equal(a.t, http.StatusOK, w.Code)
	var level domain.StockLevel
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &level))
	return level.Stock
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Reason  string         `json:"reason"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestCreateSale(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 10)

	w := api.do(http.MethodPost, "/api/sales", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale domain.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, 5, sale.Quantity)
	assert.True(t, decimal.RequireFromString("20.00").Equal(sale.Total), sale.Total.String())
	assert.Equal(t, "Jailson", sale.CustomerName)
	assert.Equal(t, 5, api.stock("arroz"))

	w = api.do(http.MethodGet, "/api/sales/"+sale.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page Page[domain.Sale]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, defaultPageSize, page.PageSize)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 3)

	w := api.do(http.MethodPost, "/api/sales", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":5}`)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decodeError(t, w)
	assert.Equal(t, "insufficient stock: on hand 3, requested 5", body.Error.Message)
	assert.Equal(t, "insufficient_stock", body.Error.Reason)
	assert.EqualValues(t, 3, body.Error.Details["on_hand"])
	assert.EqualValues(t, 5, body.Error.Details["requested"])
	assert.Equal(t, 3, api.stock("arroz"))
}

func TestCreateSaleErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
		reason  string
	}{
		{"unknown customer", `{"customer":"Nobody","seller":"Alberto","product":"arroz","quantity":1}`, http.StatusNotFound, "customer not found", "not_found"},
		{"unknown seller", `{"customer":"Jailson","seller":"Nobody","product":"arroz","quantity":1}`, http.StatusNotFound, "seller not found", "not_found"},
		{"unknown product", `{"customer":"Jailson","seller":"Alberto","product":"caviar","quantity":1}`, http.StatusNotFound, "product not found", "not_found"},
		{"entities are resolved before quantity", `{"customer":"Nobody","seller":"Alberto","product":"arroz","quantity":0}`, http.StatusNotFound, "customer not found", "not_found"},
		{"zero quantity", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":0}`, http.StatusBadRequest, "quantity must be a positive integer", "invalid_quantity"},
		{"negative quantity", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":-2}`, http.StatusBadRequest, "quantity must be a positive integer", "invalid_quantity"},
		{"fractional quantity", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":2.5}`, http.StatusBadRequest, "quantity must be a positive integer", "invalid_quantity"},
		{"missing quantity", `{"customer":"Jailson","seller":"Alberto","product":"arroz"}`, http.StatusBadRequest, "quantity must be a positive integer", "invalid_quantity"},
		{"quantity beyond stock column", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":3000000000}`, http.StatusBadRequest, "quantity must be a positive integer", "invalid_quantity"},
		{"quantity beyond int64", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":99999999999999999999}`, http.StatusBadRequest, "quantity must be a positive integer", "invalid_quantity"},
		{"missing customer", `{"seller":"Alberto","product":"arroz","quantity":1}`, http.StatusBadRequest, "validation failed", "validation_failed"},
		{"malformed body", `{"customer":`, http.StatusBadRequest, "invalid request body", "malformed_body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, Guards{})
			api.seed("4.00", 10)

			w := api.do(http.MethodPost, "/api/sales", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Equal(t, tt.reason, body.Error.Reason)
			assert.Equal(t, 10, api.stock("arroz"))
		})
	}
}

func TestGetSaleInvalidID(t *testing.T) {
	api := newTestAPI(t, Guards{})

	w := api.do(http.MethodGet, "/api/sales/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchaseOrders(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 10)

	w := api.do(http.MethodPost, "/api/purchase-orders/receive", `{"product":"arroz","quantity":25}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var product domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, 35, product.Stock)

	w = api.do(http.MethodPost, "/api/purchase-orders/cancel", `{"product":"ARROZ","quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, api.stock("arroz"))

	w = api.do(http.MethodPost, "/api/purchase-orders/cancel", `{"product":"arroz","quantity":200}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, 30, decodeError(t, w).Error.Details["on_hand"])

	w = api.do(http.MethodPost, "/api/purchase-orders/receive", `{"product":"arroz","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/purchase-orders/receive", `{"product":"caviar","quantity":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 30, api.stock("arroz"))
}

func TestReceiveRespectsStockLimit(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 10)

	w := api.do(http.MethodPost, "/api/purchase-orders/receive", `{"product":"arroz","quantity":3000000000}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "invalid_quantity", decodeError(t, w).Error.Reason)
	assert.Equal(t, 10, api.stock("arroz"))

	w = api.do(http.MethodPost, "/api/purchase-orders/receive", `{"product":"arroz","quantity":`+itoa(domain.MaxStock-10)+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.MaxStock, api.stock("arroz"))

	w = api.do(http.MethodPost, "/api/purchase-orders/receive", `{"product":"arroz","quantity":1}`)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	body := decodeError(t, w)
	assert.Equal(t, "stock_limit", body.Error.Reason)
	assert.EqualValues(t, domain.MaxStock, body.Error.Details["on_hand"])
	assert.EqualValues(t, domain.MaxStock, body.Error.Details["maximum"])
	assert.Equal(t, domain.MaxStock, api.stock("arroz"))
}

func TestProductCatalog(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 10)

	w := api.do(http.MethodPost, "/api/products", `{"name":"Arroz","price":5.00,"stock":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/products", `{"name":"sal","price":2.799,"stock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/products", `{"name":"sal","price":2.79}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/products", `{"name":"sal","price":2.79,"stock":3000000000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", decodeError(t, w).Error.Reason)

	w = api.do(http.MethodPut, "/api/products/arroz", `{"price":4.50,"stock":999}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated UpdateResponse[domain.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Len(t, updated.Changes, 1)
	assert.Equal(t, domain.FieldChange{Field: "price", From: "4.00", To: "4.50"}, updated.Changes[0])
	assert.Equal(t, 10, updated.Data.Stock)

	w = api.do(http.MethodGet, "/api/products?name=arr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page Page[domain.Product]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)

	w = api.do(http.MethodGet, "/api/products/stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var levels []domain.StockLevel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &levels))
	require.Len(t, levels, 1)
	assert.Equal(t, "arroz", levels[0].Name)
}

func TestDeleteReferencedProduct(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 10)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sales", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":1}`).Code)

	w := api.do(http.MethodDelete, "/api/products/arroz", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodDelete, "/api/customers/111.222.333-44", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestParties(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 10)

	w := api.do(http.MethodPost, "/api/customers", `{"name":"Carlos","national_id":"55566677788"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var invalid struct {
		Error struct {
			Details struct {
				ValidationErrors []middleware.ValidationError `json:"validation_errors"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	require.Len(t, invalid.Error.Details.ValidationErrors, 1)
	assert.Equal(t, "national_id", invalid.Error.Details.ValidationErrors[0].Field)

	w = api.do(http.MethodPost, "/api/customers", `{"name":"Carlos","national_id":"111.222.333-44"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodGet, "/api/customers?name=jail", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []domain.Party
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found, 1)

	w = api.do(http.MethodPut, "/api/customers/"+found[0].ID.String(), `{"address":"Endereço 9"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated UpdateResponse[domain.Party]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, domain.Changes{{Field: "address", From: "Endereço 1", To: "Endereço 9"}}, updated.Changes)

	w = api.do(http.MethodPut, "/api/sellers/Alberto", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodDelete, "/api/sellers/Alberto", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, "/api/sellers/Alberto", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "seller not found", decodeError(t, w).Error.Message)
}

func TestReports(t *testing.T) {
	api := newTestAPI(t, Guards{})
	api.seed("4.00", 10)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sales", `{"customer":"Jailson","seller":"Alberto","product":"arroz","quantity":4}`).Code)

	w := api.do(http.MethodPost, "/api/reports/low-stock", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var lowStock domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lowStock))
	assert.Equal(t, domain.ReportLowStock, lowStock.Type)

	var rows []domain.StockLevel
	require.NoError(t, json.Unmarshal(lowStock.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 6, rows[0].Stock)

	w = api.do(http.MethodPost, "/api/reports/low-stock", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var again domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, lowStock.ID, again.ID)

	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/reports/average-consumption?product=arroz", nil).Code)
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/reports/top-sellers", nil).Code)
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/reports/customer-products/Jailson", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/reports/customer-products/Nobody", nil).Code)

	w = api.do(http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reports []domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	assert.Len(t, reports, 4)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/reports/"+lowStock.ID.String(), nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/reports/"+lowStock.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/reports/"+lowStock.ID.String(), nil).Code)
}

func TestGuardsProtectMutations(t *testing.T) {
	deny := func(status int) func(http.Handler) http.Handler {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				middleware.Problem{Status: status, Message: http.StatusText(status)}.Respond(w)
			})
		}
	}

	api := newTestAPI(t, Guards{Auth: deny(http.StatusUnauthorized), RateLimit: deny(http.StatusTooManyRequests)})

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sales", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/products", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/sales", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/purchase-orders/receive", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodDelete, "/api/customers/Jailson", nil).Code)

	limited := newTestAPI(t, Guards{RateLimit: deny(http.StatusTooManyRequests)})
	assert.Equal(t, http.StatusTooManyRequests, limited.do(http.MethodPost, "/api/sales", `{}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, limited.do(http.MethodPost, "/api/purchase-orders/cancel", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, limited.do(http.MethodPost, "/api/products", `{}`).Code)

	admin := newTestAPI(t, Guards{Admin: deny(http.StatusForbidden)})
	assert.Equal(t, http.StatusForbidden, admin.do(http.MethodDelete, "/api/reports/"+"00000000-0000-0000-0000-000000000001", nil).Code)
}
