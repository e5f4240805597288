package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Reason codes carried by error responses so clients can branch without
// parsing messages.
const (
	ReasonValidation        = "validation_failed"
	ReasonMalformedBody     = "malformed_body"
	ReasonNotFound          = "not_found"
	ReasonInvalidQuantity   = "invalid_quantity"
	ReasonInvalidInput      = "invalid_input"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonStockLimit        = "stock_limit"
	ReasonDuplicate         = "duplicate"
	ReasonInUse             = "in_use"
	ReasonUnauthorized      = "unauthorized"
	ReasonForbidden         = "forbidden"
	ReasonRateLimited       = "rate_limited"
	ReasonInternal          = "internal"
)

// ErrorResponse is the envelope of every error body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information. Code is the HTTP status text;
// Reason is the stable machine-readable cause.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Reason    string         `json:"reason,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// Problem describes one error response.
type Problem struct {
	Status  int
	Reason  string
	Message string
	Details map[string]any
}

// Respond writes p as the error envelope.
func (p Problem) Respond(w http.ResponseWriter) {
	RespondWithJSON(w, p.Status, ErrorResponse{
		Error: ErrorDetail{
			Code:      http.StatusText(p.Status),
			Reason:    p.Reason,
			Message:   p.Message,
			Details:   p.Details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// RespondWithValidationErrors sends a 400 listing every failed field.
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	Problem{
		Status:  http.StatusBadRequest,
		Reason:  ReasonValidation,
		Message: "validation failed",
		Details: map[string]any{"validation_errors": errors},
	}.Respond(w)
}

// ErrorHandlingMiddleware turns panics into 500 responses. Aborted
// handlers are re-panicked for net/http to handle.
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"),
				)
				Problem{Status: http.StatusInternalServerError, Reason: ReasonInternal, Message: "internal server error"}.Respond(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
