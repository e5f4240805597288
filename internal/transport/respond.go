package transport

import (
	"errors"
	"net/http"
	"strconv"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is the envelope of paginated list responses.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// UpdateResponse pairs an updated entity with the fields that changed.
type UpdateResponse[T any] struct {
	Data    T              `json:"data"`
	Changes domain.Changes `json:"changes"`
}

// DeleteResponse echoes the removed entity.
type DeleteResponse[T any] struct {
	Message string `json:"message"`
	Deleted T      `json:"deleted"`
}

var notFoundSentinels = []error{
	domain.ErrCustomerNotFound,
	domain.ErrSellerNotFound,
	domain.ErrProductNotFound,
	domain.ErrSaleNotFound,
	domain.ErrReportNotFound,
}

// respondError translates the domain error taxonomy into the JSON error
// envelope. Only persistence failures are logged at error level.
func respondError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	problem := problemFor(err)
	if problem.Status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
	} else {
		logger.Debug(op+" refused", zap.String("reason", problem.Reason), zap.Error(err))
	}
	problem.Respond(w)
}

func problemFor(err error) middleware.Problem {
	var stockErr *domain.InsufficientStockError
	var limitErr *domain.StockLimitError
	var notFound *domain.NotFoundError

	switch {
	case errors.As(err, &stockErr):
		return middleware.Problem{
			Status:  http.StatusConflict,
			Reason:  middleware.ReasonInsufficientStock,
			Message: stockErr.Error(),
			Details: map[string]any{
				"product_id": stockErr.ProductID,
				"product":    stockErr.Product,
				"on_hand":    stockErr.OnHand,
				"requested":  stockErr.Requested,
			},
		}
	case errors.As(err, &limitErr):
		return middleware.Problem{
			Status:  http.StatusConflict,
			Reason:  middleware.ReasonStockLimit,
			Message: limitErr.Error(),
			Details: map[string]any{
				"product_id": limitErr.ProductID,
				"on_hand":    limitErr.OnHand,
				"requested":  limitErr.Requested,
				"maximum":    domain.MaxStock,
			},
		}
	case domain.IsNotFound(err):
		message := domain.ErrNotFound.Error()
		for _, sentinel := range notFoundSentinels {
			if errors.Is(err, sentinel) {
				message = sentinel.Error()
				break
			}
		}
		var details map[string]any
		if errors.As(err, &notFound) && notFound.Ref != "" {
			details = map[string]any{"ref": notFound.Ref}
		}
		return middleware.Problem{Status: http.StatusNotFound, Reason: middleware.ReasonNotFound, Message: message, Details: details}
	case errors.Is(err, domain.ErrInvalidQuantity):
		return middleware.Problem{Status: http.StatusBadRequest, Reason: middleware.ReasonInvalidQuantity, Message: domain.ErrInvalidQuantity.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return middleware.Problem{Status: http.StatusBadRequest, Reason: middleware.ReasonInvalidInput, Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return middleware.Problem{Status: http.StatusConflict, Reason: middleware.ReasonDuplicate, Message: err.Error()}
	case errors.Is(err, domain.ErrInUse):
		return middleware.Problem{Status: http.StatusConflict, Reason: middleware.ReasonInUse, Message: err.Error()}
	default:
		return middleware.Problem{Status: http.StatusInternalServerError, Reason: middleware.ReasonInternal, Message: "internal server error"}
	}
}

// decode reads and validates a JSON body, writing the 400 response itself
// when it fails.
func decode(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.Problem{Status: http.StatusBadRequest, Reason: middleware.ReasonMalformedBody, Message: "invalid request body"}.Respond(w)
		return false
	}
	return true
}

// pagination reads page and page_size, falling back to defaults on
// missing or malformed values.
func pagination(r *http.Request) (page, pageSize int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, min(pageSize, maxPageSize)
}

func idParam(w http.ResponseWriter, r *http.Request, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.Problem{Status: http.StatusBadRequest, Reason: middleware.ReasonInvalidInput, Message: "invalid " + entity + " id"}.Respond(w)
		return uuid.Nil, false
	}
	return id, true
}

// passthrough is used when a guard is not configured.
func passthrough(next http.Handler) http.Handler { return next }

func orPassthrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return passthrough
	}
	return mw
}
