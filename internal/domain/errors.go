package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSellerNotFound   = errors.New("seller not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrReportNotFound   = errors.New("report not found")

	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockLimit        = errors.New("stock limit exceeded")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrPersistence marks a storage failure inside a unit of work.
	ErrPersistence = errors.New("persistence failure")

	ErrDuplicate = errors.New("already exists")
	ErrInUse     = errors.New("referenced by existing sales")
)

// NotFoundError reports an unresolved reference. It matches both
// ErrNotFound and the entity-specific sentinel.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	if e.Ref == "" {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %q", e.sentinel().Error(), e.Ref)
}

func (e *NotFoundError) Unwrap() []error {
	return []error{ErrNotFound, e.sentinel()}
}

func (e *NotFoundError) sentinel() error {
	switch e.Entity {
	case string(PartyCustomer):
		return ErrCustomerNotFound
	case string(PartySeller):
		return ErrSellerNotFound
	case "product":
		return ErrProductNotFound
	case "sale":
		return ErrSaleNotFound
	case "report":
		return ErrReportNotFound
	default:
		return ErrNotFound
	}
}

// NewNotFound builds a NotFoundError for entity and ref.
func NewNotFound(entity, ref string) error {
	return &NotFoundError{Entity: entity, Ref: ref}
}

// InvalidQuantityError carries the rejected input.
type InvalidQuantityError struct {
	Value string
}

func (e *InvalidQuantityError) Error() string {
	if e.Value == "" {
		return ErrInvalidQuantity.Error()
	}
	return fmt.Sprintf("%s: got %s", ErrInvalidQuantity.Error(), e.Value)
}

func (e *InvalidQuantityError) Unwrap() error {
	return ErrInvalidQuantity
}

// InsufficientStockError carries the on-hand quantity at the moment the
// decrement was refused.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Product   string
	OnHand    int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: on hand %d, requested %d", e.OnHand, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// StockLimitError reports an increment that would push stock past MaxStock.
type StockLimitError struct {
	ProductID uuid.UUID
	OnHand    int
	Requested int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("stock limit exceeded: on hand %d, adding %d, maximum %d", e.OnHand, e.Requested, MaxStock)
}

func (e *StockLimitError) Unwrap() error {
	return ErrStockLimit
}

// PersistenceError wraps a storage error raised inside a workflow.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence.Error(), e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Persistence wraps err as a PersistenceError unless it already belongs to
// the domain taxonomy.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClientError(err) || IsNotFound(err) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrStockLimit) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInUse)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
