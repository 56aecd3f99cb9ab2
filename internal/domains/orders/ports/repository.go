package ports

import (
	"context"
	"errors"

	"github.com/nexyn/foods-api/internal/domains/orders/domain"
)

// ErrNotFound is returned when no order exists for the given id.
var ErrNotFound = errors.New("order not found")

// ErrDuplicateID is returned when an insert carries an id the ledger already
// holds.
var ErrDuplicateID = errors.New("order id already recorded")

// Repository is the outbound port for the order ledger.
type Repository interface {
	// Insert appends a committed purchase to the ledger, assigning the
	// purchase timestamp. An order arriving without an id gets one; a
	// preset id acts as an idempotency key and must not already exist.
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByBuyer returns the buyer's orders, most recent first.
	ListByBuyer(ctx context.Context, buyer string) ([]*domain.Order, error)
	Delete(ctx context.Context, id string) error
}
