package ports

import (
	"context"
	"errors"

	"github.com/nexyn/foods-api/internal/domains/foods/domain"
)

var (
	ErrNotFound = errors.New("food item not found")
	// ErrInsufficientStock reports a conditional decrement that did not
	// apply because the remaining quantity is smaller than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidSortField  = errors.New("unsupported sort field")
)

// SortField names a column listings may be ordered by. Free-form sort input
// is never passed to the store; ParseSortField is the single allow-list.
type SortField string

const (
	SortByName          SortField = "name"
	SortByCategory      SortField = "category"
	SortByPrice         SortField = "price"
	SortByOrigin        SortField = "origin"
	SortByQuantity      SortField = "quantity"
	SortByPurchaseCount SortField = "purchase_count"
)

// ParseSortField validates a caller-supplied sort key against the allow-list.
// An empty key falls back to sorting by name.
func ParseSortField(raw string) (SortField, error) {
	switch SortField(raw) {
	case "":
		return SortByName, nil
	case SortByName, SortByCategory, SortByPrice, SortByOrigin, SortByQuantity, SortByPurchaseCount:
		return SortField(raw), nil
	default:
		return "", ErrInvalidSortField
	}
}

// ListOptions carries validated ordering for catalog listings.
type ListOptions struct {
	SortBy     SortField
	Descending bool
}

// Repository is the driven port for the catalog store. DecrementStock is the
// operation the purchase flow's correctness hangs on: it must apply the
// quantity check and the write as one indivisible step relative to any
// concurrent decrement on the same id.
type Repository interface {
	// Create persists a new listing and assigns its id.
	Create(ctx context.Context, food *domain.Food) (*domain.Food, error)
	// Update overwrites a listing's mutable fields.
	Update(ctx context.Context, food *domain.Food) (*domain.Food, error)
	GetByID(ctx context.Context, id string) (*domain.Food, error)
	List(ctx context.Context, opts ListOptions) ([]*domain.Food, error)
	// TopByPurchases returns listings ordered by purchase count descending,
	// ties broken by stable store order.
	TopByPurchases(ctx context.Context, limit int) ([]*domain.Food, error)
	ListByOwner(ctx context.Context, owner string) ([]*domain.Food, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock atomically subtracts quantity and bumps the purchase
	// counter, only when the current quantity covers the request. Returns
	// the updated listing, ErrInsufficientStock, or ErrNotFound.
	DecrementStock(ctx context.Context, id string, quantity int) (*domain.Food, error)
	// RestoreStock reverses a decrement after a downstream failure: it adds
	// the quantity back and takes one off the purchase counter.
	RestoreStock(ctx context.Context, id string, quantity int) error
}
