package ports

import (
	"context"
	"errors"
)

var (
	// ErrListingNotFound is returned when the referenced listing does not
	// exist, including the race where it is deleted mid-purchase.
	ErrListingNotFound = errors.New("food listing not found")
	// ErrInsufficientStock is returned when the requested quantity exceeds
	// what the listing has available.
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")
)

// Listing is the catalog's view of a purchasable item.
type Listing struct {
	ID             string
	Name           string
	UnitPriceCents int64
	Quantity       int
	Owner          string
}

// Catalog is the outbound port onto the food catalog. Reserve and Release
// form a compensation pair: a reservation that cannot be recorded in the
// ledger must be released to restore the listing.
type Catalog interface {
	Lookup(ctx context.Context, foodID string) (*Listing, error)
	// Reserve atomically decrements available stock by quantity and bumps
	// the purchase counter, returning the listing state after the
	// reservation. It fails with ErrInsufficientStock without mutating
	// anything when stock is short.
	Reserve(ctx context.Context, foodID string, quantity int) (*Listing, error)
	// Release returns previously reserved stock and rolls back the
	// purchase counter.
	Release(ctx context.Context, foodID string, quantity int) error
}
