package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("purchase quantity must be greater than zero")
	ErrInvalidBuyer    = errors.New("buyer must be an email address")
	ErrMissingFoodID   = errors.New("food id is required")
)

// Order records a committed purchase. FoodID is a weak reference: the listing
// may be edited or removed later, so the order keeps the purchase-time
// snapshot of name and unit price rather than a live link.
type Order struct {
	ID             string
	FoodID         string
	FoodName       string
	UnitPriceCents int64
	Quantity       int
	Buyer          string
	PurchasedAt    time.Time
}

// NewOrder validates and constructs an order ready for recording. The id and
// purchase timestamp are assigned by the ledger at insertion.
func NewOrder(foodID, foodName string, unitPriceCents int64, quantity int, buyer string) (*Order, error) {
	if strings.TrimSpace(foodID) == "" {
		return nil, ErrMissingFoodID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	buyer = strings.TrimSpace(buyer)
	if buyer == "" || !strings.Contains(buyer, "@") {
		return nil, ErrInvalidBuyer
	}
	return &Order{
		FoodID:         foodID,
		FoodName:       foodName,
		UnitPriceCents: unitPriceCents,
		Quantity:       quantity,
		Buyer:          buyer,
	}, nil
}

// Validate re-applies core invariants for persistence.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.FoodID) == "" {
		return ErrMissingFoodID
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if o.Buyer == "" || !strings.Contains(o.Buyer, "@") {
		return ErrInvalidBuyer
	}
	return nil
}
