package types

import "github.com/nexyn/foods-api/internal/domains/orders/domain"

// PurchaseInput carries a purchase request into the workflow. Buyer is the
// body's asserted buyer email; the service requires it to match the verified
// principal. OrderID is an optional idempotency key: when set it becomes the
// order's id, and a replay that finds the order already recorded returns it
// instead of reserving stock a second time. Durable orchestration derives it
// from the workflow run so at-least-once activity delivery stays safe.
type PurchaseInput struct {
	FoodID   string
	Quantity int
	Buyer    string
	OrderID  string
}

// PurchaseResult is the workflow outcome: the recorded order plus the stock
// left on the listing after the reservation.
type PurchaseResult struct {
	Order             *domain.Order
	RemainingQuantity int
}
