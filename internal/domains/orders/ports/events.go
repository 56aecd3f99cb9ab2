package ports

import (
	"context"
	"time"
)

// OrderPlaced is emitted after a purchase commits.
type OrderPlaced struct {
	OrderID        string    `json:"order_id"`
	FoodID         string    `json:"food_id"`
	FoodName       string    `json:"food_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	Buyer          string    `json:"buyer"`
	PurchasedAt    time.Time `json:"purchased_at"`
}

// EventPublisher is the outbound port for purchase notifications. Publishing
// is best effort: a failed publish never fails the purchase.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
