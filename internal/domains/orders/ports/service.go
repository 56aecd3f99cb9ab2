package ports

import (
	"context"

	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	"github.com/nexyn/foods-api/internal/domains/orders/domain"
)

// Service is the inbound port for the orders bounded context.
type Service interface {
	// Purchase runs the full purchase workflow: validate, reserve stock,
	// record the order. Reserved stock is released if recording fails.
	Purchase(ctx context.Context, actor identity.Principal, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error)
	// ListByBuyer returns the buyer's order history. The actor must be the
	// buyer.
	ListByBuyer(ctx context.Context, actor identity.Principal, buyer string) ([]*domain.Order, error)
	// Cancel removes an order from the ledger. The actor must be the order's
	// buyer. Stock is not restored.
	Cancel(ctx context.Context, actor identity.Principal, id string) error
}
