package ports

import (
	"context"

	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
)

// WorkflowOrchestrator exposes durable workflow operations required by the
// orders bounded context.
type WorkflowOrchestrator interface {
	ExecutePurchase(ctx context.Context, actor identity.Principal, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error)
}
