package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordersapp "github.com/nexyn/foods-api/internal/domains/orders/application"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	orderports "github.com/nexyn/foods-api/internal/domains/orders/ports"
)

const (
	// ExecutePurchaseActivityName reserves stock and records an order.
	ExecutePurchaseActivityName = "orders.activities.ExecutePurchase"
	// PurchaseRejectedErrorType marks domain rejections that must not be
	// retried: the request will fail the same way every time.
	PurchaseRejectedErrorType = "PurchaseRejected"
)

// PurchaseCommand carries the verified actor and the purchase request into
// the activity.
type PurchaseCommand struct {
	Actor string
	Input ordertypes.PurchaseInput
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// ExecutePurchase runs the purchase workflow for the given actor.
func (a *Activities) ExecutePurchase(ctx context.Context, command PurchaseCommand) (*ordertypes.PurchaseResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("purchase activity not initialized", "foodId", command.Input.FoodID)
		return nil, errors.New("purchase activity not initialized")
	}
	actor, err := identity.NewPrincipal(command.Actor)
	if err != nil {
		return nil, temporal.NewApplicationError(err.Error(), PurchaseRejectedErrorType)
	}
	logger.Info("ExecutePurchase activity started", "foodId", command.Input.FoodID)
	result, err := a.service.Purchase(ctx, actor, command.Input)
	if err != nil {
		if isRejection(err) {
			logger.Info("ExecutePurchase rejected", "foodId", command.Input.FoodID, "reason", err.Error())
			return nil, temporal.NewApplicationError(err.Error(), PurchaseRejectedErrorType)
		}
		logger.Error("ExecutePurchase activity failed", "foodId", command.Input.FoodID, "error", err)
		return nil, err
	}
	logger.Info("ExecutePurchase activity completed", "orderId", result.Order.ID)
	return result, nil
}

// isRejection reports whether the error is a deterministic domain rejection
// rather than a transient infrastructure failure.
func isRejection(err error) bool {
	return errors.Is(err, identity.ErrNotOwner) ||
		errors.Is(err, ordersapp.ErrInvalidInput) ||
		errors.Is(err, ordersapp.ErrOwnPurchase) ||
		errors.Is(err, orderports.ErrListingNotFound) ||
		errors.Is(err, orderports.ErrInsufficientStock)
}
