package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	orderactivities "github.com/nexyn/foods-api/internal/platform/temporal/activities/orders"
)

// RunPurchaseSequence executes the activity that reserves stock and records
// the order. Bounded retries are safe on two counts: a failed attempt either
// never reserved or has already released, and an attempt whose result was
// lost after the ledger insert is caught by the order's idempotency key on
// redelivery, returning the recorded order instead of reserving again.
func RunPurchaseSequence(ctx workflow.Context, actor string, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("purchase sequence started", "foodId", input.FoodID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
			NonRetryableErrorTypes: []string{
				orderactivities.PurchaseRejectedErrorType,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result ordertypes.PurchaseResult
	err := workflow.ExecuteActivity(ctx, orderactivities.ExecutePurchaseActivityName, orderactivities.PurchaseCommand{
		Actor: actor,
		Input: input,
	}).Get(ctx, &result)
	if err != nil {
		logger.Error("purchase sequence failed", "foodId", input.FoodID, "error", err)
		return nil, err
	}
	if result.Order != nil {
		logger.Info("purchase sequence completed", "orderId", result.Order.ID)
	} else {
		logger.Info("purchase sequence completed")
	}
	return &result, nil
}
