package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	"github.com/nexyn/foods-api/internal/platform/temporal/sequences"
)

const (
	// PurchaseWorkflowName is the public identifier for registering the workflow.
	PurchaseWorkflowName = "orders.workflows.Purchase"
	// PurchaseTaskQueue is the queue consumed by the worker processing order workflows.
	PurchaseTaskQueue = "ORDER_PURCHASE"
)

// PurchaseWorkflowInput captures the payload required to run a purchase.
type PurchaseWorkflowInput struct {
	Actor   string
	Command ordertypes.PurchaseInput
	TraceID string
}

// PurchaseWorkflow orchestrates the activities that reserve stock and record
// an order.
func PurchaseWorkflow(ctx workflow.Context, input PurchaseWorkflowInput) (*ordertypes.PurchaseResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PurchaseWorkflow started", withTraceID(input.TraceID, "foodId", input.Command.FoodID)...)
	if input.Command.OrderID == "" {
		// The run id doubles as the order's idempotency key: a redelivered
		// activity attempt finds the order already recorded instead of
		// reserving stock twice.
		input.Command.OrderID = workflow.GetInfo(ctx).WorkflowExecution.RunID
	}
	result, err := sequences.RunPurchaseSequence(ctx, input.Actor, input.Command)
	if err != nil {
		logger.Error("PurchaseWorkflow failed", withTraceID(input.TraceID, "foodId", input.Command.FoodID, "error", err)...)
		return nil, err
	}
	if result != nil && result.Order != nil {
		logger.Info("PurchaseWorkflow completed", withTraceID(input.TraceID, "orderId", result.Order.ID)...)
	} else {
		logger.Info("PurchaseWorkflow completed", withTraceID(input.TraceID)...)
	}
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
