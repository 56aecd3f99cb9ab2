// Package workflows starts purchase workflows either on a Temporal cluster
// or inline against the application service when no cluster is configured.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordersapp "github.com/nexyn/foods-api/internal/domains/orders/application"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
	orderactivities "github.com/nexyn/foods-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/nexyn/foods-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPurchaseWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePurchaseWorkflows)(nil)
)

// TemporalPurchaseWorkflows starts purchase workflows on a Temporal cluster.
type TemporalPurchaseWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPurchaseWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPurchaseWorkflows(c client.Client) *TemporalPurchaseWorkflows {
	return &TemporalPurchaseWorkflows{client: c, taskQueue: orderworkflows.PurchaseTaskQueue}
}

// ExecutePurchase starts the Temporal workflow that reserves stock and
// records the order, and waits for its result.
func (o *TemporalPurchaseWorkflows) ExecutePurchase(ctx context.Context, actor identity.Principal, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal purchase workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("purchase-%s-%s", input.FoodID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.PurchaseWorkflow,
		orderworkflows.PurchaseWorkflowInput{Actor: actor.String(), Command: input, TraceID: traceComponent},
	)
	if err != nil {
		return nil, err
	}
	var result ordertypes.PurchaseResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &result, nil
}

// InlinePurchaseWorkflows executes the service directly without Temporal,
// useful for tests or dev fallbacks.
type InlinePurchaseWorkflows struct {
	service ports.Service
}

// NewInlinePurchaseWorkflows wraps the orders service for synchronous execution.
func NewInlinePurchaseWorkflows(service ports.Service) *InlinePurchaseWorkflows {
	return &InlinePurchaseWorkflows{service: service}
}

// ExecutePurchase delegates to the application service without durable
// orchestration.
func (o *InlinePurchaseWorkflows) ExecutePurchase(ctx context.Context, actor identity.Principal, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline purchase workflows not configured")
	}
	return o.service.Purchase(ctx, actor, input)
}

// translateWorkflowError unwraps domain rejections that crossed the Temporal
// boundary as application errors so callers see the same sentinels the inline
// path returns.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) || appErr.Type() != orderactivities.PurchaseRejectedErrorType {
		return err
	}
	msg := appErr.Message()
	for _, sentinel := range []error{
		identity.ErrNotOwner,
		ordersapp.ErrOwnPurchase,
		ports.ErrListingNotFound,
		ports.ErrInsufficientStock,
	} {
		if msg == sentinel.Error() {
			return sentinel
		}
	}
	return fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, msg)
}

func workflowTraceComponent(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span != nil {
		if spanCtx := span.SpanContext(); spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
			return spanCtx.TraceID().String()
		}
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
