package foodsserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	identityhttp "github.com/nexyn/foods-api/internal/domains/identity/adapters/http"
	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
	ordertypes "github.com/nexyn/foods-api/internal/domains/orders/application/types"
	orderdomain "github.com/nexyn/foods-api/internal/domains/orders/domain"
	orderports "github.com/nexyn/foods-api/internal/domains/orders/ports"
	apierrors "github.com/nexyn/foods-api/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the orders bounded context service and
// workflows.
type OrdersAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// PurchaseRequest is the POST /purchase payload.
type PurchaseRequest struct {
	FoodID   string `json:"food_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Buyer    string `json:"buyer" binding:"required"`
}

// OrderResponse is the ledger entry representation returned by the API.
type OrderResponse struct {
	ID             string    `json:"id"`
	FoodID         string    `json:"food_id"`
	FoodName       string    `json:"food_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	Buyer          string    `json:"buyer"`
	PurchasedAt    time.Time `json:"purchased_at"`
}

// PurchaseResponse is the commit confirmation, including what the listing
// has left.
type PurchaseResponse struct {
	Order             OrderResponse `json:"order"`
	RemainingQuantity int           `json:"remaining_quantity"`
}

func toOrderResponse(order *orderdomain.Order) OrderResponse {
	return OrderResponse{
		ID:             order.ID,
		FoodID:         order.FoodID,
		FoodName:       order.FoodName,
		UnitPriceCents: order.UnitPriceCents,
		Quantity:       order.Quantity,
		Buyer:          order.Buyer,
		PurchasedAt:    order.PurchasedAt,
	}
}

// Post /purchase
// Purchase a quantity of a listing
func (api *OrdersAPI) Purchase(c *gin.Context) {
	actor, ok := identityhttp.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("no verified principal on request"))
		return
	}
	var payload PurchaseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.purchase(c.Request.Context(), actor, ordertypes.PurchaseInput{
		FoodID:   payload.FoodID,
		Quantity: payload.Quantity,
		Buyer:    payload.Buyer,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, PurchaseResponse{
		Order:             toOrderResponse(result.Order),
		RemainingQuantity: result.RemainingQuantity,
	})
}

func (api *OrdersAPI) purchase(ctx context.Context, actor identity.Principal, input ordertypes.PurchaseInput) (*ordertypes.PurchaseResult, error) {
	if api.workflows != nil {
		return api.workflows.ExecutePurchase(ctx, actor, input)
	}
	return api.service.Purchase(ctx, actor, input)
}

// Get /orders/:email
// List the caller's order history
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	actor, ok := identityhttp.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("no verified principal on request"))
		return
	}
	orders, err := api.service.ListByBuyer(c.Request.Context(), actor, c.Param("email"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	list := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		list = append(list, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, list)
}

// Delete /orders/:id
// Remove an order the caller placed
func (api *OrdersAPI) CancelOrder(c *gin.Context) {
	actor, ok := identityhttp.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("no verified principal on request"))
		return
	}
	if err := api.service.Cancel(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
