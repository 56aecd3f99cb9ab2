package foodsserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	foodtypes "github.com/nexyn/foods-api/internal/domains/foods/application/types"
	fooddomain "github.com/nexyn/foods-api/internal/domains/foods/domain"
	foodports "github.com/nexyn/foods-api/internal/domains/foods/ports"
	identityhttp "github.com/nexyn/foods-api/internal/domains/identity/adapters/http"
	apierrors "github.com/nexyn/foods-api/internal/shared/errors"
)

// FoodsAPI wires HTTP transport with the foods bounded context service.
type FoodsAPI struct {
	service foodports.Service
}

// NewFoodsAPI creates a FoodsAPI backed by the provided service.
func NewFoodsAPI(service foodports.Service) FoodsAPI {
	return FoodsAPI{service: service}
}

// FoodRequest is the payload for creating a listing.
type FoodRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category"`
	PriceCents  int64    `json:"price_cents"`
	Origin      string   `json:"origin"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Ingredients []string `json:"ingredients"`
	Quantity    int      `json:"quantity"`
	Owner       string   `json:"owner" binding:"required"`
	OwnerName   string   `json:"owner_name"`
}

// FoodUpdateRequest is the payload for a partial mutation. Absent fields keep
// their stored values; the owner is never part of it.
type FoodUpdateRequest struct {
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	PriceCents  *int64    `json:"price_cents"`
	Origin      *string   `json:"origin"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Ingredients *[]string `json:"ingredients"`
	Quantity    *int      `json:"quantity"`
}

// FoodResponse is the listing representation returned by the API.
type FoodResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	PriceCents    int64     `json:"price_cents"`
	Origin        string    `json:"origin"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`
	Ingredients   []string  `json:"ingredients"`
	Quantity      int       `json:"quantity"`
	PurchaseCount int64     `json:"purchase_count"`
	Owner         string    `json:"owner"`
	OwnerName     string    `json:"owner_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toFoodResponse(food *fooddomain.Food) FoodResponse {
	ingredients := food.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return FoodResponse{
		ID:            food.ID,
		Name:          food.Name,
		Category:      food.Category,
		PriceCents:    food.PriceCents,
		Origin:        food.Origin,
		Description:   food.Description,
		ImageURL:      food.ImageURL,
		Ingredients:   ingredients,
		Quantity:      food.Quantity,
		PurchaseCount: food.PurchaseCount,
		Owner:         food.Owner,
		OwnerName:     food.OwnerName,
		CreatedAt:     food.CreatedAt,
		UpdatedAt:     food.UpdatedAt,
	}
}

func toFoodResponseList(foods []*fooddomain.Food) []FoodResponse {
	list := make([]FoodResponse, 0, len(foods))
	for _, food := range foods {
		list = append(list, toFoodResponse(food))
	}
	return list
}

// Post /foods
// List a new food item
func (api *FoodsAPI) AddFood(c *gin.Context) {
	actor, ok := identityhttp.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("no verified principal on request"))
		return
	}
	var payload FoodRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.Create(c.Request.Context(), actor, foodtypes.CreateFoodInput{
		Name:        payload.Name,
		Category:    payload.Category,
		PriceCents:  payload.PriceCents,
		Origin:      payload.Origin,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
		Ingredients: payload.Ingredients,
		Quantity:    payload.Quantity,
		Owner:       payload.Owner,
		OwnerName:   payload.OwnerName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFoodResponse(saved))
}

// Get /foods
// List all food items sorted by an allow-listed field
func (api *FoodsAPI) ListFoods(c *gin.Context) {
	result, err := api.service.List(c.Request.Context(), foodtypes.ListFoodsInput{
		SortField: c.Query("sortField"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFoodResponseList(result))
}

// Get /top-foods
// List the most purchased food items
func (api *FoodsAPI) TopFoods(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondProblem(c, apierrors.ErrValidation.WithDetail("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	result, err := api.service.Top(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFoodResponseList(result))
}

// Get /foods/:id
// Fetch a single food item
func (api *FoodsAPI) GetFood(c *gin.Context) {
	result, err := api.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFoodResponse(result))
}

// Put /foods/:id
// Apply a partial mutation to an owned listing
func (api *FoodsAPI) UpdateFood(c *gin.Context) {
	actor, ok := identityhttp.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("no verified principal on request"))
		return
	}
	var payload FoodUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.Update(c.Request.Context(), actor, c.Param("id"), foodtypes.UpdateFoodInput{
		Name:        payload.Name,
		Category:    payload.Category,
		PriceCents:  payload.PriceCents,
		Origin:      payload.Origin,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
		Ingredients: payload.Ingredients,
		Quantity:    payload.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFoodResponse(updated))
}

// Delete /foods/:id
// Remove an owned listing
func (api *FoodsAPI) DeleteFood(c *gin.Context) {
	actor, ok := identityhttp.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("no verified principal on request"))
		return
	}
	if err := api.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /my-foods/:email
// List the caller's own listings
func (api *FoodsAPI) MyFoods(c *gin.Context) {
	actor, ok := identityhttp.PrincipalFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("no verified principal on request"))
		return
	}
	result, err := api.service.ListByOwner(c.Request.Context(), actor, c.Param("email"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFoodResponseList(result))
}
