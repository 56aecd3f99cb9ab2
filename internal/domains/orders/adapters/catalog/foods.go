// Package catalog adapts the foods repository to the orders context's
// catalog port, translating types and errors at the boundary so neither
// context leaks into the other.
package catalog

import (
	"context"
	"errors"
	"fmt"

	fooddomain "github.com/nexyn/foods-api/internal/domains/foods/domain"
	foodports "github.com/nexyn/foods-api/internal/domains/foods/ports"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

// FoodsCatalog implements the orders catalog port on top of the foods
// repository. Reserve maps onto the repository's conditional decrement, so
// the atomicity guarantee carries over unchanged.
type FoodsCatalog struct {
	foods foodports.Repository
}

func NewFoodsCatalog(foods foodports.Repository) *FoodsCatalog {
	return &FoodsCatalog{foods: foods}
}

func (c *FoodsCatalog) Lookup(ctx context.Context, foodID string) (*ports.Listing, error) {
	food, err := c.foods.GetByID(ctx, foodID)
	if err != nil {
		return nil, translate(err)
	}
	return toListing(food), nil
}

func (c *FoodsCatalog) Reserve(ctx context.Context, foodID string, quantity int) (*ports.Listing, error) {
	food, err := c.foods.DecrementStock(ctx, foodID, quantity)
	if err != nil {
		return nil, translate(err)
	}
	return toListing(food), nil
}

func (c *FoodsCatalog) Release(ctx context.Context, foodID string, quantity int) error {
	if err := c.foods.RestoreStock(ctx, foodID, quantity); err != nil {
		return translate(err)
	}
	return nil
}

func toListing(food *fooddomain.Food) *ports.Listing {
	return &ports.Listing{
		ID:             food.ID,
		Name:           food.Name,
		UnitPriceCents: food.PriceCents,
		Quantity:       food.Quantity,
		Owner:          food.Owner,
	}
}

func translate(err error) error {
	switch {
	case errors.Is(err, foodports.ErrNotFound):
		return ports.ErrListingNotFound
	case errors.Is(err, foodports.ErrInsufficientStock):
		return ports.ErrInsufficientStock
	default:
		return fmt.Errorf("foods catalog: %w", err)
	}
}

var _ ports.Catalog = (*FoodsCatalog)(nil)
