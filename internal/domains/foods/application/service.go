package application

import (
	"context"

	foodtypes "github.com/nexyn/foods-api/internal/domains/foods/application/types"
	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/foods/ports"
	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
)

const (
	// DefaultTopLimit mirrors the storefront's featured-items widget.
	DefaultTopLimit = 6
	maxTopLimit     = 50
)

// Service orchestrates the catalog use cases. Ownership checks always read
// the stored record; caller-supplied owner values are only ever an additional
// required match.
type Service struct {
	repo ports.Repository
}

// NewService wires the foods service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create lists a new food item on behalf of the acting principal. The body's
// asserted owner must match the verified identity.
func (s *Service) Create(ctx context.Context, actor identity.Principal, input foodtypes.CreateFoodInput) (*domain.Food, error) {
	if err := identity.Authorize(actor, input.Owner); err != nil {
		return nil, err
	}
	food, err := domain.NewFood(input.Name, input.PriceCents, input.Quantity, actor.String(), input.OwnerName)
	if err != nil {
		return nil, mapError(err)
	}
	food.UpdateDetails(input.Category, input.Origin, input.Description, input.ImageURL, input.Ingredients)
	saved, err := s.repo.Create(ctx, food)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// List returns all listings ordered by the requested field, validated against
// the sortable allow-list.
func (s *Service) List(ctx context.Context, input foodtypes.ListFoodsInput) ([]*domain.Food, error) {
	sortBy, err := ports.ParseSortField(input.SortField)
	if err != nil {
		return nil, mapError(err)
	}
	opts := ports.ListOptions{SortBy: sortBy, Descending: input.SortOrder == "desc"}
	result, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// Top returns the most purchased listings, sized to the storefront default
// when the caller does not say otherwise.
func (s *Service) Top(ctx context.Context, limit int) ([]*domain.Food, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	result, err := s.repo.TopByPurchases(ctx, limit)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// GetByID loads a single listing.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	food, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return food, nil
}

// ListByOwner returns the acting principal's own listings.
func (s *Service) ListByOwner(ctx context.Context, actor identity.Principal, owner string) ([]*domain.Food, error) {
	if err := identity.Authorize(actor, owner); err != nil {
		return nil, err
	}
	result, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// Update applies a partial mutation to a listing the actor owns. The stored
// owner is the sole source of truth for the comparison, and stays immutable.
func (s *Service) Update(ctx context.Context, actor identity.Principal, id string, input foodtypes.UpdateFoodInput) (*domain.Food, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := identity.Authorize(actor, existing.Owner); err != nil {
		return nil, err
	}
	if err := applyPartialMutation(existing, input); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Delete removes a listing the actor owns. Orders referencing it keep their
// purchase-time snapshot.
func (s *Service) Delete(ctx context.Context, actor identity.Principal, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if err := identity.Authorize(actor, existing.Owner); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

func applyPartialMutation(target *domain.Food, input foodtypes.UpdateFoodInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.PriceCents != nil {
		if err := target.UpdatePrice(*input.PriceCents); err != nil {
			return err
		}
	}
	if input.Quantity != nil {
		if err := target.UpdateQuantity(*input.Quantity); err != nil {
			return err
		}
	}
	category := target.Category
	if input.Category != nil {
		category = *input.Category
	}
	origin := target.Origin
	if input.Origin != nil {
		origin = *input.Origin
	}
	description := target.Description
	if input.Description != nil {
		description = *input.Description
	}
	imageURL := target.ImageURL
	if input.ImageURL != nil {
		imageURL = *input.ImageURL
	}
	ingredients := target.Ingredients
	if input.Ingredients != nil {
		ingredients = *input.Ingredients
	}
	target.UpdateDetails(category, origin, description, imageURL, ingredients)
	return nil
}

var _ ports.Service = (*Service)(nil)
