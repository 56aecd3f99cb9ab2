package ports

import (
	"context"

	foodtypes "github.com/nexyn/foods-api/internal/domains/foods/application/types"
	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
)

// Service defines the catalog use cases exposed to adapters (inbound port).
// Every mutating or owner-scoped operation takes the verified acting
// principal; implementations authorize against the stored owner before any
// state change.
type Service interface {
	Create(ctx context.Context, actor identity.Principal, input foodtypes.CreateFoodInput) (*domain.Food, error)
	List(ctx context.Context, input foodtypes.ListFoodsInput) ([]*domain.Food, error)
	Top(ctx context.Context, limit int) ([]*domain.Food, error)
	GetByID(ctx context.Context, id string) (*domain.Food, error)
	ListByOwner(ctx context.Context, actor identity.Principal, owner string) ([]*domain.Food, error)
	Update(ctx context.Context, actor identity.Principal, id string, input foodtypes.UpdateFoodInput) (*domain.Food, error)
	Delete(ctx context.Context, actor identity.Principal, id string) error
}
