package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/foods/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog store used for local development and
// tests. Every operation, including the conditional decrement, runs under a
// single mutex hold, which gives it the same atomicity the Postgres adapter
// gets from its guarded UPDATE.
type Repository struct {
	mu    sync.Mutex
	foods map[string]*domain.Food
}

func NewRepository() *Repository {
	return &Repository{foods: map[string]*domain.Food{}}
}

func (r *Repository) Create(_ context.Context, food *domain.Food) (*domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	stored := cloneFood(food)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.foods[stored.ID] = stored
	return cloneFood(stored), nil
}

// Update overwrites the mutable fields of a listing. Owner and the purchase
// counter are kept from the stored record: ownership is fixed at creation and
// the counter only moves through DecrementStock/RestoreStock, so a caller
// holding a stale snapshot can never rewind either.
func (r *Repository) Update(_ context.Context, food *domain.Food) (*domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.foods[food.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	stored := cloneFood(food)
	stored.Owner = existing.Owner
	stored.PurchaseCount = existing.PurchaseCount
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	r.foods[stored.ID] = stored
	return cloneFood(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	food, ok := r.foods[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneFood(food), nil
}

func (r *Repository) List(_ context.Context, opts ports.ListOptions) ([]*domain.Food, error) {
	r.mu.Lock()
	list := r.snapshot()
	r.mu.Unlock()

	sort.SliceStable(list, func(i, j int) bool {
		less := lessBy(opts.SortBy, list[i], list[j])
		if opts.Descending {
			return lessBy(opts.SortBy, list[j], list[i])
		}
		return less
	})
	return list, nil
}

func (r *Repository) TopByPurchases(_ context.Context, limit int) ([]*domain.Food, error) {
	r.mu.Lock()
	list := r.snapshot()
	r.mu.Unlock()

	sort.SliceStable(list, func(i, j int) bool { return list[i].PurchaseCount > list[j].PurchaseCount })
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *Repository) ListByOwner(_ context.Context, owner string) ([]*domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*domain.Food
	for _, food := range r.foods {
		if food.Owner == owner {
			list = append(list, cloneFood(food))
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.foods[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.foods, id)
	return nil
}

func (r *Repository) DecrementStock(_ context.Context, id string, quantity int) (*domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	food, ok := r.foods[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if food.Quantity < quantity {
		return nil, ports.ErrInsufficientStock
	}
	food.Quantity -= quantity
	food.PurchaseCount++
	food.UpdatedAt = time.Now()
	return cloneFood(food), nil
}

func (r *Repository) RestoreStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	food, ok := r.foods[id]
	if !ok {
		return ports.ErrNotFound
	}
	food.Quantity += quantity
	food.PurchaseCount--
	food.UpdatedAt = time.Now()
	return nil
}

func (r *Repository) snapshot() []*domain.Food {
	list := make([]*domain.Food, 0, len(r.foods))
	for _, food := range r.foods {
		list = append(list, cloneFood(food))
	}
	// Stable base order so equal sort keys resolve deterministically.
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func lessBy(field ports.SortField, a, b *domain.Food) bool {
	switch field {
	case ports.SortByCategory:
		return a.Category < b.Category
	case ports.SortByPrice:
		return a.PriceCents < b.PriceCents
	case ports.SortByOrigin:
		return a.Origin < b.Origin
	case ports.SortByQuantity:
		return a.Quantity < b.Quantity
	case ports.SortByPurchaseCount:
		return a.PurchaseCount < b.PurchaseCount
	default:
		return a.Name < b.Name
	}
}

func cloneFood(food *domain.Food) *domain.Food {
	copy := *food
	if food.Ingredients != nil {
		copy.Ingredients = append([]string(nil), food.Ingredients...)
	}
	return &copy
}
