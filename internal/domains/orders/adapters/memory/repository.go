// Package memory provides an in-memory order ledger for local development
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexyn/foods-api/internal/domains/orders/domain"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

type Repository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[string]*domain.Order{},
		now:    time.Now,
	}
}

func (r *Repository) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *order
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	} else if _, exists := r.orders[stored.ID]; exists {
		return nil, ports.ErrDuplicateID
	}
	stored.PurchasedAt = r.now().UTC()
	r.orders[stored.ID] = &stored
	return cloneOrder(&stored), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByBuyer(_ context.Context, buyer string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []*domain.Order
	for _, order := range r.orders {
		if order.Buyer == buyer {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].PurchasedAt.After(list[j].PurchasedAt)
	})
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	copy := *order
	return &copy
}

var _ ports.Repository = (*Repository)(nil)
