// Package cache provides a Redis-backed read cache for the hot storefront
// queries. Only the top-foods listing is cached; it is read on every
// storefront visit and tolerates slightly stale purchase counts.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	foodtypes "github.com/nexyn/foods-api/internal/domains/foods/application/types"
	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/foods/ports"
	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
)

const (
	topFoodsKeyPrefix = "topfoods:"
	topFoodsTTL       = 30 * time.Second
)

var _ ports.Service = (*Service)(nil)

// Service decorates the foods service with a read-through cache for Top.
// Cache misses and Redis failures fall through to the inner service; the
// cache never becomes a correctness dependency.
type Service struct {
	inner  ports.Service
	client *redis.Client
}

// New wraps the foods service with the Redis cache.
func New(inner ports.Service, client *redis.Client) *Service {
	return &Service{inner: inner, client: client}
}

// Top serves the most-purchased listing from Redis when fresh.
func (s *Service) Top(ctx context.Context, limit int) ([]*domain.Food, error) {
	key := fmt.Sprintf("%s%d", topFoodsKeyPrefix, limit)
	if payload, err := s.client.Get(ctx, key).Bytes(); err == nil {
		var cached []*domain.Food
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	}
	result, err := s.inner.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(result); err == nil {
		// Best effort; a failed SET only costs the next reader a query.
		s.client.Set(ctx, key, payload, topFoodsTTL)
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, actor identity.Principal, input foodtypes.CreateFoodInput) (*domain.Food, error) {
	return s.inner.Create(ctx, actor, input)
}

func (s *Service) List(ctx context.Context, input foodtypes.ListFoodsInput) ([]*domain.Food, error) {
	return s.inner.List(ctx, input)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	return s.inner.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, actor identity.Principal, owner string) ([]*domain.Food, error) {
	return s.inner.ListByOwner(ctx, actor, owner)
}

func (s *Service) Update(ctx context.Context, actor identity.Principal, id string, input foodtypes.UpdateFoodInput) (*domain.Food, error) {
	return s.inner.Update(ctx, actor, id, input)
}

func (s *Service) Delete(ctx context.Context, actor identity.Principal, id string) error {
	return s.inner.Delete(ctx, actor, id)
}
