package application

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	foodtypes "github.com/nexyn/foods-api/internal/domains/foods/application/types"
	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/foods/ports"
	identity "github.com/nexyn/foods-api/internal/domains/identity/domain"
)

type fakeFoodRepo struct {
	foods map[string]*domain.Food
	seq   int
}

func newFakeFoodRepo() *fakeFoodRepo {
	return &fakeFoodRepo{foods: map[string]*domain.Food{}}
}

func (f *fakeFoodRepo) Create(_ context.Context, food *domain.Food) (*domain.Food, error) {
	f.seq++
	food.ID = fmt.Sprintf("food-%d", f.seq)
	copy := *food
	f.foods[food.ID] = &copy
	return &copy, nil
}

func (f *fakeFoodRepo) Update(_ context.Context, food *domain.Food) (*domain.Food, error) {
	if _, ok := f.foods[food.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	copy := *food
	f.foods[food.ID] = &copy
	return &copy, nil
}

func (f *fakeFoodRepo) GetByID(_ context.Context, id string) (*domain.Food, error) {
	if food, ok := f.foods[id]; ok {
		copy := *food
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeFoodRepo) List(_ context.Context, opts ports.ListOptions) ([]*domain.Food, error) {
	list := f.all()
	sort.Slice(list, func(i, j int) bool {
		less := list[i].Name < list[j].Name
		if opts.SortBy == ports.SortByPrice {
			less = list[i].PriceCents < list[j].PriceCents
		}
		if opts.Descending {
			return !less
		}
		return less
	})
	return list, nil
}

func (f *fakeFoodRepo) TopByPurchases(_ context.Context, limit int) ([]*domain.Food, error) {
	list := f.all()
	sort.Slice(list, func(i, j int) bool { return list[i].PurchaseCount > list[j].PurchaseCount })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeFoodRepo) ListByOwner(_ context.Context, owner string) ([]*domain.Food, error) {
	var list []*domain.Food
	for _, food := range f.all() {
		if food.Owner == owner {
			list = append(list, food)
		}
	}
	return list, nil
}

func (f *fakeFoodRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.foods[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.foods, id)
	return nil
}

func (f *fakeFoodRepo) DecrementStock(_ context.Context, id string, quantity int) (*domain.Food, error) {
	food, ok := f.foods[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if food.Quantity < quantity {
		return nil, ports.ErrInsufficientStock
	}
	food.Quantity -= quantity
	food.PurchaseCount++
	copy := *food
	return &copy, nil
}

func (f *fakeFoodRepo) RestoreStock(_ context.Context, id string, quantity int) error {
	food, ok := f.foods[id]
	if !ok {
		return ports.ErrNotFound
	}
	food.Quantity += quantity
	food.PurchaseCount--
	return nil
}

func (f *fakeFoodRepo) all() []*domain.Food {
	var list []*domain.Food
	for _, food := range f.foods {
		copy := *food
		list = append(list, &copy)
	}
	return list
}

func createInput(owner string) foodtypes.CreateFoodInput {
	return foodtypes.CreateFoodInput{
		Name:       "Ramen",
		Category:   "Japanese",
		PriceCents: 1250,
		Quantity:   5,
		Owner:      owner,
		OwnerName:  "Aki",
	}
}

func TestCreate_PersistsWithZeroPurchaseCount(t *testing.T) {
	svc := NewService(newFakeFoodRepo())
	actor := identity.Principal("a@x.com")

	saved, err := svc.Create(context.Background(), actor, createInput("a@x.com"))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, int64(0), saved.PurchaseCount)
	require.Equal(t, "a@x.com", saved.Owner)
}

func TestCreate_RejectsMismatchedOwner(t *testing.T) {
	svc := NewService(newFakeFoodRepo())
	actor := identity.Principal("a@x.com")

	_, err := svc.Create(context.Background(), actor, createInput("b@x.com"))
	require.ErrorIs(t, err, identity.ErrNotOwner)
}

func TestUpdate_ChecksStoredOwnerNotPayload(t *testing.T) {
	repo := newFakeFoodRepo()
	svc := NewService(repo)
	owner := identity.Principal("a@x.com")

	saved, err := svc.Create(context.Background(), owner, createInput("a@x.com"))
	require.NoError(t, err)

	// A different verified principal cannot mutate the listing no matter
	// what the payload claims.
	intruder := identity.Principal("b@x.com")
	name := "Stolen Ramen"
	_, err = svc.Update(context.Background(), intruder, saved.ID, foodtypes.UpdateFoodInput{Name: &name})
	require.ErrorIs(t, err, identity.ErrNotOwner)

	stored, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Ramen", stored.Name)
}

func TestUpdate_AppliesPartialMutation(t *testing.T) {
	repo := newFakeFoodRepo()
	svc := NewService(repo)
	owner := identity.Principal("a@x.com")

	saved, err := svc.Create(context.Background(), owner, createInput("a@x.com"))
	require.NoError(t, err)

	price := int64(1500)
	quantity := 9
	updated, err := svc.Update(context.Background(), owner, saved.ID, foodtypes.UpdateFoodInput{
		PriceCents: &price,
		Quantity:   &quantity,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1500), updated.PriceCents)
	require.Equal(t, 9, updated.Quantity)
	require.Equal(t, "Ramen", updated.Name)
	require.Equal(t, "a@x.com", updated.Owner)
}

func TestDelete_RequiresOwnership(t *testing.T) {
	repo := newFakeFoodRepo()
	svc := NewService(repo)
	owner := identity.Principal("a@x.com")

	saved, err := svc.Create(context.Background(), owner, createInput("a@x.com"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), identity.Principal("b@x.com"), saved.ID), identity.ErrNotOwner)
	require.NoError(t, svc.Delete(context.Background(), owner, saved.ID))

	_, err = repo.GetByID(context.Background(), saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestList_RejectsUnknownSortField(t *testing.T) {
	svc := NewService(newFakeFoodRepo())

	_, err := svc.List(context.Background(), foodtypes.ListFoodsInput{SortField: "owner; DROP TABLE foods"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByOwner_ScopedToActor(t *testing.T) {
	repo := newFakeFoodRepo()
	svc := NewService(repo)
	owner := identity.Principal("a@x.com")

	_, err := svc.Create(context.Background(), owner, createInput("a@x.com"))
	require.NoError(t, err)

	_, err = svc.ListByOwner(context.Background(), identity.Principal("b@x.com"), "a@x.com")
	require.ErrorIs(t, err, identity.ErrNotOwner)

	list, err := svc.ListByOwner(context.Background(), owner, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTop_DefaultsAndCaps(t *testing.T) {
	repo := newFakeFoodRepo()
	svc := NewService(repo)
	owner := identity.Principal("a@x.com")

	for i := 0; i < 8; i++ {
		saved, err := svc.Create(context.Background(), owner, createInput("a@x.com"))
		require.NoError(t, err)
		repo.foods[saved.ID].PurchaseCount = int64(i)
	}

	top, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, top, DefaultTopLimit)
	require.Equal(t, int64(7), top[0].PurchaseCount)
}
