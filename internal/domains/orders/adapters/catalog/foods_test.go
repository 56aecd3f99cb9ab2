package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexyn/foods-api/internal/domains/foods/adapters/memory"
	fooddomain "github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
)

func seedFood(t *testing.T, repo *memory.Repository, quantity int) *fooddomain.Food {
	t.Helper()
	food, err := fooddomain.NewFood("Ramen", 1250, quantity, "chef@x.com", "Aki")
	require.NoError(t, err)
	saved, err := repo.Create(context.Background(), food)
	require.NoError(t, err)
	return saved
}

func TestFoodsCatalog_LookupTranslatesListing(t *testing.T) {
	repo := memory.NewRepository()
	food := seedFood(t, repo, 5)
	catalog := NewFoodsCatalog(repo)

	listing, err := catalog.Lookup(context.Background(), food.ID)
	require.NoError(t, err)
	require.Equal(t, food.ID, listing.ID)
	require.Equal(t, "Ramen", listing.Name)
	require.Equal(t, int64(1250), listing.UnitPriceCents)
	require.Equal(t, "chef@x.com", listing.Owner)

	_, err = catalog.Lookup(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrListingNotFound)
}

func TestFoodsCatalog_ReserveAndRelease(t *testing.T) {
	repo := memory.NewRepository()
	food := seedFood(t, repo, 5)
	catalog := NewFoodsCatalog(repo)

	listing, err := catalog.Reserve(context.Background(), food.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 2, listing.Quantity)

	_, err = catalog.Reserve(context.Background(), food.ID, 3)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	require.NoError(t, catalog.Release(context.Background(), food.ID, 3))

	stored, err := repo.GetByID(context.Background(), food.ID)
	require.NoError(t, err)
	require.Equal(t, 5, stored.Quantity)
	require.Equal(t, int64(0), stored.PurchaseCount)
}
