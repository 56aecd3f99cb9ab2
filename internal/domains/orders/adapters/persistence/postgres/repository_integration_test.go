//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	orderspostgres "github.com/nexyn/foods-api/internal/domains/orders/adapters/persistence/postgres"
	"github.com/nexyn/foods-api/internal/domains/orders/domain"
	"github.com/nexyn/foods-api/internal/domains/orders/ports"
	"github.com/nexyn/foods-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func insertOrder(t *testing.T, repo *orderspostgres.Repository, buyer string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("food-1", "Ramen", 1250, 2, buyer)
	require.NoError(t, err)
	saved, err := repo.Insert(context.Background(), order)
	require.NoError(t, err)
	return saved
}

func TestPostgresLedger_InsertAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	saved := insertOrder(t, repo, "buyer@x.com")

	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.PurchasedAt.IsZero())

	retrieved, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ramen", retrieved.FoodName)
	assert.Equal(t, int64(1250), retrieved.UnitPriceCents)
	assert.Equal(t, "buyer@x.com", retrieved.Buyer)
}

func TestPostgresLedger_InsertRejectsInvalidOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	_, err := repo.Insert(context.Background(), &domain.Order{FoodID: "food-1", Quantity: -1, Buyer: "buyer@x.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestPostgresLedger_InsertHonorsPresetIDOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	order, err := domain.NewOrder("food-1", "Ramen", 1250, 2, "buyer@x.com")
	require.NoError(t, err)
	order.ID = "run-abc123"

	saved, err := repo.Insert(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "run-abc123", saved.ID)

	_, err = repo.Insert(context.Background(), order)
	assert.ErrorIs(t, err, ports.ErrDuplicateID)
}

func TestPostgresLedger_ListByBuyerMostRecentFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	first := insertOrder(t, repo, "buyer@x.com")
	time.Sleep(10 * time.Millisecond)
	second := insertOrder(t, repo, "buyer@x.com")
	insertOrder(t, repo, "other@x.com")

	list, err := repo.ListByBuyer(context.Background(), "buyer@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestPostgresLedger_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	saved := insertOrder(t, repo, "buyer@x.com")

	require.NoError(t, repo.Delete(context.Background(), saved.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), saved.ID), ports.ErrNotFound)

	_, err := repo.GetByID(context.Background(), saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
