//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	foodspostgres "github.com/nexyn/foods-api/internal/domains/foods/adapters/persistence/postgres"
	"github.com/nexyn/foods-api/internal/domains/foods/domain"
	"github.com/nexyn/foods-api/internal/domains/foods/ports"
	"github.com/nexyn/foods-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("foods_test"),
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

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
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

func seedFood(t *testing.T, repo *foodspostgres.Repository, quantity int) *domain.Food {
	t.Helper()
	food, err := domain.NewFood("Ramen", 1250, quantity, "a@x.com", "Aki")
	require.NoError(t, err)
	food.UpdateDetails("Japanese", "Tokyo", "rich broth", "", []string{"noodles", "broth"})
	saved, err := repo.Create(context.Background(), food)
	require.NoError(t, err)
	return saved
}

func TestPostgresRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := foodspostgres.NewRepository(db)
	saved := seedFood(t, repo, 5)

	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, int64(0), saved.PurchaseCount)

	retrieved, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ramen", retrieved.Name)
	assert.Equal(t, []string{"noodles", "broth"}, retrieved.Ingredients)
	assert.Equal(t, "a@x.com", retrieved.Owner)
}

func TestPostgresRepository_DecrementStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := foodspostgres.NewRepository(db)
	ctx := context.Background()
	saved := seedFood(t, repo, 5)

	updated, err := repo.DecrementStock(ctx, saved.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, int64(1), updated.PurchaseCount)

	// Insufficient stock leaves state untouched.
	_, err = repo.DecrementStock(ctx, saved.ID, 3)
	assert.ErrorIs(t, err, ports.ErrInsufficientStock)

	stored, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Quantity)
	assert.Equal(t, int64(1), stored.PurchaseCount)

	// Missing listing reports not-found, not insufficient stock.
	_, err = repo.DecrementStock(ctx, "00000000-0000-0000-0000-000000000000", 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_DecrementStock_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := foodspostgres.NewRepository(db)
	ctx := context.Background()
	saved := seedFood(t, repo, 10)

	const buyers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.DecrementStock(ctx, saved.ID, 3); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, wins)

	stored, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Quantity)
	assert.Equal(t, int64(3), stored.PurchaseCount)
}

func TestPostgresRepository_RestoreStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := foodspostgres.NewRepository(db)
	ctx := context.Background()
	saved := seedFood(t, repo, 5)

	_, err := repo.DecrementStock(ctx, saved.ID, 3)
	require.NoError(t, err)
	require.NoError(t, repo.RestoreStock(ctx, saved.ID, 3))

	stored, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Quantity)
	assert.Equal(t, int64(0), stored.PurchaseCount)
}

func TestPostgresRepository_ListSortedAndByOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := foodspostgres.NewRepository(db)
	ctx := context.Background()

	specs := []struct {
		name  string
		price int64
		owner string
	}{
		{"Udon", 900, "a@x.com"},
		{"Ramen", 1250, "a@x.com"},
		{"Soba", 700, "b@x.com"},
	}
	for _, spec := range specs {
		food, err := domain.NewFood(spec.name, spec.price, 1, spec.owner, "")
		require.NoError(t, err)
		_, err = repo.Create(ctx, food)
		require.NoError(t, err)
	}

	byPriceDesc, err := repo.List(ctx, ports.ListOptions{SortBy: ports.SortByPrice, Descending: true})
	require.NoError(t, err)
	require.Len(t, byPriceDesc, 3)
	assert.Equal(t, "Ramen", byPriceDesc[0].Name)
	assert.Equal(t, "Soba", byPriceDesc[2].Name)

	mine, err := repo.ListByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestPostgresRepository_UpdateAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := foodspostgres.NewRepository(db)
	ctx := context.Background()
	saved := seedFood(t, repo, 5)

	require.NoError(t, saved.Rename("Tonkotsu Ramen"))
	updated, err := repo.Update(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "Tonkotsu Ramen", updated.Name)
	assert.Equal(t, saved.CreatedAt.Unix(), updated.CreatedAt.Unix())

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
}
