//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/domains/products/ports"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

func setupProductsMongoContainer(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, "mongo:6",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
		_ = container.Terminate(ctx)
	}

	return client.Database("market_test"), cleanup
}

func seedProduct(t *testing.T, repo *Repository, name string, price float64, category string, createdAt time.Time) *domain.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &domain.Product{
		Name:      name,
		Price:     price,
		Category:  category,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return product
}

func TestRepository_CreateAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupProductsMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, repo, "Green Apple", 10, "fruits", time.Time{})
	seedProduct(t, repo, "PINEAPPLE", 20, "fruits", time.Time{})
	seedProduct(t, repo, "Carrot", 5, "vegetables", time.Time{})

	all, err := repo.List(ctx, ports.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := repo.List(ctx, ports.ListQuery{Search: "apple", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	fruits, err := repo.List(ctx, ports.ListQuery{Category: "fruits", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, fruits, 2)

	paged, err := repo.List(ctx, ports.ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupProductsMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, repo, "Apple", 10, "fruits", time.Time{})

	price := 15.0
	updated, err := repo.Update(ctx, product.ID, ports.Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Price)
	assert.Equal(t, "Apple", updated.Name)

	deleted, err := repo.Delete(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, deleted.ID)

	_, err = repo.Update(ctx, product.ID, ports.Patch{Price: &price})
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.Delete(ctx, product.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_FindByIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupProductsMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	apple := seedProduct(t, repo, "Apple", 10, "fruits", time.Time{})
	pear := seedProduct(t, repo, "Pear", 11, "fruits", time.Time{})
	seedProduct(t, repo, "Carrot", 5, "vegetables", time.Time{})

	found, err := repo.FindByIDs(ctx, []primitive.ObjectID{apple.ID, pear.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRepository_ReportPipelines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupProductsMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	january := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedProduct(t, repo, "Apple", 10, "fruits", january)
	seedProduct(t, repo, "Pear", 11, "fruits", march)
	seedProduct(t, repo, "Plum", 12.56, "fruits", march)
	seedProduct(t, repo, "Carrot", 5, "vegetables", march)

	breakdown, err := repo.CategoryBreakdown(ctx, timerange.Range{})
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "fruits", breakdown[0].Category)
	assert.Equal(t, int64(3), breakdown[0].TotalProducts)
	assert.Equal(t, 11.19, breakdown[0].AveragePrice)
	assert.Equal(t, 10.0, breakdown[0].PriceRange.Min)
	assert.Equal(t, 12.56, breakdown[0].PriceRange.Max)
	assert.Len(t, breakdown[0].Products, 3)

	summary, err := repo.Summarize(ctx, timerange.Range{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.TotalProducts)
	assert.Equal(t, int64(2), summary.TotalCategories)
	assert.Equal(t, 9.64, summary.AveragePrice)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	windowed, err := repo.Summarize(ctx, timerange.Range{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(3), windowed.TotalProducts)

	empty, err := repo.Summarize(ctx, timerange.Range{From: &from, To: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalProducts)
	assert.Equal(t, 0.0, empty.AveragePrice)
}
