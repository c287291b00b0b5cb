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

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	"github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	productsmongo "github.com/Dostonlv/uLab3/internal/domains/products/adapters/persistence/mongo"
	productsdomain "github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

func setupOrdersMongoContainer(t *testing.T) (*mongo.Database, func()) {
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

func seedCatalog(t *testing.T, db *mongo.Database, name string, price float64) *productsdomain.Product {
	t.Helper()
	product, err := productsmongo.NewRepository(db).Create(context.Background(), &productsdomain.Product{
		Name:     name,
		Price:    price,
		Category: "misc",
	})
	require.NoError(t, err)
	return product
}

func seedOrder(t *testing.T, repo *Repository, ids []primitive.ObjectID, total float64, customer string, payment domain.PaymentMethod, createdAt time.Time) *domain.Order {
	t.Helper()
	order, err := repo.Create(context.Background(), &domain.Order{
		ProductIDs:    ids,
		TotalPrice:    total,
		CustomerName:  customer,
		PaymentMethod: payment,
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndResolve(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	apple := seedCatalog(t, db, "Apple", 10)
	pear := seedCatalog(t, db, "Pear", 11)

	order := seedOrder(t, repo, []primitive.ObjectID{apple.ID, pear.ID, apple.ID}, 31, "Alisher", domain.PaymentPayme, time.Time{})

	resolved, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, resolved.Products, 3)
	assert.Equal(t, "Apple", resolved.Products[0].Name)
	assert.Equal(t, "Pear", resolved.Products[1].Name)
	assert.Equal(t, "Apple", resolved.Products[2].Name)
	assert.Equal(t, 10.0, resolved.Products[0].Price)
	assert.Equal(t, "misc", resolved.Products[0].Category)
}

func TestRepository_GetByID_DropsDanglingRefs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	apple := seedCatalog(t, db, "Apple", 10)
	pear := seedCatalog(t, db, "Pear", 11)
	order := seedOrder(t, repo, []primitive.ObjectID{apple.ID, pear.ID}, 21, "Alisher", domain.PaymentPayme, time.Time{})

	_, err := productsmongo.NewRepository(db).Delete(ctx, pear.ID)
	require.NoError(t, err)

	resolved, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, resolved.Products, 1)
	assert.Equal(t, "Apple", resolved.Products[0].Name)

	_, err = repo.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFilterSortPaginate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	apple := seedCatalog(t, db, "Apple", 10)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, repo, []primitive.ObjectID{apple.ID}, 10, "A", domain.PaymentPayme, base)
	seedOrder(t, repo, []primitive.ObjectID{apple.ID}, 20, "B", domain.PaymentPayme, base.Add(time.Hour))
	seedOrder(t, repo, []primitive.ObjectID{apple.ID}, 30, "C", domain.PaymentClick, base.Add(2*time.Hour))

	resolved, total, err := repo.List(ctx, ports.ListQuery{PaymentMethod: "Payme", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, resolved, 2)
	assert.Equal(t, "B", resolved[0].CustomerName)
	assert.Equal(t, "A", resolved[1].CustomerName)

	paged, total, err := repo.List(ctx, ports.ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	assert.Equal(t, "A", paged[0].CustomerName)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	apple := seedCatalog(t, db, "Apple", 10)
	order := seedOrder(t, repo, []primitive.ObjectID{apple.ID}, 10, "Alisher", domain.PaymentPayme, time.Time{})

	customer := "Bobur"
	method := domain.PaymentUzum
	updated, err := repo.Update(ctx, order.ID, ports.Patch{CustomerName: &customer, PaymentMethod: &method})
	require.NoError(t, err)
	assert.Equal(t, "Bobur", updated.CustomerName)
	assert.Equal(t, domain.PaymentUzum, updated.PaymentMethod)
	assert.Equal(t, 10.0, updated.TotalPrice)

	_, err = repo.Update(ctx, primitive.NewObjectID(), ports.Patch{CustomerName: &customer})
	assert.ErrorIs(t, err, ports.ErrNotFound)

	deleted, err := repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, deleted.ID)

	_, err = repo.Delete(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_PaymentBreakdown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersMongoContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	apple := seedCatalog(t, db, "Apple", 10)
	january := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedOrder(t, repo, []primitive.ObjectID{apple.ID}, 100, "A", domain.PaymentPayme, march)
	seedOrder(t, repo, []primitive.ObjectID{apple.ID}, 50, "B", domain.PaymentPayme, march)
	seedOrder(t, repo, []primitive.ObjectID{apple.ID}, 30, "C", domain.PaymentClick, january)

	groups, err := repo.PaymentBreakdown(ctx, timerange.Range{})
	require.NoError(t, err)
	require.Equal(t, []ports.PaymentGroup{
		{PaymentMethod: "Payme", TotalRevenue: 150, TotalOrders: 2, AverageOrderValue: 75},
		{PaymentMethod: "Click", TotalRevenue: 30, TotalOrders: 1, AverageOrderValue: 30},
	}, groups)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	windowed, err := repo.PaymentBreakdown(ctx, timerange.Range{From: &from})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, "Payme", windowed[0].PaymentMethod)
}
