package application

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	ordersmemory "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/memory"
	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	"github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	productsmemory "github.com/Dostonlv/uLab3/internal/domains/products/adapters/memory"
	productsdomain "github.com/Dostonlv/uLab3/internal/domains/products/domain"
	apierrors "github.com/Dostonlv/uLab3/internal/shared/errors"
)

type fixture struct {
	service  *Service
	orders   *ordersmemory.Repository
	products *productsmemory.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := productsmemory.NewRepository()
	orders := ordersmemory.NewRepository(products)
	return &fixture{
		service:  NewService(orders, products),
		orders:   orders,
		products: products,
	}
}

func (f *fixture) seedProduct(t *testing.T, name string, price float64) string {
	t.Helper()
	product, err := f.products.Create(context.Background(), &productsdomain.Product{
		Name:     name,
		Price:    price,
		Category: "misc",
	})
	require.NoError(t, err)
	return product.ID.Hex()
}

func (f *fixture) storedOrders(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.orders.List(context.Background(), ports.ListQuery{Page: 1, Limit: 100})
	require.NoError(t, err)
	return total
}

func createInput(productIDs []string, totalPrice float64, customer, payment string) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		ProductIDs:    &productIDs,
		TotalPrice:    &totalPrice,
		CustomerName:  &customer,
		PaymentMethod: &payment,
	}
}

func TestCreateOrder_Succeeds(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)

	order, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Alisher", "Payme"))
	require.NoError(t, err)
	require.False(t, order.ID.IsZero())
	require.Equal(t, domain.PaymentPayme, order.PaymentMethod)
	require.Equal(t, "Alisher", order.CustomerName)
	require.Equal(t, int64(1), f.storedOrders(t))
}

func TestCreateOrder_TrimsAndKeepsDuplicates(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)

	order, err := f.service.Create(context.Background(), createInput([]string{" " + id + " ", id}, 20, "Alisher", "Click"))
	require.NoError(t, err)
	require.Len(t, order.ProductIDs, 2)
	require.Equal(t, order.ProductIDs[0], order.ProductIDs[1])
}

func TestCreateOrder_MissingFields(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)

	price := 10.0
	customer := "Alisher"
	payment := "Payme"
	productIDs := []string{id}
	inputs := []ports.CreateOrderInput{
		{TotalPrice: &price, CustomerName: &customer, PaymentMethod: &payment},
		{ProductIDs: &productIDs, CustomerName: &customer, PaymentMethod: &payment},
		{ProductIDs: &productIDs, TotalPrice: &price, PaymentMethod: &payment},
		{ProductIDs: &productIDs, TotalPrice: &price, CustomerName: &customer},
	}
	for _, input := range inputs {
		_, err := f.service.Create(context.Background(), input)
		var envelope apierrors.Envelope
		require.ErrorAs(t, err, &envelope)
		require.Equal(t, http.StatusBadRequest, envelope.Status)
		require.Equal(t, "Missing required fields", envelope.Message)
	}
	require.Equal(t, int64(0), f.storedOrders(t))
}

func TestCreateOrder_InvalidIDFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), createInput([]string{"not-hex"}, 10, "Alisher", "Payme"))
	var envelope apierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	require.Equal(t, http.StatusBadRequest, envelope.Status)
	require.Equal(t, "Invalid product ID format", envelope.Message)
	require.Contains(t, envelope.Extras, "error")
	require.Equal(t, int64(0), f.storedOrders(t))
}

func TestCreateOrder_UnknownProductsListedWithDuplicates(t *testing.T) {
	f := newFixture(t)
	known := f.seedProduct(t, "Apple", 10)
	missing := primitive.NewObjectID().Hex()

	_, err := f.service.Create(context.Background(), createInput([]string{known, missing, missing}, 30, "Alisher", "Payme"))
	var envelope apierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	require.Equal(t, http.StatusBadRequest, envelope.Status)
	require.Equal(t, "Some product IDs do not exist in the database", envelope.Message)
	require.Equal(t, []string{missing, missing}, envelope.Extras["invalid_ids"])
	require.Equal(t, int64(0), f.storedOrders(t))
}

func TestCreateOrder_UnsupportedPayment(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)

	_, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Alisher", "Visa"))
	var envelope apierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	require.Equal(t, http.StatusBadRequest, envelope.Status)
	require.Equal(t, "Unsupported payment method: Visa", envelope.Message)
	require.Equal(t, int64(0), f.storedOrders(t))
}

func TestListOrders_FilterAndPagination(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)
	for i := 0; i < 3; i++ {
		_, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Alisher", "Payme"))
		require.NoError(t, err)
	}
	_, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Bobur", "Click"))
	require.NoError(t, err)

	page, err := f.service.List(context.Background(), ports.ListQuery{PaymentMethod: "Payme", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	require.Equal(t, int64(3), page.Pagination.Total)
	require.Equal(t, int64(1), page.Pagination.Page)
	require.Equal(t, int64(2), page.Pagination.Pages)

	all, err := f.service.List(context.Background(), ports.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(4), all.Pagination.Total)
	require.Equal(t, int64(1), all.Pagination.Pages)
}

func TestListOrders_ResolvesProductRefs(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)
	_, err := f.service.Create(context.Background(), createInput([]string{id, id}, 20, "Alisher", "Payme"))
	require.NoError(t, err)

	page, err := f.service.List(context.Background(), ports.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.Len(t, page.Data[0].Products, 2)
	require.Equal(t, "Apple", page.Data[0].Products[0].Name)
	require.Equal(t, 10.0, page.Data[0].Products[0].Price)
	require.Equal(t, "misc", page.Data[0].Products[0].Category)
}

func TestGetOrderByID_DropsDanglingRefs(t *testing.T) {
	f := newFixture(t)
	kept := f.seedProduct(t, "Apple", 10)
	doomed := f.seedProduct(t, "Pear", 11)
	order, err := f.service.Create(context.Background(), createInput([]string{kept, doomed}, 21, "Alisher", "Payme"))
	require.NoError(t, err)

	doomedID, err := primitive.ObjectIDFromHex(doomed)
	require.NoError(t, err)
	_, err = f.products.Delete(context.Background(), doomedID)
	require.NoError(t, err)

	resolved, err := f.service.GetByID(context.Background(), order.ID.Hex())
	require.NoError(t, err)
	require.Len(t, resolved.Products, 1)
	require.Equal(t, "Apple", resolved.Products[0].Name)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GetByID(context.Background(), primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateOrder_PartialCustomerName(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)
	order, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Alisher", "Payme"))
	require.NoError(t, err)

	customer := "Bobur"
	updated, err := f.service.Update(context.Background(), ports.UpdateOrderInput{
		ID:           order.ID.Hex(),
		CustomerName: &customer,
	})
	require.NoError(t, err)
	require.Equal(t, "Bobur", updated.CustomerName)
	require.Equal(t, 10.0, updated.TotalPrice)
	require.Equal(t, domain.PaymentPayme, updated.PaymentMethod)
	require.Len(t, updated.Products, 1)
}

func TestUpdateOrder_RejectsUnsupportedPayment(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)
	order, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Alisher", "Payme"))
	require.NoError(t, err)

	payment := "Cash"
	_, err = f.service.Update(context.Background(), ports.UpdateOrderInput{
		ID:            order.ID.Hex(),
		PaymentMethod: &payment,
	})
	var envelope apierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	require.Equal(t, "Unsupported payment method: Cash", envelope.Message)
}

func TestUpdateOrder_RechecksSuppliedProductIDs(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)
	order, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Alisher", "Payme"))
	require.NoError(t, err)

	missing := primitive.NewObjectID().Hex()
	productIDs := []string{missing}
	_, err = f.service.Update(context.Background(), ports.UpdateOrderInput{
		ID:         order.ID.Hex(),
		ProductIDs: &productIDs,
	})
	var envelope apierrors.Envelope
	require.ErrorAs(t, err, &envelope)
	require.Equal(t, "Some product IDs do not exist in the database", envelope.Message)
	require.Equal(t, []string{missing}, envelope.Extras["invalid_ids"])
}

func TestUpdateOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	customer := "Bobur"
	_, err := f.service.Update(context.Background(), ports.UpdateOrderInput{
		ID:           primitive.NewObjectID().Hex(),
		CustomerName: &customer,
	})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteOrder_ReturnsDeleted(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)
	order, err := f.service.Create(context.Background(), createInput([]string{id}, 10, "Alisher", "Payme"))
	require.NoError(t, err)

	deleted, err := f.service.Delete(context.Background(), order.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, order.ID, deleted.ID)
	require.Equal(t, int64(0), f.storedOrders(t))

	_, err = f.service.Delete(context.Background(), order.ID.Hex())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestReport_GroupsByPaymentMethod(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)
	for _, order := range []struct {
		total   float64
		payment string
	}{
		{100, "Payme"},
		{50, "Payme"},
		{30, "Click"},
	} {
		_, err := f.service.Create(context.Background(), createInput([]string{id}, order.total, "Alisher", order.payment))
		require.NoError(t, err)
	}

	report, err := f.service.Report(context.Background(), "", "")
	require.NoError(t, err)
	require.Equal(t, []ports.PaymentGroup{
		{PaymentMethod: "Payme", TotalRevenue: 150, TotalOrders: 2, AverageOrderValue: 75},
		{PaymentMethod: "Click", TotalRevenue: 30, TotalOrders: 1, AverageOrderValue: 30},
	}, report.Data)
	require.Equal(t, "all time", report.TimeRange.From)
	require.Equal(t, "present", report.TimeRange.To)
}

func TestReport_WindowFiltersOrders(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Apple", 10)

	current := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	f.orders.WithClock(func() time.Time { return current })
	_, err := f.service.Create(context.Background(), createInput([]string{id}, 100, "Alisher", "Payme"))
	require.NoError(t, err)

	current = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = f.service.Create(context.Background(), createInput([]string{id}, 40, "Bobur", "Click"))
	require.NoError(t, err)

	report, err := f.service.Report(context.Background(), "2024-02-01", "2024-04-01")
	require.NoError(t, err)
	require.Len(t, report.Data, 1)
	require.Equal(t, "Click", report.Data[0].PaymentMethod)
	require.Equal(t, 40.0, report.Data[0].TotalRevenue)
}

func TestReport_InvalidDatesNameTheField(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Report(context.Background(), "bad", "")
	require.EqualError(t, err, "Invalid startDate format")

	_, err = f.service.Report(context.Background(), "", "nope")
	require.EqualError(t, err, "Invalid endDate format")
}
