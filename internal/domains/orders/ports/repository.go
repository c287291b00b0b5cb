package ports

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	productsdomain "github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

var ErrNotFound = errors.New("order not found")

// ListQuery filters and paginates order reads. PaymentMethod is an exact
// match; an empty value disables the filter.
type ListQuery struct {
	PaymentMethod string
	Page          int64
	Limit         int64
}

// Patch updates only the fields that are set. A nil ProductIDs slice leaves
// the references untouched; the other fields follow pointer presence so a
// zero total_price is a legitimate update.
type Patch struct {
	ProductIDs    []primitive.ObjectID
	TotalPrice    *float64
	CustomerName  *string
	PaymentMethod *domain.PaymentMethod
}

// Resolved is an order read with product references joined to their catalog
// projections. References whose product has been deleted are dropped from
// the resolved list; duplicates and caller order are preserved.
type Resolved struct {
	ID            primitive.ObjectID   `json:"id"`
	Products      []productsdomain.Ref `json:"product_ids"`
	TotalPrice    float64              `json:"total_price"`
	CustomerName  string               `json:"customer_name"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time            `json:"created_at"`
}

// PaymentGroup is one row of the payment-method report.
type PaymentGroup struct {
	PaymentMethod     string  `bson:"_id" json:"paymentMethod"`
	TotalRevenue      float64 `bson:"totalRevenue" json:"totalRevenue"`
	TotalOrders       int64   `bson:"totalOrders" json:"totalOrders"`
	AverageOrderValue float64 `bson:"averageOrderValue" json:"averageOrderValue"`
}

// Pagination is the list metadata; Pages is ceil(Total/Limit).
type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
}

// Repository is the order persistence port.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	List(ctx context.Context, query ListQuery) ([]Resolved, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Resolved, error)
	Update(ctx context.Context, id primitive.ObjectID, patch Patch) (*Resolved, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	PaymentBreakdown(ctx context.Context, window timerange.Range) ([]PaymentGroup, error)
}

// ProductFinder resolves candidate product ids against the catalog in one
// query; the consistency check diffs its result against the candidates.
type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*productsdomain.Product, error)
}
