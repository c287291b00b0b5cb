package ports

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

var ErrNotFound = errors.New("product not found")

// ListQuery filters and paginates catalog reads. Search matches the name
// case-insensitively as a substring; Category is an exact match.
type ListQuery struct {
	Search   string
	Category string
	Page     int64
	Limit    int64
}

// Patch updates only the fields that are set; nil pointers leave the stored
// value untouched, so a zero price is a legitimate update.
type Patch struct {
	Name     *string
	Price    *float64
	Category *string
}

// SampleProduct is a member entry pushed into a category group, capped at
// five per group in accumulation order.
type SampleProduct struct {
	ID    primitive.ObjectID `bson:"id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Price float64            `bson:"price" json:"price"`
}

// PriceRange spans the cheapest and the most expensive product of a group.
type PriceRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// CategoryGroup is one row of the category breakdown, averagePrice rounded
// to two decimal places.
type CategoryGroup struct {
	Category      string          `bson:"category" json:"category"`
	TotalProducts int64           `bson:"totalProducts" json:"totalProducts"`
	AveragePrice  float64         `bson:"averagePrice" json:"averagePrice"`
	PriceRange    PriceRange      `bson:"priceRange" json:"priceRange"`
	Products      []SampleProduct `bson:"products" json:"products"`
}

// Summary aggregates the whole filtered catalog.
type Summary struct {
	TotalProducts   int64   `bson:"totalProducts" json:"totalProducts"`
	AveragePrice    float64 `bson:"averagePrice" json:"averagePrice"`
	TotalCategories int64   `bson:"totalCategories" json:"totalCategories"`
}

// Repository is the catalog persistence port.
type Repository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	List(ctx context.Context, query ListQuery) ([]*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, patch Patch) (*domain.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	CategoryBreakdown(ctx context.Context, window timerange.Range) ([]CategoryGroup, error)
	Summarize(ctx context.Context, window timerange.Range) (*Summary, error)
}
