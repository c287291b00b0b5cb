package ports

import (
	"context"

	"github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

// CreateProductInput carries the creation payload; it is persisted verbatim.
type CreateProductInput struct {
	Name     string
	Price    float64
	Category string
}

// UpdateProductInput carries a partial update addressed by raw identifier.
type UpdateProductInput struct {
	ID    string
	Patch Patch
}

// CategoryReport is the report response: overall summary, per-category
// breakdown sorted by totalProducts descending, and the echoed time range.
type CategoryReport struct {
	Summary           Summary         `json:"summary"`
	CategoryBreakdown []CategoryGroup `json:"categoryBreakdown"`
	TimeRange         timerange.Label `json:"timeRange"`
}

// Service exposes the products use cases to the transport and decorators.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	List(ctx context.Context, query ListQuery) ([]*domain.Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
	Report(ctx context.Context, startDate, endDate string) (*CategoryReport, error)
}
