package application

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dostonlv/uLab3/internal/domains/products/domain"
	"github.com/Dostonlv/uLab3/internal/domains/products/ports"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Service orchestrates the products bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the products service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create persists the payload verbatim and returns the stored record.
func (s *Service) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
	}
	return s.repo.Create(ctx, product)
}

// List returns a page of the catalog filtered by search and category.
func (s *Service) List(ctx context.Context, query ports.ListQuery) ([]*domain.Product, error) {
	if query.Page < 1 {
		query.Page = defaultPage
	}
	if query.Limit < 1 {
		query.Limit = defaultLimit
	}
	return s.repo.List(ctx, query)
}

// Update applies a partial update to an existing product.
func (s *Service) Update(ctx context.Context, input ports.UpdateProductInput) (*domain.Product, error) {
	id, err := primitive.ObjectIDFromHex(input.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, input.Patch)
}

// Delete removes a product. Orders referencing it keep their dangling ids.
func (s *Service) Delete(ctx context.Context, rawID string) (*domain.Product, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id)
}

// Report aggregates the catalog by category within the optional date range.
func (s *Service) Report(ctx context.Context, startDate, endDate string) (*ports.CategoryReport, error) {
	window, err := timerange.Parse(startDate, endDate)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.repo.CategoryBreakdown(ctx, window)
	if err != nil {
		return nil, err
	}
	if breakdown == nil {
		breakdown = []ports.CategoryGroup{}
	}
	summary, err := s.repo.Summarize(ctx, window)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = &ports.Summary{}
	}
	return &ports.CategoryReport{
		Summary:           *summary,
		CategoryBreakdown: breakdown,
		TimeRange:         timerange.NewLabel(startDate, endDate),
	}, nil
}

var _ ports.Service = (*Service)(nil)
