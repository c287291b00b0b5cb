package ports

import (
	"context"

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	"github.com/Dostonlv/uLab3/internal/shared/timerange"
)

// CreateOrderInput captures the creation payload while preserving field
// presence; all four fields are required at creation.
type CreateOrderInput struct {
	ProductIDs    *[]string `json:"product_ids,omitempty"`
	TotalPrice    *float64  `json:"total_price,omitempty"`
	CustomerName  *string   `json:"customer_name,omitempty"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
}

// UpdateOrderInput carries a partial update; only set fields are changed.
type UpdateOrderInput struct {
	ID            string
	ProductIDs    *[]string
	TotalPrice    *float64
	CustomerName  *string
	PaymentMethod *string
}

// OrderPage is the list response: resolved orders plus pagination metadata.
type OrderPage struct {
	Data       []Resolved `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PaymentReport is the report response with the echoed time range.
type PaymentReport struct {
	Data      []PaymentGroup  `json:"data"`
	TimeRange timerange.Label `json:"timeRange"`
}

// Service exposes the orders use cases to the transport and decorators.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	List(ctx context.Context, query ListQuery) (*OrderPage, error)
	GetByID(ctx context.Context, rawID string) (*Resolved, error)
	Update(ctx context.Context, input UpdateOrderInput) (*Resolved, error)
	Delete(ctx context.Context, rawID string) (*domain.Order, error)
	Report(ctx context.Context, startDate, endDate string) (*PaymentReport, error)
}
