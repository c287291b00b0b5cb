package ports

import (
	"context"

	"github.com/Dostonlv/uLab3/internal/domains/orders/domain"
)

// WorkflowOrchestrator starts the order creation flow, durably when a
// Temporal cluster is available or inline otherwise.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
