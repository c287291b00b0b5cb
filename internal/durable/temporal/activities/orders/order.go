package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	ordersdomain "github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	ordersports "github.com/Dostonlv/uLab3/internal/domains/orders/ports"
)

// PersistOrderActivityName persists an order after reference validation.
const PersistOrderActivityName = "orders.activities.PersistOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder runs the full creation flow and stores the order.
func (a *Activities) PersistOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized")
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started")
	order, err := a.service.Create(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "error", err)
		return nil, err
	}
	logger.Info("PersistOrder activity completed", "orderId", order.ID.Hex())
	return order, nil
}
