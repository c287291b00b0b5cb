package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	ordersports "github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	orderactivities "github.com/Dostonlv/uLab3/internal/durable/temporal/activities/orders"
)

// RunOrderPersistenceSequence executes the ordered set of activities needed
// to persist an order.
func RunOrderPersistenceSequence(ctx workflow.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order persistence sequence started")
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.PersistOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order persistence sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order persistence sequence completed", "orderId", order.ID.Hex())
	return &order, nil
}
