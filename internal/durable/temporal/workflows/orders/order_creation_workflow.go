package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	ordersports "github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	"github.com/Dostonlv/uLab3/internal/durable/temporal/sequences"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the workflow.
	OrderCreationWorkflowName = "orders.workflows.Creation"
	// OrderCreationTaskQueue is the queue consumed by the worker processing order workflows.
	OrderCreationTaskQueue = "ORDER_CREATION"
)

// OrderCreationWorkflowInput captures the payload required to place a new order.
type OrderCreationWorkflowInput struct {
	Command ordersports.CreateOrderInput
	TraceID string
}

// OrderCreationWorkflow orchestrates the activities needed to persist an order.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID)...)
	order, err := sequences.RunOrderPersistenceSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID.Hex())...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
