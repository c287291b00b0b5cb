package marketserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/Dostonlv/uLab3/internal/domains/orders/domain"
	ordersports "github.com/Dostonlv/uLab3/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service and
// workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/orders
// Place a new order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload ordershttpmapper.MutationOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.createOrder(c.Request.Context(), ordershttpmapper.ToCreateInput(payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

func (api *OrderAPI) createOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, input)
	}
	return api.service.Create(ctx, input)
}

// Get /api/orders
// List orders with payment-method filter and pagination
func (api *OrderAPI) GetOrders(c *gin.Context) {
	page, limit := parsePageQuery(c)
	query := ordersports.ListQuery{
		PaymentMethod: c.Query("payment_method"),
		Page:          page,
		Limit:         limit,
	}
	result, err := api.service.List(c.Request.Context(), query)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	order, err := api.service.GetByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Put /api/orders/:orderId
// Update an existing order
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	var payload ordershttpmapper.MutationOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.Update(c.Request.Context(), ordershttpmapper.ToUpdateInput(c.Param("orderId"), payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order updated successfully",
		"order":   order,
	})
}

// Delete /api/orders/:orderId
// Cancel an order
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	order, err := api.service.Delete(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
		"order":   order,
	})
}

// Get /api/orders/report
// Aggregate order revenue by payment method
func (api *OrderAPI) GetOrderReport(c *gin.Context) {
	report, err := api.service.Report(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
