package marketserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// Routes is the list of the generated Route.
type Routes []Route

// ApiHandleFunctions aggregates the per-context transport handlers.
type ApiHandleFunctions struct {
	ProductAPI ProductAPI
	OrderAPI   OrderAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc returns 501 Not Implemented.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		{
			"CreateProduct",
			http.MethodPost,
			"/api/products",
			handleFunctions.ProductAPI.CreateProduct,
		},
		{
			"GetProducts",
			http.MethodGet,
			"/api/products",
			handleFunctions.ProductAPI.GetProducts,
		},
		{
			"GetProductReport",
			http.MethodGet,
			"/api/products/report",
			handleFunctions.ProductAPI.GetProductReport,
		},
		{
			"UpdateProduct",
			http.MethodPut,
			"/api/products/:productId",
			handleFunctions.ProductAPI.UpdateProduct,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/api/products/:productId",
			handleFunctions.ProductAPI.DeleteProduct,
		},
		{
			"CreateOrder",
			http.MethodPost,
			"/api/orders",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"GetOrders",
			http.MethodGet,
			"/api/orders",
			handleFunctions.OrderAPI.GetOrders,
		},
		{
			"GetOrderReport",
			http.MethodGet,
			"/api/orders/report",
			handleFunctions.OrderAPI.GetOrderReport,
		},
		{
			"GetOrderById",
			http.MethodGet,
			"/api/orders/:orderId",
			handleFunctions.OrderAPI.GetOrderById,
		},
		{
			"UpdateOrder",
			http.MethodPut,
			"/api/orders/:orderId",
			handleFunctions.OrderAPI.UpdateOrder,
		},
		{
			"DeleteOrder",
			http.MethodDelete,
			"/api/orders/:orderId",
			handleFunctions.OrderAPI.DeleteOrder,
		},
		{
			"HealthCheck",
			http.MethodGet,
			"/health",
			HealthCheck,
		},
	}
}

// Get /health
// Reports process liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
