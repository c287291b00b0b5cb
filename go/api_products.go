package marketserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	productsports "github.com/Dostonlv/uLab3/internal/domains/products/ports"
)

// ProductAPI wires HTTP transport with the catalog bounded context service.
type ProductAPI struct {
	service productsports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service productsports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// mutationProduct is the JSON payload for product create and update.
// Pointer fields preserve presence so partial updates leave unset
// fields untouched.
type mutationProduct struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
}

// Post /api/products
// Add a product to the catalog
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload mutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := productsports.CreateProductInput{}
	if payload.Name != nil {
		input.Name = *payload.Name
	}
	if payload.Price != nil {
		input.Price = *payload.Price
	}
	if payload.Category != nil {
		input.Category = *payload.Category
	}
	product, err := api.service.Create(c.Request.Context(), input)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Get /api/products
// List catalog products with search, category filter, and pagination
func (api *ProductAPI) GetProducts(c *gin.Context) {
	page, limit := parsePageQuery(c)
	query := productsports.ListQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	}
	products, err := api.service.List(c.Request.Context(), query)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Put /api/products/:productId
// Update an existing product
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var payload mutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := productsports.UpdateProductInput{
		ID: c.Param("productId"),
		Patch: productsports.Patch{
			Name:     payload.Name,
			Price:    payload.Price,
			Category: payload.Category,
		},
	}
	product, err := api.service.Update(c.Request.Context(), input)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete /api/products/:productId
// Remove a product from the catalog
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	if _, err := api.service.Delete(c.Request.Context(), c.Param("productId")); err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// Get /api/products/report
// Aggregate catalog statistics by category
func (api *ProductAPI) GetProductReport(c *gin.Context) {
	report, err := api.service.Report(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// parsePageQuery reads page and limit with the listing defaults; values
// that fail to parse fall back to the defaults.
func parsePageQuery(c *gin.Context) (int64, int64) {
	page := int64(1)
	limit := int64(10)
	if v, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}
