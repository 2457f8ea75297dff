// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// POST /product
func (h *ProductHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.Create(principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Product created", product)
}

// GET /product/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Product retrieved", product)
}

// GET /product/slug/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Product retrieved", product)
}

// GET /product
func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var filters services.ProductFilters
	if category := c.Query("category"); category != "" {
		productCategory := models.ProductCategory(category)
		filters.Category = &productCategory
	}
	if brand := c.Query("brand"); brand != "" {
		productBrand := models.ProductBrand(brand)
		filters.Brand = &productBrand
	}
	if minPriceStr := c.Query("minPrice"); minPriceStr != "" {
		if minPrice, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
			filters.MinPrice = &minPrice
		}
	}
	if maxPriceStr := c.Query("maxPrice"); maxPriceStr != "" {
		if maxPrice, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
			filters.MaxPrice = &maxPrice
		}
	}
	if inStockStr := c.Query("inStock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			filters.InStock = &inStock
		}
	}
	if status := c.Query("status"); status != "" {
		productStatus := models.ProductStatus(status)
		filters.Status = &productStatus
	}
	if tag := c.Query("tag"); tag != "" {
		productTag := models.ProductTag(tag)
		filters.Tag = &productTag
	}
	filters.Search = c.Query("search")

	products, total, err := h.productService.List(filters, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, "Products retrieved", result, nil)
}

// PATCH /product/:id
func (h *ProductHandler) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.Update(id, principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Product updated", product)
}

// PATCH /product/:id/stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "stock and action are required", err.Error())
		return
	}

	product, err := h.productService.UpdateStock(id, principal, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Stock updated", product)
}

// DELETE /product/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(id, principal); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Product deleted", nil)
}

// GET /product/featured
func (h *ProductHandler) Featured(c *gin.Context) {
	h.curated(c, h.productService.Featured, "Featured products retrieved")
}

// GET /product/discounted
func (h *ProductHandler) Discounted(c *gin.Context) {
	h.curated(c, h.productService.Discounted, "Discounted products retrieved")
}

// GET /product/latest
func (h *ProductHandler) Latest(c *gin.Context) {
	h.curated(c, h.productService.Latest, "Latest products retrieved")
}

func (h *ProductHandler) curated(c *gin.Context, view func(int) ([]models.Product, error), message string) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := view(limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, message, products)
}

// GET /product/filters
func (h *ProductHandler) Filters(c *gin.Context) {
	filters, err := h.productService.Filters()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Catalog filters retrieved", filters)
}
