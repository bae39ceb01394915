package handler

import (
	"net/http"

	"dukapos/internal/dto"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create godoc
// @Summary Create a catalog product
// @Tags products
// @Accept json
// @Produce json
// @Param request body dto.ProductRequest true "Product"
// @Success 201 {object} model.Product
// @Router /v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param name query string false "Name substring"
// @Param category query string false "Category"
// @Success 200 {object} paginated
// @Router /v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Data: products, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// LowStock godoc
// @Summary List products at or below their reorder level
// @Tags products
// @Produce json
// @Success 200 {array} model.Product
// @Router /v1/products/low-stock [get]
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.products.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Get godoc
// @Summary Fetch one product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.Find(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update godoc
// @Summary Update product fields
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body dto.ProductUpdateRequest true "Fields to update"
// @Success 200 {object} model.Product
// @Router /v1/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary Apply a manual stock correction
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body dto.StockAdjustRequest true "Signed delta with note"
// @Success 200 {object} model.Product
// @Router /v1/products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.StockAdjustRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.products.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Movements godoc
// @Summary List stock movements
// @Tags products
// @Produce json
// @Param product_id query string false "Product ID"
// @Param type query string false "Movement type"
// @Success 200 {object} paginated
// @Router /v1/stock-movements [get]
func (h *ProductHandler) Movements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	movements, total, err := h.products.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Data: movements, Total: total, Page: filter.Page, Limit: filter.Limit})
}
