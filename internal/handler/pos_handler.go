package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"dukapos/internal/apierror"
	"dukapos/internal/dto"
	"dukapos/internal/middleware"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
)

type POSHandler struct {
	checkout   *service.CheckoutService
	voids      *service.VoidService
	receiptDir string
}

func NewPOSHandler(checkout *service.CheckoutService, voids *service.VoidService, receiptDir string) *POSHandler {
	return &POSHandler{checkout: checkout, voids: voids, receiptDir: receiptDir}
}

// Checkout godoc
// @Summary Settle a cart into the open shift
// @Tags pos
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Cart lines and payment"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/pos/checkout [post]
func (h *POSHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.checkout.Checkout(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSales godoc
// @Summary List sales
// @Tags pos
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param status query string false "completed | needs_reconciliation | all"
// @Success 200 {object} paginated
// @Router /v1/sales [get]
func (h *POSHandler) ListSales(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	sales, total, err := h.checkout.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Data: sales, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// GetSale godoc
// @Summary Fetch one sale with its items
// @Tags pos
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} model.Sale
// @Failure 404 {object} apierror.APIError
// @Router /v1/sales/{id} [get]
func (h *POSHandler) GetSale(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sale, err := h.checkout.Find(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Receipt godoc
// @Summary Download the stored receipt PDF for a sale
// @Tags pos
// @Produce application/pdf
// @Param id path string true "Sale ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/sales/{id}/receipt [get]
func (h *POSHandler) Receipt(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, err := h.checkout.Find(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	path := filepath.Join(h.receiptDir, id.String()+".pdf")
	if _, err := os.Stat(path); err != nil {
		respondError(c, service.ErrReceiptNotFound)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", id))
	c.File(path)
}

// VoidSale godoc
// @Summary Void a sale, restoring stock and recomputing the shift
// @Description Irreversible. The caller must pass confirm=true to
// @Description acknowledge the deletion.
// @Tags pos
// @Param id path string true "Sale ID"
// @Param confirm query string true "Must be true"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/sales/{id} [delete]
func (h *POSHandler) VoidSale(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, apierror.New("Voiding is irreversible; pass confirm=true to proceed"))
		return
	}
	if err := h.voids.Void(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
