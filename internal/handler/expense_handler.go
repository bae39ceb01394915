package handler

import (
	"net/http"

	"dukapos/internal/dto"
	"dukapos/internal/middleware"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenses *service.ExpenseService
}

func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Record godoc
// @Summary Record an expense against the open shift
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body dto.ExpenseRequest true "Expense"
// @Success 201 {object} model.Expense
// @Failure 409 {object} apierror.APIError
// @Router /v1/expenses [post]
func (h *ExpenseHandler) Record(c *gin.Context) {
	var req dto.ExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	e, err := h.expenses.Record(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// Delete godoc
// @Summary Delete an expense and recompute its shift
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Router /v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
