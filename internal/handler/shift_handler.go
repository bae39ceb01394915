package handler

import (
	"net/http"

	"dukapos/internal/dto"
	"dukapos/internal/middleware"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ShiftHandler struct {
	shifts   *service.ShiftService
	expenses *service.ExpenseService
}

func NewShiftHandler(shifts *service.ShiftService, expenses *service.ExpenseService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts, expenses: expenses}
}

// Current godoc
// @Summary Fetch the open shift
// @Tags shifts
// @Produce json
// @Success 200 {object} model.Shift
// @Failure 404 {object} apierror.APIError
// @Router /v1/shifts/current [get]
func (h *ShiftHandler) Current(c *gin.Context) {
	shift, err := h.shifts.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

// Open godoc
// @Summary Open a new shift
// @Tags shifts
// @Produce json
// @Success 201 {object} model.Shift
// @Failure 409 {object} apierror.APIError
// @Router /v1/shifts [post]
func (h *ShiftHandler) Open(c *gin.Context) {
	shift, err := h.shifts.Open(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// Close godoc
// @Summary Close a shift, freezing its recomputed totals
// @Tags shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} model.Shift
// @Failure 404 {object} apierror.APIError
// @Router /v1/shifts/{id}/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shift, err := h.shifts.Close(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

// Recompute godoc
// @Summary Re-derive a shift's totals from its recorded sales
// @Tags shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} model.Shift
// @Router /v1/shifts/{id}/recompute [post]
func (h *ShiftHandler) Recompute(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shift, err := h.shifts.Recompute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

// Summary godoc
// @Summary Shift close-out report
// @Tags shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {object} dto.ShiftSummary
// @Router /v1/shifts/{id}/summary [get]
func (h *ShiftHandler) Summary(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sum, err := h.shifts.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// List godoc
// @Summary List closed shifts
// @Tags shifts
// @Produce json
// @Param date query string false "Business date (YYYY-MM-DD)"
// @Success 200 {object} paginated
// @Router /v1/shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	var filter dto.ShiftFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	shifts, total, err := h.shifts.ListClosed(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Data: shifts, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// Expenses godoc
// @Summary List expenses recorded on a shift
// @Tags shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 200 {array} model.Expense
// @Router /v1/shifts/{id}/expenses [get]
func (h *ShiftHandler) Expenses(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	expenses, err := h.expenses.ListByShift(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}
