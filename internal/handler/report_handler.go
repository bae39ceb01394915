package handler

import (
	"fmt"
	"net/http"

	"dukapos/internal/dto"
	"dukapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Sales godoc
// @Summary Sales report for a date range
// @Tags reports
// @Produce json
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.SalesReport
// @Router /v1/reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	report, err := h.reports.Sales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Profit godoc
// @Summary Net profit for a date range (sales minus expenses minus COGS)
// @Tags reports
// @Produce json
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ProfitReport
// @Router /v1/reports/profit [get]
func (h *ReportHandler) Profit(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	report, err := h.reports.Profit(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Expenses godoc
// @Summary Expense breakdown by category for a date range
// @Tags reports
// @Produce json
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ExpenseReport
// @Router /v1/reports/expenses [get]
func (h *ReportHandler) Expenses(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	report, err := h.reports.Expenses(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Valuation godoc
// @Summary Current inventory valuation
// @Tags reports
// @Produce json
// @Success 200 {object} dto.ValuationReport
// @Router /v1/reports/valuation [get]
func (h *ReportHandler) Valuation(c *gin.Context) {
	report, err := h.reports.Valuation(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SalesExport godoc
// @Summary Download the sales report as an Excel workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /v1/reports/sales/export [get]
func (h *ReportHandler) SalesExport(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	workbook, err := h.reports.SalesExport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("sales_%s_%s.xlsx", filter.From, filter.To)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook)
}
