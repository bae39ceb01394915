package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShiftFilter struct {
	Date  string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Page  int    `form:"page,default=1" validate:"gte=1"`
	Limit int    `form:"limit,default=20" validate:"gte=1,lte=100"`
}

// ShiftSummary is the closed-shift report sent to the till and, on close,
// to the admin mailbox.
type ShiftSummary struct {
	ShiftID       uuid.UUID       `json:"shift_id"`
	CashierName   string          `json:"cashier_name"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       *time.Time      `json:"end_time"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalCash     decimal.Decimal `json:"total_cash"`
	TotalCard     decimal.Decimal `json:"total_card"`
	TotalMpesa    decimal.Decimal `json:"total_mpesa"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalCOGS     decimal.Decimal `json:"total_cogs"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	SaleCount     int             `json:"sale_count"`
}
