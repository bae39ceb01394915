package dto

import "github.com/shopspring/decimal"

type ReportFilter struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to" validate:"required,datetime=2006-01-02"`
}

type SalesReport struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	TotalSales   decimal.Decimal   `json:"total_sales"`
	TotalCash    decimal.Decimal   `json:"total_cash"`
	TotalCard    decimal.Decimal   `json:"total_card"`
	TotalMpesa   decimal.Decimal   `json:"total_mpesa"`
	SaleCount    int               `json:"sale_count"`
	TopProducts  []ProductSalesRow `json:"top_products"`
	DailyTotals  []DailyTotalRow   `json:"daily_totals"`
}

type ProductSalesRow struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	QuantitySum int             `json:"quantity_sum"`
	AmountSum   decimal.Decimal `json:"amount_sum"`
}

type DailyTotalRow struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type ExpenseCategoryRow struct {
	Category   string          `json:"category"`
	EntryCount int             `json:"entry_count"`
	AmountSum  decimal.Decimal `json:"amount_sum"`
}

type ExpenseReport struct {
	From       string               `json:"from"`
	To         string               `json:"to"`
	Total      decimal.Decimal      `json:"total"`
	Categories []ExpenseCategoryRow `json:"categories"`
}

type ProfitReport struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalCOGS     decimal.Decimal `json:"total_cogs"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

type ValuationReport struct {
	ProductCount  int             `json:"product_count"`
	TotalAtCost   decimal.Decimal `json:"total_at_cost"`
	TotalAtPrice  decimal.Decimal `json:"total_at_price"`
	LowStockCount int             `json:"low_stock_count"`
}
