package repository

import (
	"context"
	"time"

	"dukapos/internal/dto"
	"dukapos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository runs the read-only aggregations behind the reporting
// endpoints. Only completed sales count.
type ReportRepository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (*dto.ShiftTotals, int, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]dto.ProductSalesRow, error)
	DailyTotals(ctx context.Context, from, to time.Time) ([]dto.DailyTotalRow, error)
	COGS(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ExpenseTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ExpensesByCategory(ctx context.Context, from, to time.Time) ([]dto.ExpenseCategoryRow, error)
	Valuation(ctx context.Context) (*dto.ValuationReport, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesTotals(ctx context.Context, from, to time.Time) (*dto.ShiftTotals, int, error) {
	var totals dto.ShiftTotals
	var count int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("sale_date >= ? AND sale_date <= ? AND status = ?", from, to, model.SaleCompleted)

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := q.Select(`
		COALESCE(SUM(total_amount), 0) AS total_sales,
		COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'cash'), 0) AS total_cash,
		COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'card'), 0) AS total_card,
		COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'mpesa'), 0) AS total_mpesa`).
		Scan(&totals).Error
	return &totals, int(count), err
}

func (r *reportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]dto.ProductSalesRow, error) {
	var rows []dto.ProductSalesRow
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select(`products.id::text AS product_id, products.name AS name,
			SUM(sale_items.quantity) AS quantity_sum,
			COALESCE(SUM(sale_items.total_price), 0) AS amount_sum`).
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date >= ? AND sales.sale_date <= ? AND sales.status = ?", from, to, model.SaleCompleted).
		Group("products.id, products.name").
		Order("amount_sum DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) DailyTotals(ctx context.Context, from, to time.Time) ([]dto.DailyTotalRow, error) {
	var rows []dto.DailyTotalRow
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`to_char(sale_date, 'YYYY-MM-DD') AS date, COALESCE(SUM(total_amount), 0) AS amount`).
		Where("sale_date >= ? AND sale_date <= ? AND status = ?", from, to, model.SaleCompleted).
		Group("to_char(sale_date, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) COGS(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("COALESCE(SUM(sale_items.quantity * products.cost_price), 0) AS total").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_date >= ? AND sales.sale_date <= ? AND sales.status = ?", from, to, model.SaleCompleted).
		Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) ExpenseTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("date >= ? AND date <= ?", from, to).
		Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) ExpensesByCategory(ctx context.Context, from, to time.Time) ([]dto.ExpenseCategoryRow, error) {
	var rows []dto.ExpenseCategoryRow
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select(`category, COUNT(*) AS entry_count, COALESCE(SUM(amount), 0) AS amount_sum`).
		Where("date >= ? AND date <= ?", from, to).
		Group("category").
		Order("amount_sum DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) Valuation(ctx context.Context) (*dto.ValuationReport, error) {
	var row struct {
		ProductCount  int
		TotalAtCost   decimal.Decimal
		TotalAtPrice  decimal.Decimal
		LowStockCount int
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select(`COUNT(*) AS product_count,
			COALESCE(SUM(stock_quantity * cost_price), 0) AS total_at_cost,
			COALESCE(SUM(stock_quantity * price), 0) AS total_at_price,
			COUNT(*) FILTER (WHERE stock_quantity <= reorder_level) AS low_stock_count`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &dto.ValuationReport{
		ProductCount:  row.ProductCount,
		TotalAtCost:   row.TotalAtCost,
		TotalAtPrice:  row.TotalAtPrice,
		LowStockCount: row.LowStockCount,
	}, nil
}
