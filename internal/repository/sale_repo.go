package repository

import (
	"context"

	"dukapos/internal/dto"
	"dukapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository persists sales and their line items. The settlement state
// machine in CheckoutService leans on the deliberately granular methods here:
// each storage step (sale, items, settlement checkpoint) is an independent
// call, mirroring a record store without cross-table transactions.
type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	CreateItems(ctx context.Context, items []model.SaleItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// ListNeedsReconciliation feeds the retry cron.
	ListNeedsReconciliation(ctx context.Context, limit int) ([]model.Sale, error)
	UpdateSettlement(ctx context.Context, id uuid.UUID, state, status string, attempts int) error
	// SumByShift re-aggregates a shift's totals from the sales that actually
	// landed. Close and recompute both go through this, so the answer is the
	// same no matter how many optimistic increments were applied or lost.
	SumByShift(ctx context.Context, shiftID uuid.UUID) (*dto.ShiftTotals, error)
	DeleteItems(ctx context.Context, saleID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	// Items are persisted separately by the settlement state machine.
	return r.db.WithContext(ctx).Omit("Items").Create(s).Error
}

func (r *saleRepo) CreateItems(ctx context.Context, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Cashier").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("shift_id = ?", shiftID).
		Order("sale_date DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.From != "" {
		q = q.Where("sale_date >= ?", filter.From+"T00:00:00Z")
	}
	if filter.To != "" {
		q = q.Where("sale_date <= ?", filter.To+"T23:59:59Z")
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").Preload("Cashier").
		Order("sale_date DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListNeedsReconciliation(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", model.SaleNeedsReconciliation).
		Order("created_at ASC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) UpdateSettlement(ctx context.Context, id uuid.UUID, state, status string, attempts int) error {
	return r.db.WithContext(ctx).Model(&model.Sale{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"settlement_state":    state,
			"status":              status,
			"settlement_attempts": attempts,
		}).Error
}

func (r *saleRepo) SumByShift(ctx context.Context, shiftID uuid.UUID) (*dto.ShiftTotals, error) {
	var totals dto.ShiftTotals

	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`
			COALESCE(SUM(total_amount), 0) AS total_sales,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'cash'), 0) AS total_cash,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'card'), 0) AS total_card,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_method = 'mpesa'), 0) AS total_mpesa`).
		Where("shift_id = ? AND status = ?", shiftID, model.SaleCompleted).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	// COGS comes from the line items joined against product cost prices.
	var cogs struct{ Total decimal.Decimal }
	err = r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("COALESCE(SUM(sale_items.quantity * products.cost_price), 0) AS total").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.shift_id = ? AND sales.status = ?", shiftID, model.SaleCompleted).
		Scan(&cogs).Error
	if err != nil {
		return nil, err
	}
	totals.TotalCOGS = cogs.Total

	return &totals, nil
}

func (r *saleRepo) DeleteItems(ctx context.Context, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Sale{}, id).Error
}
