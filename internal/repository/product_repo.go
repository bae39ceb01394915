package repository

import (
	"context"

	"dukapos/internal/dto"
	"dukapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// Delete hard-deletes a catalog row. The sale_items FK is RESTRICT, so a
	// product referenced by any sale line is refused by the store.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock applies a signed, unclamped delta (manual adjustments,
	// void restores).
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (newQty int, err error)
	// DecrementStockClamped decrements by at most qty, never below zero, and
	// reports the stock before the update plus the amount actually applied.
	DecrementStockClamped(ctx context.Context, id uuid.UUID, qty int) (before, applied int, err error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock_quantity <= reorder_level").
		Order("stock_quantity ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var newQty int
	// Raw+Scan reports zero rows through RowsAffected, not ErrRecordNotFound.
	res := r.db.WithContext(ctx).Raw(
		`UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = now()
		 WHERE id = ? RETURNING stock_quantity`, delta, id).Scan(&newQty)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return newQty, nil
}

func (r *productRepo) DecrementStockClamped(ctx context.Context, id uuid.UUID, qty int) (int, int, error) {
	// RETURNING sees the new row, so the old quantity comes from a CTE.
	var row struct {
		Before  int
		Applied int
	}
	res := r.db.WithContext(ctx).Raw(
		`WITH old AS (SELECT stock_quantity FROM products WHERE id = ? FOR UPDATE)
		 UPDATE products
		 SET stock_quantity = GREATEST(stock_quantity - ?, 0), updated_at = now()
		 WHERE id = ?
		 RETURNING (SELECT stock_quantity FROM old) AS before,
		           (SELECT stock_quantity FROM old) - stock_quantity AS applied`,
		id, qty, id).Scan(&row)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, 0, gorm.ErrRecordNotFound
	}
	return row.Before, row.Applied, nil
}
