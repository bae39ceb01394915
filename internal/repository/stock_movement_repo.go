package repository

import (
	"context"

	"dukapos/internal/dto"
	"dukapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	// ExistsForReference reports whether a movement of the given type was
	// already written for this product and reference. Settlement resume
	// uses this to skip stock adjustments that landed on a prior attempt.
	ExistsForReference(ctx context.Context, referenceID, productID uuid.UUID, movementType string) (bool, error)
	// ListByReference returns the movements of one type recorded against a
	// reference. Void reads the sale's decrements from here: only quantities
	// the ledger shows as applied get restored.
	ListByReference(ctx context.Context, referenceID uuid.UUID, movementType string) ([]model.StockMovement, error)
	List(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) ExistsForReference(ctx context.Context, referenceID, productID uuid.UUID, movementType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("reference_id = ? AND product_id = ? AND type = ?", referenceID, productID, movementType).
		Count(&count).Error
	return count > 0, err
}

func (r *stockMovementRepo) ListByReference(ctx context.Context, referenceID uuid.UUID, movementType string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("reference_id = ? AND type = ?", referenceID, movementType).
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) List(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{})

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&movements).Error
	return movements, total, err
}
