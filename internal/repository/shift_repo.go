package repository

import (
	"context"

	"dukapos/internal/dto"
	"dukapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(ctx context.Context, s *model.Shift) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
	// FindOpen returns the single open shift, or gorm.ErrRecordNotFound.
	FindOpen(ctx context.Context) (*model.Shift, error)
	Update(ctx context.Context, s *model.Shift) error
	// ApplySaleTotals is the optimistic fast-path: one UPDATE incrementing
	// total_sales and the given payment-channel bucket.
	ApplySaleTotals(ctx context.Context, id uuid.UUID, bucket string, amount decimal.Decimal) error
	ListClosed(ctx context.Context, filter dto.ShiftFilter) ([]model.Shift, int64, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) Create(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shiftRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).Preload("User").First(&s, id).Error
	return &s, err
}

func (r *shiftRepo) FindOpen(ctx context.Context) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("closed = false").
		Order("start_time DESC").
		First(&s).Error
	return &s, err
}

func (r *shiftRepo) Update(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// bucketColumns whitelists the incrementable totals columns; anything else
// would be an injection vector through the column name.
var bucketColumns = map[string]bool{
	"total_cash":  true,
	"total_card":  true,
	"total_mpesa": true,
}

func (r *shiftRepo) ApplySaleTotals(ctx context.Context, id uuid.UUID, bucket string, amount decimal.Decimal) error {
	if !bucketColumns[bucket] {
		return gorm.ErrInvalidField
	}
	return r.db.WithContext(ctx).Model(&model.Shift{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_sales": gorm.Expr("total_sales + ?", amount),
			bucket:        gorm.Expr(bucket+" + ?", amount),
		}).Error
}

func (r *shiftRepo) ListClosed(ctx context.Context, filter dto.ShiftFilter) ([]model.Shift, int64, error) {
	var shifts []model.Shift
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Shift{}).Where("closed = true")

	if filter.Date != "" {
		q = q.Where("start_time >= ? AND start_time <= ?",
			filter.Date+"T00:00:00Z", filter.Date+"T23:59:59Z")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("User").
		Order("end_time DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&shifts).Error
	return shifts, total, err
}
