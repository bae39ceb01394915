package repository

import (
	"context"
	"time"

	"dukapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]model.Expense, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SumByShift totals expense amounts for a shift; feeds shift close.
	SumByShift(ctx context.Context, shiftID uuid.UUID) (decimal.Decimal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *expenseRepo) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("date DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) ListByRange(ctx context.Context, from, to time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, id).Error
}

func (r *expenseRepo) SumByShift(ctx context.Context, shiftID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("shift_id = ?", shiftID).
		Scan(&row).Error
	return row.Total, err
}
