package repository

import (
	"context"

	"dukapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreatePayment(ctx context.Context, p *model.SupplierPayment) error
	ListPayments(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierPayment, error)
	// Balance is the sum of credits minus debits for a supplier. A positive
	// balance means the store owes the supplier.
	Balance(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Supplier{}, id).Error
}

func (r *supplierRepo) CreatePayment(ctx context.Context, p *model.SupplierPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *supplierRepo) ListPayments(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierPayment, error) {
	var payments []model.SupplierPayment
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *supplierRepo) Balance(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Balance decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.SupplierPayment{}).
		Select("COALESCE(SUM(CASE WHEN payment_type = 'credit' THEN amount ELSE -amount END), 0) AS balance").
		Where("supplier_id = ?", supplierID).
		Scan(&row).Error
	return row.Balance, err
}
