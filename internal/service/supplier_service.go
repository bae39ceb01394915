package service

import (
	"context"
	"errors"
	"time"

	"dukapos/internal/dto"
	"dukapos/internal/model"
	"dukapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierService struct {
	suppliers repository.SupplierRepository
	log       zerolog.Logger
}

func NewSupplierService(suppliers repository.SupplierRepository, log zerolog.Logger) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		log:       log.With().Str("component", "supplier_service").Logger(),
	}
}

func (s *SupplierService) Create(ctx context.Context, req dto.SupplierRequest) (*model.Supplier, error) {
	sup := &model.Supplier{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *SupplierService) Find(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSupplierNotFound
	}
	return sup, err
}

func (s *SupplierService) List(ctx context.Context) ([]model.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req dto.SupplierRequest) (*model.Supplier, error) {
	sup, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	sup.Name = req.Name
	sup.Contact = req.Contact
	sup.Email = req.Email
	sup.Address = req.Address
	if err := s.suppliers.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.suppliers.Delete(ctx, id)
}

// RecordPayment appends a ledger entry for a supplier. Credits grow the
// amount owed, debits pay it down.
func (s *SupplierService) RecordPayment(ctx context.Context, supplierID, userID uuid.UUID, req dto.SupplierPaymentRequest) (*model.SupplierPayment, error) {
	if _, err := s.Find(ctx, supplierID); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	p := &model.SupplierPayment{
		SupplierID:  supplierID,
		PaymentType: req.PaymentType,
		Amount:      req.Amount,
		PaymentDate: date,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}
	if err := s.suppliers.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("supplier_id", supplierID.String()).
		Str("payment_type", p.PaymentType).
		Str("amount", p.Amount.String()).
		Msg("supplier payment recorded")
	return p, nil
}

func (s *SupplierService) ListPayments(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierPayment, error) {
	return s.suppliers.ListPayments(ctx, supplierID)
}

func (s *SupplierService) Balance(ctx context.Context, supplierID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.Find(ctx, supplierID); err != nil {
		return decimal.Zero, err
	}
	return s.suppliers.Balance(ctx, supplierID)
}
