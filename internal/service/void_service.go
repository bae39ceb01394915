package service

import (
	"context"
	"errors"

	"dukapos/internal/model"
	"dukapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// VoidService reverses settled sales: restore stock, remove the sale and its
// items, re-derive the shift totals. Voiding is allowed on closed shifts too;
// the recompute re-freezes the closed totals without reopening the shift.
type VoidService struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	shiftSvc  *ShiftService
	log       zerolog.Logger
}

func NewVoidService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	shiftSvc *ShiftService,
	log zerolog.Logger,
) *VoidService {
	return &VoidService{
		sales:     sales,
		products:  products,
		movements: movements,
		shiftSvc:  shiftSvc,
		log:       log.With().Str("component", "void_service").Logger(),
	}
}

// Void reverses a sale. Restoration follows the movement ledger, not the sale
// items: only decrements the ledger shows as applied come back, and only by
// the applied amount. A sale flagged before its decrements landed, or one
// whose decrement clamped at zero, never restores stock it did not take.
// Restoration itself is not clamped: a void may push stock above any prior
// level. Products deleted since the sale are skipped with a warning; the rest
// of the void proceeds.
func (s *VoidService) Void(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.sales.FindByID(ctx, saleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSaleNotFound
	}
	if err != nil {
		return err
	}

	decrements, err := s.movements.ListByReference(ctx, sale.ID, model.MovementSale)
	if err != nil {
		return err
	}

	for i := range decrements {
		dec := &decrements[i]

		// Sale decrements carry negative quantities; the clamp can make them
		// zero, in which case there is nothing to give back.
		applied := -dec.Quantity
		if applied <= 0 {
			continue
		}

		newQty, err := s.products.AdjustStock(ctx, dec.ProductID, applied)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().
				Str("sale_id", sale.ID.String()).
				Str("product_id", dec.ProductID.String()).
				Msg("product gone, skipping stock restore")
			continue
		}
		if err != nil {
			return err
		}

		refID := sale.ID
		movement := &model.StockMovement{
			ProductID:   dec.ProductID,
			Type:        model.MovementVoidRestore,
			Quantity:    applied,
			StockBefore: newQty - applied,
			StockAfter:  newQty,
			ReferenceID: &refID,
		}
		if err := s.movements.Create(ctx, movement); err != nil {
			return err
		}
	}

	if err := s.sales.DeleteItems(ctx, sale.ID); err != nil {
		return err
	}
	if err := s.sales.Delete(ctx, sale.ID); err != nil {
		return err
	}

	s.log.Info().Str("sale_id", sale.ID.String()).Str("shift_id", sale.ShiftID.String()).Msg("sale voided")

	_, err = s.shiftSvc.Recompute(ctx, sale.ShiftID)
	return err
}
