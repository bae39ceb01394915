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
	"gorm.io/gorm"
)

var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseService records operating expenses against the open shift so they
// land in that shift's close-out.
type ExpenseService struct {
	expenses repository.ExpenseRepository
	shiftSvc *ShiftService
	log      zerolog.Logger
}

func NewExpenseService(expenses repository.ExpenseRepository, shiftSvc *ShiftService, log zerolog.Logger) *ExpenseService {
	return &ExpenseService{
		expenses: expenses,
		shiftSvc: shiftSvc,
		log:      log.With().Str("component", "expense_service").Logger(),
	}
}

// Record creates an expense tied to the open shift. Fails with ErrNoOpenShift
// when no shift is open.
func (s *ExpenseService) Record(ctx context.Context, userID uuid.UUID, req dto.ExpenseRequest) (*model.Expense, error) {
	shift, err := s.shiftSvc.Current(ctx)
	if err != nil {
		return nil, err
	}

	e := &model.Expense{
		Amount:    req.Amount,
		Category:  req.Category,
		Date:      time.Now(),
		CreatedBy: userID,
		ShiftID:   shift.ID,
	}
	if req.Description != "" {
		e.Description = &req.Description
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("expense_id", e.ID.String()).
		Str("shift_id", shift.ID.String()).
		Str("amount", e.Amount.String()).
		Msg("expense recorded")
	return e, nil
}

func (s *ExpenseService) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]model.Expense, error) {
	return s.expenses.ListByShift(ctx, shiftID)
}

// Delete removes an expense and re-derives its shift's totals.
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.expenses.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrExpenseNotFound
	}
	if err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return err
	}
	_, err = s.shiftSvc.Recompute(ctx, e.ShiftID)
	return err
}
