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

var (
	ErrNoOpenShift      = errors.New("no open shift")
	ErrShiftAlreadyOpen = errors.New("a shift is already open")
	ErrShiftNotFound    = errors.New("shift not found")
)

// ShiftService owns the cash-session lifecycle. At most one shift is open at
// any time; the running totals on an open shift are optimistic counters, and
// Close/Recompute replace them with an aggregation of the sales that actually
// survived in storage.
type ShiftService struct {
	shifts   repository.ShiftRepository
	sales    repository.SaleRepository
	expenses repository.ExpenseRepository
	settings repository.SettingsRepository
	queue    Queue
	locks    *keyedMutex
	loc      *time.Location
	log      zerolog.Logger
}

func NewShiftService(
	shifts repository.ShiftRepository,
	sales repository.SaleRepository,
	expenses repository.ExpenseRepository,
	settings repository.SettingsRepository,
	queue Queue,
	loc *time.Location,
	log zerolog.Logger,
) *ShiftService {
	return &ShiftService{
		shifts:   shifts,
		sales:    sales,
		expenses: expenses,
		settings: settings,
		queue:    queue,
		locks:    newKeyedMutex(),
		loc:      loc,
		log:      log.With().Str("component", "shift_service").Logger(),
	}
}

// Current returns the open shift, or ErrNoOpenShift.
func (s *ShiftService) Current(ctx context.Context) (*model.Shift, error) {
	shift, err := s.shifts.FindOpen(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenShift
	}
	return shift, err
}

// Open starts a new shift for the given user. Fails with ErrShiftAlreadyOpen
// when one is open; the partial unique index in the store backstops the check
// against concurrent opens.
func (s *ShiftService) Open(ctx context.Context, userID uuid.UUID) (*model.Shift, error) {
	if _, err := s.Current(ctx); err == nil {
		return nil, ErrShiftAlreadyOpen
	} else if !errors.Is(err, ErrNoOpenShift) {
		return nil, err
	}

	shift := &model.Shift{
		UserID:    userID,
		StartTime: time.Now().In(s.loc),
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, err
	}
	s.log.Info().Str("shift_id", shift.ID.String()).Str("user_id", userID.String()).Msg("shift opened")
	return shift, nil
}

// EnsureOpen returns the shift a checkout should settle into, opening one if
// none exists. When auto-rotation is enabled and the open shift started on a
// previous business day, it is closed and a fresh one opened.
func (s *ShiftService) EnsureOpen(ctx context.Context, userID uuid.UUID) (*model.Shift, error) {
	shift, err := s.Current(ctx)
	if errors.Is(err, ErrNoOpenShift) {
		return s.Open(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.ShiftAutoRotate && !sameBusinessDay(shift.StartTime, time.Now(), s.loc) {
		s.log.Info().Str("shift_id", shift.ID.String()).Msg("rotating stale shift")
		if _, err := s.Close(ctx, shift.ID); err != nil {
			return nil, err
		}
		return s.Open(ctx, userID)
	}
	return shift, nil
}

// ApplySale is the optimistic fast path after a settled sale: increment the
// shift's running total and the payment-channel bucket. Drift introduced by a
// lost increment is corrected by Close/Recompute.
func (s *ShiftService) ApplySale(ctx context.Context, shiftID uuid.UUID, paymentMethod string, amount decimal.Decimal) error {
	s.locks.Lock(shiftID)
	defer s.locks.Unlock(shiftID)

	var bucket string
	switch paymentMethod {
	case model.PaymentCash:
		bucket = "total_cash"
	case model.PaymentCard:
		bucket = "total_card"
	case model.PaymentMpesa:
		bucket = "total_mpesa"
	default:
		return errors.New("unknown payment method: " + paymentMethod)
	}
	return s.shifts.ApplySaleTotals(ctx, shiftID, bucket, amount)
}

// Close ends a shift: totals are recomputed from the surviving sales and
// expenses, then the shift is marked closed. Closing an already-closed shift
// re-runs the same aggregation and returns the same result, so it is safe to retry.
func (s *ShiftService) Close(ctx context.Context, shiftID uuid.UUID) (*model.Shift, error) {
	s.locks.Lock(shiftID)
	defer s.locks.Unlock(shiftID)

	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	if err := s.aggregate(ctx, shift); err != nil {
		return nil, err
	}
	if !shift.Closed {
		now := time.Now().In(s.loc)
		shift.EndTime = &now
		shift.Closed = true
	}
	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("shift_id", shift.ID.String()).
		Str("total_sales", shift.TotalSales.String()).
		Msg("shift closed")

	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, QueueEmail, EmailJob{Type: EmailShiftSummary, ShiftID: shift.ID}); err != nil {
			s.log.Warn().Err(err).Msg("could not enqueue shift summary email")
		}
	}
	return shift, nil
}

// Recompute re-derives a shift's totals from its sales and expenses without
// touching the closed flag. Used after voids and manual reconciliation.
func (s *ShiftService) Recompute(ctx context.Context, shiftID uuid.UUID) (*model.Shift, error) {
	s.locks.Lock(shiftID)
	defer s.locks.Unlock(shiftID)

	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if err := s.aggregate(ctx, shift); err != nil {
		return nil, err
	}
	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// Summary builds the closed-shift report.
func (s *ShiftService) Summary(ctx context.Context, shiftID uuid.UUID) (*dto.ShiftSummary, error) {
	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	sum := &dto.ShiftSummary{
		ShiftID:       shift.ID,
		StartTime:     shift.StartTime,
		EndTime:       shift.EndTime,
		TotalSales:    shift.TotalSales,
		TotalCash:     shift.TotalCash,
		TotalCard:     shift.TotalCard,
		TotalMpesa:    shift.TotalMpesa,
		TotalExpenses: shift.TotalExpenses,
		TotalCOGS:     shift.TotalCOGS,
		NetProfit:     shift.TotalSales.Sub(shift.TotalExpenses).Sub(shift.TotalCOGS),
		SaleCount:     len(sales),
	}
	if shift.User != nil {
		sum.CashierName = shift.User.Name
	}
	return sum, nil
}

func (s *ShiftService) ListClosed(ctx context.Context, filter dto.ShiftFilter) ([]model.Shift, int64, error) {
	return s.shifts.ListClosed(ctx, filter)
}

func (s *ShiftService) findShift(ctx context.Context, shiftID uuid.UUID) (*model.Shift, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShiftNotFound
	}
	return shift, err
}

// aggregate overwrites the shift's totals with the authoritative sums from
// sales and expenses. Both Close and Recompute go through here.
func (s *ShiftService) aggregate(ctx context.Context, shift *model.Shift) error {
	totals, err := s.sales.SumByShift(ctx, shift.ID)
	if err != nil {
		return err
	}
	expenseTotal, err := s.expenses.SumByShift(ctx, shift.ID)
	if err != nil {
		return err
	}

	shift.TotalSales = totals.TotalSales
	shift.TotalCash = totals.TotalCash
	shift.TotalCard = totals.TotalCard
	shift.TotalMpesa = totals.TotalMpesa
	shift.TotalCOGS = totals.TotalCOGS
	shift.TotalExpenses = expenseTotal
	return nil
}

// sameBusinessDay compares two instants by calendar date in the store's
// timezone.
func sameBusinessDay(a, b time.Time, loc *time.Location) bool {
	ya, ma, da := a.In(loc).Date()
	yb, mb, db := b.In(loc).Date()
	return ya == yb && ma == mb && da == db
}
