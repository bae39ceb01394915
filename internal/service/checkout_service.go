package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dukapos/internal/cart"
	"dukapos/internal/dto"
	"dukapos/internal/model"
	"dukapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart       = errors.New("cart has no lines")
	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ReceiptRenderer turns a settled sale into a stored receipt document and
// returns its path.
type ReceiptRenderer interface {
	Render(sale *model.Sale, settings *model.Settings) (string, error)
}

// CheckoutService settles carts. The record store offers no cross-table
// transactions, so settlement is a sequence of independent writes with the
// reached step checkpointed on the sale row:
//
//	created → items_written → stock_adjusted → shift_updated → done
//
// Failures before the line items are durably written abort the checkout and
// roll the sale record back. Failures after that point flag the sale
// needs_reconciliation and hand it to the worker pool, which resumes from the
// recorded checkpoint.
type CheckoutService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	settings   repository.SettingsRepository
	shiftSvc   *ShiftService
	queue      Queue
	receipts   ReceiptRenderer
	maxRetries int
	log        zerolog.Logger
}

func NewCheckoutService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	settings repository.SettingsRepository,
	shiftSvc *ShiftService,
	queue Queue,
	receipts ReceiptRenderer,
	maxRetries int,
	log zerolog.Logger,
) *CheckoutService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &CheckoutService{
		sales:      sales,
		products:   products,
		movements:  movements,
		settings:   settings,
		shiftSvc:   shiftSvc,
		queue:      queue,
		receipts:   receipts,
		maxRetries: maxRetries,
		log:        log.With().Str("component", "checkout_service").Logger(),
	}
}

// Checkout prices the submitted lines and settles the resulting sale into the
// open shift (opening or rotating one as needed).
func (s *CheckoutService) Checkout(ctx context.Context, cashierID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.buildCart(ctx, cfg, req)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	discount := cart.Discount{}
	if req.Discount != nil {
		discount = cart.Discount{Type: req.Discount.Type, Value: req.Discount.Value}
	}
	totals := c.ComputeTotals(cfg.TaxRate, discount)

	shift, err := s.shiftSvc.EnsureOpen(ctx, cashierID)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		SaleDate:        time.Now(),
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.Net,
		PaymentMethod:   req.PaymentMethod,
		CashierID:       cashierID,
		ShiftID:         shift.ID,
		Status:          model.SaleCompleted,
		SettlementState: model.SettlementCreated,
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	items := make([]model.SaleItem, 0, len(c.Lines()))
	for _, l := range c.Lines() {
		items = append(items, model.SaleItem{
			SaleID:     sale.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.Subtotal(),
		})
	}

	// Until the items are durably written the sale has no resumable content,
	// so a persistent failure here aborts the checkout entirely.
	if err := s.withRetry(ctx, sale, func() error {
		return s.sales.CreateItems(ctx, items)
	}); err != nil {
		if delErr := s.sales.Delete(ctx, sale.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("sale_id", sale.ID.String()).Msg("could not roll back aborted sale")
		}
		return nil, fmt.Errorf("writing sale items: %w", err)
	}
	sale.Items = items
	// In-memory only, so the receipt can print names without a re-read.
	lineByProduct := make(map[uuid.UUID]*cart.Line, len(c.Lines()))
	for _, l := range c.Lines() {
		lineByProduct[l.ProductID] = l
	}
	for i := range sale.Items {
		if l, ok := lineByProduct[sale.Items[i].ProductID]; ok {
			sale.Items[i].Product = &model.Product{ID: l.ProductID, Name: l.Name, Price: l.BasePrice}
		}
	}
	s.checkpoint(ctx, sale, model.SettlementItemsWritten)

	if err := s.settle(ctx, sale); err != nil {
		s.flagForReconciliation(ctx, sale, err)
	}

	resp := &dto.CheckoutResponse{
		SaleID:      sale.ID,
		Status:      sale.Status,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		Discount:    totals.DiscountAmount,
		TotalAmount: totals.Net,
	}

	if sale.Status == model.SaleCompleted {
		resp.ReceiptURL = s.renderReceipt(sale, cfg)
		if req.CustomerEmail != "" && s.queue != nil {
			job := EmailJob{Type: EmailReceipt, SaleID: sale.ID, To: req.CustomerEmail}
			if err := s.queue.Enqueue(ctx, QueueEmail, job); err != nil {
				s.log.Warn().Err(err).Msg("could not enqueue receipt email")
			}
		}
	}
	return resp, nil
}

// Resume continues settlement of a sale from its recorded checkpoint. Called
// by the reconcile worker and the retry cron; safe to call on an already
// settled sale.
func (s *CheckoutService) Resume(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.sales.FindByID(ctx, saleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Voided (or rolled back) before the worker got to it.
		return nil
	}
	if err != nil {
		return err
	}
	if sale.SettlementState == model.SettlementDone {
		return nil
	}
	if sale.SettlementState == model.SettlementCreated {
		// No durable items to settle from; the checkout rolled back or is
		// about to. Nothing to do here.
		return nil
	}

	s.log.Info().
		Str("sale_id", sale.ID.String()).
		Str("state", sale.SettlementState).
		Int("attempts", sale.SettlementAttempts).
		Msg("resuming settlement")

	if err := s.settleResume(ctx, sale); err != nil {
		s.flagForReconciliation(ctx, sale, err)
		return err
	}
	return nil
}

// settle runs the post-items steps for a fresh checkout: stock decrements,
// then the shift fast-path increment, then done.
func (s *CheckoutService) settle(ctx context.Context, sale *model.Sale) error {
	if err := s.adjustStock(ctx, sale); err != nil {
		return err
	}
	s.checkpoint(ctx, sale, model.SettlementStockAdjusted)

	if err := s.withRetry(ctx, sale, func() error {
		return s.shiftSvc.ApplySale(ctx, sale.ShiftID, sale.PaymentMethod, sale.TotalAmount)
	}); err != nil {
		return fmt.Errorf("updating shift totals: %w", err)
	}
	s.checkpoint(ctx, sale, model.SettlementShiftUpdated)

	sale.SettlementState = model.SettlementDone
	sale.Status = model.SaleCompleted
	return s.sales.UpdateSettlement(ctx, sale.ID, sale.SettlementState, sale.Status, sale.SettlementAttempts)
}

// settleResume replays the remaining steps idempotently. Stock decrements are
// skipped where the movement ledger already shows one for this sale/product;
// the shift is recomputed from source rather than incremented, so a step that
// half-landed before a crash cannot double-count.
func (s *CheckoutService) settleResume(ctx context.Context, sale *model.Sale) error {
	if sale.SettlementState == model.SettlementItemsWritten {
		if err := s.adjustStock(ctx, sale); err != nil {
			return err
		}
		s.checkpoint(ctx, sale, model.SettlementStockAdjusted)
	}

	if _, err := s.shiftSvc.Recompute(ctx, sale.ShiftID); err != nil {
		return fmt.Errorf("recomputing shift totals: %w", err)
	}
	s.checkpoint(ctx, sale, model.SettlementShiftUpdated)

	sale.SettlementState = model.SettlementDone
	sale.Status = model.SaleCompleted
	if err := s.sales.UpdateSettlement(ctx, sale.ID, sale.SettlementState, sale.Status, sale.SettlementAttempts); err != nil {
		return err
	}

	// The recompute above ran while this sale was still flagged; run it once
	// more now that the sale counts as completed.
	_, err := s.shiftSvc.Recompute(ctx, sale.ShiftID)
	return err
}

// adjustStock decrements stock for every line, writing a ledger movement per
// product. Decrements are clamped at zero: overselling is logged, never
// blocked. Lines whose movement already exists (a prior attempt landed) are
// skipped.
func (s *CheckoutService) adjustStock(ctx context.Context, sale *model.Sale) error {
	for i := range sale.Items {
		item := &sale.Items[i]

		done, err := s.movements.ExistsForReference(ctx, sale.ID, item.ProductID, model.MovementSale)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		var before, applied int
		if err := s.withRetry(ctx, sale, func() error {
			var derr error
			before, applied, derr = s.products.DecrementStockClamped(ctx, item.ProductID, item.Quantity)
			return derr
		}); err != nil {
			return fmt.Errorf("adjusting stock for product %s: %w", item.ProductID, err)
		}

		if applied < item.Quantity {
			s.log.Warn().
				Str("sale_id", sale.ID.String()).
				Str("product_id", item.ProductID.String()).
				Int("requested", item.Quantity).
				Int("applied", applied).
				Msg("stock decrement clamped at zero")
		}

		saleID := sale.ID
		movement := &model.StockMovement{
			ProductID:   item.ProductID,
			Type:        model.MovementSale,
			Quantity:    -applied,
			StockBefore: before,
			StockAfter:  before - applied,
			ReferenceID: &saleID,
		}
		if err := s.withRetry(ctx, sale, func() error {
			return s.movements.Create(ctx, movement)
		}); err != nil {
			return fmt.Errorf("recording stock movement: %w", err)
		}
	}
	return nil
}

func (s *CheckoutService) buildCart(ctx context.Context, cfg *model.Settings, req dto.CheckoutRequest) (*cart.Cart, error) {
	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, l := range req.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	c := cart.New(cfg.AllowPriceBelowBase)
	for _, reqLine := range req.Lines {
		p, ok := byID[reqLine.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, reqLine.ProductID)
		}
		line, err := c.Add(p, reqLine.Quantity)
		if err != nil {
			return nil, err
		}
		if reqLine.UnitPrice != nil {
			if err := c.SetUnitPrice(line.ID, *reqLine.UnitPrice); err != nil {
				return nil, err
			}
		}
		if reqLine.Discount != nil {
			if err := c.SetDiscount(line.ID, *reqLine.Discount); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// withRetry retries op up to the configured bound, counting attempts on the
// sale.
func (s *CheckoutService) withRetry(ctx context.Context, sale *model.Sale, op func() error) error {
	var err error
	for i := 0; i < s.maxRetries; i++ {
		if err = op(); err == nil {
			return nil
		}
		sale.SettlementAttempts++
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (s *CheckoutService) checkpoint(ctx context.Context, sale *model.Sale, state string) {
	sale.SettlementState = state
	if err := s.sales.UpdateSettlement(ctx, sale.ID, state, sale.Status, sale.SettlementAttempts); err != nil {
		// The step itself landed; a lost checkpoint only means the resume
		// path will redo an idempotent step.
		s.log.Warn().Err(err).Str("sale_id", sale.ID.String()).Str("state", state).Msg("could not checkpoint settlement")
	}
}

func (s *CheckoutService) flagForReconciliation(ctx context.Context, sale *model.Sale, cause error) {
	sale.Status = model.SaleNeedsReconciliation
	s.log.Error().Err(cause).
		Str("sale_id", sale.ID.String()).
		Str("state", sale.SettlementState).
		Msg("settlement failed, flagging for reconciliation")

	if err := s.sales.UpdateSettlement(ctx, sale.ID, sale.SettlementState, sale.Status, sale.SettlementAttempts); err != nil {
		s.log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("could not flag sale for reconciliation")
	}
	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, QueueReconcile, ReconcileJob{SaleID: sale.ID}); err != nil {
			// The retry cron sweeps flagged sales, so a lost enqueue only
			// delays the resume.
			s.log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("could not enqueue reconcile job")
		}
	}
}

func (s *CheckoutService) renderReceipt(sale *model.Sale, cfg *model.Settings) string {
	if s.receipts == nil {
		return ""
	}
	path, err := s.receipts.Render(sale, cfg)
	if err != nil {
		s.log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("could not render receipt")
		return ""
	}
	return path
}

// Find returns a sale with its items and cashier.
func (s *CheckoutService) Find(ctx context.Context, saleID uuid.UUID) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSaleNotFound
	}
	return sale, err
}

// List returns sales matching the filter with the total match count.
func (s *CheckoutService) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	return s.sales.List(ctx, filter)
}
