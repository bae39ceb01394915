package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dukapos/internal/cart"
	"dukapos/internal/dto"
	"dukapos/internal/model"
	"dukapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc       *service.CheckoutService
	shiftSvc  *service.ShiftService
	shifts    *stubShifts
	sales     *stubSales
	products  *stubProducts
	movements *stubMovements
	expenses  *stubExpenses
	settings  *stubSettings
	queue     *stubQueue
	cashier   uuid.UUID
}

func newCheckoutFixture(t *testing.T, products ...*model.Product) *checkoutFixture {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	stubProds := newStubProducts(products...)
	f := &checkoutFixture{
		shifts:    newStubShifts(),
		sales:     newStubSales(stubProds),
		products:  stubProds,
		movements: newStubMovements(),
		expenses:  newStubExpenses(),
		settings:  newStubSettings(),
		queue:     newStubQueue(),
		cashier:   uuid.New(),
	}
	f.shiftSvc = service.NewShiftService(f.shifts, f.sales, f.expenses, f.settings, f.queue, loc, testLogger())
	f.svc = service.NewCheckoutService(
		f.sales, f.products, f.movements, f.settings, f.shiftSvc,
		f.queue, nil, 3, testLogger())
	return f
}

func line(p *model.Product, qty int) dto.CheckoutLine {
	return dto.CheckoutLine{ProductID: p.ID, Quantity: qty}
}

func TestCheckoutCashSale(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 2}
	f := newCheckoutFixture(t, soda)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SaleCompleted, resp.Status)
	decEq(t, "100", resp.Subtotal)
	decEq(t, "0", resp.TaxAmount)
	decEq(t, "100", resp.TotalAmount)

	// Stock drained to zero with a single ledgered sale movement.
	assert.Equal(t, 0, f.products.stock(soda.ID))
	saleMoves := f.movements.ofType(model.MovementSale)
	require.Len(t, saleMoves, 1)
	assert.Equal(t, -2, saleMoves[0].Quantity)
	assert.Equal(t, 2, saleMoves[0].StockBefore)
	assert.Equal(t, 0, saleMoves[0].StockAfter)

	// Shift totals took the fast path.
	shift, err := f.shiftSvc.Current(ctx)
	require.NoError(t, err)
	decEq(t, "100", shift.TotalSales)
	decEq(t, "100", shift.TotalCash)

	sale, err := f.svc.Find(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, model.SettlementDone, sale.SettlementState)
	require.Len(t, sale.Items, 1)
}

func TestCheckoutWithTaxAndDiscount(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("500"), CostPrice: dec("300"), StockQuantity: 10}
	f := newCheckoutFixture(t, soda)
	f.settings.cfg.TaxRate = dec("10")
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentMpesa,
		Discount:      &dto.DiscountPayload{Type: cart.DiscountFixed, Value: dec("200")},
	})
	require.NoError(t, err)

	decEq(t, "1000", resp.Subtotal)
	decEq(t, "100", resp.TaxAmount)
	decEq(t, "200", resp.Discount)
	decEq(t, "900", resp.TotalAmount)
}

func TestCheckoutPriceOverride(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 10}
	f := newCheckoutFixture(t, soda)
	ctx := context.Background()

	override := dec("45")
	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines: []dto.CheckoutLine{{
			ProductID: soda.ID, Quantity: 2, UnitPrice: &override,
		}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	decEq(t, "90", resp.TotalAmount)
}

func TestCheckoutPriceOverrideFlooredByPolicy(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 10}
	f := newCheckoutFixture(t, soda)
	f.settings.cfg.AllowPriceBelowBase = false
	ctx := context.Background()

	override := dec("45")
	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines: []dto.CheckoutLine{{
			ProductID: soda.ID, Quantity: 2, UnitPrice: &override,
		}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	decEq(t, "100", resp.TotalAmount)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.cashier, dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, service.ErrEmptyCart)

	// Nothing was persisted and no shift was opened.
	sales, _, _ := f.sales.List(context.Background(), dto.SaleFilter{})
	assert.Empty(t, sales)
	_, err = f.shiftSvc.Current(context.Background())
	assert.ErrorIs(t, err, service.ErrNoOpenShift)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestCheckoutOutOfStockProduct(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 0}
	f := newCheckoutFixture(t, soda)

	_, err := f.svc.Checkout(context.Background(), f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 1)},
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, cart.ErrProductNoStock)
}

func TestCheckoutClampsOversell(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 3}
	f := newCheckoutFixture(t, soda)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 10)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// The cart clamps the accepted quantity to observed stock.
	decEq(t, "150", resp.TotalAmount)
	assert.Equal(t, 0, f.products.stock(soda.ID))
}

func TestCheckoutItemWriteFailureAbortsSale(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	f := newCheckoutFixture(t, soda)
	f.sales.failCreateItems = errors.New("disk full")
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 1)},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)

	// The sale record was rolled back and stock untouched.
	sales, _, _ := f.sales.List(ctx, dto.SaleFilter{})
	assert.Empty(t, sales)
	assert.Equal(t, 5, f.products.stock(soda.ID))
}

func TestCheckoutStockFailureFlagsReconciliation(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	f := newCheckoutFixture(t, soda)
	f.products.failDecr = errors.New("connection reset")
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleNeedsReconciliation, resp.Status)

	// Bounded retries were spent before giving up.
	assert.Equal(t, 3, f.products.decrRuns)

	sale, err := f.svc.Find(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleNeedsReconciliation, sale.Status)
	assert.Equal(t, model.SettlementItemsWritten, sale.SettlementState)

	jobs := f.queue.onQueue(service.QueueReconcile)
	require.Len(t, jobs, 1)
	assert.Equal(t, service.ReconcileJob{SaleID: resp.SaleID}, jobs[0].payload)

	// The flagged sale does not count toward shift totals.
	shift, err := f.shiftSvc.Current(ctx)
	require.NoError(t, err)
	decEq(t, "0", shift.TotalSales)
}

func TestResumeCompletesFlaggedSale(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	f := newCheckoutFixture(t, soda)
	f.products.failDecr = errors.New("connection reset")
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	require.Equal(t, model.SaleNeedsReconciliation, resp.Status)

	// The store recovers; the worker resumes from the checkpoint.
	f.products.failDecr = nil
	require.NoError(t, f.svc.Resume(ctx, resp.SaleID))

	sale, err := f.svc.Find(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, model.SettlementDone, sale.SettlementState)

	assert.Equal(t, 3, f.products.stock(soda.ID))
	require.Len(t, f.movements.ofType(model.MovementSale), 1)

	// Resume recomputes the shift instead of incrementing it.
	shift, err := f.shiftSvc.Current(ctx)
	require.NoError(t, err)
	decEq(t, "100", shift.TotalSales)
	decEq(t, "100", shift.TotalCash)
}

func TestResumeSkipsAlreadyAppliedDecrements(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	f := newCheckoutFixture(t, soda)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// Force the settled sale back a step, as if the stock_adjusted
	// checkpoint was written but the crash hit before shift_updated.
	require.NoError(t, f.sales.UpdateSettlement(ctx, resp.SaleID,
		model.SettlementItemsWritten, model.SaleNeedsReconciliation, 1))

	require.NoError(t, f.svc.Resume(ctx, resp.SaleID))

	// The ledger entry from the first attempt kept the decrement from
	// running twice.
	assert.Equal(t, 3, f.products.stock(soda.ID))
	assert.Len(t, f.movements.ofType(model.MovementSale), 1)

	sale, err := f.svc.Find(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, model.SettlementDone, sale.SettlementState)
	assert.Equal(t, model.SaleCompleted, sale.Status)

	shift, err := f.shiftSvc.Current(ctx)
	require.NoError(t, err)
	decEq(t, "100", shift.TotalSales)
}

func TestResumeUnknownSaleIsNoop(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.NoError(t, f.svc.Resume(context.Background(), uuid.New()))
}

func TestCheckoutReceiptEmailQueued(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	f := newCheckoutFixture(t, soda)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 1)},
		PaymentMethod: model.PaymentCash,
		CustomerEmail: "customer@example.com",
	})
	require.NoError(t, err)

	jobs := f.queue.onQueue(service.QueueEmail)
	require.Len(t, jobs, 1)
	job, ok := jobs[0].payload.(service.EmailJob)
	require.True(t, ok)
	assert.Equal(t, service.EmailReceipt, job.Type)
	assert.Equal(t, resp.SaleID, job.SaleID)
	assert.Equal(t, "customer@example.com", job.To)
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 10}
	f := newCheckoutFixture(t, soda)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2), line(soda, 3)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	decEq(t, "250", resp.TotalAmount)
	sale, err := f.svc.Find(ctx, resp.SaleID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 5, sale.Items[0].Quantity)
}
