package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dukapos/internal/dto"
	"dukapos/internal/model"
	"dukapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVoidFixture(t *testing.T, products ...*model.Product) (*service.VoidService, *checkoutFixture) {
	t.Helper()
	f := newCheckoutFixture(t, products...)
	voids := service.NewVoidService(f.sales, f.products, f.movements, f.shiftSvc, testLogger())
	return voids, f
}

func TestVoidRestoresStockAndRecomputes(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	voids, f := newVoidFixture(t, soda)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 3)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	require.Equal(t, 2, f.products.stock(soda.ID))

	require.NoError(t, voids.Void(ctx, resp.SaleID))

	// Exact restore, with an inverse ledger entry.
	assert.Equal(t, 5, f.products.stock(soda.ID))
	restores := f.movements.ofType(model.MovementVoidRestore)
	require.Len(t, restores, 1)
	assert.Equal(t, 3, restores[0].Quantity)
	assert.Equal(t, 2, restores[0].StockBefore)
	assert.Equal(t, 5, restores[0].StockAfter)

	// Sale and items are gone; the shift no longer counts it.
	_, err = f.svc.Find(ctx, resp.SaleID)
	assert.ErrorIs(t, err, service.ErrSaleNotFound)

	shift, err := f.shiftSvc.Current(ctx)
	require.NoError(t, err)
	decEq(t, "0", shift.TotalSales)
	decEq(t, "0", shift.TotalCash)
}

func TestVoidOnClosedShiftKeepsItClosed(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	voids, f := newVoidFixture(t, soda)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	shift, err := f.shiftSvc.Current(ctx)
	require.NoError(t, err)
	closed, err := f.shiftSvc.Close(ctx, shift.ID)
	require.NoError(t, err)
	decEq(t, "100", closed.TotalSales)

	require.NoError(t, voids.Void(ctx, resp.SaleID))

	after, err := f.shifts.FindByID(ctx, shift.ID)
	require.NoError(t, err)
	assert.True(t, after.Closed)
	decEq(t, "0", after.TotalSales)
	decEq(t, "0", after.TotalCOGS)
}

func TestVoidSkipsDeletedProduct(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	chai := &model.Product{Name: "Chai", Price: dec("20"), CostPrice: dec("10"), StockQuantity: 5}
	voids, f := newVoidFixture(t, soda, chai)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 1), line(chai, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// Soda disappears from the catalog before the void.
	require.NoError(t, f.products.Delete(ctx, soda.ID))

	require.NoError(t, voids.Void(ctx, resp.SaleID))

	// Chai was restored; the missing product did not abort the void.
	assert.Equal(t, 5, f.products.stock(chai.ID))
	restores := f.movements.ofType(model.MovementVoidRestore)
	require.Len(t, restores, 1)
	assert.Equal(t, chai.ID, restores[0].ProductID)

	_, err = f.svc.Find(ctx, resp.SaleID)
	assert.ErrorIs(t, err, service.ErrSaleNotFound)
}

func TestVoidFlaggedSaleRestoresNothing(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 5}
	voids, f := newVoidFixture(t, soda)
	ctx := context.Background()

	// Every decrement attempt fails: the sale ends up flagged with its items
	// written but no stock taken.
	f.products.failDecr = errors.New("connection reset")
	resp, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	require.Equal(t, model.SaleNeedsReconciliation, resp.Status)
	require.Equal(t, 5, f.products.stock(soda.ID))

	require.NoError(t, voids.Void(ctx, resp.SaleID))

	// The ledger shows no decrement for this sale, so nothing comes back.
	assert.Equal(t, 5, f.products.stock(soda.ID))
	assert.Empty(t, f.movements.ofType(model.MovementVoidRestore))

	_, err = f.svc.Find(ctx, resp.SaleID)
	assert.ErrorIs(t, err, service.ErrSaleNotFound)
}

func TestVoidClampedSaleRestoresAppliedAmount(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 0}
	voids, f := newVoidFixture(t, soda)
	ctx := context.Background()

	shift, err := f.shiftSvc.Open(ctx, f.cashier)
	require.NoError(t, err)

	// A settled sale whose decrement clamped: 10 sold, only 3 were in stock,
	// so the ledger recorded an applied amount of 3.
	sale := &model.Sale{
		SaleDate:        time.Now(),
		TotalAmount:     dec("500"),
		PaymentMethod:   model.PaymentCash,
		CashierID:       f.cashier,
		ShiftID:         shift.ID,
		Status:          model.SaleCompleted,
		SettlementState: model.SettlementDone,
	}
	require.NoError(t, f.sales.Create(ctx, sale))
	require.NoError(t, f.sales.CreateItems(ctx, []model.SaleItem{{
		SaleID:     sale.ID,
		ProductID:  soda.ID,
		Quantity:   10,
		UnitPrice:  dec("50"),
		TotalPrice: dec("500"),
	}}))
	saleID := sale.ID
	require.NoError(t, f.movements.Create(ctx, &model.StockMovement{
		ProductID:   soda.ID,
		Type:        model.MovementSale,
		Quantity:    -3,
		StockBefore: 3,
		StockAfter:  0,
		ReferenceID: &saleID,
	}))

	require.NoError(t, voids.Void(ctx, saleID))

	// Stock returns to 3, not 10: the restore follows the applied amount the
	// ledger recorded, not the line quantity.
	assert.Equal(t, 3, f.products.stock(soda.ID))
	restores := f.movements.ofType(model.MovementVoidRestore)
	require.Len(t, restores, 1)
	assert.Equal(t, 3, restores[0].Quantity)
}

func TestVoidUnknownSale(t *testing.T) {
	voids, _ := newVoidFixture(t)
	err := voids.Void(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrSaleNotFound)
}

func TestVoidThenCloseMatchesRemainingSales(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 10}
	voids, f := newVoidFixture(t, soda)
	ctx := context.Background()

	first, err := f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 2)},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	_, err = f.svc.Checkout(ctx, f.cashier, dto.CheckoutRequest{
		Lines:         []dto.CheckoutLine{line(soda, 1)},
		PaymentMethod: model.PaymentMpesa,
	})
	require.NoError(t, err)

	require.NoError(t, voids.Void(ctx, first.SaleID))

	shift, err := f.shiftSvc.Current(ctx)
	require.NoError(t, err)
	closed, err := f.shiftSvc.Close(ctx, shift.ID)
	require.NoError(t, err)

	decEq(t, "50", closed.TotalSales)
	decEq(t, "0", closed.TotalCash)
	decEq(t, "50", closed.TotalMpesa)
	decEq(t, "30", closed.TotalCOGS)

}
