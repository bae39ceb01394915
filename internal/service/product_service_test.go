package service_test

import (
	"context"
	"testing"

	"dukapos/internal/dto"
	"dukapos/internal/model"
	"dukapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture(t *testing.T, products ...*model.Product) (*service.ProductService, *stubProducts, *stubMovements) {
	t.Helper()
	prods := newStubProducts(products...)
	moves := newStubMovements()
	return service.NewProductService(prods, moves, testLogger()), prods, moves
}

func TestProductCreateAndFind(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, dto.ProductRequest{
		Name: "Unga 2kg", Category: "flour",
		Price: dec("185"), CostPrice: dec("160"),
		StockQuantity: 40, ReorderLevel: 10,
	})
	require.NoError(t, err)

	found, err := svc.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unga 2kg", found.Name)
	decEq(t, "185", found.Price)
}

func TestProductFindUnknown(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	_, err := svc.Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestManualStockAdjustWritesLedger(t *testing.T) {
	soda := &model.Product{Name: "Soda", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 10}
	svc, prods, moves := newProductFixture(t, soda)
	ctx := context.Background()

	p, err := svc.AdjustStock(ctx, soda.ID, dto.StockAdjustRequest{Delta: -4, Note: "breakage"})
	require.NoError(t, err)
	assert.Equal(t, 6, p.StockQuantity)
	assert.Equal(t, 6, prods.stock(soda.ID))

	entries := moves.ofType(model.MovementManualAdjust)
	require.Len(t, entries, 1)
	assert.Equal(t, -4, entries[0].Quantity)
	assert.Equal(t, 10, entries[0].StockBefore)
	assert.Equal(t, 6, entries[0].StockAfter)
	assert.Equal(t, "breakage", entries[0].Note)
	assert.Nil(t, entries[0].ReferenceID)
}

func TestManualStockAdjustUnknownProduct(t *testing.T) {
	svc, _, _ := newProductFixture(t)
	_, err := svc.AdjustStock(context.Background(), uuid.New(), dto.StockAdjustRequest{Delta: 1, Note: "recount"})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProductPartialUpdate(t *testing.T) {
	soda := &model.Product{Name: "Soda", Category: "drinks", Price: dec("50"), CostPrice: dec("30"), StockQuantity: 10}
	svc, _, _ := newProductFixture(t, soda)
	ctx := context.Background()

	newPrice := dec("55")
	updated, err := svc.Update(ctx, soda.ID, dto.ProductUpdateRequest{Price: &newPrice})
	require.NoError(t, err)

	decEq(t, "55", updated.Price)
	assert.Equal(t, "Soda", updated.Name)
	assert.Equal(t, "drinks", updated.Category)
	decEq(t, "30", updated.CostPrice)
}

func TestLowStockList(t *testing.T) {
	ok := &model.Product{Name: "A", Price: dec("10"), CostPrice: dec("5"), StockQuantity: 50, ReorderLevel: 5}
	low := &model.Product{Name: "B", Price: dec("10"), CostPrice: dec("5"), StockQuantity: 3, ReorderLevel: 5}
	svc, _, _ := newProductFixture(t, ok, low)

	got, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Name)
}
