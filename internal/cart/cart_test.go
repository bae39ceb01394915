package cart_test

import (
	"testing"

	"dukapos/internal/cart"
	"dukapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name string, price float64, stock int) *model.Product {
	return &model.Product{
		ID:            uuid.New(),
		Name:          name,
		Category:      "Services",
		Price:         decimal.NewFromFloat(price),
		CostPrice:     decimal.NewFromFloat(price / 2),
		StockQuantity: stock,
		ReorderLevel:  5,
	}
}


// decEq asserts decimal equality by value, ignoring exponent representation.
func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestAddMergesAndClampsToStock(t *testing.T) {
	c := cart.New(true)
	p := product("Carpet Wash", 500, 3)

	l, err := c.Add(p, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Quantity)

	// Adding 5 more would exceed stock of 3; accepted quantity clamps.
	l, err = c.Add(p, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Quantity)
	assert.Len(t, c.Lines(), 1)
}

func TestAddOutOfStock(t *testing.T) {
	c := cart.New(true)
	p := product("Sofa Clean", 800, 0)

	_, err := c.Add(p, 1)
	assert.ErrorIs(t, err, cart.ErrProductNoStock)
	assert.True(t, c.Empty())
}

func TestSetQuantityClamps(t *testing.T) {
	c := cart.New(true)
	p := product("Duvet Wash", 350, 4)
	l, err := c.Add(p, 1)
	require.NoError(t, err)

	require.NoError(t, c.SetQuantity(l.ID, 10))
	assert.Equal(t, 4, l.Quantity)

	assert.ErrorIs(t, c.SetQuantity(l.ID, 0), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity(uuid.New(), 1), cart.ErrLineNotFound)
}

func TestSetUnitPricePolicy(t *testing.T) {
	// Policy off: overrides below the catalog price floor at the base price.
	c := cart.New(false)
	p := product("Laundry Bundle", 1000, 10)
	l, err := c.Add(p, 1)
	require.NoError(t, err)

	require.NoError(t, c.SetUnitPrice(l.ID, decimal.NewFromInt(700)))
	decEq(t, "1000", l.UnitPrice)

	// Policy on: negotiated price goes through as-is.
	c2 := cart.New(true)
	l2, err := c2.Add(p, 1)
	require.NoError(t, err)
	require.NoError(t, c2.SetUnitPrice(l2.ID, decimal.NewFromInt(700)))
	decEq(t, "700", l2.UnitPrice)
}

func TestRemove(t *testing.T) {
	c := cart.New(true)
	l, err := c.Add(product("Ironing", 100, 5), 1)
	require.NoError(t, err)

	require.NoError(t, c.Remove(l.ID))
	assert.True(t, c.Empty())
	assert.ErrorIs(t, c.Remove(l.ID), cart.ErrLineNotFound)
}

// ── Pricing scenarios ────────────────────────────────────────────────────────

// cart = [{price 500, qty 2}], tax 10%, no discount → subtotal 1000, tax 100, net 1100
func TestComputeTotals_TaxNoDiscount(t *testing.T) {
	c := cart.New(true)
	_, err := c.Add(product("P", 500, 10), 2)
	require.NoError(t, err)

	tot := c.ComputeTotals(decimal.NewFromInt(10), cart.Discount{})
	decEq(t, "1000", tot.Subtotal)
	decEq(t, "100", tot.TaxAmount)
	decEq(t, "1100", tot.Net)
}

// same cart, fixed discount 200 → net 900
func TestComputeTotals_FixedDiscount(t *testing.T) {
	c := cart.New(true)
	_, err := c.Add(product("P", 500, 10), 2)
	require.NoError(t, err)

	tot := c.ComputeTotals(decimal.NewFromInt(10), cart.Discount{
		Type: cart.DiscountFixed, Value: decimal.NewFromInt(200),
	})
	decEq(t, "200", tot.DiscountAmount)
	decEq(t, "900", tot.Net)
}

// same cart, percent discount 150% → net clamps to 0, not negative
func TestComputeTotals_DiscountFloor(t *testing.T) {
	c := cart.New(true)
	_, err := c.Add(product("P", 500, 10), 2)
	require.NoError(t, err)

	tot := c.ComputeTotals(decimal.NewFromInt(10), cart.Discount{
		Type: cart.DiscountPercent, Value: decimal.NewFromInt(150),
	})
	assert.False(t, tot.Net.IsNegative())
	decEq(t, "0", tot.Net)
}

func TestComputeTotals_LineDiscount(t *testing.T) {
	c := cart.New(true)
	l, err := c.Add(product("P", 500, 10), 2)
	require.NoError(t, err)
	require.NoError(t, c.SetDiscount(l.ID, decimal.NewFromInt(100)))

	tot := c.ComputeTotals(decimal.Zero, cart.Discount{})
	decEq(t, "900", tot.Subtotal)
	decEq(t, "900", tot.Net)
}

func TestComputeTotals_EmptyCartIsZero(t *testing.T) {
	c := cart.New(true)
	tot := c.ComputeTotals(decimal.NewFromInt(16), cart.Discount{})
	assert.True(t, tot.Net.IsZero())
}
