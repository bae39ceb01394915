// Package cart implements the in-memory cart and the pricing engine.
// A Cart belongs to exactly one checkout flow: it is not safe for concurrent
// mutation and is discarded on settlement or abandonment. Nothing in this
// package touches storage.
package cart

import (
	"errors"
	"fmt"

	"dukapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrProductNoStock  = errors.New("product is out of stock")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Line is one cart row. UnitPrice defaults to the catalog price and may be
// overridden (negotiated/wholesale pricing); Discount is a per-line amount
// subtracted from the line's subtotal.
type Line struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Name      string
	BasePrice decimal.Decimal
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal

	// stock observed at the time of add; the clamp ceiling for quantities
	stock int
}

// Subtotal returns unitPrice × qty − lineDiscount for this line.
func (l *Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(l.Discount)
}

// Cart is an ordered, ephemeral collection of lines.
type Cart struct {
	lines []*Line
	// allowBelowBase controls whether SetUnitPrice may go under the catalog
	// price (store policy, see Settings.AllowPriceBelowBase).
	allowBelowBase bool
}

// New returns an empty cart. allowBelowBase sets the price-override policy.
func New(allowBelowBase bool) *Cart {
	return &Cart{allowBelowBase: allowBelowBase}
}

// Add appends qty units of the product, merging into an existing line for the
// same product. The accepted quantity is clamped to the product's current
// stock, never silently exceeded: the returned line reports what was accepted.
func (c *Cart) Add(p *model.Product, qty int) (*Line, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	if p.StockQuantity <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNoStock, p.Name)
	}

	for _, l := range c.lines {
		if l.ProductID == p.ID {
			l.Quantity = clamp(l.Quantity+qty, l.stock)
			return l, nil
		}
	}

	l := &Line{
		ID:        uuid.New(),
		ProductID: p.ID,
		Name:      p.Name,
		BasePrice: p.Price,
		UnitPrice: p.Price,
		Quantity:  clamp(qty, p.StockQuantity),
		Discount:  decimal.Zero,
		stock:     p.StockQuantity,
	}
	c.lines = append(c.lines, l)
	return l, nil
}

// SetQuantity replaces a line's quantity, clamped to the product's stock.
func (c *Cart) SetQuantity(lineID uuid.UUID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	l := c.find(lineID)
	if l == nil {
		return ErrLineNotFound
	}
	l.Quantity = clamp(qty, l.stock)
	return nil
}

// SetUnitPrice overrides the charged price for a line. When the store policy
// disallows selling below the catalog price, the override is floored at the
// line's base price.
func (c *Cart) SetUnitPrice(lineID uuid.UUID, price decimal.Decimal) error {
	l := c.find(lineID)
	if l == nil {
		return ErrLineNotFound
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	if !c.allowBelowBase && price.LessThan(l.BasePrice) {
		price = l.BasePrice
	}
	l.UnitPrice = price
	return nil
}

// SetDiscount sets a per-line discount amount.
func (c *Cart) SetDiscount(lineID uuid.UUID, amount decimal.Decimal) error {
	l := c.find(lineID)
	if l == nil {
		return ErrLineNotFound
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	l.Discount = amount
	return nil
}

// Remove deletes a line.
func (c *Cart) Remove(lineID uuid.UUID) error {
	for i, l := range c.lines {
		if l.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []*Line { return c.lines }

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) find(lineID uuid.UUID) *Line {
	for _, l := range c.lines {
		if l.ID == lineID {
			return l
		}
	}
	return nil
}

func clamp(qty, stock int) int {
	if qty > stock {
		return stock
	}
	return qty
}
