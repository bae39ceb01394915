package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutLine is one cart line as submitted by the till. UnitPrice, when
// present, overrides the catalog price subject to the pricing policy.
type CheckoutLine struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,gte=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,dgte=0"`
	Discount  *decimal.Decimal `json:"discount" validate:"omitempty,dgte=0"`
}

type DiscountPayload struct {
	Type  string          `json:"type" validate:"required,oneof=none percent fixed"`
	Value decimal.Decimal `json:"value" validate:"dgte=0"`
}

type CheckoutRequest struct {
	Lines         []CheckoutLine   `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cash card mpesa"`
	Discount      *DiscountPayload `json:"discount" validate:"omitempty"`
	CustomerEmail string           `json:"customer_email" validate:"omitempty,email"`
}

type CheckoutResponse struct {
	SaleID      uuid.UUID       `json:"sale_id"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Discount    decimal.Decimal `json:"discount_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
}

type SaleFilter struct {
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" validate:"omitempty,oneof=all completed needs_reconciliation"`
	Page   int    `form:"page,default=1" validate:"gte=1"`
	Limit  int    `form:"limit,default=20" validate:"gte=1,lte=100"`
}

// ShiftTotals is the authoritative re-aggregation of a shift from its sales.
type ShiftTotals struct {
	TotalSales decimal.Decimal `gorm:"column:total_sales"`
	TotalCash  decimal.Decimal `gorm:"column:total_cash"`
	TotalCard  decimal.Decimal `gorm:"column:total_card"`
	TotalMpesa decimal.Decimal `gorm:"column:total_mpesa"`
	TotalCOGS  decimal.Decimal `gorm:"-"`
}
