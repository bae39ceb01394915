package dto

import "github.com/shopspring/decimal"

type SupplierRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=150"`
	Contact *string `json:"contact" validate:"omitempty,max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

// SupplierPaymentRequest records a ledger entry: "credit" when goods are
// taken on credit (grows the amount owed), "debit" when the store pays the
// supplier down.
type SupplierPaymentRequest struct {
	PaymentType string          `json:"payment_type" validate:"required,oneof=debit credit"`
	Amount      decimal.Decimal `json:"amount" validate:"required,dgt=0"`
	PaymentDate string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Notes       *string         `json:"notes" validate:"omitempty,max=255"`
}

type SupplierBalance struct {
	SupplierID string          `json:"supplier_id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
}
