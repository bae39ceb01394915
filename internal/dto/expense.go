package dto

import "github.com/shopspring/decimal"

type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,dgt=0"`
	Category    string          `json:"category" validate:"required,min=2,max=80"`
	Description string          `json:"description" validate:"omitempty,max=255"`
}
