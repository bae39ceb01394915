package dto

import "github.com/shopspring/decimal"

type SettingsUpdateRequest struct {
	StoreName           *string          `json:"store_name" validate:"omitempty,min=2,max=150"`
	TaxRate             *decimal.Decimal `json:"tax_rate" validate:"omitempty,dgte=0,dlte=100"`
	Currency            *string          `json:"currency" validate:"omitempty,len=3"`
	ReceiptPhone        *string          `json:"receipt_phone" validate:"omitempty,max=30"`
	ReceiptAddress      *string          `json:"receipt_address" validate:"omitempty,max=255"`
	ReceiptHeader       *string          `json:"receipt_header" validate:"omitempty,max=255"`
	ReceiptFooter       *string          `json:"receipt_footer" validate:"omitempty,max=255"`
	ShiftAutoRotate     *bool            `json:"shift_auto_rotate"`
	AllowPriceBelowBase *bool            `json:"allow_price_below_base"`
}
