package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings is the single-row store configuration.
type Settings struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreName string          `gorm:"not null;default:'Duka POS'"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Currency  string          `gorm:"type:varchar(10);not null;default:'KES'"`

	// Receipt template fields rendered on the PDF ticket.
	ReceiptPhone   *string
	ReceiptAddress *string
	ReceiptHeader  *string
	ReceiptFooter  *string

	// ShiftAutoRotate closes an open shift whose start date is not the current
	// business day and opens a fresh one before the next checkout.
	ShiftAutoRotate bool `gorm:"not null;default:true"`
	// AllowPriceBelowBase permits wholesale price overrides below the catalog
	// price; when false, overrides are floored at the catalog price.
	AllowPriceBelowBase bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the singular-row table out of GORM's pluralizer ("settings").
func (Settings) TableName() string { return "settings" }
