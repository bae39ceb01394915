package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a vendor the business buys stock from.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Contact   *string
	Email     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierPayment is an immutable entry in a supplier's ledger.
// Type "debit" = money paid out to the supplier, "credit" = goods taken on credit.
type SupplierPayment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	PaymentType string          `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentDate time.Time       `gorm:"type:date;not null"`
	Notes       *string
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
