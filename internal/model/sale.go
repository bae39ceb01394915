package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment method labels. Payment is a label only, no gateway integration.
const (
	PaymentCash  = "cash"
	PaymentCard  = "card"
	PaymentMpesa = "mpesa"
)

// Sale statuses.
const (
	SaleCompleted           = "completed"
	SaleNeedsReconciliation = "needs_reconciliation"
)

// Settlement states: the persisted checkpoint of the settlement state
// machine. The record store gives no multi-table atomicity, so each step is
// recorded as it lands; a crashed or failed settlement resumes from here.
// created → items_written → stock_adjusted → shift_updated → done
const (
	SettlementCreated       = "created"
	SettlementItemsWritten  = "items_written"
	SettlementStockAdjusted = "stock_adjusted"
	SettlementShiftUpdated  = "shift_updated"
	SettlementDone          = "done"
)

// Sale is the durable record produced by settling a cart. Created together
// with its SaleItems; hard-deleted (with its items) by a void.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleDate       time.Time       `gorm:"index;not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TotalAmount is the net total: post-tax, post-discount, floored at zero.
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	CashierID     uuid.UUID       `gorm:"type:uuid;not null"`
	ShiftID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status        string          `gorm:"type:varchar(30);not null;default:'completed'"`
	// SettlementState tracks how far the multi-step settlement got.
	SettlementState    string `gorm:"type:varchar(20);not null;default:'created'"`
	SettlementAttempts int    `gorm:"not null;default:0"`
	CreatedAt          time.Time

	Items   []SaleItem `gorm:"foreignKey:SaleID"`
	Cashier *User      `gorm:"foreignKey:CashierID"`
}

// SaleItem is one settled cart line. UnitPrice is the price actually charged,
// which may differ from the catalog price. Immutable once created; always
// deleted together with its parent Sale.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
