package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift is a bounded terminal session accumulating sales totals.
// Invariant: at most one Shift with closed = false exists at any time; a
// partial unique index on shifts (WHERE NOT closed) enforces it in the store.
//
// The per-channel totals are optimistic running counters maintained by
// ShiftService.ApplySale; Close and Recompute overwrite them with an
// authoritative aggregation of the shift's surviving sales.
type Shift struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null"`
	StartTime time.Time  `gorm:"index;not null"`
	EndTime   *time.Time

	TotalSales    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalCash     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalCard     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalMpesa    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalExpenses decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalCOGS     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	Closed    bool `gorm:"not null;default:false;index"`
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID"`
}
