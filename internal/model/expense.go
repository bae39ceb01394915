package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is an out-of-pocket cost recorded against the shift it occurred in.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category    string          `gorm:"not null"`
	Description *string
	Date        time.Time `gorm:"type:date;index;not null"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	ShiftID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time
}
