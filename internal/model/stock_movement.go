package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementSale         = "sale"
	MovementVoidRestore  = "void_restore"
	MovementManualAdjust = "manual_adjust"
)

// StockMovement records every stock change on a product. Movements are never
// modified or deleted; reversals create inverse entries.
//
// The ledger serves two purposes beyond audit: a clamped decrement (requested
// quantity exceeded available stock) is visible as |Quantity| < requested, and
// the settlement resume path uses the presence of a "sale" movement for a
// given sale/product pair to skip already-applied decrements.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	// ReferenceID links to the originating Sale, if any.
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	Note        string
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
