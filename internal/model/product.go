package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. StockQuantity never goes below zero: the sale
// path clamps decrements and the database carries a CHECK constraint as the
// last line of defense (see infra.applySchemaPatches).
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"index;not null"`
	Category      string          `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	ReorderLevel  int             `gorm:"not null;default:5"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// LowStock reports whether the product has reached its reorder threshold.
func (p *Product) LowStock() bool { return p.StockQuantity <= p.ReorderLevel }
