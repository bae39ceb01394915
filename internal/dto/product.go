package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name          string          `json:"name" validate:"required,min=2,max=150"`
	Category      string          `json:"category" validate:"required,min=2,max=80"`
	Price         decimal.Decimal `json:"price" validate:"required,dgte=0"`
	CostPrice     decimal.Decimal `json:"cost_price" validate:"required,dgte=0"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	ReorderLevel  int             `json:"reorder_level" validate:"gte=0"`
	SupplierID    *uuid.UUID      `json:"supplier_id" validate:"omitempty"`
}

type ProductUpdateRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=2,max=150"`
	Category     *string          `json:"category" validate:"omitempty,min=2,max=80"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,dgte=0"`
	CostPrice    *decimal.Decimal `json:"cost_price" validate:"omitempty,dgte=0"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,gte=0"`
	SupplierID   *uuid.UUID       `json:"supplier_id" validate:"omitempty"`
}

// StockAdjustRequest applies a signed manual correction to stock on hand.
type StockAdjustRequest struct {
	Delta int    `json:"delta" validate:"required,ne=0"`
	Note  string `json:"note" validate:"required,min=3,max=255"`
}

type ProductFilter struct {
	Name       string `form:"name"`
	Category   string `form:"category"`
	SupplierID string `form:"supplier_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1" validate:"gte=1"`
	Limit      int    `form:"limit,default=20" validate:"gte=1,lte=100"`
}

type StockMovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type" validate:"omitempty,oneof=sale void_restore manual_adjust"`
	Page      int    `form:"page,default=1" validate:"gte=1"`
	Limit     int    `form:"limit,default=20" validate:"gte=1,lte=100"`
}
