package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material units of measure
const (
	UnitPiece = "unit"
	UnitKg    = "kg"
	UnitLiter = "liter"
	UnitReam  = "ream"
	UnitBox   = "box"
)

// Derived stock states
const (
	StockNormal = "normal"
	StockLow    = "low"
	StockOut    = "out_of_stock"
)

// Material is a raw stock item (paper, ink, ...) tracked by the inventory
// ledger. Quantity is only ever changed by applying a StockMovement.
type Material struct {
	ID           string          `json:"id" gorm:"primaryKey;size:36"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Quantity     int             `json:"quantity" gorm:"not null;default:0"`
	MinQuantity  int             `json:"min_quantity" gorm:"not null;default:10"`
	Unit         string          `json:"unit" gorm:"size:20;not null;default:unit"`
	SupplierName string          `json:"supplier_name" gorm:"size:255"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(10,2);default:0"`
	LastUpdated  time.Time       `json:"last_updated"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at" gorm:"index"`
}

func (Material) TableName() string {
	return "shop_materials"
}

// NeedsRestock reports whether the quantity has fallen to the minimum.
func (m *Material) NeedsRestock() bool {
	return m.Quantity <= m.MinQuantity
}

// StockStatus derives the display state from the current quantity.
func (m *Material) StockStatus() string {
	if m.Quantity <= 0 {
		return StockOut
	}
	if m.NeedsRestock() {
		return StockLow
	}
	return StockNormal
}
