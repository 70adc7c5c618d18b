package entity

import (
	"time"
)

// StockMovement types
const (
	MovementIn     = "IN"     // inbound, adds to quantity
	MovementOut    = "OUT"    // outbound, subtracts from quantity
	MovementAdjust = "ADJUST" // absolute set, not a delta
)

// StockMovement is an immutable ledger entry against one material. Applying a
// movement is the only sanctioned way to change Material.Quantity.
type StockMovement struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	MaterialID   string    `json:"material_id" gorm:"size:36;not null;index"`
	Type         string    `json:"type" gorm:"size:20;not null"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	Reason       string    `json:"reason" gorm:"size:255;not null"`
	ProductionID *string   `json:"production_id" gorm:"size:36"`
	UserID       string    `json:"user_id" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "shop_stock_movements"
}
