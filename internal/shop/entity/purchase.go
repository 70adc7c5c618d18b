package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase status flow: PENDING → ORDERED → RECEIVED, or CANCELLED.
const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusOrdered   = "ORDERED"
	PurchaseStatusReceived  = "RECEIVED"
	PurchaseStatusCancelled = "CANCELLED"
)

// Purchase is a procurement order against a supplier for one material.
// TotalCost is recomputed on every save. StockApplied guards the inbound
// stock movement posted on the first transition to RECEIVED so a re-save
// can never double-apply it.
type Purchase struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	Code          string          `json:"code" gorm:"size:50;not null;uniqueIndex"`
	SupplierID    string          `json:"supplier_id" gorm:"size:36;not null;index"`
	MaterialID    string          `json:"material_id" gorm:"size:36;not null;index"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	UnitCost      decimal.Decimal `json:"unit_cost" gorm:"type:decimal(10,2);not null"`
	TotalCost     decimal.Decimal `json:"total_cost" gorm:"type:decimal(10,2);not null"`
	Status        string          `json:"status" gorm:"size:20;not null;default:PENDING"`
	EstimatedDate *time.Time      `json:"estimated_date"`
	ReceivedDate  *time.Time      `json:"received_date"`
	StockApplied  bool            `json:"stock_applied" gorm:"not null;default:false"`
	Notes         string          `json:"notes" gorm:"type:text"`
	CreatedBy     string          `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at" gorm:"index"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (Purchase) TableName() string {
	return "shop_purchases"
}
