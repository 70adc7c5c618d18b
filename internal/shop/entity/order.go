package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shared status enumeration for orders and jobs.
const (
	OrderStatusPending      = "PENDING"
	OrderStatusInProgress   = "IN_PROGRESS"
	OrderStatusInProduction = "IN_PRODUCTION"
	OrderStatusFinished     = "FINISHED"
	OrderStatusDelivered    = "DELIVERED"
	OrderStatusCancelled    = "CANCELLED"
)

// OrderStatuses lists every valid order/job status.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusInProduction,
	OrderStatusFinished,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a member of the shared enumeration.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is a material-based customer transaction ("pedido"). TotalPrice is a
// cached derived value: quantity × unit price × (1 − discount/100), refreshed
// on every save. Every order carries exactly one Production record.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	Code          string          `json:"code" gorm:"size:50;not null;uniqueIndex"`
	ClientID      string          `json:"client_id" gorm:"size:36;not null;index"`
	MaterialID    string          `json:"material_id" gorm:"size:36;index"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Description   string          `json:"description" gorm:"type:text;not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	DiscountPct   decimal.Decimal `json:"discount_pct" gorm:"type:decimal(5,2);default:0"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status        string          `json:"status" gorm:"size:20;not null;default:PENDING"`
	EstimatedDate *time.Time      `json:"estimated_date"`
	DeliveredDate *time.Time      `json:"delivered_date"`
	CreatedBy     string          `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time       `json:"created_at" gorm:"<-:create"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at" gorm:"index"`

	Client     *Client     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Material   *Material   `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
	Production *Production `json:"production,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "shop_orders"
}

// Job is the product-based twin of Order ("trabajo"): same pricing, statuses
// and client accounting, but priced against a catalog product and with no
// production record.
type Job struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	Code          string          `json:"code" gorm:"size:50;not null;uniqueIndex"`
	ClientID      string          `json:"client_id" gorm:"size:36;not null;index"`
	ProductID     string          `json:"product_id" gorm:"size:36;index"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Description   string          `json:"description" gorm:"type:text;not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	DiscountPct   decimal.Decimal `json:"discount_pct" gorm:"type:decimal(5,2);default:0"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Status        string          `json:"status" gorm:"size:20;not null;default:PENDING"`
	EstimatedDate *time.Time      `json:"estimated_date"`
	DeliveredDate *time.Time      `json:"delivered_date"`
	CreatedBy     string          `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time       `json:"created_at" gorm:"<-:create"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at" gorm:"index"`

	Client  *Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Job) TableName() string {
	return "shop_jobs"
}
