package entity

import (
	"time"
)

// Supplier is a vendor that materials are purchased from. A supplier with
// purchases on file cannot be deleted.
type Supplier struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	ContactName string     `json:"contact_name" gorm:"size:255"`
	Phone       string     `json:"phone" gorm:"size:20"`
	Email       string     `json:"email" gorm:"size:255"`
	Address     string     `json:"address" gorm:"size:255"`
	Active      bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

func (Supplier) TableName() string {
	return "shop_suppliers"
}
