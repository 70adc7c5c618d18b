package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product types offered by the shop
const (
	ProductTypeCards     = "cards"     // business cards
	ProductTypeFlyers    = "flyers"
	ProductTypeBanners   = "banners"
	ProductTypeBrochures = "brochures"
	ProductTypeBooks     = "books"
	ProductTypeMagazines = "magazines"
	ProductTypeOther     = "other"
)

// Product is a finished catalog item; jobs are priced against it.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Type        string          `json:"type" gorm:"size:50;not null;default:other"`
	Description string          `json:"description" gorm:"type:text"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Active      bool            `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at" gorm:"index"`
}

func (Product) TableName() string {
	return "shop_products"
}
