package entity

import (
	"time"
)

// Client is the print shop's customer record. CompletedCount mirrors the
// number of delivered orders plus delivered jobs and is recomputed by the sales
// core on every save/delete; IsFrequent is derived from it against the
// configured threshold.
type Client struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	Name           string     `json:"name" gorm:"size:255;not null"`
	TaxID          string     `json:"tax_id" gorm:"size:20"` // NIT/CI
	Phone          string     `json:"phone" gorm:"size:20"`
	Email          string     `json:"email" gorm:"size:255"`
	Address        string     `json:"address" gorm:"size:255"`
	IsFrequent     bool       `json:"is_frequent" gorm:"not null;default:false"`
	CompletedCount int        `json:"completed_count" gorm:"not null;default:0"`
	RegisteredAt   time.Time  `json:"registered_at" gorm:"<-:create"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at" gorm:"index"`
}

func (Client) TableName() string {
	return "shop_clients"
}
