package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Production status flow: NOT_STARTED → IN_PROGRESS → PAUSED/FINISHED;
// PAUSED re-enters IN_PROGRESS through Start.
const (
	ProductionNotStarted = "NOT_STARTED"
	ProductionInProgress = "IN_PROGRESS"
	ProductionPaused     = "PAUSED"
	ProductionFinished   = "FINISHED"
)

// Production is the fulfillment-tracking record attached one-to-one to an
// order. ActualHours is wall-clock time between start and finish, rounded to
// two decimals; it stays unset when production finishes without ever starting.
type Production struct {
	ID             string           `json:"id" gorm:"primaryKey;size:36"`
	OrderID        string           `json:"order_id" gorm:"size:36;not null;uniqueIndex"`
	Status         string           `json:"status" gorm:"size:20;not null;default:NOT_STARTED"`
	EmployeeID     string           `json:"employee_id" gorm:"size:64"`
	EstimatedHours decimal.Decimal  `json:"estimated_hours" gorm:"type:decimal(5,2);default:0"`
	ActualHours    *decimal.Decimal `json:"actual_hours" gorm:"type:decimal(5,2)"`
	StartedAt      *time.Time       `json:"started_at"`
	FinishedAt     *time.Time       `json:"finished_at"`
	Notes          string           `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

func (Production) TableName() string {
	return "shop_productions"
}
