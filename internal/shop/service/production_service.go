package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
)

// ProductionService drives the fulfillment state machine attached to orders.
// Production records are never created here; they come into existence with
// their order.
type ProductionService struct {
	productionRepo *repository.ProductionRepository
	db             *gorm.DB
}

func NewProductionService(pr *repository.ProductionRepository, db *gorm.DB) *ProductionService {
	return &ProductionService{productionRepo: pr, db: db}
}

func (s *ProductionService) Get(id string) (*entity.Production, error) {
	production, err := s.productionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("production %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get production: %w", err)
	}
	return production, nil
}

func (s *ProductionService) GetByOrder(orderID string) (*entity.Production, error) {
	production, err := s.productionRepo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("production for order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get production: %w", err)
	}
	return production, nil
}

func (s *ProductionService) List(params repository.ProductionListParams) ([]entity.Production, int64, error) {
	return s.productionRepo.List(params)
}

// Start begins (or resumes) work. Allowed from NOT_STARTED and PAUSED; the
// start timestamp is reset either way, so actual hours measure the last
// uninterrupted stretch. The order is pushed to IN_PRODUCTION.
func (s *ProductionService) Start(id string) (*entity.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if production.Status != entity.ProductionNotStarted && production.Status != entity.ProductionPaused {
		return nil, fmt.Errorf("cannot start production in status %s: %w", production.Status, ErrInvalidState)
	}

	now := time.Now()
	production.Status = entity.ProductionInProgress
	production.StartedAt = &now

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.saveProduction(tx, production); err != nil {
			return err
		}
		return s.pushOrderStatus(tx, production.OrderID, entity.OrderStatusInProduction)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Pause suspends work in progress.
func (s *ProductionService) Pause(id string) (*entity.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if production.Status != entity.ProductionInProgress {
		return nil, fmt.Errorf("cannot pause production in status %s: %w", production.Status, ErrInvalidState)
	}

	production.Status = entity.ProductionPaused
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.saveProduction(tx, production)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Finish closes production and computes actual hours from the elapsed wall
// clock, rounded to two decimals. A record that never started finishes with
// hours unset. Finishing twice is rejected; it would clobber the recorded
// hours. The order is pushed to FINISHED.
func (s *ProductionService) Finish(id string) (*entity.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if production.Status == entity.ProductionFinished {
		return nil, fmt.Errorf("production already finished: %w", ErrInvalidState)
	}

	now := time.Now()
	production.Status = entity.ProductionFinished
	production.FinishedAt = &now
	if production.StartedAt != nil {
		hours := decimal.NewFromFloat(now.Sub(*production.StartedAt).Seconds() / 3600).Round(2)
		production.ActualHours = &hours
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.saveProduction(tx, production); err != nil {
			return err
		}
		return s.pushOrderStatus(tx, production.OrderID, entity.OrderStatusFinished)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

type UpdateProductionRequest struct {
	EmployeeID     *string          `json:"employee_id"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	Notes          *string          `json:"notes"`
}

// Update edits assignment and planning fields; the state machine is driven
// only by Start/Pause/Finish.
func (s *ProductionService) Update(id string, req UpdateProductionRequest) (*entity.Production, error) {
	production, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID != nil {
		production.EmployeeID = *req.EmployeeID
	}
	if req.EstimatedHours != nil {
		production.EstimatedHours = *req.EstimatedHours
	}
	if req.Notes != nil {
		production.Notes = *req.Notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.saveProduction(tx, production)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *ProductionService) saveProduction(tx *gorm.DB, production *entity.Production) error {
	production.Order = nil
	if err := s.productionRepo.Update(tx, production); err != nil {
		return fmt.Errorf("failed to save production: %w", err)
	}
	return nil
}

// pushOrderStatus moves the parent order with a targeted update so the sales
// save pipeline is not re-triggered.
func (s *ProductionService) pushOrderStatus(tx *gorm.DB, orderID, status string) error {
	err := tx.Model(&entity.Order{}).Where("id = ?", orderID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to push order status: %w", err)
	}
	return nil
}
