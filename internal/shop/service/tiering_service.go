package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imprentacapital/imprenta-erp/internal/config"
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
)

// TieringService owns clients and the frequent-client tier. A client is
// frequent once their delivered order+job count reaches the configured
// threshold; the flag moves in both directions and is recomputed from a fresh
// count, never incremented.
type TieringService struct {
	clientRepo *repository.ClientRepository
	db         *gorm.DB
	cfg        config.ShopConfig
}

func NewTieringService(cr *repository.ClientRepository, db *gorm.DB, cfg config.ShopConfig) *TieringService {
	return &TieringService{clientRepo: cr, db: db, cfg: cfg}
}

// --- Client CRUD ---

type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (s *TieringService) CreateClient(req ClientRequest) (*entity.Client, error) {
	client := &entity.Client{
		ID:           uuid.New().String(),
		Name:         req.Name,
		TaxID:        req.TaxID,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		RegisteredAt: time.Now(),
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *TieringService) UpdateClient(id string, req ClientRequest) (*entity.Client, error) {
	client, err := s.GetClient(id)
	if err != nil {
		return nil, err
	}
	client.Name = req.Name
	client.TaxID = req.TaxID
	client.Phone = req.Phone
	client.Email = req.Email
	client.Address = req.Address
	if err := s.clientRepo.Update(client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *TieringService) GetClient(id string) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *TieringService) ListClients(params repository.ClientListParams) ([]entity.Client, int64, error) {
	return s.clientRepo.List(params)
}

// DeleteClient removes the client and cascades to their orders, jobs and
// production records.
func (s *TieringService) DeleteClient(id string) error {
	if _, err := s.GetClient(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.clientRepo.Delete(tx, id)
	})
}

// --- Tiering ---

// RecountCompleted refreshes the client's completed count from a fresh
// delivered query and re-derives the frequent flag, persisting only when
// something actually changed. It runs on the caller's transaction so the
// count sees writes from the same unit of work. A missing client is not an
// error: delete paths recount after the client may already be gone.
func (s *TieringService) RecountCompleted(tx *gorm.DB, clientID string) error {
	var client entity.Client
	if err := tx.Where("id = ? AND deleted_at IS NULL", clientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load client for recount: %w", err)
	}

	count, err := s.clientRepo.CountDelivered(tx, clientID)
	if err != nil {
		return fmt.Errorf("failed to count delivered transactions: %w", err)
	}

	frequent := count >= int64(s.cfg.FrequentThreshold)
	if client.CompletedCount == int(count) && client.IsFrequent == frequent {
		return nil
	}
	client.CompletedCount = int(count)
	client.IsFrequent = frequent
	if err := tx.Save(&client).Error; err != nil {
		return fmt.Errorf("failed to persist client tier: %w", err)
	}
	return nil
}

// DiscountFor returns the suggested discount percentage for a client. Safe on
// a nil or unsaved client.
func (s *TieringService) DiscountFor(client *entity.Client) decimal.Decimal {
	if client == nil || !client.IsFrequent {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.cfg.FrequentDiscountPct))
}
