package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
)

// InventoryService owns materials and the stock-movement ledger. All quantity
// changes go through applyMovement so the ledger and the cached quantity can
// never drift apart.
type InventoryService struct {
	materialRepo *repository.MaterialRepository
	purchaseRepo *repository.PurchaseRepository
	db           *gorm.DB
}

func NewInventoryService(mr *repository.MaterialRepository, pr *repository.PurchaseRepository, db *gorm.DB) *InventoryService {
	return &InventoryService{materialRepo: mr, purchaseRepo: pr, db: db}
}

// --- Materials ---

type CreateMaterialRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" binding:"gte=0"`
	MinQuantity  int             `json:"min_quantity" binding:"gte=0"`
	Unit         string          `json:"unit"`
	SupplierName string          `json:"supplier_name"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
}

func (s *InventoryService) CreateMaterial(req CreateMaterialRequest) (*entity.Material, error) {
	unit := req.Unit
	if unit == "" {
		unit = entity.UnitPiece
	}
	minQty := req.MinQuantity
	if minQty == 0 {
		minQty = 10
	}

	material := &entity.Material{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Description:  req.Description,
		Quantity:     req.Quantity,
		MinQuantity:  minQty,
		Unit:         unit,
		SupplierName: req.SupplierName,
		UnitCost:     req.UnitCost,
		LastUpdated:  time.Now(),
	}
	if err := s.materialRepo.Create(material); err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return material, nil
}

type UpdateMaterialRequest struct {
	Name         string           `json:"name"`
	Description  *string          `json:"description"`
	MinQuantity  *int             `json:"min_quantity"`
	Unit         string           `json:"unit"`
	SupplierName *string          `json:"supplier_name"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
}

// UpdateMaterial edits master data only. Quantity is off limits here; it
// changes exclusively through ApplyMovement.
func (s *InventoryService) UpdateMaterial(id string, req UpdateMaterialRequest) (*entity.Material, error) {
	material, err := s.GetMaterial(id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		material.Name = req.Name
	}
	if req.Description != nil {
		material.Description = *req.Description
	}
	if req.MinQuantity != nil {
		if *req.MinQuantity < 0 {
			return nil, fmt.Errorf("%w: min_quantity must not be negative", ErrValidation)
		}
		material.MinQuantity = *req.MinQuantity
	}
	if req.Unit != "" {
		material.Unit = req.Unit
	}
	if req.SupplierName != nil {
		material.SupplierName = *req.SupplierName
	}
	if req.UnitCost != nil {
		material.UnitCost = *req.UnitCost
	}
	if err := s.materialRepo.Update(material); err != nil {
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return material, nil
}

func (s *InventoryService) GetMaterial(id string) (*entity.Material, error) {
	material, err := s.materialRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("material %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return material, nil
}

func (s *InventoryService) ListMaterials(params repository.MaterialListParams) ([]entity.Material, int64, error) {
	return s.materialRepo.List(params)
}

// DeleteMaterial removes the material and its ledger. Materials referenced by
// purchases are protected.
func (s *InventoryService) DeleteMaterial(id string) error {
	if _, err := s.GetMaterial(id); err != nil {
		return err
	}
	count, err := s.purchaseRepo.CountByMaterial(id)
	if err != nil {
		return fmt.Errorf("failed to check purchase references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("material has %d purchase(s) on file: %w", count, ErrProtected)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.materialRepo.Delete(tx, id)
	})
}

// GetAlerts lists materials at or below their restock minimum.
func (s *InventoryService) GetAlerts() ([]entity.Material, error) {
	return s.materialRepo.GetAlerts()
}

// --- Stock movements ---

type ApplyMovementRequest struct {
	MaterialID   string  `json:"material_id" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	Quantity     int     `json:"quantity"`
	Reason       string  `json:"reason" binding:"required"`
	ProductionID *string `json:"production_id"`
}

// ApplyMovement records a ledger entry and mutates the material quantity in
// one transaction. IN adds, OUT subtracts (the quantity may go negative, the
// ledger keeps the full story), ADJUST sets the absolute level.
func (s *InventoryService) ApplyMovement(req ApplyMovementRequest, userID string) (*entity.Material, error) {
	switch req.Type {
	case entity.MovementIn, entity.MovementOut:
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for %s movements", ErrValidation, req.Type)
		}
	case entity.MovementAdjust:
		if req.Quantity < 0 {
			return nil, fmt.Errorf("%w: adjustment sets an absolute level and must not be negative", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown movement type %q", ErrValidation, req.Type)
	}

	var material *entity.Material
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		material, err = s.applyMovement(tx, &entity.StockMovement{
			ID:           uuid.New().String(),
			MaterialID:   req.MaterialID,
			Type:         req.Type,
			Quantity:     req.Quantity,
			Reason:       req.Reason,
			ProductionID: req.ProductionID,
			UserID:       userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}

// applyMovement is the transactional core shared with the procurement receipt
// path. The material row is locked for the duration of the transaction.
func (s *InventoryService) applyMovement(tx *gorm.DB, mv *entity.StockMovement) (*entity.Material, error) {
	material, err := s.materialRepo.GetForUpdate(tx, mv.MaterialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("material %s: %w", mv.MaterialID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock material: %w", err)
	}

	switch mv.Type {
	case entity.MovementIn:
		material.Quantity += mv.Quantity
	case entity.MovementOut:
		material.Quantity -= mv.Quantity
	case entity.MovementAdjust:
		material.Quantity = mv.Quantity
	}
	material.LastUpdated = time.Now()

	if err := tx.Save(material).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock level: %w", err)
	}
	if err := s.materialRepo.CreateMovement(tx, mv); err != nil {
		return nil, fmt.Errorf("failed to record movement: %w", err)
	}
	return material, nil
}

func (s *InventoryService) ListMovements(materialID string, page, size int) ([]entity.StockMovement, int64, error) {
	return s.materialRepo.ListMovements(materialID, page, size)
}
