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

// ProcurementService owns suppliers and purchases. Receiving a purchase posts
// the inbound stock movement through the inventory core exactly once, guarded
// by the stock_applied flag.
type ProcurementService struct {
	purchaseRepo *repository.PurchaseRepository
	supplierRepo *repository.SupplierRepository
	materialRepo *repository.MaterialRepository
	inventory    *InventoryService
	db           *gorm.DB
}

func NewProcurementService(pr *repository.PurchaseRepository, sr *repository.SupplierRepository, mr *repository.MaterialRepository, inv *InventoryService, db *gorm.DB) *ProcurementService {
	return &ProcurementService{purchaseRepo: pr, supplierRepo: sr, materialRepo: mr, inventory: inv, db: db}
}

// --- Suppliers ---

type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Active      *bool  `json:"active"`
}

func (s *ProcurementService) CreateSupplier(req SupplierRequest) (*entity.Supplier, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Active:      active,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *ProcurementService) UpdateSupplier(id string, req SupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(id)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if req.Active != nil {
		supplier.Active = *req.Active
	}
	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *ProcurementService) GetSupplier(id string) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

func (s *ProcurementService) ListSuppliers(params repository.SupplierListParams) ([]entity.Supplier, int64, error) {
	return s.supplierRepo.List(params)
}

// DeleteSupplier refuses to delete a supplier with purchases on file.
func (s *ProcurementService) DeleteSupplier(id string) error {
	if _, err := s.GetSupplier(id); err != nil {
		return err
	}
	count, err := s.purchaseRepo.CountBySupplier(id)
	if err != nil {
		return fmt.Errorf("failed to check purchase references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("supplier has %d purchase(s) on file: %w", count, ErrProtected)
	}
	return s.supplierRepo.Delete(id)
}

// --- Purchases ---

type CreatePurchaseRequest struct {
	SupplierID    string          `json:"supplier_id" binding:"required"`
	MaterialID    string          `json:"material_id" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required,gt=0"`
	UnitCost      decimal.Decimal `json:"unit_cost" binding:"required"`
	Status        string          `json:"status"`
	EstimatedDate string          `json:"estimated_date"` // YYYY-MM-DD
	Notes         string          `json:"notes"`
}

func (s *ProcurementService) CreatePurchase(req CreatePurchaseRequest, userID string) (*entity.Purchase, error) {
	if _, err := s.supplierRepo.GetByID(req.SupplierID); err != nil {
		return nil, fmt.Errorf("%w: supplier %s does not exist", ErrValidation, req.SupplierID)
	}
	if _, err := s.materialRepo.GetByID(req.MaterialID); err != nil {
		return nil, fmt.Errorf("%w: material %s does not exist", ErrValidation, req.MaterialID)
	}

	status := req.Status
	if status == "" {
		status = entity.PurchaseStatusPending
	}
	if !validPurchaseStatus(status) {
		return nil, fmt.Errorf("%w: unknown purchase status %q", ErrValidation, status)
	}

	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		Code:       fmt.Sprintf("PO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		SupplierID: req.SupplierID,
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		Status:     status,
		Notes:      req.Notes,
		CreatedBy:  userID,
	}
	if req.EstimatedDate != "" {
		estimatedDate, err := parseDate("estimated_date", req.EstimatedDate)
		if err != nil {
			return nil, err
		}
		purchase.EstimatedDate = estimatedDate
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.savePurchase(tx, purchase, true)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPurchase(purchase.ID)
}

type UpdatePurchaseRequest struct {
	Quantity      *int             `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	Status        string           `json:"status"`
	EstimatedDate string           `json:"estimated_date"` // YYYY-MM-DD
	Notes         *string          `json:"notes"`
}

func (s *ProcurementService) UpdatePurchase(id string, req UpdatePurchaseRequest) (*entity.Purchase, error) {
	purchase, err := s.GetPurchase(id)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
		purchase.Quantity = *req.Quantity
	}
	if req.UnitCost != nil {
		purchase.UnitCost = *req.UnitCost
	}
	if req.Status != "" {
		if !validPurchaseStatus(req.Status) {
			return nil, fmt.Errorf("%w: unknown purchase status %q", ErrValidation, req.Status)
		}
		purchase.Status = req.Status
	}
	if req.EstimatedDate != "" {
		estimatedDate, err := parseDate("estimated_date", req.EstimatedDate)
		if err != nil {
			return nil, err
		}
		purchase.EstimatedDate = estimatedDate
	}
	if req.Notes != nil {
		purchase.Notes = *req.Notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.savePurchase(tx, purchase, false)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPurchase(id)
}

// MarkReceived transitions the purchase to RECEIVED. An actual receipt date
// may be given (YYYY-MM-DD); without one the current time is stamped.
// Re-receiving an already applied purchase is a silent no-op; the stock can
// only land once.
func (s *ProcurementService) MarkReceived(id, receivedDate string) (*entity.Purchase, error) {
	purchase, err := s.GetPurchase(id)
	if err != nil {
		return nil, err
	}
	if purchase.Status == entity.PurchaseStatusCancelled {
		return nil, fmt.Errorf("cannot receive a cancelled purchase: %w", ErrInvalidState)
	}
	if receivedDate != "" {
		date, err := parseDate("received_date", receivedDate)
		if err != nil {
			return nil, err
		}
		if !purchase.StockApplied {
			purchase.ReceivedDate = date
		}
	}
	purchase.Status = entity.PurchaseStatusReceived

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.savePurchase(tx, purchase, false)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPurchase(id)
}

// Cancel aborts a purchase that has not landed in stock yet.
func (s *ProcurementService) Cancel(id string) (*entity.Purchase, error) {
	purchase, err := s.GetPurchase(id)
	if err != nil {
		return nil, err
	}
	if purchase.Status == entity.PurchaseStatusReceived {
		return nil, fmt.Errorf("purchase already received, stock is applied: %w", ErrInvalidState)
	}
	purchase.Status = entity.PurchaseStatusCancelled

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.savePurchase(tx, purchase, false)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPurchase(id)
}

func (s *ProcurementService) GetPurchase(id string) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("purchase %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return purchase, nil
}

func (s *ProcurementService) ListPurchases(params repository.PurchaseListParams) ([]entity.Purchase, int64, error) {
	return s.purchaseRepo.List(params)
}

// savePurchase is the single write path for purchases: recompute the cached
// total, persist, and on the first transition to RECEIVED post the inbound
// movement and flip the stock_applied guard with a targeted column update.
func (s *ProcurementService) savePurchase(tx *gorm.DB, purchase *entity.Purchase, isNew bool) error {
	purchase.Supplier = nil
	purchase.Material = nil
	purchase.TotalCost = purchase.UnitCost.Mul(decimal.NewFromInt(int64(purchase.Quantity))).Round(2)

	receiving := purchase.Status == entity.PurchaseStatusReceived && !purchase.StockApplied
	if receiving && purchase.ReceivedDate == nil {
		now := time.Now()
		purchase.ReceivedDate = &now
	}

	var err error
	if isNew {
		err = s.purchaseRepo.Create(tx, purchase)
	} else {
		err = s.purchaseRepo.Update(tx, purchase)
	}
	if err != nil {
		return fmt.Errorf("failed to save purchase: %w", err)
	}

	if !receiving {
		return nil
	}

	_, err = s.inventory.applyMovement(tx, &entity.StockMovement{
		ID:         uuid.New().String(),
		MaterialID: purchase.MaterialID,
		Type:       entity.MovementIn,
		Quantity:   purchase.Quantity,
		Reason:     fmt.Sprintf("Purchase %s received", purchase.Code),
		UserID:     purchase.CreatedBy,
	})
	if err != nil {
		return err
	}
	if err := s.purchaseRepo.SetStockApplied(tx, purchase.ID); err != nil {
		return fmt.Errorf("failed to flag stock as applied: %w", err)
	}
	purchase.StockApplied = true
	return nil
}

func validPurchaseStatus(status string) bool {
	switch status {
	case entity.PurchaseStatusPending, entity.PurchaseStatusOrdered,
		entity.PurchaseStatusReceived, entity.PurchaseStatusCancelled:
		return true
	}
	return false
}
