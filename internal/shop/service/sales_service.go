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

// SalesService owns orders (material-based) and jobs (product-based). Every
// write recomputes the cached total price and refreshes the client's
// delivered count and tier inside the same transaction.
type SalesService struct {
	salesRepo      *repository.SalesRepository
	clientRepo     *repository.ClientRepository
	materialRepo   *repository.MaterialRepository
	productRepo    *repository.ProductRepository
	productionRepo *repository.ProductionRepository
	tiering        *TieringService
	db             *gorm.DB
}

func NewSalesService(sr *repository.SalesRepository, cr *repository.ClientRepository, mr *repository.MaterialRepository, pr *repository.ProductRepository, prod *repository.ProductionRepository, tiering *TieringService, db *gorm.DB) *SalesService {
	return &SalesService{
		salesRepo:      sr,
		clientRepo:     cr,
		materialRepo:   mr,
		productRepo:    pr,
		productionRepo: prod,
		tiering:        tiering,
		db:             db,
	}
}

// computeTotal derives the cached price: quantity × unit price reduced by the
// discount percentage, rounded to cents.
func computeTotal(quantity int, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(decimal.NewFromInt(100)))
	return gross.Mul(factor).Round(2)
}

// --- Orders ---

type CreateOrderRequest struct {
	ClientID       string           `json:"client_id" binding:"required"`
	MaterialID     string           `json:"material_id"`
	Quantity       int              `json:"quantity" binding:"required,gt=0"`
	Description    string           `json:"description" binding:"required"`
	UnitPrice      decimal.Decimal  `json:"unit_price" binding:"required"`
	DiscountPct    *decimal.Decimal `json:"discount_pct"`
	Status         string           `json:"status"`
	EstimatedDate  string           `json:"estimated_date"` // YYYY-MM-DD
	EstimatedHours decimal.Decimal  `json:"estimated_hours"`
}

// CreateOrder registers an order, ensures its production record exists, and
// refreshes the client tier, all in one transaction. When no discount is
// given, the client's tier discount applies.
func (s *SalesService) CreateOrder(req CreateOrderRequest, userID string) (*entity.Order, error) {
	client, err := s.tiering.GetClient(req.ClientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: client %s does not exist", ErrValidation, req.ClientID)
		}
		return nil, err
	}
	if req.MaterialID != "" {
		if _, err := s.materialRepo.GetByID(req.MaterialID); err != nil {
			return nil, fmt.Errorf("%w: material %s does not exist", ErrValidation, req.MaterialID)
		}
	}

	status := req.Status
	if status == "" {
		status = entity.OrderStatusPending
	}
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	discount := s.tiering.DiscountFor(client)
	if req.DiscountPct != nil {
		discount = *req.DiscountPct
	}

	order := &entity.Order{
		ID:          uuid.New().String(),
		Code:        fmt.Sprintf("ORD-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		ClientID:    req.ClientID,
		MaterialID:  req.MaterialID,
		Quantity:    req.Quantity,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		DiscountPct: discount,
		TotalPrice:  computeTotal(req.Quantity, req.UnitPrice, discount),
		Status:      status,
		CreatedBy:   userID,
	}
	if req.EstimatedDate != "" {
		estimatedDate, err := parseDate("estimated_date", req.EstimatedDate)
		if err != nil {
			return nil, err
		}
		order.EstimatedDate = estimatedDate
	}
	if status == entity.OrderStatusDelivered {
		now := time.Now()
		order.DeliveredDate = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.salesRepo.CreateOrder(tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		production := entity.Production{
			ID:             uuid.New().String(),
			OrderID:        order.ID,
			Status:         entity.ProductionNotStarted,
			EstimatedHours: req.EstimatedHours,
		}
		if err := tx.Where(entity.Production{OrderID: order.ID}).
			FirstOrCreate(&production).Error; err != nil {
			return fmt.Errorf("failed to ensure production record: %w", err)
		}
		return s.tiering.RecountCompleted(tx, order.ClientID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(order.ID)
}

type UpdateOrderRequest struct {
	MaterialID    string           `json:"material_id"`
	Quantity      *int             `json:"quantity"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	DiscountPct   *decimal.Decimal `json:"discount_pct"`
	Status        string           `json:"status"`
	EstimatedDate string           `json:"estimated_date"` // YYYY-MM-DD
}

func (s *SalesService) UpdateOrder(id string, req UpdateOrderRequest) (*entity.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if req.MaterialID != "" {
		if _, err := s.materialRepo.GetByID(req.MaterialID); err != nil {
			return nil, fmt.Errorf("%w: material %s does not exist", ErrValidation, req.MaterialID)
		}
		order.MaterialID = req.MaterialID
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
		order.Quantity = *req.Quantity
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.UnitPrice != nil {
		order.UnitPrice = *req.UnitPrice
	}
	if req.DiscountPct != nil {
		order.DiscountPct = *req.DiscountPct
	}
	if req.Status != "" {
		if !entity.ValidOrderStatus(req.Status) {
			return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, req.Status)
		}
		order.Status = req.Status
	}
	if req.EstimatedDate != "" {
		estimatedDate, err := parseDate("estimated_date", req.EstimatedDate)
		if err != nil {
			return nil, err
		}
		order.EstimatedDate = estimatedDate
	}

	if err := s.saveOrder(order); err != nil {
		return nil, err
	}
	return s.GetOrder(id)
}

// UpdateOrderStatus moves the order along its lifecycle. Reaching DELIVERED
// stamps the delivery date and feeds the client's frequent tier.
func (s *SalesService) UpdateOrderStatus(id, status string) (*entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if err := s.saveOrder(order); err != nil {
		return nil, err
	}
	return s.GetOrder(id)
}

// saveOrder is the single write path for order updates: refresh the cached
// total, stamp the delivery date on the first DELIVERED save, persist, and
// recount the client inside the same transaction.
func (s *SalesService) saveOrder(order *entity.Order) error {
	order.TotalPrice = computeTotal(order.Quantity, order.UnitPrice, order.DiscountPct)
	if order.Status == entity.OrderStatusDelivered && order.DeliveredDate == nil {
		now := time.Now()
		order.DeliveredDate = &now
	}
	order.Client = nil
	order.Material = nil
	order.Production = nil
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.salesRepo.UpdateOrder(tx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return s.tiering.RecountCompleted(tx, order.ClientID)
	})
}

// DeleteOrder removes the order and its production record, then recounts the
// client. The recount tolerates a client that is already gone.
func (s *SalesService) DeleteOrder(id string) error {
	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.salesRepo.DeleteOrder(tx, id); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return s.tiering.RecountCompleted(tx, order.ClientID)
	})
}

func (s *SalesService) GetOrder(id string) (*entity.Order, error) {
	order, err := s.salesRepo.GetOrderByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *SalesService) ListOrders(params repository.TransactionListParams) ([]entity.Order, int64, error) {
	return s.salesRepo.ListOrders(params)
}

// --- Jobs ---

type CreateJobRequest struct {
	ClientID      string           `json:"client_id" binding:"required"`
	ProductID     string           `json:"product_id"`
	Quantity      int              `json:"quantity" binding:"required,gt=0"`
	Description   string           `json:"description" binding:"required"`
	UnitPrice     decimal.Decimal  `json:"unit_price" binding:"required"`
	DiscountPct   *decimal.Decimal `json:"discount_pct"`
	Status        string           `json:"status"`
	EstimatedDate string           `json:"estimated_date"` // YYYY-MM-DD
}

func (s *SalesService) CreateJob(req CreateJobRequest, userID string) (*entity.Job, error) {
	client, err := s.tiering.GetClient(req.ClientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: client %s does not exist", ErrValidation, req.ClientID)
		}
		return nil, err
	}
	if req.ProductID != "" {
		if _, err := s.productRepo.GetByID(req.ProductID); err != nil {
			return nil, fmt.Errorf("%w: product %s does not exist", ErrValidation, req.ProductID)
		}
	}

	status := req.Status
	if status == "" {
		status = entity.OrderStatusPending
	}
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown job status %q", ErrValidation, status)
	}

	discount := s.tiering.DiscountFor(client)
	if req.DiscountPct != nil {
		discount = *req.DiscountPct
	}

	job := &entity.Job{
		ID:          uuid.New().String(),
		Code:        fmt.Sprintf("JOB-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		ClientID:    req.ClientID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		DiscountPct: discount,
		TotalPrice:  computeTotal(req.Quantity, req.UnitPrice, discount),
		Status:      status,
		CreatedBy:   userID,
	}
	if req.EstimatedDate != "" {
		estimatedDate, err := parseDate("estimated_date", req.EstimatedDate)
		if err != nil {
			return nil, err
		}
		job.EstimatedDate = estimatedDate
	}
	if status == entity.OrderStatusDelivered {
		now := time.Now()
		job.DeliveredDate = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.salesRepo.CreateJob(tx, job); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		return s.tiering.RecountCompleted(tx, job.ClientID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetJob(job.ID)
}

type UpdateJobRequest struct {
	ProductID     string           `json:"product_id"`
	Quantity      *int             `json:"quantity"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	DiscountPct   *decimal.Decimal `json:"discount_pct"`
	Status        string           `json:"status"`
	EstimatedDate string           `json:"estimated_date"` // YYYY-MM-DD
}

func (s *SalesService) UpdateJob(id string, req UpdateJobRequest) (*entity.Job, error) {
	job, err := s.GetJob(id)
	if err != nil {
		return nil, err
	}
	if req.ProductID != "" {
		if _, err := s.productRepo.GetByID(req.ProductID); err != nil {
			return nil, fmt.Errorf("%w: product %s does not exist", ErrValidation, req.ProductID)
		}
		job.ProductID = req.ProductID
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
		job.Quantity = *req.Quantity
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.UnitPrice != nil {
		job.UnitPrice = *req.UnitPrice
	}
	if req.DiscountPct != nil {
		job.DiscountPct = *req.DiscountPct
	}
	if req.Status != "" {
		if !entity.ValidOrderStatus(req.Status) {
			return nil, fmt.Errorf("%w: unknown job status %q", ErrValidation, req.Status)
		}
		job.Status = req.Status
	}
	if req.EstimatedDate != "" {
		estimatedDate, err := parseDate("estimated_date", req.EstimatedDate)
		if err != nil {
			return nil, err
		}
		job.EstimatedDate = estimatedDate
	}

	if err := s.saveJob(job); err != nil {
		return nil, err
	}
	return s.GetJob(id)
}

func (s *SalesService) UpdateJobStatus(id, status string) (*entity.Job, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown job status %q", ErrValidation, status)
	}
	job, err := s.GetJob(id)
	if err != nil {
		return nil, err
	}
	job.Status = status
	if err := s.saveJob(job); err != nil {
		return nil, err
	}
	return s.GetJob(id)
}

func (s *SalesService) saveJob(job *entity.Job) error {
	job.TotalPrice = computeTotal(job.Quantity, job.UnitPrice, job.DiscountPct)
	if job.Status == entity.OrderStatusDelivered && job.DeliveredDate == nil {
		now := time.Now()
		job.DeliveredDate = &now
	}
	job.Client = nil
	job.Product = nil
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.salesRepo.UpdateJob(tx, job); err != nil {
			return fmt.Errorf("failed to save job: %w", err)
		}
		return s.tiering.RecountCompleted(tx, job.ClientID)
	})
}

func (s *SalesService) DeleteJob(id string) error {
	job, err := s.GetJob(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.salesRepo.DeleteJob(tx, id); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		return s.tiering.RecountCompleted(tx, job.ClientID)
	})
}

func (s *SalesService) GetJob(id string) (*entity.Job, error) {
	job, err := s.salesRepo.GetJobByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *SalesService) ListJobs(params repository.TransactionListParams) ([]entity.Job, int64, error) {
	return s.salesRepo.ListJobs(params)
}
