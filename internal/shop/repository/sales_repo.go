package repository

import (
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"gorm.io/gorm"
)

type SalesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// --- Orders ---

func (r *SalesRepository) CreateOrder(tx *gorm.DB, order *entity.Order) error {
	return tx.Create(order).Error
}

func (r *SalesRepository) GetOrderByID(id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.Preload("Client").Preload("Material").Preload("Production").
		Where("id = ? AND deleted_at IS NULL", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *SalesRepository) UpdateOrder(tx *gorm.DB, order *entity.Order) error {
	return tx.Save(order).Error
}

// DeleteOrder removes the order and its production record in one unit of work.
func (r *SalesRepository) DeleteOrder(tx *gorm.DB, id string) error {
	if err := tx.Where("order_id = ?", id).Delete(&entity.Production{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&entity.Order{}).Error
}

type TransactionListParams struct {
	Status   string
	ClientID string
	Keyword  string
	Page     int
	Size     int
}

func (r *SalesRepository) ListOrders(params TransactionListParams) ([]entity.Order, int64, error) {
	query := r.db.Model(&entity.Order{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ClientID != "" {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("code LIKE ? OR description LIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.Order
	err := query.Preload("Client").Preload("Material").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}

func (r *SalesRepository) ListOrdersByClient(tx *gorm.DB, clientID string) ([]entity.Order, error) {
	var orders []entity.Order
	err := tx.Where("client_id = ? AND deleted_at IS NULL", clientID).Find(&orders).Error
	return orders, err
}

func (r *SalesRepository) CountOrdersByStatus(status string) (int64, error) {
	var total int64
	err := r.db.Model(&entity.Order{}).
		Where("status = ? AND deleted_at IS NULL", status).
		Count(&total).Error
	return total, err
}

// --- Jobs ---

func (r *SalesRepository) CreateJob(tx *gorm.DB, job *entity.Job) error {
	return tx.Create(job).Error
}

func (r *SalesRepository) GetJobByID(id string) (*entity.Job, error) {
	var job entity.Job
	err := r.db.Preload("Client").Preload("Product").
		Where("id = ? AND deleted_at IS NULL", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *SalesRepository) UpdateJob(tx *gorm.DB, job *entity.Job) error {
	return tx.Save(job).Error
}

func (r *SalesRepository) DeleteJob(tx *gorm.DB, id string) error {
	return tx.Where("id = ?", id).Delete(&entity.Job{}).Error
}

func (r *SalesRepository) ListJobs(params TransactionListParams) ([]entity.Job, int64, error) {
	query := r.db.Model(&entity.Job{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ClientID != "" {
		query = query.Where("client_id = ?", params.ClientID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("code LIKE ? OR description LIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var jobs []entity.Job
	err := query.Preload("Client").Preload("Product").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&jobs).Error
	return jobs, total, err
}

// CountJobsByProduct backs the protected-reference check on product deletes.
func (r *SalesRepository) CountJobsByProduct(productID string) (int64, error) {
	var total int64
	err := r.db.Model(&entity.Job{}).
		Where("product_id = ? AND deleted_at IS NULL", productID).
		Count(&total).Error
	return total, err
}

// CountJobsByStatus mirrors CountOrdersByStatus for the jobs table.
func (r *SalesRepository) CountJobsByStatus(status string) (int64, error) {
	var total int64
	err := r.db.Model(&entity.Job{}).
		Where("status = ? AND deleted_at IS NULL", status).
		Count(&total).Error
	return total, err
}

// DB returns the underlying handle for transactional use.
func (r *SalesRepository) DB() *gorm.DB {
	return r.db
}
