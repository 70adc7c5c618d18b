package repository

import (
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(client *entity.Client) error {
	return r.db.Create(client).Error
}

func (r *ClientRepository) GetByID(id string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Update(client *entity.Client) error {
	return r.db.Save(client).Error
}

type ClientListParams struct {
	Frequent *bool
	Keyword  string
	Page     int
	Size     int
}

func (r *ClientRepository) List(params ClientListParams) ([]entity.Client, int64, error) {
	query := r.db.Model(&entity.Client{}).Where("deleted_at IS NULL")
	if params.Frequent != nil {
		query = query.Where("is_frequent = ?", *params.Frequent)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ? OR tax_id LIKE ?", kw, kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var clients []entity.Client
	err := query.Order("registered_at DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&clients).Error
	return clients, total, err
}

// CountDelivered returns the fresh delivered count for a client across both
// transaction kinds. Run against the caller's transaction handle so the count
// observes writes made earlier in the same unit of work.
func (r *ClientRepository) CountDelivered(tx *gorm.DB, clientID string) (int64, error) {
	var orders, jobs int64
	if err := tx.Model(&entity.Order{}).
		Where("client_id = ? AND status = ? AND deleted_at IS NULL", clientID, entity.OrderStatusDelivered).
		Count(&orders).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&entity.Job{}).
		Where("client_id = ? AND status = ? AND deleted_at IS NULL", clientID, entity.OrderStatusDelivered).
		Count(&jobs).Error; err != nil {
		return 0, err
	}
	return orders + jobs, nil
}

// Delete removes the client and everything hanging off it: productions of the
// client's orders, the orders, and the jobs.
func (r *ClientRepository) Delete(tx *gorm.DB, id string) error {
	orderIDs := tx.Model(&entity.Order{}).Select("id").Where("client_id = ?", id)
	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&entity.Production{}).Error; err != nil {
		return err
	}
	if err := tx.Where("client_id = ?", id).Delete(&entity.Order{}).Error; err != nil {
		return err
	}
	if err := tx.Where("client_id = ?", id).Delete(&entity.Job{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&entity.Client{}).Error
}

func (r *ClientRepository) CountAll() (int64, error) {
	var total int64
	err := r.db.Model(&entity.Client{}).Where("deleted_at IS NULL").Count(&total).Error
	return total, err
}

func (r *ClientRepository) CountFrequent() (int64, error) {
	var total int64
	err := r.db.Model(&entity.Client{}).
		Where("is_frequent = ? AND deleted_at IS NULL", true).
		Count(&total).Error
	return total, err
}
