package repository

import (
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(supplier *entity.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *SupplierRepository) GetByID(id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) Update(supplier *entity.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *SupplierRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Supplier{}).Error
}

type SupplierListParams struct {
	Active  *bool
	Keyword string
	Page    int
	Size    int
}

func (r *SupplierRepository) List(params SupplierListParams) ([]entity.Supplier, int64, error) {
	query := r.db.Model(&entity.Supplier{}).Where("deleted_at IS NULL")
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR contact_name LIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var suppliers []entity.Supplier
	err := query.Order("name ASC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&suppliers).Error
	return suppliers, total, err
}
