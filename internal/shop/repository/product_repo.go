package repository

import (
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(product *entity.Product) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(product *entity.Product) error {
	return r.db.Save(product).Error
}

func (r *ProductRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Product{}).Error
}

type ProductListParams struct {
	Type    string
	Active  *bool
	Keyword string
	Page    int
	Size    int
}

func (r *ProductRepository) List(params ProductListParams) ([]entity.Product, int64, error) {
	query := r.db.Model(&entity.Product{}).Where("deleted_at IS NULL")
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ?", kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var products []entity.Product
	err := query.Order("name ASC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) CountActive() (int64, error) {
	var total int64
	err := r.db.Model(&entity.Product{}).
		Where("active = ? AND deleted_at IS NULL", true).
		Count(&total).Error
	return total, err
}
