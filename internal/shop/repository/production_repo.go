package repository

import (
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"gorm.io/gorm"
)

type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) GetByID(id string) (*entity.Production, error) {
	var production entity.Production
	err := r.db.Preload("Order").Where("id = ?", id).First(&production).Error
	if err != nil {
		return nil, err
	}
	return &production, nil
}

func (r *ProductionRepository) GetByOrderID(orderID string) (*entity.Production, error) {
	var production entity.Production
	err := r.db.Where("order_id = ?", orderID).First(&production).Error
	if err != nil {
		return nil, err
	}
	return &production, nil
}

func (r *ProductionRepository) Update(tx *gorm.DB, production *entity.Production) error {
	return tx.Save(production).Error
}

type ProductionListParams struct {
	Status          string
	EmployeeID      string
	ExcludeFinished bool
	Page            int
	Size            int
}

func (r *ProductionRepository) List(params ProductionListParams) ([]entity.Production, int64, error) {
	query := r.db.Model(&entity.Production{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.EmployeeID != "" {
		query = query.Where("employee_id = ?", params.EmployeeID)
	}
	if params.ExcludeFinished {
		query = query.Where("status <> ?", entity.ProductionFinished)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var productions []entity.Production
	err := query.Preload("Order").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&productions).Error
	return productions, total, err
}

func (r *ProductionRepository) CountActive() (int64, error) {
	var total int64
	err := r.db.Model(&entity.Production{}).
		Where("status = ?", entity.ProductionInProgress).
		Count(&total).Error
	return total, err
}
