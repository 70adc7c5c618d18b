package repository

import (
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(tx *gorm.DB, purchase *entity.Purchase) error {
	return tx.Create(purchase).Error
}

func (r *PurchaseRepository) GetByID(id string) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.Preload("Supplier").Preload("Material").
		Where("id = ? AND deleted_at IS NULL", id).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PurchaseRepository) Update(tx *gorm.DB, purchase *entity.Purchase) error {
	return tx.Save(purchase).Error
}

// SetStockApplied flips the double-posting guard with a targeted column
// update so the write cannot re-trigger the save pipeline.
func (r *PurchaseRepository) SetStockApplied(tx *gorm.DB, id string) error {
	return tx.Model(&entity.Purchase{}).Where("id = ?", id).
		Update("stock_applied", true).Error
}

type PurchaseListParams struct {
	Status     string
	SupplierID string
	MaterialID string
	Page       int
	Size       int
}

func (r *PurchaseRepository) List(params PurchaseListParams) ([]entity.Purchase, int64, error) {
	query := r.db.Model(&entity.Purchase{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.SupplierID != "" {
		query = query.Where("supplier_id = ?", params.SupplierID)
	}
	if params.MaterialID != "" {
		query = query.Where("material_id = ?", params.MaterialID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var purchases []entity.Purchase
	err := query.Preload("Supplier").Preload("Material").
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&purchases).Error
	return purchases, total, err
}

// CountBySupplier backs the protected-reference check on supplier deletes.
func (r *PurchaseRepository) CountBySupplier(supplierID string) (int64, error) {
	var total int64
	err := r.db.Model(&entity.Purchase{}).
		Where("supplier_id = ? AND deleted_at IS NULL", supplierID).
		Count(&total).Error
	return total, err
}

// CountByMaterial backs the protected-reference check on material deletes.
func (r *PurchaseRepository) CountByMaterial(materialID string) (int64, error) {
	var total int64
	err := r.db.Model(&entity.Purchase{}).
		Where("material_id = ? AND deleted_at IS NULL", materialID).
		Count(&total).Error
	return total, err
}
