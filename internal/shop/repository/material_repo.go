package repository

import (
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(material *entity.Material) error {
	return r.db.Create(material).Error
}

func (r *MaterialRepository) GetByID(id string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&material).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// GetForUpdate loads a material under a row lock so concurrent movements and
// purchase receipts against the same row are serialized. sqlite (used by the
// tests) has no FOR UPDATE; its writes are serialized by the database itself.
func (r *MaterialRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.Material, error) {
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var material entity.Material
	err := tx.Where("id = ? AND deleted_at IS NULL", id).First(&material).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) Update(material *entity.Material) error {
	return r.db.Save(material).Error
}

func (r *MaterialRepository) Delete(tx *gorm.DB, id string) error {
	if err := tx.Where("material_id = ?", id).Delete(&entity.StockMovement{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&entity.Material{}).Error
}

type MaterialListParams struct {
	Keyword  string
	LowStock bool
	Page     int
	Size     int
}

func (r *MaterialRepository) List(params MaterialListParams) ([]entity.Material, int64, error) {
	query := r.db.Model(&entity.Material{}).Where("deleted_at IS NULL")
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ?", kw)
	}
	if params.LowStock {
		query = query.Where("quantity <= min_quantity")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var materials []entity.Material
	err := query.Order("name ASC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&materials).Error
	return materials, total, err
}

// GetAlerts lists materials at or below their minimum quantity.
func (r *MaterialRepository) GetAlerts() ([]entity.Material, error) {
	var alerts []entity.Material
	err := r.db.Where("quantity <= min_quantity AND deleted_at IS NULL").
		Order("quantity ASC").
		Find(&alerts).Error
	return alerts, err
}

func (r *MaterialRepository) CountLowStock() (int64, error) {
	var total int64
	err := r.db.Model(&entity.Material{}).
		Where("quantity <= min_quantity AND deleted_at IS NULL").
		Count(&total).Error
	return total, err
}

// --- Stock movements ---

func (r *MaterialRepository) CreateMovement(tx *gorm.DB, mv *entity.StockMovement) error {
	return tx.Create(mv).Error
}

func (r *MaterialRepository) ListMovements(materialID string, page, size int) ([]entity.StockMovement, int64, error) {
	query := r.db.Model(&entity.StockMovement{})
	if materialID != "" {
		query = query.Where("material_id = ?", materialID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var movements []entity.StockMovement
	err := query.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&movements).Error
	return movements, total, err
}

// DB returns the underlying handle for transactional use.
func (r *MaterialRepository) DB() *gorm.DB {
	return r.db
}
