package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
)

// CatalogService owns the product catalog jobs are priced against.
type CatalogService struct {
	productRepo *repository.ProductRepository
	salesRepo   *repository.SalesRepository
}

func NewCatalogService(pr *repository.ProductRepository, sr *repository.SalesRepository) *CatalogService {
	return &CatalogService{productRepo: pr, salesRepo: sr}
}

type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Active      *bool           `json:"active"`
}

func (s *CatalogService) CreateProduct(req ProductRequest) (*entity.Product, error) {
	productType := req.Type
	if productType == "" {
		productType = entity.ProductTypeOther
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Type:        productType,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Active:      active,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(id string, req ProductRequest) (*entity.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	product.Name = req.Name
	if req.Type != "" {
		product.Type = req.Type
	}
	product.Description = req.Description
	product.UnitPrice = req.UnitPrice
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) GetProduct(id string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) ListProducts(params repository.ProductListParams) ([]entity.Product, int64, error) {
	return s.productRepo.List(params)
}

// DeleteProduct refuses to delete a product that jobs are priced against.
func (s *CatalogService) DeleteProduct(id string) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	count, err := s.salesRepo.CountJobsByProduct(id)
	if err != nil {
		return fmt.Errorf("failed to check job references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("product has %d job(s) on file: %w", count, ErrProtected)
	}
	return s.productRepo.Delete(id)
}
