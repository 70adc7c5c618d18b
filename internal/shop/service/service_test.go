package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imprentacapital/imprenta-erp/internal/config"
	"github.com/imprentacapital/imprenta-erp/internal/shop/entity"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
	"github.com/imprentacapital/imprenta-erp/internal/shop/testutil"
)

func setupServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	return setupServicesWithConfig(t, config.ShopConfig{
		FrequentThreshold:   5,
		FrequentDiscountPct: 10,
	})
}

func setupServicesWithConfig(t *testing.T, cfg config.ShopConfig) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewServices(repos, db, cfg, nil), db
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func seedClient(t *testing.T, db *gorm.DB, name string) *entity.Client {
	t.Helper()
	client := &entity.Client{
		ID:           uuid.New().String(),
		Name:         name,
		RegisteredAt: time.Now(),
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("Failed to seed client: %v", err)
	}
	return client
}

func seedMaterial(t *testing.T, db *gorm.DB, name string, quantity, minQuantity int) *entity.Material {
	t.Helper()
	material := &entity.Material{
		ID:          uuid.New().String(),
		Name:        name,
		Quantity:    quantity,
		MinQuantity: minQuantity,
		Unit:        entity.UnitReam,
	}
	if err := db.Create(material).Error; err != nil {
		t.Fatalf("Failed to seed material: %v", err)
	}
	return material
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *entity.Supplier {
	t.Helper()
	supplier := &entity.Supplier{
		ID:     uuid.New().String(),
		Name:   name,
		Active: true,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64) *entity.Product {
	t.Helper()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      entity.ProductTypeFlyers,
		UnitPrice: decimal.NewFromFloat(price),
		Active:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}
