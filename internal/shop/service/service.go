package service

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/imprentacapital/imprenta-erp/internal/config"
	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
)

// Services bundles the shop business core.
type Services struct {
	Inventory   *InventoryService
	Procurement *ProcurementService
	Catalog     *CatalogService
	Tiering     *TieringService
	Sales       *SalesService
	Production  *ProductionService
	Dashboard   *DashboardService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, cfg config.ShopConfig, rdb *redis.Client) *Services {
	inventory := NewInventoryService(repos.Material, repos.Purchase, db)
	tiering := NewTieringService(repos.Client, db, cfg)
	return &Services{
		Inventory:   inventory,
		Procurement: NewProcurementService(repos.Purchase, repos.Supplier, repos.Material, inventory, db),
		Catalog:     NewCatalogService(repos.Product, repos.Sales),
		Tiering:     tiering,
		Sales:       NewSalesService(repos.Sales, repos.Client, repos.Material, repos.Product, repos.Production, tiering, db),
		Production:  NewProductionService(repos.Production, db),
		Dashboard:   NewDashboardService(repos, rdb),
	}
}
