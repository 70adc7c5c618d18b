package repository

import "gorm.io/gorm"

// Repositories bundles every shop repository.
type Repositories struct {
	Client     *ClientRepository
	Product    *ProductRepository
	Supplier   *SupplierRepository
	Material   *MaterialRepository
	Purchase   *PurchaseRepository
	Sales      *SalesRepository
	Production *ProductionRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Client:     NewClientRepository(db),
		Product:    NewProductRepository(db),
		Supplier:   NewSupplierRepository(db),
		Material:   NewMaterialRepository(db),
		Purchase:   NewPurchaseRepository(db),
		Sales:      NewSalesRepository(db),
		Production: NewProductionRepository(db),
	}
}
