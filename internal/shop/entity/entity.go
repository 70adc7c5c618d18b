package entity

import "gorm.io/gorm"

// AutoMigrate creates or updates all shop tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// master data
		&Client{},
		&Product{},
		&Supplier{},
		&Material{},

		// inventory ledger
		&StockMovement{},

		// procurement
		&Purchase{},

		// sales
		&Order{},
		&Job{},

		// production tracking
		&Production{},
	)
}
