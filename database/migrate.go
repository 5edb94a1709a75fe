package database

import (
	"procure-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.LoginLog{},
		&models.Vendor{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.PurchaseRequest{},
		&models.CostComparison{},
		&models.VendorQuote{},
	)
}
