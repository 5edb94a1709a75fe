package database

import (
	"fmt"
	"log"

	"procure-app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders creates the default accounts and demo master data on an
// empty database. Safe to call on every boot.
func RunSeeders(db *gorm.DB) {
	seedUsers(db)
	seedInventory(db)
	seedVendors(db)
}

func seedUsers(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	users := []models.User{
		{Username: "admin", Name: "Administrator", Email: "admin@procure.local", Role: models.RoleManager},
		{Username: "purchasing", Name: "Purchase Officer", Email: "purchasing@procure.local", Role: models.RolePurchaseOfficer},
		{Username: "site", Name: "Site Engineer", Email: "site@procure.local", Role: models.RoleSiteEngineer},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash seed password: %v", err)
		}
		u.Password = string(hashed)
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.Username, err)
		}
	}
	fmt.Println("Seeded default users")
}

func seedInventory(db *gorm.DB) {
	var count int64
	db.Model(&models.InventoryItem{}).Count(&count)
	if count > 0 {
		return
	}

	items := []models.InventoryItem{
		{ItemName: "Cement OPC 53", CentralStock: 120, Uom: "bag"},
		{ItemName: "Steel Rod 12mm", CentralStock: 40, Uom: "pcs"},
		{ItemName: "River Sand", CentralStock: 0, Uom: "cft"},
	}
	for _, item := range items {
		if err := db.Create(&item).Error; err != nil {
			log.Fatalf("Failed to seed inventory item %s: %v", item.ItemName, err)
		}
	}
	fmt.Println("Seeded inventory items")
}

func seedVendors(db *gorm.DB) {
	var count int64
	db.Model(&models.Vendor{}).Count(&count)
	if count > 0 {
		return
	}

	vendors := []models.Vendor{
		{VendorCode: "V001", VendorName: "Shree Traders", VendorCity: "Pune", VendorCountry: "India", VendorEmail: "sales@shreetraders.example", GSTNumber: "27AAAAA0000A1Z5"},
		{VendorCode: "V002", VendorName: "Metro Hardware", VendorCity: "Mumbai", VendorCountry: "India", VendorEmail: "orders@metrohardware.example", GSTNumber: "27BBBBB1111B2Z4"},
	}
	for _, v := range vendors {
		if err := db.Create(&v).Error; err != nil {
			log.Fatalf("Failed to seed vendor %s: %v", v.VendorCode, err)
		}
	}
	fmt.Println("Seeded vendors")
}
