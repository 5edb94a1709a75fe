package models

import "gorm.io/gorm"

type InventoryItem struct {
	gorm.Model
	ItemName     string `json:"item_name" gorm:"uniqueIndex" validate:"required"`
	CentralStock int    `json:"central_stock" gorm:"default:0;check:central_stock >= 0"`
	Uom          string `json:"uom"`
	CreatedBy    int
	UpdatedBy    int
}

// StockMovement is the audit row written for every stock mutation.
// CentralStock on the item is only ever changed through an explicit
// deduction or addition, never inferred from request state.
type StockMovement struct {
	gorm.Model
	ItemName  string `json:"item_name" gorm:"index"`
	Quantity  int    `json:"quantity"` // negative for deductions
	NewStock  int    `json:"new_stock"`
	Reason    string `json:"reason"`
	CreatedBy int
}
