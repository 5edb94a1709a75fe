package models

import (
	"procure-app/types"

	"gorm.io/gorm"
)

// PurchaseRequest is one line item being procured. Several line items may
// share one RequestNumber and are displayed as a group.
type PurchaseRequest struct {
	gorm.Model
	ID            types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	RequestNumber string            `json:"request_number" gorm:"index" validate:"required"`
	ItemName      string            `json:"item_name" validate:"required"`
	Quantity      int               `json:"quantity" gorm:"check:quantity > 0" validate:"required,min=1"`
	Uom           string            `json:"uom" validate:"required"`
	Status        string            `json:"status" gorm:"default:draft"`
	DirectAction  string            `json:"direct_action"` // "po" | "delivery" | "all" | ""
	RequestedBy   int               `json:"requested_by"`
	SiteName      string            `json:"site_name"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}
