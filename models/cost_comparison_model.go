package models

import (
	"time"

	"procure-app/types"

	"gorm.io/gorm"
)

// CostComparison is the evolving fulfillment plan attached to one
// purchase request: how much comes from central stock, how much is
// bought, and the vendor quotes being compared.
type CostComparison struct {
	gorm.Model
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	RequestID types.SnowflakeID `json:"request_id" gorm:"uniqueIndex"`
	Status    string            `json:"status" gorm:"default:draft"`

	VendorQuotes []VendorQuote `json:"vendor_quotes" gorm:"foreignKey:CostComparisonID"`

	IsDirectDelivery             bool `json:"is_direct_delivery"`
	InventoryFulfillmentQuantity int  `json:"inventory_fulfillment_quantity" gorm:"default:0"`
	PurchaseQuantity             int  `json:"purchase_quantity" gorm:"default:0"`

	// SplitApprovedAt is the authoritative signal that a manager approved
	// a mixed plan. ManagerNotes stays free text only. ReleasedAt marks
	// that the inventory portion has been deducted; a release is one-shot.
	SplitApprovedAt  *time.Time        `json:"split_approved_at"`
	ReleasedAt       *time.Time        `json:"released_at"`
	ManagerNotes     string            `json:"manager_notes"`
	SelectedVendorID types.SnowflakeID `json:"selected_vendor_id" gorm:"default:null"`
	ReviewedBy       int               `json:"reviewed_by"`
	ReviewedAt       *time.Time        `json:"reviewed_at"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (cc *CostComparison) IsSplitApproved() bool {
	return cc.SplitApprovedAt != nil
}

// VendorQuote is one vendor's price line within a cost comparison.
// DiscountPercent and GSTPercent stay nil when the user left them blank,
// so that older records with only a combined GST field keep their meaning.
type VendorQuote struct {
	gorm.Model
	CostComparisonID types.SnowflakeID `json:"cost_comparison_id" gorm:"index"`
	VendorID         types.SnowflakeID `json:"vendor_id"`
	Position         int               `json:"position"` // insertion order = display order
	UnitPrice        float64           `json:"unit_price" gorm:"check:unit_price >= 0"`
	Amount           int               `json:"amount" gorm:"default:1"`
	Uom              string            `json:"uom"`
	DiscountPercent  *float64          `json:"discount_percent"`
	GSTPercent       *float64          `json:"gst_percent"`
	CGSTPercent      *float64          `json:"cgst_percent"`
	SGSTPercent      *float64          `json:"sgst_percent"`
	Notes            string            `json:"notes"`
	CreatedBy        int
	UpdatedBy        int
}
