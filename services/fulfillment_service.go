package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"procure-app/models"
	"procure-app/procurement/planner"
	"procure-app/procurement/status"
	"procure-app/types"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock    = errors.New("insufficient central stock for deduction")
	ErrItemNotFound         = errors.New("inventory item not found")
	ErrComparisonNotFound   = errors.New("cost comparison not found")
	ErrRequestNotFound      = errors.New("purchase request not found")
	ErrNotMixedPlan         = errors.New("plan is not a mixed fulfillment, nothing to approve")
	ErrAlreadySplitApproved = errors.New("split fulfillment already approved")
	ErrAlreadyReleased      = errors.New("inventory portion has already been released")
)

// FulfillmentService owns the split-approval gate and the stock-side
// effects of releasing the inventory portion of a plan.
type FulfillmentService struct {
	DB *gorm.DB
}

func NewFulfillmentService(db *gorm.DB) *FulfillmentService {
	return &FulfillmentService{DB: db}
}

// ApproveSplit records a manager's approval of a mixed plan. The
// approval only unlocks the inventory release; it does not move the
// cost comparison along the review axis.
func (s *FulfillmentService) ApproveSplit(ccID types.SnowflakeID, inventoryQty int, notes string, userID int) (*models.CostComparison, error) {
	var cc models.CostComparison

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cc, "id = ?", ccID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComparisonNotFound
			}
			return err
		}
		if cc.IsSplitApproved() {
			return ErrAlreadySplitApproved
		}

		var req models.PurchaseRequest
		if err := tx.First(&req, "id = ?", cc.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		stock, err := s.centralStock(tx, req.ItemName)
		if err != nil {
			return err
		}

		if inventoryQty > 0 {
			cc.InventoryFulfillmentQuantity = inventoryQty
		}
		plan := planner.Plan{FromInventory: cc.InventoryFulfillmentQuantity, ToBuy: cc.PurchaseQuantity}
		if !plan.IsMixed() {
			return ErrNotMixedPlan
		}
		if err := planner.Validate(req.Quantity, stock, plan); err != nil {
			return err
		}

		now := time.Now()
		cc.SplitApprovedAt = &now
		if notes != "" {
			cc.ManagerNotes = notes
		}
		cc.UpdatedBy = userID
		return tx.Save(&cc).Error
	})
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

// releaseAmount validates a release attempt against the plan and the
// release marker, and returns the quantity to deduct from central stock.
// A plan whose inventory portion was already released is refused, so the
// deduction is one-shot even when the client retries.
func releaseAmount(plan planner.Plan, splitApproved bool, releasedAt *time.Time) (int, error) {
	if releasedAt != nil {
		return 0, ErrAlreadyReleased
	}
	if err := planner.CanRelease(plan, splitApproved); err != nil {
		return 0, err
	}
	return plan.FromInventory, nil
}

// ReleaseInventory deducts the inventory portion of an approved plan
// from central stock and moves the request into delivery processing.
// The purchase portion proceeds independently through the PO workflow.
func (s *FulfillmentService) ReleaseInventory(ccID types.SnowflakeID, userID int) (int, error) {
	newStock := 0

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cc models.CostComparison
		if err := tx.First(&cc, "id = ?", ccID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComparisonNotFound
			}
			return err
		}

		var req models.PurchaseRequest
		if err := tx.First(&req, "id = ?", cc.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		plan := planner.Plan{FromInventory: cc.InventoryFulfillmentQuantity, ToBuy: cc.PurchaseQuantity}
		quantity, err := releaseAmount(plan, cc.IsSplitApproved(), cc.ReleasedAt)
		if err != nil {
			return err
		}

		reason := fmt.Sprintf("Split delivery for request %s", req.RequestNumber)
		stock, err := s.deduct(tx, req.ItemName, quantity, reason, userID)
		if err != nil {
			return err
		}
		newStock = stock

		now := time.Now()
		cc.ReleasedAt = &now
		cc.UpdatedBy = userID
		if err := tx.Save(&cc).Error; err != nil {
			return err
		}

		if status.CanTransition(req.Status, status.DeliveryProcessing) {
			req.Status = status.DeliveryProcessing
			req.UpdatedBy = userID
			if err := tx.Save(&req).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// DeductStock is the standalone deduction operation used by the
// inventory endpoint. Returns the stock remaining after the deduction.
func (s *FulfillmentService) DeductStock(itemName string, quantity int, reason string, userID int) (int, error) {
	newStock := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		stock, err := s.deduct(tx, itemName, quantity, reason, userID)
		if err != nil {
			return err
		}
		newStock = stock
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// deduct is a compare-and-decrement: the guard on central_stock runs in
// the same UPDATE, so two requests racing for the last units cannot both
// win. Zero rows affected means the stock was already too low.
func (s *FulfillmentService) deduct(tx *gorm.DB, itemName string, quantity int, reason string, userID int) (int, error) {
	if quantity <= 0 {
		return 0, planner.ErrNegativeQuantity
	}

	res := tx.Model(&models.InventoryItem{}).
		Where("LOWER(item_name) = ? AND central_stock >= ?", strings.ToLower(itemName), quantity).
		UpdateColumn("central_stock", gorm.Expr("central_stock - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.InventoryItem{}).
			Where("LOWER(item_name) = ?", strings.ToLower(itemName)).
			Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, ErrItemNotFound
		}
		return 0, ErrInsufficientStock
	}

	stock, err := s.centralStock(tx, itemName)
	if err != nil {
		return 0, err
	}

	movement := models.StockMovement{
		ItemName:  itemName,
		Quantity:  -quantity,
		NewStock:  stock,
		Reason:    reason,
		CreatedBy: userID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return 0, err
	}
	return stock, nil
}

func (s *FulfillmentService) centralStock(tx *gorm.DB, itemName string) (int, error) {
	var item models.InventoryItem
	err := tx.Where("LOWER(item_name) = ?", strings.ToLower(itemName)).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// absent item means zero stock for planning purposes
			return 0, nil
		}
		return 0, err
	}
	return item.CentralStock, nil
}
