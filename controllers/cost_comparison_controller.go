package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"procure-app/controllers/idgen"
	"procure-app/models"
	"procure-app/procurement/planner"
	"procure-app/procurement/quotes"
	"procure-app/procurement/status"
	"procure-app/services"
	"procure-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// autoSaveDelay is the quiet period after a quantity edit before the
// pending payload is persisted.
const autoSaveDelay = 1 * time.Second

type CostComparisonController struct {
	DB        *gorm.DB
	Notifier  *services.Notifier
	scheduler *services.SaveScheduler
}

func NewCostComparisonController(db *gorm.DB) *CostComparisonController {
	c := &CostComparisonController{
		DB:       db,
		Notifier: services.NewNotifier(),
	}
	c.scheduler = services.NewSaveScheduler(autoSaveDelay, c.persistPending)
	return c
}

type quoteInput struct {
	VendorID        types.SnowflakeID `json:"vendor_id"`
	UnitPrice       float64           `json:"unit_price"`
	Amount          int               `json:"amount"`
	Uom             string            `json:"uom"`
	DiscountPercent *float64          `json:"discount_percent"`
	GSTPercent      *float64          `json:"gst_percent"`
	CGSTPercent     *float64          `json:"cgst_percent"`
	SGSTPercent     *float64          `json:"sgst_percent"`
	Notes           string            `json:"notes"`
}

type ccInput struct {
	IsDirectDelivery             bool         `json:"is_direct_delivery"`
	InventoryFulfillmentQuantity int          `json:"inventory_fulfillment_quantity" validate:"min=0"`
	PurchaseQuantity             int          `json:"purchase_quantity" validate:"min=0"`
	VendorQuotes                 []quoteInput `json:"vendor_quotes"`
	AutoSave                     bool         `json:"auto_save"`

	userID int
}

// GetByRequest returns the comparison for a request. When none has been
// saved yet the response carries derived default quantities; persisted
// quantities are returned verbatim so a refresh never clobbers edits.
func (c *CostComparisonController) GetByRequest(ctx *fiber.Ctx) error {
	requestID, err := parseSnowflakeParam(ctx, "requestId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	stock := c.centralStockFor(request.ItemName)

	var cc models.CostComparison
	err = c.DB.Preload("VendorQuotes", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&cc, "request_id = ?", request.ID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		// nothing saved yet, hand back derived defaults only
		plan := planner.Default(request.Quantity, stock, false)
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{
			"cost_comparison": nil,
			"plan":            plan,
			"central_stock":   stock,
		}})
	}

	persisted := planner.Plan{FromInventory: cc.InventoryFulfillmentQuantity, ToBuy: cc.PurchaseQuantity}
	plan := planner.Load(request.Quantity, stock, persisted, cc.IsSplitApproved())
	state, gap := planner.Classify(request.Quantity, plan)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"cost_comparison": cc,
		"plan":            plan,
		"total_state":     state.String(),
		"total_gap":       gap,
		"central_stock":   stock,
	}})
}

// Upsert saves the editable state of a comparison. The whole quote list
// is replaced on save. Saving never changes the status; with auto_save
// set the write is debounced and a later edit within the window wins.
func (c *CostComparisonController) Upsert(ctx *fiber.Ctx) error {
	var input ccInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	requestID, err := parseSnowflakeParam(ctx, "requestId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	// quote list validated up front, nothing persisted on rejection
	ledger := quotes.NewLedger(nil)
	for _, q := range input.VendorQuotes {
		if err := ledger.AddOrUpdate(toLedgerQuote(q), -1); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	stock := c.centralStockFor(request.ItemName)
	plan := planner.Plan{FromInventory: input.InventoryFulfillmentQuantity, ToBuy: input.PurchaseQuantity}
	if plan.FromInventory > 0 || plan.ToBuy > 0 {
		if err := planner.Validate(request.Quantity, stock, plan); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	cc, err := c.findOrCreateDraft(&request)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !status.Editable(cc.Status) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": status.ErrNotEditable.Error()})
	}

	input.userID = int(ctx.Locals("userID").(float64))

	if input.AutoSave {
		c.scheduler.Schedule(cc.ID, input)
		return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{"success": true, "message": "Save scheduled"})
	}

	if err := c.scheduler.Save(cc.ID, input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var saved models.CostComparison
	if err := c.DB.Preload("VendorQuotes").First(&saved, "id = ?", cc.ID).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Cost comparison saved", "data": saved})
}

// Submit moves an editable comparison into manager review. A pending
// debounced save is flushed first so the reviewed data is what the user
// last typed.
func (c *CostComparisonController) Submit(ctx *fiber.Ctx) error {
	ccID, err := parseSnowflakeParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var cc models.CostComparison
	if err := c.DB.First(&cc, "id = ?", ccID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cost comparison not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.scheduler.Flush(cc.ID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := c.DB.First(&cc, "id = ?", cc.ID).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var quoteCount int64
	if err := c.DB.Model(&models.VendorQuote{}).Where("cost_comparison_id = ?", cc.ID).Count(&quoteCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	next, err := status.Submit(cc.Status, int(quoteCount))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))
	err = c.DB.Transaction(func(tx *gorm.DB) error {
		cc.Status = next
		cc.UpdatedBy = userID
		if err := tx.Save(&cc).Error; err != nil {
			return err
		}
		return tx.Model(&models.PurchaseRequest{}).
			Where("id = ?", cc.RequestID).
			Updates(map[string]interface{}{"status": next, "updated_by": userID}).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Cost comparison submitted", "data": cc})
}

// Review resolves a pending comparison. Approval requires a vendor from
// the quote list; rejection makes the comparison editable again.
func (c *CostComparisonController) Review(ctx *fiber.Ctx) error {
	var input struct {
		Action           string            `json:"action" validate:"required,oneof=approve reject"`
		SelectedVendorID types.SnowflakeID `json:"selected_vendor_id"`
		Notes            string            `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ccID, err := parseSnowflakeParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var cc models.CostComparison
	if err := c.DB.Preload("VendorQuotes").First(&cc, "id = ?", ccID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cost comparison not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	approve := input.Action == "approve"
	hasVendor := false
	if input.SelectedVendorID != 0 {
		ledger := quotes.NewLedger(toLedgerQuotes(cc.VendorQuotes))
		hasVendor = ledger.Contains(input.SelectedVendorID)
		if approve && !hasVendor {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Selected vendor has no quote in this comparison"})
		}
	}

	next, err := status.Review(cc.Status, approve, hasVendor)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))
	now := time.Now()
	err = c.DB.Transaction(func(tx *gorm.DB) error {
		cc.Status = next
		cc.ManagerNotes = input.Notes
		cc.ReviewedBy = userID
		cc.ReviewedAt = &now
		if approve {
			cc.SelectedVendorID = input.SelectedVendorID
		}
		cc.UpdatedBy = userID
		if err := tx.Save(&cc).Error; err != nil {
			return err
		}
		return tx.Model(&models.PurchaseRequest{}).
			Where("id = ?", cc.RequestID).
			Updates(map[string]interface{}{"status": next, "updated_by": userID}).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	go c.notifyReview(cc, input.Action, input.Notes)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Cost comparison reviewed", "data": cc})
}

// ApproveSplit records the manager's approval of a mixed plan. This is
// orthogonal to the review decision and only unlocks inventory release.
func (c *CostComparisonController) ApproveSplit(ctx *fiber.Ctx) error {
	var input struct {
		InventoryQuantity int    `json:"inventory_quantity" validate:"min=0"`
		Notes             string `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ccID, err := parseSnowflakeParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	userID := int(ctx.Locals("userID").(float64))
	service := services.NewFulfillmentService(c.DB)
	cc, err := service.ApproveSplit(ccID, input.InventoryQuantity, input.Notes, userID)
	if err != nil {
		return ctx.Status(statusForServiceError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Split fulfillment approved", "data": cc})
}

// Release deducts the inventory portion of an approved split from
// central stock. Refused with a pending-approval error for an
// unapproved mixed plan.
func (c *CostComparisonController) Release(ctx *fiber.Ctx) error {
	ccID, err := parseSnowflakeParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	userID := int(ctx.Locals("userID").(float64))
	service := services.NewFulfillmentService(c.DB)
	newStock, err := service.ReleaseInventory(ccID, userID)
	if err != nil {
		return ctx.Status(statusForServiceError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Inventory released", "data": fiber.Map{"new_stock": newStock}})
}

// ExportExcel writes the quote comparison with the full price breakdown.
func (c *CostComparisonController) ExportExcel(ctx *fiber.Ctx) error {
	ccID, err := parseSnowflakeParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var cc models.CostComparison
	err = c.DB.Preload("VendorQuotes", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&cc, "id = ?", ccID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cost comparison not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", cc.RequestID).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Vendor ID")
	f.SetCellValue(sheet, "B1", "Unit Price")
	f.SetCellValue(sheet, "C1", "Discount %")
	f.SetCellValue(sheet, "D1", "GST %")
	f.SetCellValue(sheet, "E1", "Price After Discount")
	f.SetCellValue(sheet, "F1", "GST Amount")
	f.SetCellValue(sheet, "G1", "Final Unit Price")
	f.SetCellValue(sheet, "H1", "Line Total")

	for i, q := range cc.VendorQuotes {
		lq := toLedgerQuote(quoteInput{
			VendorID:        q.VendorID,
			UnitPrice:       q.UnitPrice,
			Amount:          q.Amount,
			Uom:             q.Uom,
			DiscountPercent: q.DiscountPercent,
			GSTPercent:      q.GSTPercent,
			CGSTPercent:     q.CGSTPercent,
			SGSTPercent:     q.SGSTPercent,
		})
		pricing := quotes.Price(lq, cc.PurchaseQuantity)

		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), int64(q.VendorID))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), q.UnitPrice)
		if q.DiscountPercent != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), *q.DiscountPercent)
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), quotes.EffectiveGST(lq).InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), pricing.PriceAfterDiscount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), pricing.GSTAmount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), pricing.FinalUnitPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), pricing.LineTotal.InexactFloat64())
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cost_comparison_%s.xlsx"`, request.RequestNumber))

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}

// persistPending is the scheduler's save function: it writes the pending
// payload for the comparison, replacing the whole quote list. The
// scheduler keeps the payload until this returns nil, so a failed
// transaction is retried with the same edits.
func (c *CostComparisonController) persistPending(id types.SnowflakeID, payload interface{}) error {
	input, ok := payload.(ccInput)
	if !ok {
		return nil
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		var cc models.CostComparison
		if err := tx.First(&cc, "id = ?", id).Error; err != nil {
			return err
		}

		cc.IsDirectDelivery = input.IsDirectDelivery
		cc.InventoryFulfillmentQuantity = input.InventoryFulfillmentQuantity
		cc.PurchaseQuantity = input.PurchaseQuantity
		cc.UpdatedBy = input.userID
		if err := tx.Save(&cc).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("cost_comparison_id = ?", cc.ID).Delete(&models.VendorQuote{}).Error; err != nil {
			return err
		}
		for i, q := range input.VendorQuotes {
			amount := q.Amount
			if amount <= 0 {
				amount = 1
			}
			quote := models.VendorQuote{
				CostComparisonID: cc.ID,
				VendorID:         q.VendorID,
				Position:         i,
				UnitPrice:        q.UnitPrice,
				Amount:           amount,
				Uom:              q.Uom,
				DiscountPercent:  q.DiscountPercent,
				GSTPercent:       q.GSTPercent,
				CGSTPercent:      q.CGSTPercent,
				SGSTPercent:      q.SGSTPercent,
				Notes:            q.Notes,
				CreatedBy:        input.userID,
			}
			if err := tx.Create(&quote).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *CostComparisonController) findOrCreateDraft(request *models.PurchaseRequest) (*models.CostComparison, error) {
	var cc models.CostComparison
	err := c.DB.First(&cc, "request_id = ?", request.ID).Error
	if err == nil {
		return &cc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cc = models.CostComparison{
		ID:        types.SnowflakeID(idgen.GenerateID()),
		RequestID: request.ID,
		Status:    status.Draft,
	}
	if err := c.DB.Create(&cc).Error; err != nil {
		return nil, err
	}
	return &cc, nil
}

func (c *CostComparisonController) centralStockFor(itemName string) int {
	var item models.InventoryItem
	if err := c.DB.Where("LOWER(item_name) = LOWER(?)", itemName).First(&item).Error; err != nil {
		return 0
	}
	return item.CentralStock
}

func (c *CostComparisonController) notifyReview(cc models.CostComparison, decision, notes string) {
	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", cc.RequestID).Error; err != nil {
		return
	}
	var requester models.User
	if err := c.DB.First(&requester, request.RequestedBy).Error; err != nil {
		return
	}
	if err := c.Notifier.SendReviewNotification([]string{requester.Email}, request.RequestNumber, decision, notes); err != nil {
		log.Println("Failed to send review notification:", err)
	}
}

func toLedgerQuote(q quoteInput) quotes.Quote {
	return quotes.Quote{
		VendorID:        q.VendorID,
		UnitPrice:       q.UnitPrice,
		Amount:          q.Amount,
		Uom:             q.Uom,
		DiscountPercent: q.DiscountPercent,
		GSTPercent:      q.GSTPercent,
		CGSTPercent:     q.CGSTPercent,
		SGSTPercent:     q.SGSTPercent,
	}
}

func toLedgerQuotes(rows []models.VendorQuote) []quotes.Quote {
	out := make([]quotes.Quote, 0, len(rows))
	for _, q := range rows {
		out = append(out, quotes.Quote{
			VendorID:        q.VendorID,
			UnitPrice:       q.UnitPrice,
			Amount:          q.Amount,
			Uom:             q.Uom,
			DiscountPercent: q.DiscountPercent,
			GSTPercent:      q.GSTPercent,
			CGSTPercent:     q.CGSTPercent,
			SGSTPercent:     q.SGSTPercent,
		})
	}
	return out
}

func parseSnowflakeParam(ctx *fiber.Ctx, name string) (types.SnowflakeID, error) {
	var id types.SnowflakeID
	raw := `"` + ctx.Params(name) + `"`
	if err := id.UnmarshalJSON([]byte(raw)); err != nil {
		return 0, err
	}
	return id, nil
}

func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, services.ErrComparisonNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrAlreadyReleased),
		errors.Is(err, planner.ErrSplitNotApproved):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrNotMixedPlan),
		errors.Is(err, services.ErrAlreadySplitApproved),
		errors.Is(err, planner.ErrNothingToRelease),
		errors.Is(err, planner.ErrExceedsStock),
		errors.Is(err, planner.ErrZeroPurchase),
		errors.Is(err, planner.ErrNegativeQuantity),
		errors.Is(err, planner.ErrQuantityRequired):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
