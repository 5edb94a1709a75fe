package controllers

import (
	"fmt"
	"net/http"

	"procure-app/models"
	"procure-app/repositories"
	"procure-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

func (c *InventoryController) GetStock(ctx *fiber.Ctx) error {
	inventoryRepo := repositories.NewInventoryRepository(c.DB)
	stocks, err := inventoryRepo.GetStockSummary()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"stocks": stocks}})
}

func (c *InventoryController) CreateItem(ctx *fiber.Ctx) error {
	var input struct {
		ItemName     string `json:"item_name" validate:"required"`
		CentralStock int    `json:"central_stock" validate:"min=0"`
		Uom          string `json:"uom" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item := models.InventoryItem{
		ItemName:     input.ItemName,
		CentralStock: input.CentralStock,
		Uom:          input.Uom,
		CreatedBy:    int(ctx.Locals("userID").(float64)),
	}
	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Inventory item created successfully", "data": item})
}

// Deduct runs the atomic compare-and-decrement on central stock. The
// response carries the authoritative remaining stock; clients must not
// compute their own.
func (c *InventoryController) Deduct(ctx *fiber.Ctx) error {
	var input struct {
		ItemName string `json:"item_name" validate:"required"`
		Quantity int    `json:"quantity" validate:"required,min=1"`
		Reason   string `json:"reason" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))
	service := services.NewFulfillmentService(c.DB)
	newStock, err := service.DeductStock(input.ItemName, input.Quantity, input.Reason, userID)
	if err != nil {
		return ctx.Status(statusForServiceError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Stock deducted successfully", "data": fiber.Map{"new_stock": newStock}})
}

func (c *InventoryController) GetMovements(ctx *fiber.Ctx) error {
	var movements []models.StockMovement
	query := c.DB.Order("created_at desc").Limit(200)
	if itemName := ctx.Query("item_name"); itemName != "" {
		query = query.Where("item_name = ?", itemName)
	}
	if err := query.Find(&movements).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"movements": movements}})
}

func (c *InventoryController) ExportExcel(ctx *fiber.Ctx) error {
	inventoryRepo := repositories.NewInventoryRepository(c.DB)
	stocks, err := inventoryRepo.GetStockSummary()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Item Name")
	f.SetCellValue(sheet, "B1", "Uom")
	f.SetCellValue(sheet, "C1", "Central Stock")
	f.SetCellValue(sheet, "D1", "Open Requests")
	f.SetCellValue(sheet, "E1", "Open Request Qty")

	for i, item := range stocks {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), item.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), item.Uom)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), item.CentralStock)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), item.OpenRequests)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), item.OpenRequestQty)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="stock_report.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}
