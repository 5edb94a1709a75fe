package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"procure-app/models"
	"procure-app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type VendorController struct {
	DB *gorm.DB
}

// vendorForm is parsed per request; handlers must not share a parse
// target across concurrent requests.
type vendorForm struct {
	VendorCode    string `json:"vendor_code"`
	VendorName    string `json:"vendor_name"`
	VendorAddr1   string `json:"vendor_addr1"`
	VendorCity    string `json:"vendor_city"`
	VendorCountry string `json:"vendor_country"`
	VendorPhone   string `json:"vendor_phone"`
	VendorEmail   string `json:"vendor_email"`
	GSTNumber     string `json:"gst_number"`
}

func NewVendorController(db *gorm.DB) *VendorController {
	return &VendorController{DB: db}
}

func (c *VendorController) CreateVendor(ctx *fiber.Ctx) error {
	var input vendorForm
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.VendorCode == "" || input.VendorName == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vendor_code and vendor_name are required"})
	}

	vendor := models.Vendor{
		VendorCode:    input.VendorCode,
		VendorName:    input.VendorName,
		VendorAddr1:   input.VendorAddr1,
		VendorCity:    input.VendorCity,
		VendorCountry: input.VendorCountry,
		VendorPhone:   input.VendorPhone,
		VendorEmail:   input.VendorEmail,
		GSTNumber:     input.GSTNumber,
		CreatedBy:     int(ctx.Locals("userID").(float64)),
	}

	if err := c.DB.Create(&vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor created successfully", "data": vendor})
}

func (c *VendorController) GetAllVendors(ctx *fiber.Ctx) error {
	var vendors []models.Vendor
	if err := c.DB.Find(&vendors).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendors found", "data": vendors})
}

func (c *VendorController) GetVendorByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var result models.Vendor
	if err := c.DB.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor found", "data": result})
}

func (c *VendorController) UpdateVendor(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input vendorForm
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vendor := models.Vendor{
		VendorCode:    input.VendorCode,
		VendorName:    input.VendorName,
		VendorAddr1:   input.VendorAddr1,
		VendorCity:    input.VendorCity,
		VendorCountry: input.VendorCountry,
		VendorPhone:   input.VendorPhone,
		VendorEmail:   input.VendorEmail,
		GSTNumber:     input.GSTNumber,
		UpdatedBy:     int(ctx.Locals("userID").(float64)),
	}

	if err := c.DB.Model(&vendor).Where("id = ?", id).Updates(vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor updated successfully", "data": vendor})
}

func (c *VendorController) DeleteVendor(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var vendor models.Vendor
	if err := c.DB.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vendor not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	vendor.DeletedBy = int(ctx.Locals("userID").(float64))
	if err := c.DB.Select("deleted_by").Where("id = ?", id).Updates(&vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Delete(&vendor).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Vendor deleted successfully", "data": vendor})
}

type VendorUploadResult struct {
	TotalRows     int      `json:"total_rows"`
	SuccessCount  int      `json:"success_count"`
	SkippedCount  int      `json:"skipped_count"`
	ErrorCount    int      `json:"error_count"`
	SkippedItems  []string `json:"skipped_items"`
	ErrorMessages []string `json:"error_messages"`
}

func (c *VendorController) CreateVendorFromExcel(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") &&
		!strings.HasSuffix(strings.ToLower(file.Filename), ".xls") {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Only Excel files (.xlsx, .xls) are allowed",
		})
	}

	fileContent, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open file",
		})
	}
	defer fileContent.Close()

	f, err := excelize.OpenReader(fileContent)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read Excel file",
		})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No sheets found in Excel file",
		})
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read rows",
		})
	}

	if len(rows) < 2 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Excel file must contain header and at least one data row",
		})
	}

	result := VendorUploadResult{
		TotalRows:     len(rows) - 1,
		SkippedItems:  []string{},
		ErrorMessages: []string{},
	}

	userID := int(ctx.Locals("userID").(float64))

	tx := c.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for i, row := range rows[1:] {
		rowNum := i + 2 // Excel row number (header is row 1)

		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		if len(row) < 7 {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Insufficient columns (expected 7)", rowNum))
			continue
		}

		vendorCode := strings.ToUpper(strings.TrimSpace(row[0]))
		vendorName := strings.TrimSpace(row[1])
		vendorAddr1 := strings.TrimSpace(row[2])
		vendorCity := strings.TrimSpace(row[3])
		vendorCountry := strings.TrimSpace(row[4])
		vendorPhone := strings.TrimSpace(row[5])
		vendorEmail := strings.TrimSpace(row[6])
		gstNumber := ""
		if len(row) > 7 {
			gstNumber = strings.ToUpper(strings.TrimSpace(row[7]))
		}

		if vendorCode == "" || vendorName == "" {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: VENDOR_CODE and VENDOR_NAME are required", rowNum))
			continue
		}

		var existingVendor models.Vendor
		if err := tx.Where("vendor_code = ?", vendorCode).First(&existingVendor).Error; err == nil {
			result.SkippedCount++
			result.SkippedItems = append(result.SkippedItems, vendorCode)
			continue
		}

		if vendorEmail != "" && !utils.IsValidEmail(vendorEmail) {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Invalid email format '%s'", rowNum, vendorEmail))
			continue
		}

		vendor := models.Vendor{
			VendorCode:    vendorCode,
			VendorName:    vendorName,
			VendorAddr1:   vendorAddr1,
			VendorCity:    vendorCity,
			VendorCountry: vendorCountry,
			VendorPhone:   vendorPhone,
			VendorEmail:   vendorEmail,
			GSTNumber:     gstNumber,
			CreatedBy:     userID,
		}

		if err := tx.Create(&vendor).Error; err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Failed to create vendor - %s", rowNum, err.Error()))
			continue
		}

		result.SuccessCount++
	}

	if err := tx.Commit().Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to commit transaction",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Upload completed: %d success, %d skipped, %d errors",
			result.SuccessCount, result.SkippedCount, result.ErrorCount),
		"data": result,
	})
}

func (c *VendorController) ExportVendors(ctx *fiber.Ctx) error {
	var vendors []models.Vendor
	if err := c.DB.Find(&vendors).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Vendor Code")
	f.SetCellValue(sheet, "B1", "Vendor Name")
	f.SetCellValue(sheet, "C1", "City")
	f.SetCellValue(sheet, "D1", "Country")
	f.SetCellValue(sheet, "E1", "Phone")
	f.SetCellValue(sheet, "F1", "Email")
	f.SetCellValue(sheet, "G1", "GST Number")

	for i, v := range vendors {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), v.VendorCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), v.VendorName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), v.VendorCity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), v.VendorCountry)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), v.VendorPhone)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), v.VendorEmail)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), v.GSTNumber)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="vendors.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}
