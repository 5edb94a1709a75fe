package routes

import (
	"procure-app/config"
	"procure-app/controllers"
	"procure-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupVendorRoutes(app *fiber.App, db *gorm.DB) {
	vendorController := controllers.NewVendorController(db)

	api := app.Group(config.MAIN_ROUTES+"/vendors", middleware.AuthMiddleware)
	api.Post("/upload-excel", middleware.RequireRole("manager", "purchase_officer"), vendorController.CreateVendorFromExcel)
	api.Post("/export", vendorController.ExportVendors)
	api.Post("/", middleware.RequireRole("manager", "purchase_officer"), vendorController.CreateVendor)
	api.Get("/", vendorController.GetAllVendors)
	api.Get("/:id", vendorController.GetVendorByID)
	api.Put("/:id", middleware.RequireRole("manager", "purchase_officer"), vendorController.UpdateVendor)
	api.Delete("/:id", middleware.RequireRole("manager"), vendorController.DeleteVendor)
}
