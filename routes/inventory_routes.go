package routes

import (
	"procure-app/config"
	"procure-app/controllers"
	"procure-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupInventoryRoutes(app *fiber.App, db *gorm.DB) {
	inventoryController := controllers.NewInventoryController(db)

	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)
	api.Get("/", inventoryController.GetStock)
	api.Get("/movements", inventoryController.GetMovements)
	api.Get("/export", inventoryController.ExportExcel)
	api.Post("/", middleware.RequireRole("manager", "purchase_officer"), inventoryController.CreateItem)
	api.Post("/deduct", middleware.RequireRole("manager", "purchase_officer"), inventoryController.Deduct)
}
