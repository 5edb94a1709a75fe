package routes

import (
	"procure-app/config"
	"procure-app/controllers"
	"procure-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCostComparisonRoutes(app *fiber.App, db *gorm.DB) {
	ccController := controllers.NewCostComparisonController(db)

	api := app.Group(config.MAIN_ROUTES+"/cost-comparisons", middleware.AuthMiddleware)
	api.Get("/request/:requestId", ccController.GetByRequest)
	api.Put("/request/:requestId", ccController.Upsert)
	api.Post("/:id/submit", ccController.Submit)
	api.Post("/:id/review", middleware.RequireRole("manager"), ccController.Review)
	api.Post("/:id/approve-split", middleware.RequireRole("manager"), ccController.ApproveSplit)
	api.Post("/:id/release", middleware.RequireRole("manager", "purchase_officer"), ccController.Release)
	api.Get("/:id/export", ccController.ExportExcel)
}
