package routes

import (
	"procure-app/config"
	"procure-app/controllers"
	"procure-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRequestRoutes(app *fiber.App, db *gorm.DB) {
	requestController := controllers.NewRequestController(db)

	api := app.Group(config.MAIN_ROUTES+"/requests", middleware.AuthMiddleware)
	api.Post("/", requestController.CreateRequest)
	api.Get("/", requestController.GetAllRequests)
	api.Get("/:id", requestController.GetRequestByID)
	api.Put("/:id/status", requestController.UpdateRequestStatus)
	api.Post("/:id/direct-action", middleware.RequireRole("manager", "purchase_officer"), requestController.DirectAction)
	api.Delete("/:id", requestController.DeleteRequest)
}
