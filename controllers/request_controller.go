package controllers

import (
	"errors"

	"procure-app/controllers/idgen"
	"procure-app/models"
	"procure-app/procurement/status"
	"procure-app/repositories"
	"procure-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RequestController struct {
	DB *gorm.DB
}

func NewRequestController(db *gorm.DB) *RequestController {
	return &RequestController{DB: db}
}

type requestItemInput struct {
	ItemName string `json:"item_name" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Uom      string `json:"uom" validate:"required"`
}

type requestInput struct {
	RequestNumber string             `json:"request_number" validate:"required,min=3"`
	SiteName      string             `json:"site_name"`
	DirectAction  string             `json:"direct_action" validate:"omitempty,oneof=po delivery all"`
	Items         []requestItemInput `json:"items" validate:"required,min=1,dive"`
}

func (c *RequestController) CreateRequest(ctx *fiber.Ctx) error {
	var input requestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))

	requests := make([]models.PurchaseRequest, 0, len(input.Items))
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range input.Items {
			request := models.PurchaseRequest{
				ID:            types.SnowflakeID(idgen.GenerateID()),
				RequestNumber: input.RequestNumber,
				ItemName:      item.ItemName,
				Quantity:      item.Quantity,
				Uom:           item.Uom,
				Status:        status.Draft,
				DirectAction:  input.DirectAction,
				SiteName:      input.SiteName,
				RequestedBy:   userID,
				CreatedBy:     userID,
			}
			if err := tx.Create(&request).Error; err != nil {
				return err
			}
			requests = append(requests, request)
		}
		return nil
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Request created successfully", "data": requests})
}

func (c *RequestController) GetAllRequests(ctx *fiber.Ctx) error {
	requestRepo := repositories.NewRequestRepository(c.DB)
	groups, err := requestRepo.GetGroupedRequests()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"requests": groups}})
}

func (c *RequestController) GetRequestByID(ctx *fiber.Ctx) error {
	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", ctx.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Request found", "data": request})
}

// UpdateRequestStatus moves a request along the workflow. Only moves the
// transition table allows go through; saving edits never lands here.
func (c *RequestController) UpdateRequestStatus(ctx *fiber.Ctx) error {
	var input struct {
		Status       string `json:"status" validate:"required"`
		DirectAction string `json:"direct_action" validate:"omitempty,oneof=po delivery all"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", ctx.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	next, err := status.Transition(request.Status, input.Status)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request.Status = next
	if input.DirectAction != "" {
		request.DirectAction = input.DirectAction
	}
	request.UpdatedBy = int(ctx.Locals("userID").(float64))

	if err := c.DB.Save(&request).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Status updated successfully", "data": request})
}

// DirectAction fast-paths a request to PO or delivery, bypassing cost
// comparison, when the request carries the matching hint.
func (c *RequestController) DirectAction(ctx *fiber.Ctx) error {
	var input struct {
		Action string `json:"action" validate:"required,oneof=po delivery"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", ctx.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if request.DirectAction != "" && request.DirectAction != status.DirectActionAll && request.DirectAction != input.Action {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request does not allow this direct action"})
	}

	target, err := status.DirectTarget(input.Action)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	next, err := status.Transition(request.Status, target)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request.Status = next
	request.UpdatedBy = int(ctx.Locals("userID").(float64))
	if err := c.DB.Save(&request).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Request fast-pathed successfully", "data": request})
}

func (c *RequestController) DeleteRequest(ctx *fiber.Ctx) error {
	var request models.PurchaseRequest
	if err := c.DB.First(&request, "id = ?", ctx.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	request.DeletedBy = int(ctx.Locals("userID").(float64))
	if err := c.DB.Select("deleted_by").Where("id = ?", request.ID).Updates(&request).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Delete(&request).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Request deleted successfully", "data": request})
}
