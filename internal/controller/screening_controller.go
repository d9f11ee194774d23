// FILE: internal/controller/screening_controller.go
package controller

import (
	"talentscout-be/internal/dto"
	"talentscout-be/internal/pkg/serverutils"
	"talentscout-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IScreeningController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type screeningController struct {
	service service.IScreeningService
}

func NewScreeningController(service service.IScreeningService) IScreeningController {
	return &screeningController{service: service}
}

func (c *screeningController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/screening/v1")
	h.Post("/sessions", c.StartSession)
	h.Post("/sessions/:id/messages", c.SendMessage)
	h.Get("/sessions/:id", c.GetSession)
	h.Get("/sessions/:id/history", c.GetHistory)
}

func (c *screeningController) StartSession(ctx *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if !req.Consent {
		return service.ErrConsentRequired
	}

	res, err := c.service.StartSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Screening started", res))
}

func (c *screeningController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *screeningController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Screening session", res))
}

func (c *screeningController) GetHistory(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)

	res, err := c.service.History(ctx.UserContext(), ctx.Params("id"), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation history", res))
}
