// FILE: internal/controller/admin_controller.go
package controller

import (
	"talentscout-be/internal/dto"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/internal/pkg/serverutils"
	"talentscout-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetCandidates(ctx *fiber.Ctx) error
	GetAuditEvents(ctx *fiber.Ctx) error
	RunRetentionSweep(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IAdminService
	jwtSecret string
}

func NewAdminController(service service.IAdminService, jwtSecret string) IAdminController {
	return &adminController{
		service:   service,
		jwtSecret: jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1", serverutils.AdminMiddleware(c.jwtSecret))

	h.Get("/candidates", c.GetCandidates)
	h.Get("/audit", c.GetAuditEvents)
	h.Post("/retention/sweep", c.RunRetentionSweep)
	h.Get("/logs", c.GetLogs)
}

func (c *adminController) GetCandidates(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.service.ListCandidates(ctx.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Candidates", res))
}

func (c *adminController) GetAuditEvents(ctx *fiber.Ctx) error {
	var req dto.ListAuditEventsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AuditTrail(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit events", res))
}

func (c *adminController) RunRetentionSweep(ctx *fiber.Ctx) error {
	res, err := c.service.RunRetentionSweep(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Retention sweep finished", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	logs, err := c.service.GetSystemLogs(ctx.UserContext(), page, limit, logger.LogFilter{
		Level:       ctx.Query("level"),
		Module:      ctx.Query("module"),
		CandidateId: ctx.Query("candidate_id"),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}
