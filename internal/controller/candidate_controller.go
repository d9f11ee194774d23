// FILE: internal/controller/candidate_controller.go
package controller

import (
	"strings"

	"talentscout-be/internal/dto"
	"talentscout-be/internal/pkg/serverutils"
	"talentscout-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ICandidateController exposes the data-subject rights: access, export and
// erasure of one's own record by candidate id.
type ICandidateController interface {
	RegisterRoutes(r fiber.Router)
	GetCandidate(ctx *fiber.Ctx) error
	ExportCandidate(ctx *fiber.Ctx) error
	DeleteCandidate(ctx *fiber.Ctx) error
}

type candidateController struct {
	store service.ICandidateStoreService
}

func NewCandidateController(store service.ICandidateStoreService) ICandidateController {
	return &candidateController{store: store}
}

func (c *candidateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/candidates/v1")
	h.Get("/:id", c.GetCandidate)
	h.Get("/:id/export", c.ExportCandidate)
	h.Delete("/:id", c.DeleteCandidate)
}

func (c *candidateController) GetCandidate(ctx *fiber.Ctx) error {
	candidate, err := c.store.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	if candidate == nil {
		return service.ErrCandidateNotFound
	}
	return ctx.JSON(serverutils.SuccessResponse("Candidate record", service.ToRecordDocument(candidate)))
}

func (c *candidateController) ExportCandidate(ctx *fiber.Ctx) error {
	var req dto.ExportCandidateRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}

	out, err := c.store.Export(ctx.UserContext(), ctx.Params("id"), req.Format)
	if err != nil {
		return err
	}

	id := ctx.Params("id")
	if strings.EqualFold(strings.TrimSpace(req.Format), "csv") {
		ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+id+`.csv"`)
	} else {
		ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+id+`.json"`)
	}
	return ctx.SendString(out)
}

func (c *candidateController) DeleteCandidate(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	deleted, err := c.store.Delete(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return service.ErrCandidateNotFound
	}
	return ctx.JSON(serverutils.SuccessResponse("Candidate data deleted", &dto.DeleteCandidateResponse{
		CandidateId: id,
		Deleted:     true,
	}))
}
