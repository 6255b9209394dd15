package controller

import (
	"strconv"

	"topic-memory-be/internal/dto"
	"topic-memory-be/internal/pkg/serverutils"
	"topic-memory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultContextLimit = 50

type IContextController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ImportAssets(ctx *fiber.Ctx) error
	ListAssets(ctx *fiber.Ctx) error
}

type contextController struct {
	contextService service.IContextService
}

func NewContextController(contextService service.IContextService) IContextController {
	return &contextController{
		contextService: contextService,
	}
}

func (c *contextController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/topics/:id/context")
	h.Post("", c.Add)
	h.Get("", c.List)
	h.Post("/import_assets", c.ImportAssets)
	r.Get("/assets", c.ListAssets)
}

func (c *contextController) Add(ctx *fiber.Ctx) error {
	var req dto.ContextCreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.contextService.AddContext(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add context", res))
}

func (c *contextController) List(ctx *fiber.Ctx) error {
	limit := defaultContextLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return serverutils.NewValidationError("limit must be a positive integer")
		}
		limit = parsed
	}

	res, err := c.contextService.ListContext(ctx.Context(), ctx.Params("id"), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list context", res))
}

func (c *contextController) ImportAssets(ctx *fiber.Ctx) error {
	var req dto.ImportAssetsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.contextService.ImportAssets(ctx.Context(), ctx.Params("id"), req.Date, req.Author)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success import assets", res))
}

func (c *contextController) ListAssets(ctx *fiber.Ctx) error {
	res, err := c.contextService.ListAssets(ctx.Context(), ctx.Query("date"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list assets", res))
}
