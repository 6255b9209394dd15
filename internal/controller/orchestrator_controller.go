package controller

import (
	"topic-memory-be/internal/dto"
	"topic-memory-be/internal/pkg/serverutils"
	"topic-memory-be/internal/service"
	"topic-memory-be/pkg/topic"

	"github.com/gofiber/fiber/v2"
)

type IOrchestratorController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
	ProcessAssets(ctx *fiber.Ctx) error
	GenerateActions(ctx *fiber.Ctx) error
}

type orchestratorController struct {
	orchestratorService service.IOrchestratorService
}

func NewOrchestratorController(orchestratorService service.IOrchestratorService) IOrchestratorController {
	return &orchestratorController{
		orchestratorService: orchestratorService,
	}
}

func (c *orchestratorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/topics/:id")
	h.Post("/process", c.Process)
	h.Post("/actions/assets", c.ProcessAssets)
	h.Post("/actions/generate", c.GenerateActions)
}

// Process ingests a meeting delta and returns the updated topic together
// with the actions derived from it.
func (c *orchestratorController) Process(ctx *fiber.Ctx) error {
	var delta topic.MeetingDelta
	if err := ctx.BodyParser(&delta); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}

	res, err := c.orchestratorService.ProcessDelta(ctx.Context(), ctx.Params("id"), &delta)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process delta", res))
}

func (c *orchestratorController) ProcessAssets(ctx *fiber.Ctx) error {
	var req dto.ProcessAssetsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	topicID := ctx.Params("id")
	actions, err := c.orchestratorService.ProcessAssets(ctx.Context(), topicID, req.UserId, req.Date)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process assets", dto.ActionListResponse{
		TopicId: topicID,
		Actions: actions,
	}))
}

func (c *orchestratorController) GenerateActions(ctx *fiber.Ctx) error {
	var req dto.GenerateActionsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	topicID := ctx.Params("id")
	actions, err := c.orchestratorService.GenerateActions(ctx.Context(), topicID, req.UserId, req.ExtraContext)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate actions", dto.ActionListResponse{
		TopicId: topicID,
		Actions: actions,
	}))
}
