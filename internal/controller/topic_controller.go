package controller

import (
	"topic-memory-be/internal/dto"
	"topic-memory-be/internal/pkg/serverutils"
	"topic-memory-be/internal/service"
	"topic-memory-be/pkg/topic"

	"github.com/gofiber/fiber/v2"
)

type ITopicController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
	IngestRaw(ctx *fiber.Ctx) error
	View(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type topicController struct {
	topicService        service.ITopicService
	orchestratorService service.IOrchestratorService
	contextService      service.IContextService
}

func NewTopicController(
	topicService service.ITopicService,
	orchestratorService service.IOrchestratorService,
	contextService service.IContextService,
) ITopicController {
	return &topicController{
		topicService:        topicService,
		orchestratorService: orchestratorService,
		contextService:      contextService,
	}
}

func (c *topicController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/topics")
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/ingest", c.Ingest)
	h.Post(":id/ingest_raw", c.IngestRaw)
	h.Get(":id/view/:user_id", c.View)
	r.Post("/reset", c.Reset)
}

func (c *topicController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTopicRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.topicService.CreateTopic(ctx.Context(), req.TopicId, req.Title, req.Goal, req.Members)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create topic", res))
}

func (c *topicController) List(ctx *fiber.Ctx) error {
	res, err := c.topicService.ListTopics(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list topics", res))
}

func (c *topicController) Show(ctx *fiber.Ctx) error {
	res, err := c.topicService.GetTopic(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show topic", res))
}

// Ingest accepts an already structured meeting delta and folds it into the
// topic memory without running the action pipeline.
func (c *topicController) Ingest(ctx *fiber.Ctx) error {
	var delta topic.MeetingDelta
	if err := ctx.BodyParser(&delta); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}

	res, err := c.topicService.IngestDelta(ctx.Context(), ctx.Params("id"), &delta)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest delta", res))
}

// IngestRaw extracts a structured delta from a raw transcript, ingests it
// and runs the action pipeline on the result.
func (c *topicController) IngestRaw(ctx *fiber.Ctx) error {
	var req dto.IngestRawRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	topicID := ctx.Params("id")
	delta, err := c.topicService.GenerateDeltaFromTranscript(ctx.Context(), topicID, req.Transcript, req.MeetingId)
	if err != nil {
		return err
	}

	res, err := c.orchestratorService.ProcessDelta(ctx.Context(), topicID, delta)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest transcript", res))
}

func (c *topicController) View(ctx *fiber.Ctx) error {
	res, err := c.topicService.BuildPersonalView(ctx.Context(), ctx.Params("id"), ctx.Params("user_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build view", res))
}

// Reset wipes topics, the durable memory log and the imported context store.
func (c *topicController) Reset(ctx *fiber.Ctx) error {
	if err := c.topicService.Reset(ctx.Context()); err != nil {
		return err
	}
	if err := c.contextService.Reset(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset topics", nil))
}
