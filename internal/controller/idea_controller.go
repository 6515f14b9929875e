package controller

import (
	"fmt"

	"ideaspark-be/internal/dto"
	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/mapper"
	"ideaspark-be/internal/pkg/serverutils"
	"ideaspark-be/internal/repository/memory"
	"ideaspark-be/internal/workflow"
	"ideaspark-be/pkg/export"

	"github.com/gofiber/fiber/v2"
)

type IIdeaController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	Improve(ctx *fiber.Ctx) error
	ToggleImprovement(ctx *fiber.Ctx) error
	GenerateSrs(ctx *fiber.Ctx) error
	EditSrs(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type ideaController struct {
	workspaceResolver
	mapper *mapper.IdeaMapper
}

func NewIdeaController(flow *workflow.Controller, workspaces *memory.WorkspaceRepository) IIdeaController {
	return &ideaController{
		workspaceResolver: workspaceResolver{flow: flow, workspaces: workspaces},
		mapper:            mapper.NewIdeaMapper(),
	}
}

func (c *ideaController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/idea/v1")
	h.Use(auth)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/analyze", c.Analyze)
	h.Post(":id/improve", c.Improve)
	h.Post(":id/improvements/toggle", c.ToggleImprovement)
	h.Post(":id/srs", c.GenerateSrs)
	h.Put(":id/srs", c.EditSrs)
	h.Get(":id/export", c.Export)
}

func (c *ideaController) GetAll(ctx *fiber.Ctx) error {
	ideas, err := c.flow.List(ctx.UserContext(), c.resolve(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all ideas", c.mapper.ToResponses(ideas)))
}

func (c *ideaController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateIdeaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	features := append([]string{}, req.Features...)
	features = append(features, entity.ParseFeatureLines(req.FeaturesText)...)

	idea, err := c.flow.Create(ctx.UserContext(), c.resolve(ctx), req.RawIdea, features)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create idea", c.mapper.ToResponse(idea)))
}

func (c *ideaController) Show(ctx *fiber.Ctx) error {
	idea, err := c.flow.Open(ctx.UserContext(), c.resolve(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show idea", c.mapper.ToResponse(idea)))
}

func (c *ideaController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	confirm := workflow.Confirmed(ctx.QueryBool("confirm", false))

	if err := c.flow.Delete(ctx.UserContext(), c.resolve(ctx), id, confirm); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete idea", dto.DeleteIdeaResponse{Id: id}))
}

func (c *ideaController) Analyze(ctx *fiber.Ctx) error {
	idea, err := c.flow.Analyze(ctx.UserContext(), c.resolve(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success analyze idea", c.mapper.ToResponse(idea)))
}

func (c *ideaController) Improve(ctx *fiber.Ctx) error {
	idea, err := c.flow.Improve(ctx.UserContext(), c.resolve(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate improvements", c.mapper.ToResponse(idea)))
}

func (c *ideaController) ToggleImprovement(ctx *fiber.Ctx) error {
	var req dto.ToggleImprovementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	idea, err := c.flow.ToggleImprovement(ctx.UserContext(), c.resolve(ctx), ctx.Params("id"), req.Title)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success toggle improvement", c.mapper.ToResponse(idea)))
}

func (c *ideaController) GenerateSrs(ctx *fiber.Ctx) error {
	idea, err := c.flow.GenerateSpecification(ctx.UserContext(), c.resolve(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate srs", c.mapper.ToResponse(idea)))
}

func (c *ideaController) EditSrs(ctx *fiber.Ctx) error {
	var req dto.EditSrsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	idea, err := c.flow.EditSpecification(ctx.UserContext(), c.resolve(ctx), ctx.Params("id"), req.Srs)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update srs", c.mapper.ToResponse(idea)))
}

func (c *ideaController) Export(ctx *fiber.Ctx) error {
	format, err := export.ParseFormat(ctx.Query("format"))
	if err != nil {
		return err
	}

	file, err := c.flow.Export(ctx.UserContext(), c.resolve(ctx), ctx.Params("id"), format)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, file.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return ctx.Send(file.Body)
}
