package controller

import (
	"ideaspark-be/internal/dto"
	"ideaspark-be/internal/pkg/serverutils"
	"ideaspark-be/internal/repository/memory"
	"ideaspark-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router, auth, requireAuth fiber.Handler)
	Show(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	Navigate(ctx *fiber.Ctx) error
	DismissError(ctx *fiber.Ctx) error
	SignIn(ctx *fiber.Ctx) error
	SignOut(ctx *fiber.Ctx) error
}

type workspaceController struct {
	workspaceResolver
}

func NewWorkspaceController(flow *workflow.Controller, workspaces *memory.WorkspaceRepository) IWorkspaceController {
	return &workspaceController{
		workspaceResolver: workspaceResolver{flow: flow, workspaces: workspaces},
	}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router, auth, requireAuth fiber.Handler) {
	w := r.Group("/workspace/v1")
	w.Use(auth)
	w.Get("", c.Show)
	w.Post("start", c.Start)
	w.Post("navigate", c.Navigate)
	w.Delete("error", c.DismissError)

	s := r.Group("/session/v1")
	s.Post("", requireAuth, c.SignIn)
	s.Delete("", auth, c.SignOut)
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	return c.reply(ctx, "Success get workspace", c.resolve(ctx))
}

func (c *workspaceController) Start(ctx *fiber.Ctx) error {
	ws := c.resolve(ctx)
	if _, err := c.flow.Start(ctx.UserContext(), ws); err != nil {
		return err
	}
	return c.reply(ctx, "Success start", ws)
}

func (c *workspaceController) Navigate(ctx *fiber.Ctx) error {
	var req dto.NavigateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ws := c.resolve(ctx)
	if err := c.flow.Navigate(ctx.UserContext(), ws, workflow.View(req.View)); err != nil {
		return err
	}
	return c.reply(ctx, "Success navigate", ws)
}

func (c *workspaceController) DismissError(ctx *fiber.Ctx) error {
	ws := c.resolve(ctx)
	c.flow.DismissError(ws)
	return c.reply(ctx, "Success dismiss error", ws)
}

func (c *workspaceController) SignIn(ctx *fiber.Ctx) error {
	ws := c.resolve(ctx)
	if err := c.flow.SignIn(ctx.UserContext(), ws, serverutils.SessionFrom(ctx)); err != nil {
		return err
	}
	return c.reply(ctx, "Success sign in", ws)
}

func (c *workspaceController) SignOut(ctx *fiber.Ctx) error {
	ws := c.resolve(ctx)
	c.flow.SignOut(ws)
	return c.reply(ctx, "Success sign out", ws)
}

func (c *workspaceController) reply(ctx *fiber.Ctx, message string, ws *workflow.Workspace) error {
	snap := c.flow.Snapshot(ws)
	res := dto.WorkspaceResponse{
		View:        string(snap.View),
		SelectedId:  snap.SelectedId,
		SignedIn:    snap.Session != nil,
		Error:       snap.Error,
		ErrorIdeaId: snap.ErrorIdeaId,
		Banner:      snap.Banner,
		Backend:     string(snap.Backend),
		Capability:  string(snap.Capability),
		IdeaCount:   snap.IdeaCount,
		InFlight:    snap.InFlight,
	}
	if snap.Session != nil {
		res.Email = snap.Session.Email
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}
