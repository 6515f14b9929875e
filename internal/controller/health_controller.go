package controller

import (
	"ideaspark-be/internal/dto"
	"ideaspark-be/internal/pkg/serverutils"
	"ideaspark-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	status workflow.StorageStatus
}

func NewHealthController(status workflow.StorageStatus) IHealthController {
	return &healthController{status: status}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", dto.HealthResponse{
		Status:     "ok",
		Capability: string(c.status.Capability()),
		Banner:     c.status.Banner(),
	}))
}
