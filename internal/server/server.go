package server

import (
	"context"
	"log"
	"time"

	"ideaspark-be/internal/bootstrap"
	"ideaspark-be/internal/config"
	"ideaspark-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ErrorHandler: serverutils.ErrorHandler,
		// AI calls run for minutes; writes must outlast them.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.Ai.TimeoutSeconds+60) * time.Second,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
	}))

	// OpenTelemetry tracing middleware (no-op unless a provider is installed)
	app.Use(otelfiber.Middleware())

	app.Use(requestMetrics(container))
	app.Use(serverutils.ErrorHandlerMiddleware())

	// Routes
	app.Get("/metrics", adaptor.HTTPHandler(container.Metrics.Handler()))
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

// requestMetrics records every request under its route pattern so ids do
// not explode the label set.
func requestMetrics(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status = serverutils.StatusFor(err)
		}
		c.Metrics.ObserveHTTP(ctx.Method(), ctx.Route().Path, status, time.Since(start))
		return err
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.HealthController.RegisterRoutes(api)
	c.WorkspaceController.RegisterRoutes(api, c.Auth.Optional, c.Auth.Required)
	c.IdeaController.RegisterRoutes(api, c.Auth.Optional)
}
