package serverutils

import (
	"context"
	"errors"

	"ideaspark-be/internal/repository/contract"
	"ideaspark-be/internal/workflow"
	"ideaspark-be/pkg/ai/pipeline"
	"ideaspark-be/pkg/export"

	"github.com/gofiber/fiber/v2"
)

type errorStatus struct {
	err    error
	status int
}

// Order matters: the first match wins.
var errorStatuses = []errorStatus{
	{contract.ErrAuthRequired, fiber.StatusUnauthorized},
	{contract.ErrNotFound, fiber.StatusNotFound},
	{contract.ErrConflict, fiber.StatusConflict},
	{pipeline.ErrOperationInProgress, fiber.StatusConflict},
	{pipeline.ErrPrerequisite, fiber.StatusBadRequest},
	{workflow.ErrConfirmationRequired, fiber.StatusPreconditionRequired},
	{workflow.ErrUnknownImprovement, fiber.StatusBadRequest},
	{workflow.ErrInvalidView, fiber.StatusBadRequest},
	{workflow.ErrEmptyIdea, fiber.StatusUnprocessableEntity},
	{export.ErrUnsupportedFormat, fiber.StatusBadRequest},
	{pipeline.ErrAnalysisFailed, fiber.StatusBadGateway},
	{pipeline.ErrMalformedResponse, fiber.StatusBadGateway},
	{pipeline.ErrSpecGenerationFailed, fiber.StatusBadGateway},
	{pipeline.ErrAIUnavailable, fiber.StatusServiceUnavailable},
	{contract.ErrBackendUnreachable, fiber.StatusServiceUnavailable},
	{contract.ErrParseFailure, fiber.StatusInternalServerError},
	{context.DeadlineExceeded, fiber.StatusGatewayTimeout},
}

// StatusFor maps an error returned by a handler to its HTTP status.
func StatusFor(err error) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusUnprocessableEntity
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			return es.status
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler writes the error envelope. Internal errors keep their
// details out of the reply.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status := StatusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return ctx.Status(status).JSON(ErrorResponse(status, message))
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return ErrorHandler(ctx, err)
		}
		return nil
	}
}
