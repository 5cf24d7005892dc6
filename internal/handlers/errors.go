package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// internalError logs the cause and answers 500 without detail.
func internalError(c *fiber.Ctx, action string, err error) error {
	slog.Error("request failed",
		"action", action,
		"path", c.Path(),
		"trace_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
