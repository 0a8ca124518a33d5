package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the Fiber fallback for errors no handler turned into a
// response (unknown routes, body limits, middleware failures).
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else if status := StatusFor(err); status != fiber.StatusInternalServerError {
		return respondError(c, "unhandled", err)
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "request_id", requestID(c), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.Fail(message))
}
