package response

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the fixed wire shape for failures: {"error": "<message>"}.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON sends a 200 OK with the given payload.
func JSON(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created sends a 201 Created with the given payload.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// Error sends the standard error shape with the given status code.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

// ErrorWithDetails sends the standard error shape plus a details string.
func ErrorWithDetails(c *fiber.Ctx, message string, statusCode int, details string) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message, Details: details})
}

// Unauthorized sends 401 with the standard error shape.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized)
}
