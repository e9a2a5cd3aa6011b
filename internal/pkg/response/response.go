package response

import (
	"log"

	"coursehub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents the standard API envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Message: message,
	})
}

// FromError maps a service error onto its status code and envelope.
// Causes of internal errors are logged and never sent to the client.
func FromError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}
	return Error(c, StatusFor(kind), domain.MessageOf(err))
}

// StatusFor returns the HTTP status for an error kind
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindBadRequest:
		return fiber.StatusBadRequest
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
