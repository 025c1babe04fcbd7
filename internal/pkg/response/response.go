package response

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/pkg/pagination"
)

// Response represents the standard API envelope. Every handler ends the
// request with exactly one envelope; nothing is written after it.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Errors    interface{} `json:"errors,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// PaginatedResponse wraps list data with pagination metadata
type PaginatedResponse struct {
	Success    bool             `json:"success"`
	Data       interface{}      `json:"data"`
	Pagination *pagination.Meta `json:"pagination"`
	Timestamp  string           `json:"timestamp"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// Paginated sends a paginated list response
func Paginated(c *fiber.Ctx, data interface{}, params *pagination.Params, total int64) error {
	return c.JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination.GetMeta(params, total),
		Timestamp:  now(),
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success:   false,
		Message:   message,
		Timestamp: now(),
	})
}

// ValidationFailed sends a 422 with the field->message map
func ValidationFailed(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
		Success:   false,
		Message:   "Validation failed",
		Errors:    errors,
		Timestamp: now(),
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// MethodNotAllowed sends a 405 response
func MethodNotAllowed(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusMethodNotAllowed, message)
}

// TooManyRequests sends a 429 rate-limited response
func TooManyRequests(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusTooManyRequests, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, message)
}
