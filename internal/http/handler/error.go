package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"photogallery/internal/http/middleware"
	"photogallery/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string `json:"request_id"`
	Detail    string `json:"detail"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Detail:    detail,
	})
}

// writeServiceError renders the client-facing service errors. Anything else is
// returned unchanged so the logger sees it and ErrorHandler turns it into a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusBadRequest, "File already exists")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "Photo not found")
	case errors.Is(err, service.ErrInvalidOrder):
		return writeError(c, fiber.StatusBadRequest, "order_by must be one of: name, size, date")
	case errors.Is(err, service.ErrInvalidFilename):
		return writeError(c, fiber.StatusBadRequest, "Invalid file name")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "File is required")
	default:
		return err
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "Not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		case fiber.StatusServiceUnavailable:
			return writeError(c, status, "Service unavailable")
		default:
			return writeError(c, fiber.StatusInternalServerError, "Internal server error")
		}
	}
}
