package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ApiError is a client-visible failure. Anything else that escapes a
// controller is reported as a generic 500.
type ApiError struct {
	StatusCode int
	Message    string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewNotFoundError(format string, args ...interface{}) *ApiError {
	return &ApiError{StatusCode: fiber.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...interface{}) *ApiError {
	return &ApiError{StatusCode: fiber.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a 404-class ApiError.
func IsNotFound(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusNotFound
}

// ErrorHandlerMiddleware converts returned errors into the JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.StatusCode).JSON(ApiResponse[any]{
				Success: false,
				Message: apiErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ApiResponse[any]{
				Success: false,
				Message: fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ApiResponse[any]{
			Success: false,
			Message: "internal server error",
		})
	}
}
