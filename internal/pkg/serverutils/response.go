package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ApiError is a client-visible failure with an HTTP status. Services
// return it for validation-class errors; anything else becomes a 500.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(status int, message string) *ApiError {
	return &ApiError{Status: status, Message: message}
}

// ErrorHandlerMiddleware converts errors returned from handlers into
// JSON responses. Background jobs never reach this path, their failures
// are reported through the status channel instead.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Status).JSON(fiber.Map{"error": apiErr.Message})
		}

		var valErrs validator.ValidationErrors
		if errors.As(err, &valErrs) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": valErrs.Error()})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

var validate = validator.New()

// ValidateRequest validates a DTO against its `validate` tags.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
