package middleware

import (
	"strconv"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware binds request input and validates it. Every method
// returns errors that ErrorHandler understands.
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// Body parses a JSON or form body into out and validates it.
func (vm *ValidationMiddleware) Body(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	return vm.validator.Struct(out)
}

// Query parses the query string into out and validates it.
func (vm *ValidationMiddleware) Query(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}
	return vm.validator.Struct(out)
}

// ParamID reads a positive integer path parameter.
func (vm *ValidationMiddleware) ParamID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	if raw == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError(name)}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError(name, raw)}
	}
	return id, nil
}

// ValidateIDParams rejects the request early when any named path parameter
// is not a positive integer.
func (vm *ValidationMiddleware) ValidateIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		for _, name := range names {
			if _, err := vm.ParamID(c, name); err != nil {
				if ve, ok := err.(domain.ValidationErrors); ok {
					errs = append(errs, ve...)
				}
			}
		}
		if len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}
