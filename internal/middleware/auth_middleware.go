package middleware

import (
	"errors"
	"strings"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserKey             = "user"   // *domain.User in fiber.Ctx locals
	ClaimsKey           = "claims" // *dto.AuthClaims in fiber.Ctx locals
)

func unauthorized(c *fiber.Ctx, code, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}

// Protected requires a valid, unrevoked access token belonging to an active
// user. The user and the token claims are stored in the request locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, "MISSING_AUTH_HEADER", "Not authenticated")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, "EMPTY_TOKEN", "Token is empty")
		}

		claims, err := authService.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenRevoked) {
				return unauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
			}
			return unauthorized(c, "INVALID_TOKEN", "Could not validate credentials")
		}
		if claims.TokenType != dto.TokenTypeAccess {
			return unauthorized(c, "INVALID_TOKEN_TYPE", "Could not validate credentials")
		}

		user, err := authService.CurrentUser(c.UserContext(), claims)
		if err != nil {
			return err
		}

		c.Locals(UserKey, user)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// AdminOnly must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			logger.Get().Debug("Admin route refused", zap.String("path", c.Path()))
			return domain.NewForbiddenError("Not enough permissions")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by Protected, or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(UserKey).(*domain.User)
	return user
}

func Claims(c *fiber.Ctx) *dto.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*dto.AuthClaims)
	return claims
}
