package handler

import (
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *middleware.ValidationMiddleware
}

func NewAuthHandler(authService service.AuthService, validator *middleware.ValidationMiddleware) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Register creates a student account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login accepts the OAuth2 password form, where username carries the email.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := h.validator.Body(c, &form); err != nil {
		return err
	}
	return h.issue(c, form.Username, form.Password)
}

func (h *AuthHandler) LoginJSON(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	return h.issue(c, req.Email, req.Password)
}

func (h *AuthHandler) issue(c *fiber.Ctx, email, password string) error {
	token, err := h.authService.Login(c.UserContext(), email, password)
	if err != nil {
		logger.Get().Info("Login rejected", zap.String("ip", c.IP()), zap.Error(err))
		return err
	}
	return c.JSON(token)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(dto.NewUserResponse(middleware.CurrentUser(c)))
}

// Logout revokes the presented token until it would have expired anyway.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.Claims(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Successfully logged out"})
}
