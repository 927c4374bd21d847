package handler

import (
	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
	validator   *middleware.ValidationMiddleware
}

func NewUserHandler(userService service.UserService, validator *middleware.ValidationMiddleware) *UserHandler {
	return &UserHandler{userService: userService, validator: validator}
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(toUserResponses(users))
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	return h.update(c, id)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userService.DeleteUser(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully"})
}

// GetMyProfile returns the authenticated user.
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(dto.NewUserResponse(middleware.CurrentUser(c)))
}

func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	return h.update(c, middleware.CurrentUser(c).ID)
}

func (h *UserHandler) update(c *fiber.Ctx, id int64) error {
	var req dto.UserUpdateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateUser(c.UserContext(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

func toUserResponses(users []domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out
}
