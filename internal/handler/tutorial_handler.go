package handler

import (
	"quiz-quest/internal/dto"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TutorialHandler struct {
	tutorialService service.TutorialService
	validator       *middleware.ValidationMiddleware
}

func NewTutorialHandler(tutorialService service.TutorialService, validator *middleware.ValidationMiddleware) *TutorialHandler {
	return &TutorialHandler{tutorialService: tutorialService, validator: validator}
}

func (h *TutorialHandler) ListTutorials(c *fiber.Ctx) error {
	var filter dto.ContentFilter
	if err := h.validator.Query(c, &filter); err != nil {
		return err
	}
	tutorials, err := h.tutorialService.ListTutorials(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(tutorials)
}

// GetTutorial counts a view on every successful read.
func (h *TutorialHandler) GetTutorial(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	tutorial, err := h.tutorialService.GetTutorial(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(tutorial)
}

func (h *TutorialHandler) CreateTutorial(c *fiber.Ctx) error {
	var req dto.TutorialCreateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	tutorial, err := h.tutorialService.CreateTutorial(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tutorial)
}

func (h *TutorialHandler) UpdateTutorial(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.TutorialUpdateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	tutorial, err := h.tutorialService.UpdateTutorial(c.UserContext(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(tutorial)
}

func (h *TutorialHandler) DeleteTutorial(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tutorialService.DeleteTutorial(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Tutorial deleted successfully"})
}

// Complete takes the optional rating from the query string.
func (h *TutorialHandler) Complete(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CompleteTutorialRequest
	if err := h.validator.Query(c, &req); err != nil {
		return err
	}
	completion, err := h.tutorialService.Complete(c.UserContext(), middleware.CurrentUser(c), id, req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(completion)
}

func (h *TutorialHandler) IsCompleted(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	done, err := h.tutorialService.IsCompleted(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"completed": done})
}

func (h *TutorialHandler) Uncomplete(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tutorialService.Uncomplete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Tutorial completion removed successfully"})
}
