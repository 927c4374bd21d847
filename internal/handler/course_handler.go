package handler

import (
	"quiz-quest/internal/dto"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CourseHandler struct {
	courseService service.CourseService
	validator     *middleware.ValidationMiddleware
}

func NewCourseHandler(courseService service.CourseService, validator *middleware.ValidationMiddleware) *CourseHandler {
	return &CourseHandler{courseService: courseService, validator: validator}
}

// ListCourses supports category, level and search filters.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	var filter dto.ContentFilter
	if err := h.validator.Query(c, &filter); err != nil {
		return err
	}
	courses, err := h.courseService.ListCourses(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	course, err := h.courseService.GetCourse(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(course)
}

func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CourseCreateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	course, err := h.courseService.CreateCourse(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CourseUpdateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	course, err := h.courseService.UpdateCourse(c.UserContext(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(course)
}

func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.courseService.DeleteCourse(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Course deleted successfully"})
}

func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	enrollment, err := h.courseService.Enroll(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(enrollment)
}
