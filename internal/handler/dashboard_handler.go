package handler

import (
	"strings"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService   service.DashboardService
	aggregationService service.AggregationService
	validator          *middleware.ValidationMiddleware
}

func NewDashboardHandler(
	dashboardService service.DashboardService,
	aggregationService service.AggregationService,
	validator *middleware.ValidationMiddleware,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:   dashboardService,
		aggregationService: aggregationService,
		validator:          validator,
	}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) MyCourses(c *fiber.Ctx) error {
	courses, err := h.dashboardService.MyCourses(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

func (h *DashboardHandler) MyTutorials(c *fiber.Ctx) error {
	tutorials, err := h.dashboardService.MyTutorials(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(tutorials)
}

func (h *DashboardHandler) MyArticles(c *fiber.Ctx) error {
	articles, err := h.dashboardService.MyArticles(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(articles)
}

// MyQuizHistory lists the caller's attempts, newest first.
func (h *DashboardHandler) MyQuizHistory(c *fiber.Ctx) error {
	history, err := h.dashboardService.MyQuizHistory(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func (h *DashboardHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("q")}
	}
	results, err := h.dashboardService.Search(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	var q dto.Limit
	if err := h.validator.Query(c, &q); err != nil {
		return err
	}
	feed, err := h.dashboardService.RecentActivity(c.UserContext(), middleware.CurrentUser(c), q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(feed)
}

func (h *DashboardHandler) Recommendations(c *fiber.Ctx) error {
	var q dto.Limit
	if err := h.validator.Query(c, &q); err != nil {
		return err
	}
	recs, err := h.aggregationService.Recommendations(c.UserContext(), middleware.CurrentUser(c).ID, q.Limit)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	return c.JSON(recs)
}
