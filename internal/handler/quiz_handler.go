package handler

import (
	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler serves quiz content, grading and the per-quiz aggregates.
type QuizHandler struct {
	quizService        service.QuizService
	gradingService     service.GradingService
	aggregationService service.AggregationService
	validator          *middleware.ValidationMiddleware
}

func NewQuizHandler(
	quizService service.QuizService,
	gradingService service.GradingService,
	aggregationService service.AggregationService,
	validator *middleware.ValidationMiddleware,
) *QuizHandler {
	return &QuizHandler{
		quizService:        quizService,
		gradingService:     gradingService,
		aggregationService: aggregationService,
		validator:          validator,
	}
}

// ListQuizzes never exposes answers.
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	var filter dto.ContentFilter
	if err := h.validator.Query(c, &filter); err != nil {
		return err
	}
	quizzes, err := h.quizService.ListQuizzes(c.UserContext(), filter)
	if err != nil {
		return err
	}
	out := make([]dto.PublicQuiz, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, dto.NewPublicQuiz(&quizzes[i]))
	}
	return c.JSON(out)
}

// GetQuiz hides correct flags and explanations unless include_answers=true.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	quiz, err := h.quizService.GetQuiz(c.UserContext(), id)
	if err != nil {
		return err
	}
	if c.QueryBool("include_answers") {
		return c.JSON(quiz)
	}
	return c.JSON(dto.NewPublicQuiz(quiz))
}

func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.QuizCreateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	quiz, err := h.quizService.CreateQuiz(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.QuizUpdateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	quiz, err := h.quizService.UpdateQuiz(c.UserContext(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.quizService.DeleteQuiz(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz deleted successfully"})
}

// SubmitAttempt grades the submission and records the attempt.
func (h *QuizHandler) SubmitAttempt(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.QuizSubmission
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	result, err := h.gradingService.Submit(c.UserContext(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *QuizHandler) MyAttempts(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	attempts, err := h.quizService.UserAttempts(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(attempts)
}

func (h *QuizHandler) BestScore(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	best, err := h.aggregationService.BestScore(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return err
	}
	return c.JSON(best)
}

// Leaderboard ranks each user's best attempt. limit defaults to 10 and is
// capped at 50.
func (h *QuizHandler) Leaderboard(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	var q dto.Limit
	if err := h.validator.Query(c, &q); err != nil {
		return err
	}
	board, err := h.aggregationService.Leaderboard(c.UserContext(), id, q.Limit)
	if err != nil {
		return err
	}
	if board == nil {
		board = []domain.LeaderboardEntry{}
	}
	return c.JSON(board)
}

func (h *QuizHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.quizService.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// MyStats summarizes the caller's attempts across every quiz.
func (h *QuizHandler) MyStats(c *fiber.Ctx) error {
	stats, err := h.aggregationService.UserQuizStats(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
