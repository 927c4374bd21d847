package service

import (
	"context"
	"sort"
	"strings"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz catalogue operations.
// Grading lives in GradingService.
type QuizService interface {
	ListQuizzes(ctx context.Context, filter dto.ContentFilter) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error)
	CreateQuiz(ctx context.Context, actor *domain.User, req *dto.QuizCreateRequest) (*domain.Quiz, error)
	UpdateQuiz(ctx context.Context, actor *domain.User, id int64, req *dto.QuizUpdateRequest) (*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, actor *domain.User, id int64) error
	Categories(ctx context.Context) ([]string, error)
	UserAttempts(ctx context.Context, user *domain.User, quizID int64) ([]domain.QuizAttempt, error)
}

type quizServiceImpl struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.QuizAttemptRepository
}

func NewQuizService(quizRepo repository.QuizRepository, attemptRepo repository.QuizAttemptRepository) QuizService {
	return &quizServiceImpl{quizRepo: quizRepo, attemptRepo: attemptRepo}
}

func (s *quizServiceImpl) ListQuizzes(ctx context.Context, filter dto.ContentFilter) ([]domain.Quiz, error) {
	quizzes, err := s.quizRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}
	out := make([]domain.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if filter.Category != "" && !strings.EqualFold(q.Category, filter.Category) {
			continue
		}
		if filter.Difficulty != "" && !strings.EqualFold(string(q.Difficulty), filter.Difficulty) {
			continue
		}
		if filter.Search != "" && !containsFold(q.Title, filter.Search) && !containsFold(q.Description, filter.Search) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *quizServiceImpl) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

func (s *quizServiceImpl) CreateQuiz(ctx context.Context, actor *domain.User, req *dto.QuizCreateRequest) (*domain.Quiz, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	quiz := req.ToQuiz()
	if quiz.QuestionsCount == 0 {
		quiz.QuestionsCount = len(quiz.Questions)
	}
	created, err := s.quizRepo.Create(ctx, quiz)
	if err != nil {
		return nil, domain.NewInternalError("failed to create quiz", err)
	}
	logger.Get().Info("Quiz created", zap.Int64("quizID", created.ID), zap.Int("questions", len(created.Questions)))
	return created, nil
}

func (s *quizServiceImpl) UpdateQuiz(ctx context.Context, actor *domain.User, id int64, req *dto.QuizUpdateRequest) (*domain.Quiz, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	quiz, err := s.quizRepo.Update(ctx, id, req.Patch())
	if err != nil {
		return nil, domain.NewInternalError("failed to update quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, actor *domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ok, err := s.quizRepo.Delete(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to delete quiz", err)
	}
	if !ok {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}

// Categories returns the distinct non-empty quiz categories, sorted.
func (s *quizServiceImpl) Categories(ctx context.Context) ([]string, error) {
	quizzes, err := s.quizRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, q := range quizzes {
		if q.Category == "" {
			continue
		}
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	sort.Strings(out)
	return out, nil
}

// UserAttempts lists the caller's attempts on quizID. Attempts outlive their
// quiz, so a deleted quiz still has history.
func (s *quizServiceImpl) UserAttempts(ctx context.Context, user *domain.User, quizID int64) ([]domain.QuizAttempt, error) {
	mine, err := s.attemptRepo.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempts", err)
	}
	out := make([]domain.QuizAttempt, 0, len(mine))
	for _, a := range mine {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}
