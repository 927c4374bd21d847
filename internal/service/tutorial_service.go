package service

import (
	"context"
	"strings"
	"time"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"

	"go.uber.org/zap"
)

type TutorialService interface {
	ListTutorials(ctx context.Context, filter dto.ContentFilter) ([]domain.Tutorial, error)
	// GetTutorial returns the tutorial and counts the view.
	GetTutorial(ctx context.Context, id int64) (*domain.Tutorial, error)
	CreateTutorial(ctx context.Context, actor *domain.User, req *dto.TutorialCreateRequest) (*domain.Tutorial, error)
	UpdateTutorial(ctx context.Context, actor *domain.User, id int64, req *dto.TutorialUpdateRequest) (*domain.Tutorial, error)
	DeleteTutorial(ctx context.Context, actor *domain.User, id int64) error
	Complete(ctx context.Context, user *domain.User, tutorialID int64, rating *float64) (*domain.Completion, error)
	IsCompleted(ctx context.Context, user *domain.User, tutorialID int64) (bool, error)
	Uncomplete(ctx context.Context, user *domain.User, tutorialID int64) error
}

type tutorialServiceImpl struct {
	tutorialRepo   repository.TutorialRepository
	completionRepo repository.CompletionRepository
	now            func() time.Time
}

func NewTutorialService(tutorialRepo repository.TutorialRepository, completionRepo repository.CompletionRepository) TutorialService {
	return &tutorialServiceImpl{tutorialRepo: tutorialRepo, completionRepo: completionRepo, now: time.Now}
}

func (s *tutorialServiceImpl) ListTutorials(ctx context.Context, filter dto.ContentFilter) ([]domain.Tutorial, error) {
	tutorials, err := s.tutorialRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list tutorials", err)
	}
	out := make([]domain.Tutorial, 0, len(tutorials))
	for _, t := range tutorials {
		if filter.Category != "" && !strings.EqualFold(t.Category, filter.Category) {
			continue
		}
		if filter.Level != "" && !strings.EqualFold(string(t.Level), filter.Level) {
			continue
		}
		if filter.Search != "" && !containsFold(t.Title, filter.Search) && !containsFold(t.Description, filter.Search) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *tutorialServiceImpl) GetTutorial(ctx context.Context, id int64) (*domain.Tutorial, error) {
	tutorial, err := s.tutorialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load tutorial", err)
	}
	if tutorial == nil {
		return nil, domain.NewTutorialNotFoundError(id)
	}
	viewed, err := s.tutorialRepo.Update(ctx, id, map[string]any{"views": tutorial.Views + 1})
	if err != nil {
		return nil, domain.NewInternalError("failed to count tutorial view", err)
	}
	if viewed != nil {
		tutorial = viewed
	}
	return tutorial, nil
}

func (s *tutorialServiceImpl) CreateTutorial(ctx context.Context, actor *domain.User, req *dto.TutorialCreateRequest) (*domain.Tutorial, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	tutorial, err := s.tutorialRepo.Create(ctx, &domain.Tutorial{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		Image:       req.Image,
		Category:    req.Category,
		Level:       req.Level,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create tutorial", err)
	}
	logger.Get().Info("Tutorial created", zap.Int64("tutorialID", tutorial.ID))
	return tutorial, nil
}

func (s *tutorialServiceImpl) UpdateTutorial(ctx context.Context, actor *domain.User, id int64, req *dto.TutorialUpdateRequest) (*domain.Tutorial, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	tutorial, err := s.tutorialRepo.Update(ctx, id, req.Patch())
	if err != nil {
		return nil, domain.NewInternalError("failed to update tutorial", err)
	}
	if tutorial == nil {
		return nil, domain.NewTutorialNotFoundError(id)
	}
	return tutorial, nil
}

func (s *tutorialServiceImpl) DeleteTutorial(ctx context.Context, actor *domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ok, err := s.tutorialRepo.Delete(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to delete tutorial", err)
	}
	if !ok {
		return domain.NewTutorialNotFoundError(id)
	}
	return nil
}

func (s *tutorialServiceImpl) findCompletion(ctx context.Context, userID, tutorialID int64) (*domain.Completion, error) {
	mine, err := s.completionRepo.FindBy(ctx, "user_id", userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load completions", err)
	}
	for i := range mine {
		if mine[i].TutorialID == tutorialID {
			return &mine[i], nil
		}
	}
	return nil, nil
}

func (s *tutorialServiceImpl) Complete(ctx context.Context, user *domain.User, tutorialID int64, rating *float64) (*domain.Completion, error) {
	tutorial, err := s.tutorialRepo.GetByID(ctx, tutorialID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load tutorial", err)
	}
	if tutorial == nil {
		return nil, domain.NewTutorialNotFoundError(tutorialID)
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, domain.NewInvalidInputError("Rating must be between 1 and 5")
	}

	existing, err := s.findCompletion(ctx, user.ID, tutorialID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("Tutorial already completed")
	}

	completion, err := s.completionRepo.Create(ctx, &domain.Completion{
		UserID:      user.ID,
		TutorialID:  tutorialID,
		CompletedAt: s.now().UTC(),
		Rating:      rating,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to record completion", err)
	}
	logger.Get().Info("Tutorial completed", zap.Int64("userID", user.ID), zap.Int64("tutorialID", tutorialID))
	return completion, nil
}

func (s *tutorialServiceImpl) IsCompleted(ctx context.Context, user *domain.User, tutorialID int64) (bool, error) {
	existing, err := s.findCompletion(ctx, user.ID, tutorialID)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

func (s *tutorialServiceImpl) Uncomplete(ctx context.Context, user *domain.User, tutorialID int64) error {
	existing, err := s.findCompletion(ctx, user.ID, tutorialID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NewNotFoundError("Tutorial completion not found")
	}
	if _, err := s.completionRepo.Delete(ctx, existing.ID); err != nil {
		return domain.NewInternalError("failed to remove completion", err)
	}
	return nil
}
