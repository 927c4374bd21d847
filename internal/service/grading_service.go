package service

import (
	"context"
	"time"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"

	"go.uber.org/zap"
)

// GradeRecorder observes graded submissions.
type GradeRecorder interface {
	QuizGraded(passed bool)
}

// GradingService grades submissions and stores every one as a quiz attempt.
type GradingService interface {
	Submit(ctx context.Context, user *domain.User, quizID int64, submission *dto.QuizSubmission) (*dto.SubmissionResponse, error)
}

type gradingServiceImpl struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.QuizAttemptRepository
	recorder    GradeRecorder
	now         func() time.Time
}

// NewGradingService creates a new instance of GradingService. recorder may be nil.
func NewGradingService(quizRepo repository.QuizRepository, attemptRepo repository.QuizAttemptRepository, recorder GradeRecorder) GradingService {
	return &gradingServiceImpl{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		recorder:    recorder,
		now:         time.Now,
	}
}

func (s *gradingServiceImpl) Submit(ctx context.Context, user *domain.User, quizID int64, submission *dto.QuizSubmission) (*dto.SubmissionResponse, error) {
	if submission.QuizID != quizID {
		return nil, domain.NewInvalidInputError("Quiz ID mismatch")
	}
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	answers := submission.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	result := domain.Grade(quiz, answers)

	now := s.now().UTC()
	attempt, err := s.attemptRepo.Create(ctx, &domain.QuizAttempt{
		UserID:         user.ID,
		QuizID:         quizID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Answers:        answers,
		AttemptedAt:    now,
		CompletedAt:    now,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to store quiz attempt", err)
	}

	if s.recorder != nil {
		s.recorder.QuizGraded(result.Passed)
	}
	logger.Get().Info("Quiz graded",
		zap.Int64("userID", user.ID),
		zap.Int64("quizID", quizID),
		zap.Float64("score", result.Score),
		zap.Bool("passed", result.Passed))

	return &dto.SubmissionResponse{AttemptID: attempt.ID, GradeResult: result}, nil
}
