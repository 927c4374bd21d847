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

// CourseService defines the interface for the course catalogue and enrollments.
type CourseService interface {
	ListCourses(ctx context.Context, filter dto.ContentFilter) ([]domain.Course, error)
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
	CreateCourse(ctx context.Context, actor *domain.User, req *dto.CourseCreateRequest) (*domain.Course, error)
	UpdateCourse(ctx context.Context, actor *domain.User, id int64, req *dto.CourseUpdateRequest) (*domain.Course, error)
	DeleteCourse(ctx context.Context, actor *domain.User, id int64) error
	Enroll(ctx context.Context, user *domain.User, courseID int64) (*domain.Enrollment, error)
}

type courseServiceImpl struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	now            func() time.Time
}

func NewCourseService(courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository) CourseService {
	return &courseServiceImpl{courseRepo: courseRepo, enrollmentRepo: enrollmentRepo, now: time.Now}
}

func (s *courseServiceImpl) ListCourses(ctx context.Context, filter dto.ContentFilter) ([]domain.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list courses", err)
	}
	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if filter.Category != "" && !strings.EqualFold(c.Category, filter.Category) {
			continue
		}
		if filter.Level != "" && !strings.EqualFold(string(c.Level), filter.Level) {
			continue
		}
		if filter.Search != "" && !containsFold(c.Title, filter.Search) && !containsFold(c.Description, filter.Search) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load course", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(id)
	}
	return course, nil
}

func (s *courseServiceImpl) CreateCourse(ctx context.Context, actor *domain.User, req *dto.CourseCreateRequest) (*domain.Course, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.Create(ctx, &domain.Course{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		Category:    req.Category,
		Level:       req.Level,
		Image:       req.Image,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create course", err)
	}
	logger.Get().Info("Course created", zap.Int64("courseID", course.ID), zap.String("title", course.Title))
	return course, nil
}

func (s *courseServiceImpl) UpdateCourse(ctx context.Context, actor *domain.User, id int64, req *dto.CourseUpdateRequest) (*domain.Course, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.Update(ctx, id, req.Patch())
	if err != nil {
		return nil, domain.NewInternalError("failed to update course", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(id)
	}
	return course, nil
}

func (s *courseServiceImpl) DeleteCourse(ctx context.Context, actor *domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ok, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to delete course", err)
	}
	if !ok {
		return domain.NewCourseNotFoundError(id)
	}
	return nil
}

// Enroll records the enrollment and bumps the course's student count.
func (s *courseServiceImpl) Enroll(ctx context.Context, user *domain.User, courseID int64) (*domain.Enrollment, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	mine, err := s.enrollmentRepo.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load enrollments", err)
	}
	for _, e := range mine {
		if e.CourseID == courseID {
			return nil, domain.NewInvalidInputError("Already enrolled in this course")
		}
	}

	enrollment, err := s.enrollmentRepo.Create(ctx, &domain.Enrollment{
		UserID:     user.ID,
		CourseID:   courseID,
		EnrolledAt: s.now().UTC(),
		Progress:   0,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create enrollment", err)
	}
	if _, err := s.courseRepo.Update(ctx, courseID, map[string]any{"students": course.Students + 1}); err != nil {
		return nil, domain.NewInternalError("failed to update course", err)
	}
	logger.Get().Info("User enrolled", zap.Int64("userID", user.ID), zap.Int64("courseID", courseID))
	return enrollment, nil
}
