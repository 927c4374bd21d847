package service

import (
	"context"
	"fmt"
	"sort"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 50
	activityPerKind      = 5

	studyHoursPerCourse   = 15
	studyHoursPerTutorial = 2
	studyHoursPerAttempt  = 1
)

var (
	courseSearchFields   = []string{"title", "description", "category"}
	tutorialSearchFields = []string{"title", "description", "category"}
	articleSearchFields  = []string{"title", "excerpt", "author", "tags"}
	quizSearchFields     = []string{"title", "description", "category"}
)

// DashboardService assembles the per-user views of the dashboard.
type DashboardService interface {
	Stats(ctx context.Context, user *domain.User) (*domain.DashboardStats, error)
	MyCourses(ctx context.Context, user *domain.User) ([]dto.CourseWithEnrollment, error)
	MyTutorials(ctx context.Context, user *domain.User) ([]dto.TutorialWithCompletion, error)
	MyArticles(ctx context.Context, user *domain.User) (*dto.MyArticles, error)
	MyQuizHistory(ctx context.Context, user *domain.User) ([]dto.AttemptWithQuiz, error)
	Search(ctx context.Context, query string) (*domain.SearchResults, error)
	RecentActivity(ctx context.Context, user *domain.User, limit int) ([]domain.Activity, error)
}

type dashboardServiceImpl struct {
	repos *repository.Repositories
}

func NewDashboardService(repos *repository.Repositories) DashboardService {
	return &dashboardServiceImpl{repos: repos}
}

// Stats counts liked articles as read articles; there is no separate
// read tracking.
func (s *dashboardServiceImpl) Stats(ctx context.Context, user *domain.User) (*domain.DashboardStats, error) {
	var (
		enrollments []domain.Enrollment
		completions []domain.Completion
		tutorials   []domain.Tutorial
		bookmarks   []domain.Bookmark
		likes       []domain.Like
		attempts    []domain.QuizAttempt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		enrollments, err = s.repos.Enrollments.FindBy(gctx, "user_id", user.ID)
		return
	})
	g.Go(func() (err error) {
		completions, err = s.repos.Completions.FindBy(gctx, "user_id", user.ID)
		return
	})
	g.Go(func() (err error) {
		tutorials, err = s.repos.Tutorials.List(gctx)
		return
	})
	g.Go(func() (err error) {
		bookmarks, err = s.repos.Bookmarks.FindBy(gctx, "user_id", user.ID)
		return
	})
	g.Go(func() (err error) {
		likes, err = s.repos.Likes.FindBy(gctx, "user_id", user.ID)
		return
	})
	g.Go(func() (err error) {
		attempts, err = s.repos.QuizAttempts.FindBy(gctx, "user_id", user.ID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to load dashboard stats", err)
	}

	completedCourses := 0
	for _, e := range enrollments {
		if e.CompletedAt != nil {
			completedCourses++
		}
	}

	avg := 0.0
	if len(attempts) > 0 {
		var total float64
		for _, a := range attempts {
			total += a.Score
		}
		avg = total / float64(len(attempts))
	}

	return &domain.DashboardStats{
		EnrolledCourses:    len(enrollments),
		CompletedCourses:   completedCourses,
		StudyHours:         completedCourses*studyHoursPerCourse + len(completions)*studyHoursPerTutorial + len(attempts)*studyHoursPerAttempt,
		Certificates:       completedCourses,
		CompletedTutorials: len(completions),
		TotalTutorials:     len(tutorials),
		ReadArticles:       len(likes),
		BookmarkedArticles: len(bookmarks),
		QuizAttempts:       len(attempts),
		AverageQuizScore:   round2(avg),
	}, nil
}

func (s *dashboardServiceImpl) MyCourses(ctx context.Context, user *domain.User) ([]dto.CourseWithEnrollment, error) {
	enrollments, err := s.repos.Enrollments.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load enrollments", err)
	}
	courses, err := s.repos.Courses.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load courses", err)
	}
	byID := make(map[int64]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	out := make([]dto.CourseWithEnrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if c, ok := byID[e.CourseID]; ok {
			out = append(out, dto.CourseWithEnrollment{Course: c, Enrollment: e})
		}
	}
	return out, nil
}

func (s *dashboardServiceImpl) MyTutorials(ctx context.Context, user *domain.User) ([]dto.TutorialWithCompletion, error) {
	completions, err := s.repos.Completions.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load completions", err)
	}
	tutorials, err := s.repos.Tutorials.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load tutorials", err)
	}
	byID := make(map[int64]domain.Tutorial, len(tutorials))
	for _, t := range tutorials {
		byID[t.ID] = t
	}

	out := make([]dto.TutorialWithCompletion, 0, len(completions))
	for _, c := range completions {
		if t, ok := byID[c.TutorialID]; ok {
			out = append(out, dto.TutorialWithCompletion{Tutorial: t, Completion: c})
		}
	}
	return out, nil
}

func (s *dashboardServiceImpl) MyArticles(ctx context.Context, user *domain.User) (*dto.MyArticles, error) {
	var (
		bookmarks []domain.Bookmark
		likes     []domain.Like
		articles  []domain.Article
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bookmarks, err = s.repos.Bookmarks.FindBy(gctx, "user_id", user.ID)
		return
	})
	g.Go(func() (err error) {
		likes, err = s.repos.Likes.FindBy(gctx, "user_id", user.ID)
		return
	})
	g.Go(func() (err error) {
		articles, err = s.repos.Articles.List(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to load articles", err)
	}

	byID := make(map[int64]domain.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	out := &dto.MyArticles{
		Bookmarked: make([]dto.BookmarkedArticle, 0, len(bookmarks)),
		Liked:      make([]dto.LikedArticle, 0, len(likes)),
	}
	for _, b := range bookmarks {
		if a, ok := byID[b.ArticleID]; ok {
			out.Bookmarked = append(out.Bookmarked, dto.BookmarkedArticle{Article: a, BookmarkedAt: b.BookmarkedAt})
		}
	}
	for _, l := range likes {
		if a, ok := byID[l.ArticleID]; ok {
			out.Liked = append(out.Liked, dto.LikedArticle{Article: a, LikedAt: l.LikedAt})
		}
	}
	return out, nil
}

// MyQuizHistory lists attempts on quizzes that still exist, newest first.
func (s *dashboardServiceImpl) MyQuizHistory(ctx context.Context, user *domain.User) ([]dto.AttemptWithQuiz, error) {
	attempts, err := s.repos.QuizAttempts.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempts", err)
	}
	quizzes, err := s.repos.Quizzes.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quizzes", err)
	}
	byID := make(map[int64]domain.Quiz, len(quizzes))
	for _, q := range quizzes {
		byID[q.ID] = q
	}

	out := make([]dto.AttemptWithQuiz, 0, len(attempts))
	for _, a := range attempts {
		if q, ok := byID[a.QuizID]; ok {
			out = append(out, dto.AttemptWithQuiz{QuizAttempt: a, Quiz: q})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AttemptedAt.After(out[j].AttemptedAt)
	})
	return out, nil
}

func (s *dashboardServiceImpl) Search(ctx context.Context, query string) (*domain.SearchResults, error) {
	res := &domain.SearchResults{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.Courses, err = s.repos.Courses.Search(gctx, query, courseSearchFields)
		return
	})
	g.Go(func() (err error) {
		res.Tutorials, err = s.repos.Tutorials.Search(gctx, query, tutorialSearchFields)
		return
	})
	g.Go(func() (err error) {
		res.Articles, err = s.repos.Articles.Search(gctx, query, articleSearchFields)
		return
	})
	g.Go(func() (err error) {
		res.Quizzes, err = s.repos.Quizzes.Search(gctx, query, quizSearchFields)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("search failed", err)
	}
	return res, nil
}

func lastN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

// RecentActivity merges the latest few enrollments, tutorial completions,
// bookmarks and quiz attempts into one newest-first feed.
func (s *dashboardServiceImpl) RecentActivity(ctx context.Context, user *domain.User, limit int) ([]domain.Activity, error) {
	limit = clampLimit(limit, DefaultActivityLimit, MaxActivityLimit)
	activities := make([]domain.Activity, 0, 4*activityPerKind)

	enrollments, err := s.repos.Enrollments.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load enrollments", err)
	}
	for _, e := range lastN(enrollments, activityPerKind) {
		course, err := s.repos.Courses.GetByID(ctx, e.CourseID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load course", err)
		}
		if course == nil {
			continue
		}
		activities = append(activities, domain.Activity{
			Type: "enrollment", Action: "Enrolled in course", Title: course.Title,
			Date: e.CreatedAt, ID: e.CourseID, EntityType: "course",
		})
	}

	completions, err := s.repos.Completions.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load completions", err)
	}
	for _, c := range lastN(completions, activityPerKind) {
		tutorial, err := s.repos.Tutorials.GetByID(ctx, c.TutorialID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load tutorial", err)
		}
		if tutorial == nil {
			continue
		}
		activities = append(activities, domain.Activity{
			Type: "completion", Action: "Completed tutorial", Title: tutorial.Title,
			Date: c.CompletedAt, ID: c.TutorialID, EntityType: "tutorial",
		})
	}

	bookmarks, err := s.repos.Bookmarks.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load bookmarks", err)
	}
	for _, b := range lastN(bookmarks, activityPerKind) {
		article, err := s.repos.Articles.GetByID(ctx, b.ArticleID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load article", err)
		}
		if article == nil {
			continue
		}
		activities = append(activities, domain.Activity{
			Type: "bookmark", Action: "Bookmarked article", Title: article.Title,
			Date: b.BookmarkedAt, ID: b.ArticleID, EntityType: "article",
		})
	}

	attempts, err := s.repos.QuizAttempts.FindBy(ctx, "user_id", user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempts", err)
	}
	for _, a := range lastN(attempts, activityPerKind) {
		quiz, err := s.repos.Quizzes.GetByID(ctx, a.QuizID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load quiz", err)
		}
		if quiz == nil {
			continue
		}
		activities = append(activities, domain.Activity{
			Type: "quiz_attempt", Action: fmt.Sprintf("Attempted quiz (Score: %.1f%%)", a.Score), Title: quiz.Title,
			Date: a.AttemptedAt, ID: a.QuizID, EntityType: "quiz",
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Date.After(activities[j].Date)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}
