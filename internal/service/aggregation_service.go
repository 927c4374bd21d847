package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLeaderboardLimit     = 10
	MaxLeaderboardLimit         = 50
	DefaultRecommendationLimit  = 10
	MaxRecommendationLimit      = 20
	popularFallbackPerKind      = 3
	reasonPopularCourse         = "Popular course"
	reasonPopularTutorial       = "Popular tutorial"
	unknownLeaderboardUsername  = "Unknown"
)

// AggregationService derives scores and recommendations from stored
// attempts and progress records. Nothing it returns is persisted.
type AggregationService interface {
	BestScore(ctx context.Context, userID, quizID int64) (*domain.BestScore, error)
	Leaderboard(ctx context.Context, quizID int64, limit int) ([]domain.LeaderboardEntry, error)
	UserQuizStats(ctx context.Context, userID int64) (*domain.QuizStats, error)
	Recommendations(ctx context.Context, userID int64, limit int) ([]domain.Recommendation, error)
}

type aggregationServiceImpl struct {
	repos *repository.Repositories
}

func NewAggregationService(repos *repository.Repositories) AggregationService {
	return &aggregationServiceImpl{repos: repos}
}

func (s *aggregationServiceImpl) BestScore(ctx context.Context, userID, quizID int64) (*domain.BestScore, error) {
	mine, err := s.repos.QuizAttempts.FindBy(ctx, "user_id", userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempts", err)
	}

	result := &domain.BestScore{}
	for _, a := range mine {
		if a.QuizID != quizID {
			continue
		}
		result.Attempts++
		if result.BestScore == nil || a.Score > *result.BestScore {
			score := a.Score
			result.BestScore = &score
		}
	}
	if result.BestScore != nil {
		passed := *result.BestScore >= domain.PassingScore
		result.Passed = &passed
	}
	return result, nil
}

// Leaderboard keeps each user's best attempt. A later attempt replaces the
// kept one only with a strictly higher score, and equal scores keep their
// first-seen order.
func (s *aggregationServiceImpl) Leaderboard(ctx context.Context, quizID int64, limit int) ([]domain.LeaderboardEntry, error) {
	limit = clampLimit(limit, DefaultLeaderboardLimit, MaxLeaderboardLimit)

	var (
		attempts []domain.QuizAttempt
		users    []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attempts, err = s.repos.QuizAttempts.FindBy(gctx, "quiz_id", quizID)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.repos.Users.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to build leaderboard", err)
	}

	best := make(map[int64]int)
	entries := make([]domain.LeaderboardEntry, 0)
	for _, a := range attempts {
		entry := domain.LeaderboardEntry{
			UserID:         a.UserID,
			Score:          a.Score,
			CorrectAnswers: a.CorrectAnswers,
			TotalQuestions: a.TotalQuestions,
			AttemptedAt:    a.AttemptedAt,
		}
		idx, seen := best[a.UserID]
		if !seen {
			best[a.UserID] = len(entries)
			entries = append(entries, entry)
			continue
		}
		if a.Score > entries[idx].Score {
			entries[idx] = entry
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	byID := make(map[int64]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range entries {
		if u, ok := byID[entries[i].UserID]; ok {
			entries[i].Username = u.Username
			entries[i].FullName = u.FullName
		} else {
			entries[i].Username = unknownLeaderboardUsername
		}
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// UserQuizStats summarizes all attempts of a user. Attempts on quizzes that
// no longer exist count toward the totals but not toward best_category.
func (s *aggregationServiceImpl) UserQuizStats(ctx context.Context, userID int64) (*domain.QuizStats, error) {
	var (
		attempts []domain.QuizAttempt
		quizzes  []domain.Quiz
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attempts, err = s.repos.QuizAttempts.FindBy(gctx, "user_id", userID)
		return err
	})
	g.Go(func() error {
		var err error
		quizzes, err = s.repos.Quizzes.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to compute quiz stats", err)
	}

	stats := &domain.QuizStats{}
	if len(attempts) == 0 {
		return stats, nil
	}

	category := make(map[int64]string, len(quizzes))
	for _, q := range quizzes {
		category[q.ID] = q.Category
	}

	var (
		total     float64
		unique    = make(map[int64]struct{})
		order     []string
		catTotals = make(map[string]float64)
		catCounts = make(map[string]int)
	)
	for _, a := range attempts {
		total += a.Score
		unique[a.QuizID] = struct{}{}
		if a.Passed() {
			stats.PassedQuizzes++
		}
		c, ok := category[a.QuizID]
		if !ok {
			continue
		}
		if _, seen := catCounts[c]; !seen {
			order = append(order, c)
		}
		catTotals[c] += a.Score
		catCounts[c]++
	}

	stats.TotalAttempts = len(attempts)
	stats.QuizzesAttempted = len(unique)
	stats.AverageScore = round2(total / float64(len(attempts)))

	bestAvg := 0.0
	for _, c := range order {
		avg := catTotals[c] / float64(catCounts[c])
		if avg > bestAvg {
			bestAvg = avg
			name := c
			stats.BestCategory = &name
		}
	}
	return stats, nil
}

type recommendationInputs struct {
	enrollments []domain.Enrollment
	completions []domain.Completion
	attempts    []domain.QuizAttempt
	courses     []domain.Course
	tutorials   []domain.Tutorial
	quizzes     []domain.Quiz
}

func (s *aggregationServiceImpl) loadRecommendationInputs(ctx context.Context, userID int64) (*recommendationInputs, error) {
	in := &recommendationInputs{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.enrollments, err = s.repos.Enrollments.FindBy(gctx, "user_id", userID)
		return
	})
	g.Go(func() (err error) {
		in.completions, err = s.repos.Completions.FindBy(gctx, "user_id", userID)
		return
	})
	g.Go(func() (err error) {
		in.attempts, err = s.repos.QuizAttempts.FindBy(gctx, "user_id", userID)
		return
	})
	g.Go(func() (err error) {
		in.courses, err = s.repos.Courses.List(gctx)
		return
	})
	g.Go(func() (err error) {
		in.tutorials, err = s.repos.Tutorials.List(gctx)
		return
	})
	g.Go(func() (err error) {
		in.quizzes, err = s.repos.Quizzes.List(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func interestReason(category string) string {
	return fmt.Sprintf("Based on your interest in %s", category)
}

// Recommendations suggests unconsumed content in the categories of the
// user's enrolled courses, completed tutorials and attempted quizzes. When
// that yields nothing, the most popular unconsumed courses and tutorials are
// suggested instead.
func (s *aggregationServiceImpl) Recommendations(ctx context.Context, userID int64, limit int) ([]domain.Recommendation, error) {
	limit = clampLimit(limit, DefaultRecommendationLimit, MaxRecommendationLimit)

	in, err := s.loadRecommendationInputs(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load recommendation inputs", err)
	}

	courseByID := make(map[int64]*domain.Course, len(in.courses))
	for i := range in.courses {
		courseByID[in.courses[i].ID] = &in.courses[i]
	}
	tutorialByID := make(map[int64]*domain.Tutorial, len(in.tutorials))
	for i := range in.tutorials {
		tutorialByID[in.tutorials[i].ID] = &in.tutorials[i]
	}
	quizByID := make(map[int64]*domain.Quiz, len(in.quizzes))
	for i := range in.quizzes {
		quizByID[in.quizzes[i].ID] = &in.quizzes[i]
	}

	interests := make(map[string]struct{})
	enrolled := make(map[int64]struct{}, len(in.enrollments))
	for _, e := range in.enrollments {
		enrolled[e.CourseID] = struct{}{}
		if c, ok := courseByID[e.CourseID]; ok {
			interests[strings.ToLower(c.Category)] = struct{}{}
		}
	}
	completed := make(map[int64]struct{}, len(in.completions))
	for _, c := range in.completions {
		completed[c.TutorialID] = struct{}{}
		if t, ok := tutorialByID[c.TutorialID]; ok {
			interests[strings.ToLower(t.Category)] = struct{}{}
		}
	}
	attempted := make(map[int64]struct{}, len(in.attempts))
	for _, a := range in.attempts {
		attempted[a.QuizID] = struct{}{}
		if q, ok := quizByID[a.QuizID]; ok {
			interests[strings.ToLower(q.Category)] = struct{}{}
		}
	}

	interested := func(category string) bool {
		_, ok := interests[strings.ToLower(category)]
		return ok
	}

	recs := make([]domain.Recommendation, 0)
	for _, c := range in.courses {
		if _, done := enrolled[c.ID]; !done && interested(c.Category) {
			recs = append(recs, domain.Recommendation{
				Type: domain.RecommendCourse, ID: c.ID, Title: c.Title, Description: c.Description,
				Reason: interestReason(c.Category),
			})
		}
	}
	for _, t := range in.tutorials {
		if _, done := completed[t.ID]; !done && interested(t.Category) {
			recs = append(recs, domain.Recommendation{
				Type: domain.RecommendTutorial, ID: t.ID, Title: t.Title, Description: t.Description,
				Reason: interestReason(t.Category),
			})
		}
	}
	for _, q := range in.quizzes {
		if _, done := attempted[q.ID]; !done && interested(q.Category) {
			recs = append(recs, domain.Recommendation{
				Type: domain.RecommendQuiz, ID: q.ID, Title: q.Title, Description: q.Description,
				Reason: interestReason(q.Category),
			})
		}
	}

	if len(recs) == 0 {
		recs = popularFallback(in, enrolled, completed)
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// popularFallback takes the top courses by students and top tutorials by
// views, then drops the ones the user already consumed, so it may return
// fewer than popularFallbackPerKind of each.
func popularFallback(in *recommendationInputs, enrolled, completed map[int64]struct{}) []domain.Recommendation {
	courses := append([]domain.Course(nil), in.courses...)
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Students > courses[j].Students })
	if len(courses) > popularFallbackPerKind {
		courses = courses[:popularFallbackPerKind]
	}

	tutorials := append([]domain.Tutorial(nil), in.tutorials...)
	sort.SliceStable(tutorials, func(i, j int) bool { return tutorials[i].Views > tutorials[j].Views })
	if len(tutorials) > popularFallbackPerKind {
		tutorials = tutorials[:popularFallbackPerKind]
	}

	recs := make([]domain.Recommendation, 0, len(courses)+len(tutorials))
	for _, c := range courses {
		if _, done := enrolled[c.ID]; done {
			continue
		}
		recs = append(recs, domain.Recommendation{
			Type: domain.RecommendCourse, ID: c.ID, Title: c.Title, Description: c.Description,
			Reason: reasonPopularCourse,
		})
	}
	for _, t := range tutorials {
		if _, done := completed[t.ID]; done {
			continue
		}
		recs = append(recs, domain.Recommendation{
			Type: domain.RecommendTutorial, ID: t.ID, Title: t.Title, Description: t.Description,
			Reason: reasonPopularTutorial,
		})
	}
	return recs
}
