package service

import (
	"context"
	"testing"
	"time"

	"quiz-quest/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Stats(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDashboardService(repos)
	ctx := context.Background()
	done := time.Now().UTC()

	mustCreate(t, repos.Enrollments, &domain.Enrollment{UserID: student.ID, CourseID: 1, CompletedAt: &done})
	mustCreate(t, repos.Enrollments, &domain.Enrollment{UserID: student.ID, CourseID: 2})
	mustCreate(t, repos.Enrollments, &domain.Enrollment{UserID: 2, CourseID: 2})
	mustCreate(t, repos.Completions, &domain.Completion{UserID: student.ID, TutorialID: 1})
	mustCreate(t, repos.Tutorials, &domain.Tutorial{Title: "a"})
	mustCreate(t, repos.Tutorials, &domain.Tutorial{Title: "b"})
	mustCreate(t, repos.Bookmarks, &domain.Bookmark{UserID: student.ID, ArticleID: 1})
	mustCreate(t, repos.Likes, &domain.Like{UserID: student.ID, ArticleID: 1})
	mustCreate(t, repos.Likes, &domain.Like{UserID: student.ID, ArticleID: 2})
	mustCreate(t, repos.QuizAttempts, &domain.QuizAttempt{UserID: student.ID, QuizID: 1, Score: 100})
	mustCreate(t, repos.QuizAttempts, &domain.QuizAttempt{UserID: student.ID, QuizID: 1, Score: 100.0 / 3})

	stats, err := svc.Stats(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		EnrolledCourses:    2,
		CompletedCourses:   1,
		StudyHours:         15 + 2 + 2,
		Certificates:       1,
		CompletedTutorials: 1,
		TotalTutorials:     2,
		ReadArticles:       2,
		BookmarkedArticles: 1,
		QuizAttempts:       2,
		AverageQuizScore:   66.67,
	}, *stats)
}

func TestDashboardService_MyContent(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDashboardService(repos)
	ctx := context.Background()

	c := mustCreate(t, repos.Courses, &domain.Course{Title: "Go"})
	mustCreate(t, repos.Enrollments, &domain.Enrollment{UserID: student.ID, CourseID: c.ID, Progress: 25})
	mustCreate(t, repos.Enrollments, &domain.Enrollment{UserID: student.ID, CourseID: 404})

	courses, err := svc.MyCourses(ctx, student)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go", courses[0].Title)
	assert.Equal(t, 25.0, courses[0].Enrollment.Progress)

	tut := mustCreate(t, repos.Tutorials, &domain.Tutorial{Title: "Channels"})
	mustCreate(t, repos.Completions, &domain.Completion{UserID: student.ID, TutorialID: tut.ID})
	tutorials, err := svc.MyTutorials(ctx, student)
	require.NoError(t, err)
	require.Len(t, tutorials, 1)
	assert.Equal(t, tut.ID, tutorials[0].Completion.TutorialID)

	a := mustCreate(t, repos.Articles, &domain.Article{Title: "Maps"})
	marked := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mustCreate(t, repos.Bookmarks, &domain.Bookmark{UserID: student.ID, ArticleID: a.ID, BookmarkedAt: marked})
	mustCreate(t, repos.Likes, &domain.Like{UserID: student.ID, ArticleID: 999})
	articles, err := svc.MyArticles(ctx, student)
	require.NoError(t, err)
	require.Len(t, articles.Bookmarked, 1)
	assert.True(t, marked.Equal(articles.Bookmarked[0].BookmarkedAt))
	assert.Empty(t, articles.Liked)
}

func TestDashboardService_MyQuizHistory(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDashboardService(repos)
	q := mustCreate(t, repos.Quizzes, &domain.Quiz{Title: "Go"})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mustCreate(t, repos.QuizAttempts, &domain.QuizAttempt{UserID: student.ID, QuizID: q.ID, Score: 10, AttemptedAt: base})
	mustCreate(t, repos.QuizAttempts, &domain.QuizAttempt{UserID: student.ID, QuizID: q.ID, Score: 30, AttemptedAt: base.Add(2 * time.Hour)})
	mustCreate(t, repos.QuizAttempts, &domain.QuizAttempt{UserID: student.ID, QuizID: 404, Score: 99, AttemptedAt: base.Add(3 * time.Hour)})
	mustCreate(t, repos.QuizAttempts, &domain.QuizAttempt{UserID: student.ID, QuizID: q.ID, Score: 20, AttemptedAt: base.Add(time.Hour)})

	history, err := svc.MyQuizHistory(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 30.0, history[0].Score)
	assert.Equal(t, 20.0, history[1].Score)
	assert.Equal(t, 10.0, history[2].Score)
	assert.Equal(t, "Go", history[0].Quiz.Title)
}

func TestDashboardService_Search(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDashboardService(repos)

	mustCreate(t, repos.Courses, &domain.Course{Title: "Python", Category: "Programming"})
	mustCreate(t, repos.Tutorials, &domain.Tutorial{Title: "Flask", Description: "python web"})
	mustCreate(t, repos.Articles, &domain.Article{Title: "Typing", Tags: []string{"Python", "types"}})
	mustCreate(t, repos.Articles, &domain.Article{Title: "Rust", Author: "pythonista"})
	mustCreate(t, repos.Quizzes, &domain.Quiz{Title: "Go"})

	res, err := svc.Search(context.Background(), "PYTHON")
	require.NoError(t, err)
	assert.Len(t, res.Courses, 1)
	assert.Len(t, res.Tutorials, 1)
	assert.Len(t, res.Articles, 2)
	assert.Empty(t, res.Quizzes)
	assert.NotNil(t, res.Quizzes)
}

func TestDashboardService_RecentActivity(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewDashboardService(repos)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := mustCreate(t, repos.Courses, &domain.Course{Title: "Go"})
	tut := mustCreate(t, repos.Tutorials, &domain.Tutorial{Title: "Channels"})
	a := mustCreate(t, repos.Articles, &domain.Article{Title: "Maps"})
	q := mustCreate(t, repos.Quizzes, &domain.Quiz{Title: "Quiz"})

	mustCreate(t, repos.Completions, &domain.Completion{UserID: student.ID, TutorialID: tut.ID, CompletedAt: base.Add(time.Hour)})
	mustCreate(t, repos.Bookmarks, &domain.Bookmark{UserID: student.ID, ArticleID: a.ID, BookmarkedAt: base})
	mustCreate(t, repos.Bookmarks, &domain.Bookmark{UserID: student.ID, ArticleID: 404, BookmarkedAt: base})
	for i := 0; i < 7; i++ {
		mustCreate(t, repos.QuizAttempts, &domain.QuizAttempt{
			UserID: student.ID, QuizID: q.ID, Score: 62.5, AttemptedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	// enrollments are dated by the record's creation time, so this one is newest
	mustCreate(t, repos.Enrollments, &domain.Enrollment{UserID: student.ID, CourseID: c.ID})

	feed, err := svc.RecentActivity(ctx, student, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1+1+1+5)

	assert.Equal(t, "enrollment", feed[0].Type)
	assert.Equal(t, "Enrolled in course", feed[0].Action)
	assert.Equal(t, "course", feed[0].EntityType)
	assert.Equal(t, c.ID, feed[0].ID)

	assert.Equal(t, "completion", feed[1].Type)

	assert.Equal(t, "quiz_attempt", feed[2].Type)
	assert.Equal(t, "Attempted quiz (Score: 62.5%)", feed[2].Action)
	assert.True(t, base.Add(6*time.Minute).Equal(feed[2].Date))

	last := feed[len(feed)-1]
	assert.Equal(t, "bookmark", last.Type)
	assert.Equal(t, "Maps", last.Title)

	short, err := svc.RecentActivity(ctx, student, 3)
	require.NoError(t, err)
	assert.Len(t, short, 3)
}
