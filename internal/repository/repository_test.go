package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quiz-quest/internal/config"
	"quiz-quest/internal/domain"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newRepos(t *testing.T) (*Repositories, *store.Store) {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	return NewRepositories(s), s
}

func TestDocumentRepository_CRUD(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	created, err := repos.Courses.Create(ctx, &domain.Course{Title: "Go", Category: "Programming", Level: domain.DifficultyBeginner})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repos.Courses.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Go", got.Title)

	updated, err := repos.Courses.Update(ctx, created.ID, map[string]any{"students": 3, "title": "Go 2"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 3, updated.Students)
	assert.Equal(t, "Go 2", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	missing, err := repos.Courses.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := repos.Courses.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := repos.Courses.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDocumentRepository_QuizRoundTrip(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	quiz := &domain.Quiz{
		Title:    "Basics",
		Category: "Go",
		Questions: []domain.Question{
			{ID: "1", Question: "q", Options: []domain.Option{{ID: "a", Text: "A", IsCorrect: true}}},
		},
	}
	created, err := repos.Quizzes.Create(ctx, quiz)
	require.NoError(t, err)

	got, err := repos.Quizzes.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, domain.QuestionID("1"), got.Questions[0].ID)
	assert.True(t, got.Questions[0].Options[0].IsCorrect)
}

func TestDocumentRepository_FindAndSearch(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	for _, a := range []domain.QuizAttempt{
		{UserID: 1, QuizID: 10, Score: 50},
		{UserID: 2, QuizID: 10, Score: 70},
		{UserID: 1, QuizID: 11, Score: 90},
	} {
		a := a
		_, err := repos.QuizAttempts.Create(ctx, &a)
		require.NoError(t, err)
	}

	mine, err := repos.QuizAttempts.FindBy(ctx, "user_id", int64(1))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	first, err := repos.QuizAttempts.FindOneBy(ctx, "quiz_id", 10)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, int64(1), first.UserID)

	_, err = repos.Articles.Create(ctx, &domain.Article{Title: "Channels", Tags: []string{"concurrency"}})
	require.NoError(t, err)
	found, err := repos.Articles.Search(ctx, "CONCUR", []string{"title", "tags"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestDocumentRepository_CanceledContext(t *testing.T) {
	repos, _ := newRepos(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repos.Users.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentRepository_UndecodableRecord(t *testing.T) {
	repos, s := newRepos(t)
	raw := []byte(`[{"id": 1, "title": "ok", "students": "many", "created_at": "` + time.Now().UTC().Format(time.RFC3339) + `"}]`)
	require.NoError(t, os.WriteFile(filepath.Join(s.DataDir(), "courses.json"), raw, 0o644))

	_, err := repos.Courses.GetByID(context.Background(), 1)
	assert.Error(t, err)
}

func TestDocumentRepository_LegacyTimestampsAndBadRecords(t *testing.T) {
	repos, s := newRepos(t)
	ctx := context.Background()
	raw := []byte(`[
  {"id": 1, "title": "Web Development Bootcamp", "category": "Programming", "students": 1250,
   "created_at": "2024-01-15T10:30:00.123456", "updated_at": "2024-01-15T10:30:00.123456"},
  {"id": 2, "title": "Broken", "students": "many", "created_at": "2024-01-16T09:00:00"},
  {"id": 3, "title": "Data Science", "category": "Data", "students": 10,
   "created_at": "2024-01-17T00:00:00", "updated_at": "2024-01-17T00:00:00"}
]`)
	require.NoError(t, os.WriteFile(filepath.Join(s.DataDir(), "courses.json"), raw, 0o644))

	courses, err := repos.Courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, int64(1), courses[0].ID)
	assert.True(t, time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.UTC).Equal(courses[0].CreatedAt))
	assert.Equal(t, int64(3), courses[1].ID)

	programming, err := repos.Courses.FindBy(ctx, "category", "Programming")
	require.NoError(t, err)
	require.Len(t, programming, 1)

	one, err := repos.Courses.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, 1250, one.Students)
}
