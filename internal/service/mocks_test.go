package service

import (
	"context"
	"os"
	"testing"
	"time"

	"quiz-quest/internal/config"
	"quiz-quest/internal/domain"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"
	"quiz-quest/internal/store"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockGradeRecorder struct {
	mock.Mock
}

func (m *MockGradeRecorder) QuizGraded(passed bool) {
	m.Called(passed)
}

func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	return repository.NewRepositories(s)
}

func mustCreate[T any](t *testing.T, repo repository.Repository[T], v *T) *T {
	t.Helper()
	created, err := repo.Create(context.Background(), v)
	require.NoError(t, err)
	return created
}

func requireCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code)
}

var (
	admin   = &domain.User{Base: domain.Base{ID: 100}, Role: domain.RoleAdmin, IsActive: true}
	student = &domain.User{Base: domain.Base{ID: 1}, Role: domain.RoleStudent, IsActive: true}
)
