package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"quiz-quest/internal/adapter"
	"quiz-quest/internal/config"
	"quiz-quest/internal/domain"
	"quiz-quest/internal/handler"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/repository"
	"quiz-quest/internal/service"
	"quiz-quest/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app   *fiber.App
	repos *repository.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	repos := repository.NewRepositories(s)
	cache := adapter.NewMemoryCacheAdapter()

	authService, err := service.NewAuthService(repos.Users, cache, config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: time.Hour})
	require.NoError(t, err)
	aggregation := service.NewAggregationService(repos)
	v := middleware.NewValidationMiddleware()

	h := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, v),
		User:      handler.NewUserHandler(service.NewUserService(repos.Users), v),
		Course:    handler.NewCourseHandler(service.NewCourseService(repos.Courses, repos.Enrollments), v),
		Tutorial:  handler.NewTutorialHandler(service.NewTutorialService(repos.Tutorials, repos.Completions), v),
		Article:   handler.NewArticleHandler(service.NewArticleService(repos.Articles, repos.Bookmarks, repos.Likes), v),
		Quiz:      handler.NewQuizHandler(service.NewQuizService(repos.Quizzes, repos.QuizAttempts), service.NewGradingService(repos.Quizzes, repos.QuizAttempts, nil), aggregation, v),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(repos), aggregation, v),
		Health:    handler.NewHealthHandler(s, cache, "test"),
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, h, authService)
	return &testServer{app: app, repos: repos}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// signup registers and logs in, returning an access token.
func (ts *testServer) signup(t *testing.T, username string, role domain.Role) string {
	t.Helper()
	email := username + "@example.com"
	resp := ts.do(t, fiber.MethodPost, "/api/auth/register", map[string]interface{}{
		"email": email, "username": username, "password": "secret1", "role": role,
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = ts.do(t, fiber.MethodPost, "/api/auth/login-json", map[string]string{"email": email, "password": "secret1"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &tok)
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func mustCreate[T any](t *testing.T, repo repository.Repository[T], rec *T) *T {
	t.Helper()
	out, err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	return out
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body middleware.ErrorResponse
	decode(t, resp, &body)
	return body.Code
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, fiber.MethodPost, "/api/auth/register", map[string]string{
		"email": "ann@example.com", "username": "ann", "password": "secret1",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), `"role":"student"`)

	resp = ts.do(t, fiber.MethodPost, "/api/auth/register", map[string]string{
		"email": "ann@example.com", "username": "ann2", "password": "secret1",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	form := url.Values{"username": {"ann@example.com"}, "password": {"secret1"}}
	req := httptest.NewRequest(fiber.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, resp, &tok)
	assert.Equal(t, "bearer", tok.TokenType)

	resp = ts.do(t, fiber.MethodPost, "/api/auth/login-json", map[string]string{"email": "ann@example.com", "password": "wrong1"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, "/api/auth/me", nil, tok.AccessToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	decode(t, resp, &me)
	assert.Equal(t, "ann", me["username"])

	resp = ts.do(t, fiber.MethodPost, "/api/auth/logout", nil, tok.AccessToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, "/api/auth/me", nil, tok.AccessToken)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, resp))
}

func TestUserRoutes(t *testing.T) {
	ts := newTestServer(t)
	adminTok := ts.signup(t, "root", domain.RoleAdmin)
	annTok := ts.signup(t, "ann", domain.RoleStudent)

	resp := ts.do(t, fiber.MethodGet, "/api/users", nil, annTok)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, "/api/users", nil, adminTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	decode(t, resp, &users)
	assert.Len(t, users, 2)

	resp = ts.do(t, fiber.MethodPut, "/api/users/profile/me", map[string]string{"bio": "gopher"}, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	decode(t, resp, &me)
	assert.Equal(t, "gopher", me["bio"])

	resp = ts.do(t, fiber.MethodPut, "/api/users/profile/me", map[string]string{"role": "admin"}, annTok)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, "/api/users/abc", nil, adminTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func createQuiz(t *testing.T, ts *testServer, token string) int64 {
	t.Helper()
	resp := ts.do(t, fiber.MethodPost, "/api/quizzes", map[string]interface{}{
		"title": "Go basics", "description": "warm-up", "difficulty": "Beginner", "time_limit": "5 min", "category": "Programming",
		"questions": []map[string]interface{}{
			{"id": 1, "question": "Zero value of int?", "explanation": "ints start at 0", "options": []map[string]interface{}{
				{"id": "a", "text": "0", "is_correct": true}, {"id": "b", "text": "nil"},
			}},
			{"id": 2, "question": "Goroutine keyword?", "options": []map[string]interface{}{
				{"id": "a", "text": "go", "is_correct": true}, {"id": "b", "text": "async"},
			}},
		},
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var q domain.Quiz
	decode(t, resp, &q)
	assert.Equal(t, 2, q.QuestionsCount)
	return q.ID
}

func TestQuizFlow(t *testing.T) {
	ts := newTestServer(t)
	adminTok := ts.signup(t, "root", domain.RoleAdmin)
	annTok := ts.signup(t, "ann", domain.RoleStudent)

	resp := ts.do(t, fiber.MethodPost, "/api/quizzes", map[string]interface{}{"title": "x"}, adminTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	id := createQuiz(t, ts, adminTok)
	path := "/api/quizzes/" + strconv.FormatInt(id, 10)

	resp = ts.do(t, fiber.MethodDelete, path, nil, annTok)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, path, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "is_correct")
	assert.NotContains(t, string(raw), "explanation")

	resp = ts.do(t, fiber.MethodGet, path+"?include_answers=true", nil, "")
	raw, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"is_correct":true`)

	resp = ts.do(t, fiber.MethodGet, "/api/quizzes", nil, "")
	raw, _ = io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "is_correct")

	resp = ts.do(t, fiber.MethodPost, path+"/attempt", map[string]interface{}{"quiz_id": id + 1, "answers": map[string]string{}}, annTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, fiber.MethodPost, path+"/attempt", map[string]interface{}{"quiz_id": id, "answers": map[string]string{"1": "a", "2": "b"}}, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result map[string]interface{}
	decode(t, resp, &result)
	assert.Equal(t, 50.0, result["score"])
	assert.Equal(t, false, result["passed"])

	resp = ts.do(t, fiber.MethodGet, path+"/best-score", nil, annTok)
	var best domain.BestScore
	decode(t, resp, &best)
	require.NotNil(t, best.BestScore)
	assert.Equal(t, 50.0, *best.BestScore)
	assert.Equal(t, 1, best.Attempts)

	resp = ts.do(t, fiber.MethodGet, path+"/leaderboard?limit=5", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var board []domain.LeaderboardEntry
	decode(t, resp, &board)
	require.Len(t, board, 1)
	assert.Equal(t, "ann", board[0].Username)

	resp = ts.do(t, fiber.MethodGet, path+"/attempts", nil, annTok)
	var attempts []domain.QuizAttempt
	decode(t, resp, &attempts)
	assert.Len(t, attempts, 1)

	resp = ts.do(t, fiber.MethodGet, "/api/quizzes/categories", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cats []string
	decode(t, resp, &cats)
	assert.Equal(t, []string{"Programming"}, cats)

	resp = ts.do(t, fiber.MethodGet, "/api/quizzes/stats", nil, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats domain.QuizStats
	decode(t, resp, &stats)
	assert.Equal(t, 1, stats.TotalAttempts)

	resp = ts.do(t, fiber.MethodGet, "/api/quizzes/999", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, string(domain.CodeQuizNotFound), errorCode(t, resp))
}

func TestContentInteractions(t *testing.T) {
	ts := newTestServer(t)
	adminTok := ts.signup(t, "root", domain.RoleAdmin)
	annTok := ts.signup(t, "ann", domain.RoleStudent)

	resp := ts.do(t, fiber.MethodPost, "/api/courses", map[string]string{
		"title": "Go", "description": "d", "duration": "4h", "price": "Free", "category": "Programming", "level": "Beginner", "image": "go.png",
	}, adminTok)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = ts.do(t, fiber.MethodPost, "/api/courses/1/enroll", nil, annTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = ts.do(t, fiber.MethodPost, "/api/courses/1/enroll", nil, annTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp = ts.do(t, fiber.MethodPost, "/api/courses/7/enroll", nil, annTok)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	mustCreate(t, ts.repos.Tutorials, &domain.Tutorial{Title: "Channels", Category: "Programming"})
	resp = ts.do(t, fiber.MethodPost, "/api/tutorials/1/complete?rating=6", nil, annTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp = ts.do(t, fiber.MethodPost, "/api/tutorials/1/complete?rating=4", nil, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = ts.do(t, fiber.MethodGet, "/api/tutorials/1/completed", nil, annTok)
	var done map[string]bool
	decode(t, resp, &done)
	assert.True(t, done["completed"])

	mustCreate(t, ts.repos.Articles, &domain.Article{Title: "Maps", Tags: []string{"go"}})
	resp = ts.do(t, fiber.MethodPost, "/api/articles/1/like", nil, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = ts.do(t, fiber.MethodGet, "/api/articles/1/liked", nil, annTok)
	var liked map[string]bool
	decode(t, resp, &liked)
	assert.True(t, liked["liked"])
	resp = ts.do(t, fiber.MethodDelete, "/api/articles/1/like", nil, annTok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = ts.do(t, fiber.MethodDelete, "/api/articles/1/like", nil, annTok)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, "/api/articles?tag=GO", nil, "")
	var articles []domain.Article
	decode(t, resp, &articles)
	assert.Len(t, articles, 1)
}

func TestDashboardRoutes(t *testing.T) {
	ts := newTestServer(t)
	annTok := ts.signup(t, "ann", domain.RoleStudent)
	mustCreate(t, ts.repos.Courses, &domain.Course{Title: "Python", Category: "Programming", Students: 3})

	resp := ts.do(t, fiber.MethodGet, "/api/dashboard/stats", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, "/api/dashboard/stats", nil, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats domain.DashboardStats
	decode(t, resp, &stats)
	assert.Zero(t, stats.EnrolledCourses)

	resp = ts.do(t, fiber.MethodGet, "/api/dashboard/search", nil, annTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, fiber.MethodGet, "/api/dashboard/search?q=python", nil, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var found domain.SearchResults
	decode(t, resp, &found)
	assert.Len(t, found.Courses, 1)

	resp = ts.do(t, fiber.MethodGet, "/api/dashboard/recommendations?limit=1", nil, annTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var recs []domain.Recommendation
	decode(t, resp, &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, "Popular course", recs[0].Reason)

	resp = ts.do(t, fiber.MethodGet, "/api/dashboard/recent-activity?limit=-1", nil, annTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, fiber.MethodGet, "/api/health", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health map[string]interface{}
	decode(t, resp, &health)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "ok", health["cache"])
	assert.NotEmpty(t, health["timestamp"])

	resp = ts.do(t, fiber.MethodGet, "/", nil, "")
	var root map[string]string
	decode(t, resp, &root)
	assert.Equal(t, "Welcome to Quiz Quest Courses API", root["message"])
	assert.Equal(t, "test", root["version"])
}
