package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	panic("not implemented in mock")
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	panic("not implemented in mock")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User) (string, time.Time, error) {
	panic("not implemented in mock")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*dto.AuthClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, claims *dto.AuthClaims) (*domain.User, error) {
	args := m.Called(ctx, claims)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *dto.AuthClaims) error {
	panic("not implemented in mock")
}

func newProtectedApp(svc service.AuthService, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handlers := append([]fiber.Handler{middleware.Protected(svc)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": middleware.CurrentUser(c).ID, "jti": middleware.Claims(c).ID})
	})
	app.Get("/me", handlers...)
	return app
}

func decodeError(t *testing.T, body io.Reader) middleware.ErrorResponse {
	t.Helper()
	var out middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestProtected(t *testing.T) {
	accessClaims := &dto.AuthClaims{UserID: 1, TokenType: dto.TokenTypeAccess, RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1", Subject: "ann@example.com"}}
	ann := &domain.User{Base: domain.Base{ID: 1}, Email: "ann@example.com", IsActive: true}

	tests := []struct {
		name       string
		authHeader string
		setupMock  func(m *MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{name: "missing header", wantStatus: fiber.StatusUnauthorized, wantCode: "MISSING_AUTH_HEADER"},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: fiber.StatusUnauthorized, wantCode: "INVALID_AUTH_SCHEME"},
		{
			name:       "invalid token",
			authHeader: "Bearer bad",
			setupMock: func(m *MockAuthService) {
				m.On("ValidateJWT", mock.Anything, "bad").Return(nil, service.ErrInvalidJWTToken)
			},
			wantStatus: fiber.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
		{
			name:       "revoked token",
			authHeader: "Bearer revoked",
			setupMock: func(m *MockAuthService) {
				m.On("ValidateJWT", mock.Anything, "revoked").Return(nil, service.ErrTokenRevoked)
			},
			wantStatus: fiber.StatusUnauthorized,
			wantCode:   "TOKEN_REVOKED",
		},
		{
			name:       "wrong token type",
			authHeader: "Bearer refresh",
			setupMock: func(m *MockAuthService) {
				m.On("ValidateJWT", mock.Anything, "refresh").Return(&dto.AuthClaims{TokenType: "refresh"}, nil)
			},
			wantStatus: fiber.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN_TYPE",
		},
		{
			name:       "inactive user",
			authHeader: "Bearer good",
			setupMock: func(m *MockAuthService) {
				m.On("ValidateJWT", mock.Anything, "good").Return(accessClaims, nil)
				m.On("CurrentUser", mock.Anything, accessClaims).Return(nil, domain.NewError(domain.CodeInactiveUser, "Inactive user", nil))
			},
			wantStatus: fiber.StatusBadRequest,
			wantCode:   string(domain.CodeInactiveUser),
		},
		{
			name:       "valid",
			authHeader: "Bearer good",
			setupMock: func(m *MockAuthService) {
				m.On("ValidateJWT", mock.Anything, "good").Return(accessClaims, nil)
				m.On("CurrentUser", mock.Anything, accessClaims).Return(ann, nil)
			},
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockAuthService)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}
			app := newProtectedApp(m)

			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp.Body).Code)
			} else {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, float64(1), body["user_id"])
				assert.Equal(t, "jti-1", body["jti"])
			}
			m.AssertExpectations(t)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	claims := &dto.AuthClaims{TokenType: dto.TokenTypeAccess}

	for _, tc := range []struct {
		role       domain.Role
		wantStatus int
	}{
		{domain.RoleStudent, fiber.StatusForbidden},
		{domain.RoleAdmin, fiber.StatusOK},
	} {
		m := new(MockAuthService)
		m.On("ValidateJWT", mock.Anything, "tok").Return(claims, nil)
		m.On("CurrentUser", mock.Anything, claims).Return(&domain.User{Base: domain.Base{ID: 5}, Role: tc.role, IsActive: true}, nil)

		app := newProtectedApp(m, middleware.AdminOnly())
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(middleware.AuthorizationHeader, "Bearer tok")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.wantStatus, resp.StatusCode, string(tc.role))
	}
}

func TestErrorHandler_Mapping(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	errs := map[string]error{
		"/notfound":   domain.NewQuizNotFoundError(3),
		"/invalid":    domain.NewInvalidInputError("Already enrolled"),
		"/forbidden":  domain.NewForbiddenError("nope"),
		"/conflict":   domain.NewConflictError("dup"),
		"/validation": domain.ValidationErrors{domain.NewMissingFieldError("title")},
		"/fiber":      fiber.NewError(fiber.StatusMethodNotAllowed, "nope"),
		"/internal":   errors.New("disk on fire"),
	}
	for path, e := range errs {
		e := e
		app.Get(path, func(c *fiber.Ctx) error { return e })
	}

	want := map[string]int{
		"/notfound":   fiber.StatusNotFound,
		"/invalid":    fiber.StatusBadRequest,
		"/forbidden":  fiber.StatusForbidden,
		"/conflict":   fiber.StatusConflict,
		"/validation": fiber.StatusBadRequest,
		"/fiber":      fiber.StatusMethodNotAllowed,
		"/internal":   fiber.StatusInternalServerError,
	}
	for path, status := range want {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/notfound", nil))
	require.NoError(t, err)
	body := decodeError(t, resp.Body)
	assert.Equal(t, string(domain.CodeQuizNotFound), body.Code)
	assert.Equal(t, float64(3), body.Details["quiz_id"])
}
