package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-quest/internal/cache"
	"quiz-quest/internal/config"
	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuth(t *testing.T, c domain.Cache) (*authServiceImpl, *MockCache) {
	t.Helper()
	repos := newTestRepos(t)
	svc, err := NewAuthService(repos.Users, c, config.JWTConfig{SecretKey: testSecret, AccessTokenTTL: 30 * time.Minute})
	require.NoError(t, err)
	impl := svc.(*authServiceImpl)
	impl.hashCost = bcrypt.MinCost
	mc, _ := c.(*MockCache)
	return impl, mc
}

func register(t *testing.T, svc AuthService, email, username string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: email, Username: username, FullName: "Test User", Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(nil, nil, config.JWTConfig{})
	assert.Error(t, err)
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuth(t, nil)
	ctx := context.Background()

	u := register(t, svc, "ann@example.com", "ann")
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, defaultAvatarURL, u.AvatarURL)
	assert.Equal(t, []string{}, u.Skills)
	assert.NotEqual(t, "secret1", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")))

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ann@example.com", Username: "other", Password: "secret1"})
	requireCode(t, err, domain.CodeInvalidInput)
	assert.Contains(t, err.Error(), "Email already registered")

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "new@example.com", Username: "ann", Password: "secret1"})
	requireCode(t, err, domain.CodeInvalidInput)
	assert.Contains(t, err.Error(), "Username already taken")
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	svc, _ := newAuth(t, nil)
	ctx := context.Background()
	u := register(t, svc, "ann@example.com", "ann")

	_, err := svc.Login(ctx, "ann@example.com", "wrong")
	requireCode(t, err, domain.CodeUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	requireCode(t, err, domain.CodeUnauthorized)

	tok, err := svc.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	claims, err := svc.ValidateJWT(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", claims.Subject)
	assert.Equal(t, u.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)

	current, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, u.ID, current.ID)
}

func TestAuthService_ValidateJWT_Rejects(t *testing.T) {
	svc, _ := newAuth(t, nil)
	ctx := context.Background()
	u := register(t, svc, "ann@example.com", "ann")

	_, err := svc.ValidateJWT(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, dto.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.Email, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	forged, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateJWT(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	token, _, err := svc.CreateJWT(ctx, u)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, _ := newAuth(t, nil)
	ctx := context.Background()
	u := register(t, svc, "ann@example.com", "ann")

	_, err := svc.CurrentUser(ctx, &dto.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ghost@example.com"}})
	requireCode(t, err, domain.CodeUnauthorized)

	_, err = svc.userRepo.Update(ctx, u.ID, map[string]any{"is_active": false})
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, &dto.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: u.Email}})
	requireCode(t, err, domain.CodeInactiveUser)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	svc, mc := newAuth(t, new(MockCache))
	ctx := context.Background()
	u := register(t, svc, "ann@example.com", "ann")

	token, _, err := svc.CreateJWT(ctx, u)
	require.NoError(t, err)

	var claimsID string
	mc.On("Get", mock.Anything, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss).Once()
	claims, err := svc.ValidateJWT(ctx, token)
	require.NoError(t, err)
	claimsID = claims.ID

	key := cache.RevokedTokenKey(claimsID)
	mc.On("Set", mock.Anything, key, u.Email, mock.MatchedBy(func(d time.Duration) bool {
		return d > 0 && d <= 30*time.Minute
	})).Return(nil).Once()
	require.NoError(t, svc.Logout(ctx, claims))

	mc.On("Get", mock.Anything, key).Return(u.Email, nil).Once()
	_, err = svc.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	mc.AssertExpectations(t)
}

func TestAuthService_ValidateJWT_CacheFailureAccepts(t *testing.T) {
	svc, mc := newAuth(t, new(MockCache))
	ctx := context.Background()
	u := register(t, svc, "ann@example.com", "ann")
	token, _, err := svc.CreateJWT(ctx, u)
	require.NoError(t, err)

	mc.On("Get", mock.Anything, mock.AnythingOfType("string")).Return("", errors.New("connection refused"))
	_, err = svc.ValidateJWT(ctx, token)
	assert.NoError(t, err)
}
