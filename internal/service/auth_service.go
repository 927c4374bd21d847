package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-quest/internal/cache"
	"quiz-quest/internal/config"
	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"
	"quiz-quest/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultAvatarURL = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrTokenRevoked    = errors.New("token has been revoked")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	CreateJWT(ctx context.Context, user *domain.User) (string, time.Time, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	// CurrentUser resolves the token subject to an active user.
	CurrentUser(ctx context.Context, claims *dto.AuthClaims) (*domain.User, error)
	Logout(ctx context.Context, claims *dto.AuthClaims) error
}

type authServiceImpl struct {
	userRepo  repository.UserRepository
	cache     domain.Cache
	jwtConfig config.JWTConfig
	hashCost  int
	now       func() time.Time
}

// NewAuthService creates a new instance of AuthService. cache may be nil, in
// which case logout cannot revoke tokens.
func NewAuthService(userRepo repository.UserRepository, cache domain.Cache, jwtConfig config.JWTConfig) (AuthService, error) {
	if jwtConfig.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	if jwtConfig.AccessTokenTTL <= 0 {
		jwtConfig.AccessTokenTTL = 30 * time.Minute
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		cache:     cache,
		jwtConfig: jwtConfig,
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
	}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.FindOneBy(ctx, "email", req.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("Email already registered")
	}
	existing, err = s.userRepo.FindOneBy(ctx, "username", req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleStudent
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:     req.Email,
		Username:  req.Username,
		FullName:  req.FullName,
		Role:      role,
		IsActive:  active,
		AvatarURL: defaultAvatarURL,
		Bio:       "",
		Skills:    []string{},
		Password:  string(hash),
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}
	logger.Get().Info("User registered", zap.Int64("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *authServiceImpl) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindOneBy(ctx, "email", email)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, domain.NewUnauthorizedError("Incorrect email or password")
	}
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.CreateJWT(ctx, user)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.jwtConfig.AccessTokenTTL)
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: dto.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func snippet(token string) string {
	if len(token) > 20 {
		return token[:20] + "..."
	}
	return token
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		appLogger.Debug("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet(tokenString)))
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidJWTToken
	}

	if s.cache != nil && claims.ID != "" {
		_, err := s.cache.Get(ctx, cache.RevokedTokenKey(claims.ID))
		switch {
		case err == nil:
			return nil, ErrTokenRevoked
		case !errors.Is(err, domain.ErrCacheMiss):
			appLogger.Warn("Revocation lookup failed, accepting token", zap.Error(err))
		}
	}
	return claims, nil
}

func (s *authServiceImpl) CurrentUser(ctx context.Context, claims *dto.AuthClaims) (*domain.User, error) {
	user, err := s.userRepo.FindOneBy(ctx, "email", claims.Subject)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("User not found")
	}
	if !user.IsActive {
		return nil, domain.NewError(domain.CodeInactiveUser, "Inactive user", nil)
	}
	return user, nil
}

// Logout remembers the token id until the token would have expired anyway.
func (s *authServiceImpl) Logout(ctx context.Context, claims *dto.AuthClaims) error {
	if s.cache == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, cache.RevokedTokenKey(claims.ID), strings.TrimSpace(claims.Subject), ttl); err != nil {
		return domain.NewInternalError("failed to revoke token", err)
	}
	logger.Get().Info("Token revoked", zap.Int64("userID", claims.UserID), zap.Duration("ttl", ttl))
	return nil
}
