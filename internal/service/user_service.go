package service

import (
	"context"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"

	"go.uber.org/zap"
)

// UserService defines the interface for user account management.
type UserService interface {
	ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error)
	GetUser(ctx context.Context, actor *domain.User, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, actor *domain.User, id int64, req *dto.UserUpdateRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, id int64) error
}

type userServiceImpl struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, actor *domain.User, id int64) (*domain.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("Not enough permissions")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(id)
	}
	return user, nil
}

// UpdateUser applies a partial update. Only admins may change role or
// is_active, and email and username stay unique across accounts.
func (s *userServiceImpl) UpdateUser(ctx context.Context, actor *domain.User, id int64, req *dto.UserUpdateRequest) (*domain.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("Not enough permissions")
	}
	if req.Privileged() && !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("Only admins can change role or activation")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(id)
	}

	if req.Email != nil && *req.Email != user.Email {
		if taken, err := s.taken(ctx, "email", *req.Email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.NewInvalidInputError("Email already registered")
		}
	}
	if req.Username != nil && *req.Username != user.Username {
		if taken, err := s.taken(ctx, "username", *req.Username, id); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.NewInvalidInputError("Username already taken")
		}
	}

	updated, err := s.userRepo.Update(ctx, id, req.Patch())
	if err != nil {
		return nil, domain.NewInternalError("failed to update user", err)
	}
	if updated == nil {
		return nil, domain.NewUserNotFoundError(id)
	}
	logger.Get().Info("User updated", zap.Int64("userID", id), zap.Int64("actorID", actor.ID))
	return updated, nil
}

func (s *userServiceImpl) taken(ctx context.Context, field, value string, self int64) (bool, error) {
	other, err := s.userRepo.FindOneBy(ctx, field, value)
	if err != nil {
		return false, domain.NewInternalError("failed to check "+field, err)
	}
	return other != nil && other.ID != self, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, actor *domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ok, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to delete user", err)
	}
	if !ok {
		return domain.NewUserNotFoundError(id)
	}
	logger.Get().Info("User deleted", zap.Int64("userID", id), zap.Int64("actorID", actor.ID))
	return nil
}
