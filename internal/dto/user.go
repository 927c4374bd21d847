package dto

import (
	"time"

	"quiz-quest/internal/domain"
)

// UserResponse is a user without the password hash.
type UserResponse struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	AvatarURL string      `json:"avatar_url"`
	Bio       string      `json:"bio"`
	Skills    []string    `json:"skills"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func NewUserResponse(u *domain.User) UserResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		Skills:    skills,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserUpdateRequest is a partial update; nil fields are left unchanged.
type UserUpdateRequest struct {
	Email     *string      `json:"email" validate:"omitempty,email"`
	Username  *string      `json:"username" validate:"omitempty,min=1,max=50"`
	FullName  *string      `json:"full_name" validate:"omitempty,max=100"`
	Role      *domain.Role `json:"role" validate:"omitempty,oneof=student recruiter admin"`
	IsActive  *bool        `json:"is_active"`
	AvatarURL *string      `json:"avatar_url" validate:"omitempty,url"`
	Bio       *string      `json:"bio" validate:"omitempty,max=1000"`
	Skills    []string     `json:"skills"`
}

// Privileged reports whether the update touches admin-only fields.
func (r *UserUpdateRequest) Privileged() bool {
	return r.Role != nil || r.IsActive != nil
}

func (r *UserUpdateRequest) Patch() map[string]any {
	p := make(map[string]any)
	setIf(p, "email", r.Email)
	setIf(p, "username", r.Username)
	setIf(p, "full_name", r.FullName)
	if r.Role != nil {
		p["role"] = string(*r.Role)
	}
	setIf(p, "is_active", r.IsActive)
	setIf(p, "avatar_url", r.AvatarURL)
	setIf(p, "bio", r.Bio)
	if r.Skills != nil {
		p["skills"] = r.Skills
	}
	return p
}

func setIf[T any](p map[string]any, key string, v *T) {
	if v != nil {
		p[key] = *v
	}
}
