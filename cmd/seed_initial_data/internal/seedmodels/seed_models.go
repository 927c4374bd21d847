package seedmodels

import "quiz-quest/internal/domain"

// SeedUser carries a plaintext password that the seeder hashes.
type SeedUser struct {
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	Role      domain.Role `json:"role"`
	Password  string      `json:"password"`
	AvatarURL string      `json:"avatar_url"`
	Bio       string      `json:"bio"`
	Skills    []string    `json:"skills"`
}

// SeedFile defines the structure of the JSON seed file.
type SeedFile struct {
	Users     []SeedUser        `json:"users"`
	Courses   []domain.Course   `json:"courses"`
	Tutorials []domain.Tutorial `json:"tutorials"`
	Articles  []domain.Article  `json:"articles"`
	Quizzes   []domain.Quiz     `json:"quizzes"`
}
