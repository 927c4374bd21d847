package dto

import (
	"time"

	"quiz-quest/internal/domain"
)

type CourseWithEnrollment struct {
	domain.Course
	Enrollment domain.Enrollment `json:"enrollment"`
}

type TutorialWithCompletion struct {
	domain.Tutorial
	Completion domain.Completion `json:"completion"`
}

type BookmarkedArticle struct {
	domain.Article
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

type LikedArticle struct {
	domain.Article
	LikedAt time.Time `json:"liked_at"`
}

type MyArticles struct {
	Bookmarked []BookmarkedArticle `json:"bookmarked"`
	Liked      []LikedArticle      `json:"liked"`
}

type AttemptWithQuiz struct {
	domain.QuizAttempt
	Quiz domain.Quiz `json:"quiz"`
}

// Limit is the optional ?limit= query parameter.
type Limit struct {
	Limit int `query:"limit" validate:"omitempty,min=1"`
}
