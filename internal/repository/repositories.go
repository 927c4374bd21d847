package repository

import (
	"quiz-quest/internal/domain"
	"quiz-quest/internal/store"
)

// Repositories bundles one repository per collection.
type Repositories struct {
	Users        UserRepository
	Courses      CourseRepository
	Tutorials    TutorialRepository
	Articles     ArticleRepository
	Quizzes      QuizRepository
	Enrollments  EnrollmentRepository
	Completions  CompletionRepository
	Bookmarks    BookmarkRepository
	Likes        LikeRepository
	QuizAttempts QuizAttemptRepository
}

func NewRepositories(s *store.Store) *Repositories {
	return &Repositories{
		Users:        NewDocumentRepository[domain.User](s, store.Users),
		Courses:      NewDocumentRepository[domain.Course](s, store.Courses),
		Tutorials:    NewDocumentRepository[domain.Tutorial](s, store.Tutorials),
		Articles:     NewDocumentRepository[domain.Article](s, store.Articles),
		Quizzes:      NewDocumentRepository[domain.Quiz](s, store.Quizzes),
		Enrollments:  NewDocumentRepository[domain.Enrollment](s, store.Enrollments),
		Completions:  NewDocumentRepository[domain.Completion](s, store.Completions),
		Bookmarks:    NewDocumentRepository[domain.Bookmark](s, store.Bookmarks),
		Likes:        NewDocumentRepository[domain.Like](s, store.Likes),
		QuizAttempts: NewDocumentRepository[domain.QuizAttempt](s, store.QuizAttempts),
	}
}
