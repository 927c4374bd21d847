package domain

import "time"

// BestScore summarizes a user's attempts at one quiz. BestScore and Passed
// are nil when there are no attempts.
type BestScore struct {
	BestScore *float64 `json:"best_score"`
	Attempts  int      `json:"attempts"`
	Passed    *bool    `json:"passed,omitempty"`
}

type LeaderboardEntry struct {
	UserID         int64     `json:"user_id"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	AttemptedAt    time.Time `json:"attempted_at"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
}

type QuizStats struct {
	TotalAttempts    int     `json:"total_attempts"`
	QuizzesAttempted int     `json:"quizzes_attempted"`
	AverageScore     float64 `json:"average_score"`
	PassedQuizzes    int     `json:"passed_quizzes"`
	BestCategory     *string `json:"best_category"`
}

type RecommendationType string

const (
	RecommendCourse   RecommendationType = "course"
	RecommendTutorial RecommendationType = "tutorial"
	RecommendQuiz     RecommendationType = "quiz"
)

type Recommendation struct {
	Type        RecommendationType `json:"type"`
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Reason      string             `json:"reason"`
}

type DashboardStats struct {
	EnrolledCourses    int     `json:"enrolled_courses"`
	CompletedCourses   int     `json:"completed_courses"`
	StudyHours         int     `json:"study_hours"`
	Certificates       int     `json:"certificates"`
	CompletedTutorials int     `json:"completed_tutorials"`
	TotalTutorials     int     `json:"total_tutorials"`
	ReadArticles       int     `json:"read_articles"`
	BookmarkedArticles int     `json:"bookmarked_articles"`
	QuizAttempts       int     `json:"quiz_attempts"`
	AverageQuizScore   float64 `json:"average_quiz_score"`
}

type Activity struct {
	Type       string    `json:"type"`
	Action     string    `json:"action"`
	Title      string    `json:"title"`
	Date       time.Time `json:"date"`
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
}

type SearchResults struct {
	Courses   []Course   `json:"courses"`
	Tutorials []Tutorial `json:"tutorials"`
	Articles  []Article  `json:"articles"`
	Quizzes   []Quiz     `json:"quizzes"`
}
