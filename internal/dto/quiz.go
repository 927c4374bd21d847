package dto

import "quiz-quest/internal/domain"

type OptionRequest struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	ID          domain.QuestionID `json:"id" validate:"required"`
	Question    string            `json:"question" validate:"required"`
	Options     []OptionRequest   `json:"options" validate:"required,min=1,dive"`
	Explanation string            `json:"explanation"`
}

func toQuestions(in []QuestionRequest) []domain.Question {
	out := make([]domain.Question, 0, len(in))
	for _, q := range in {
		opts := make([]domain.Option, 0, len(q.Options))
		for _, o := range q.Options {
			opts = append(opts, domain.Option{ID: o.ID, Text: o.Text, IsCorrect: o.IsCorrect})
		}
		out = append(out, domain.Question{ID: q.ID, Question: q.Question, Options: opts, Explanation: q.Explanation})
	}
	return out
}

type QuizCreateRequest struct {
	Title          string            `json:"title" validate:"required"`
	Description    string            `json:"description" validate:"required"`
	QuestionsCount int               `json:"questions_count" validate:"min=0"`
	Difficulty     domain.Difficulty `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	TimeLimit      string            `json:"time_limit" validate:"required"`
	Category       string            `json:"category" validate:"required"`
	Questions      []QuestionRequest `json:"questions" validate:"dive"`
}

func (r *QuizCreateRequest) ToQuiz() *domain.Quiz {
	return &domain.Quiz{
		Title:          r.Title,
		Description:    r.Description,
		QuestionsCount: r.QuestionsCount,
		Difficulty:     r.Difficulty,
		TimeLimit:      r.TimeLimit,
		Category:       r.Category,
		Questions:      toQuestions(r.Questions),
	}
}

type QuizUpdateRequest struct {
	Title          *string            `json:"title" validate:"omitempty,min=1"`
	Description    *string            `json:"description"`
	QuestionsCount *int               `json:"questions_count" validate:"omitempty,min=0"`
	Difficulty     *domain.Difficulty `json:"difficulty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	TimeLimit      *string            `json:"time_limit"`
	Category       *string            `json:"category"`
	Questions      []QuestionRequest  `json:"questions" validate:"omitempty,dive"`
}

func (r *QuizUpdateRequest) Patch() map[string]any {
	p := make(map[string]any)
	setIf(p, "title", r.Title)
	setIf(p, "description", r.Description)
	setIf(p, "questions_count", r.QuestionsCount)
	setIf(p, "difficulty", r.Difficulty)
	setIf(p, "time_limit", r.TimeLimit)
	setIf(p, "category", r.Category)
	if r.Questions != nil {
		p["questions"] = toQuestions(r.Questions)
	}
	return p
}

// QuizSubmission maps question id to the chosen option id.
type QuizSubmission struct {
	QuizID  int64             `json:"quiz_id" validate:"required"`
	Answers map[string]string `json:"answers"`
}

type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type PublicQuestion struct {
	ID       domain.QuestionID `json:"id"`
	Question string            `json:"question"`
	Options  []PublicOption    `json:"options"`
}

// PublicQuiz is a quiz as shown to someone about to take it: no correct
// flags and no explanations.
type PublicQuiz struct {
	domain.Base
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	QuestionsCount int               `json:"questions_count"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	TimeLimit      string            `json:"time_limit"`
	Category       string            `json:"category"`
	Questions      []PublicQuestion  `json:"questions"`
}

func NewPublicQuiz(q *domain.Quiz) PublicQuiz {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, qq := range q.Questions {
		opts := make([]PublicOption, 0, len(qq.Options))
		for _, o := range qq.Options {
			opts = append(opts, PublicOption{ID: o.ID, Text: o.Text})
		}
		questions = append(questions, PublicQuestion{ID: qq.ID, Question: qq.Question, Options: opts})
	}
	return PublicQuiz{
		Base:           q.Base,
		Title:          q.Title,
		Description:    q.Description,
		QuestionsCount: q.QuestionsCount,
		Difficulty:     q.Difficulty,
		TimeLimit:      q.TimeLimit,
		Category:       q.Category,
		Questions:      questions,
	}
}

// SubmissionResponse is the grading outcome plus the stored attempt id.
type SubmissionResponse struct {
	AttemptID int64 `json:"attempt_id"`
	domain.GradeResult
}
