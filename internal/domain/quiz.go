package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// PassingScore is the minimum percentage for a passed attempt.
const PassingScore = 60.0

// QuestionID identifies a question within its quiz. Stored data may carry it
// as a JSON number or a string; answers always reference it as a string.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = QuestionID(n.String())
	return nil
}

func (id QuestionID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID          QuestionID `json:"id"`
	Question    string     `json:"question"`
	Options     []Option   `json:"options"`
	Explanation string     `json:"explanation,omitempty"`
}

// CorrectOption returns the id of the first option marked correct.
func (q *Question) CorrectOption() (string, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID, true
		}
	}
	return "", false
}

type Quiz struct {
	Base
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	QuestionsCount int        `json:"questions_count"`
	Difficulty     Difficulty `json:"difficulty"`
	TimeLimit      string     `json:"time_limit"`
	Category       string     `json:"category"`
	Questions      []Question `json:"questions"`
}

// QuizAttempt is an immutable record of one graded submission.
type QuizAttempt struct {
	Base
	UserID         int64             `json:"user_id"`
	QuizID         int64             `json:"quiz_id"`
	Score          float64           `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	CorrectAnswers int               `json:"correct_answers"`
	Answers        map[string]string `json:"answers"`
	AttemptedAt    time.Time         `json:"attempted_at"`
	CompletedAt    time.Time         `json:"completed_at"`
}

func (a *QuizAttempt) Passed() bool {
	return a.Score >= PassingScore
}

// AnswerDetail is the per-question breakdown returned after grading.
// UserAnswer and CorrectAnswer are nil when absent.
type AnswerDetail struct {
	Question      string  `json:"question"`
	UserAnswer    *string `json:"user_answer"`
	CorrectAnswer *string `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Explanation   string  `json:"explanation"`
}

type GradeResult struct {
	QuizID         int64                   `json:"quiz_id"`
	Score          float64                 `json:"score"`
	TotalQuestions int                     `json:"total_questions"`
	CorrectAnswers int                     `json:"correct_answers"`
	Passed         bool                    `json:"passed"`
	Answers        map[string]AnswerDetail `json:"answers"`
}
