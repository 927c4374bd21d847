package dto

import "quiz-quest/internal/domain"

// ContentFilter holds the list filters shared by courses, tutorials,
// articles and quizzes. Empty fields are ignored.
type ContentFilter struct {
	Category   string `query:"category"`
	Level      string `query:"level"`
	Difficulty string `query:"difficulty"`
	Search     string `query:"search"`
	Author     string `query:"author"`
	Tag        string `query:"tag"`
}

type CourseCreateRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Duration    string            `json:"duration" validate:"required"`
	Price       string            `json:"price" validate:"required"`
	Category    string            `json:"category" validate:"required"`
	Level       domain.Difficulty `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Image       string            `json:"image" validate:"required"`
}

type CourseUpdateRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1"`
	Description *string            `json:"description"`
	Duration    *string            `json:"duration"`
	Price       *string            `json:"price"`
	Category    *string            `json:"category"`
	Level       *domain.Difficulty `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Image       *string            `json:"image"`
}

func (r *CourseUpdateRequest) Patch() map[string]any {
	p := make(map[string]any)
	setIf(p, "title", r.Title)
	setIf(p, "description", r.Description)
	setIf(p, "duration", r.Duration)
	setIf(p, "price", r.Price)
	setIf(p, "category", r.Category)
	setIf(p, "level", r.Level)
	setIf(p, "image", r.Image)
	return p
}

type TutorialCreateRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Duration    string            `json:"duration" validate:"required"`
	Difficulty  domain.Difficulty `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	Image       string            `json:"image" validate:"required"`
	Category    string            `json:"category" validate:"required"`
	Level       domain.Difficulty `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
}

type TutorialUpdateRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1"`
	Description *string            `json:"description"`
	Duration    *string            `json:"duration"`
	Difficulty  *domain.Difficulty `json:"difficulty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Image       *string            `json:"image"`
	Category    *string            `json:"category"`
	Level       *domain.Difficulty `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
}

func (r *TutorialUpdateRequest) Patch() map[string]any {
	p := make(map[string]any)
	setIf(p, "title", r.Title)
	setIf(p, "description", r.Description)
	setIf(p, "duration", r.Duration)
	setIf(p, "difficulty", r.Difficulty)
	setIf(p, "image", r.Image)
	setIf(p, "category", r.Category)
	setIf(p, "level", r.Level)
	return p
}

// CompleteTutorialRequest carries an optional 1-5 rating.
type CompleteTutorialRequest struct {
	Rating *float64 `json:"rating" query:"rating" validate:"omitempty,min=1,max=5"`
}

type ArticleCreateRequest struct {
	Title    string   `json:"title" validate:"required"`
	Excerpt  string   `json:"excerpt" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Author   string   `json:"author" validate:"required"`
	ReadTime string   `json:"read_time" validate:"required"`
	Image    string   `json:"image" validate:"required"`
	Tags     []string `json:"tags"`
}

type ArticleUpdateRequest struct {
	Title    *string  `json:"title" validate:"omitempty,min=1"`
	Excerpt  *string  `json:"excerpt"`
	Content  *string  `json:"content"`
	Author   *string  `json:"author"`
	ReadTime *string  `json:"read_time"`
	Image    *string  `json:"image"`
	Tags     []string `json:"tags"`
}

func (r *ArticleUpdateRequest) Patch() map[string]any {
	p := make(map[string]any)
	setIf(p, "title", r.Title)
	setIf(p, "excerpt", r.Excerpt)
	setIf(p, "content", r.Content)
	setIf(p, "author", r.Author)
	setIf(p, "read_time", r.ReadTime)
	setIf(p, "image", r.Image)
	if r.Tags != nil {
		p["tags"] = r.Tags
	}
	return p
}
