package domain

import "time"

// Base carries the fields every stored record has.
type Base struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// User is a platform account. Password holds the bcrypt hash.
type User struct {
	Base
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	FullName  string   `json:"full_name"`
	Role      Role     `json:"role"`
	IsActive  bool     `json:"is_active"`
	AvatarURL string   `json:"avatar_url"`
	Bio       string   `json:"bio"`
	Skills    []string `json:"skills"`
	Password  string   `json:"password"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Course struct {
	Base
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Price       string     `json:"price"`
	Category    string     `json:"category"`
	Level       Difficulty `json:"level"`
	Image       string     `json:"image"`
	Students    int        `json:"students"`
	Rating      float64    `json:"rating"`
}

type Tutorial struct {
	Base
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
	Image       string     `json:"image"`
	Category    string     `json:"category"`
	Level       Difficulty `json:"level"`
	Views       int        `json:"views"`
	Rating      float64    `json:"rating"`
}

type Article struct {
	Base
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	ReadTime      string    `json:"read_time"`
	Image         string    `json:"image"`
	Tags          []string  `json:"tags"`
	Views         int       `json:"views"`
	Likes         int       `json:"likes"`
	PublishedDate time.Time `json:"published_date"`
}

// Enrollment links a user to a course. CompletedAt is set once the course is finished.
type Enrollment struct {
	Base
	UserID      int64      `json:"user_id"`
	CourseID    int64      `json:"course_id"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Progress    float64    `json:"progress"`
}

type Completion struct {
	Base
	UserID      int64     `json:"user_id"`
	TutorialID  int64     `json:"tutorial_id"`
	CompletedAt time.Time `json:"completed_at"`
	Rating      *float64  `json:"rating"`
}

type Bookmark struct {
	Base
	UserID       int64     `json:"user_id"`
	ArticleID    int64     `json:"article_id"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

type Like struct {
	Base
	UserID    int64     `json:"user_id"`
	ArticleID int64     `json:"article_id"`
	LikedAt   time.Time `json:"liked_at"`
}
