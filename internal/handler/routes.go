package handler

import (
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Course    *CourseHandler
	Tutorial  *TutorialHandler
	Article   *ArticleHandler
	Quiz      *QuizHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts the API on router. Literal segments such as
// /quizzes/categories are registered before their /:id siblings because
// fiber matches in registration order.
func RegisterRoutes(router fiber.Router, h Handlers, authService service.AuthService) {
	protected := middleware.Protected(authService)
	admin := middleware.AdminOnly()
	idParam := middleware.NewValidationMiddleware().ValidateIDParams("id")

	router.Get("/", h.Health.Root)

	api := router.Group("/api")
	api.Get("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/login-json", h.Auth.LoginJSON)
	auth.Get("/me", protected, h.Auth.Me)
	auth.Post("/logout", protected, h.Auth.Logout)

	users := api.Group("/users", protected)
	users.Get("/", admin, h.User.ListUsers)
	users.Get("/profile/me", h.User.GetMyProfile)
	users.Put("/profile/me", h.User.UpdateMyProfile)
	users.Get("/:id", idParam, h.User.GetUser)
	users.Put("/:id", idParam, h.User.UpdateUser)
	users.Delete("/:id", idParam, admin, h.User.DeleteUser)

	courses := api.Group("/courses")
	courses.Get("/", h.Course.ListCourses)
	courses.Get("/:id", idParam, h.Course.GetCourse)
	courses.Post("/", protected, h.Course.CreateCourse)
	courses.Put("/:id", idParam, protected, h.Course.UpdateCourse)
	courses.Delete("/:id", idParam, protected, h.Course.DeleteCourse)
	courses.Post("/:id/enroll", idParam, protected, h.Course.Enroll)

	tutorials := api.Group("/tutorials")
	tutorials.Get("/", h.Tutorial.ListTutorials)
	tutorials.Get("/:id", idParam, h.Tutorial.GetTutorial)
	tutorials.Post("/", protected, h.Tutorial.CreateTutorial)
	tutorials.Put("/:id", idParam, protected, h.Tutorial.UpdateTutorial)
	tutorials.Delete("/:id", idParam, protected, h.Tutorial.DeleteTutorial)
	tutorials.Post("/:id/complete", idParam, protected, h.Tutorial.Complete)
	tutorials.Delete("/:id/complete", idParam, protected, h.Tutorial.Uncomplete)
	tutorials.Get("/:id/completed", idParam, protected, h.Tutorial.IsCompleted)

	articles := api.Group("/articles")
	articles.Get("/", h.Article.ListArticles)
	articles.Get("/:id", idParam, h.Article.GetArticle)
	articles.Post("/", protected, h.Article.CreateArticle)
	articles.Put("/:id", idParam, protected, h.Article.UpdateArticle)
	articles.Delete("/:id", idParam, protected, h.Article.DeleteArticle)
	articles.Post("/:id/bookmark", idParam, protected, h.Article.Bookmark)
	articles.Delete("/:id/bookmark", idParam, protected, h.Article.Unbookmark)
	articles.Get("/:id/bookmarked", idParam, protected, h.Article.IsBookmarked)
	articles.Post("/:id/like", idParam, protected, h.Article.Like)
	articles.Delete("/:id/like", idParam, protected, h.Article.Unlike)
	articles.Get("/:id/liked", idParam, protected, h.Article.IsLiked)

	quizzes := api.Group("/quizzes")
	quizzes.Get("/", h.Quiz.ListQuizzes)
	quizzes.Get("/categories", h.Quiz.Categories)
	quizzes.Get("/stats", protected, h.Quiz.MyStats)
	quizzes.Get("/:id", idParam, h.Quiz.GetQuiz)
	quizzes.Post("/", protected, h.Quiz.CreateQuiz)
	quizzes.Put("/:id", idParam, protected, h.Quiz.UpdateQuiz)
	quizzes.Delete("/:id", idParam, protected, h.Quiz.DeleteQuiz)
	quizzes.Post("/:id/attempt", idParam, protected, h.Quiz.SubmitAttempt)
	quizzes.Get("/:id/attempts", idParam, protected, h.Quiz.MyAttempts)
	quizzes.Get("/:id/best-score", idParam, protected, h.Quiz.BestScore)
	quizzes.Get("/:id/leaderboard", idParam, h.Quiz.Leaderboard)

	dashboard := api.Group("/dashboard", protected)
	dashboard.Get("/stats", h.Dashboard.Stats)
	dashboard.Get("/my-courses", h.Dashboard.MyCourses)
	dashboard.Get("/my-tutorials", h.Dashboard.MyTutorials)
	dashboard.Get("/my-articles", h.Dashboard.MyArticles)
	dashboard.Get("/my-quiz-history", h.Dashboard.MyQuizHistory)
	dashboard.Get("/search", h.Dashboard.Search)
	dashboard.Get("/recent-activity", h.Dashboard.RecentActivity)
	dashboard.Get("/recommendations", h.Dashboard.Recommendations)
}
