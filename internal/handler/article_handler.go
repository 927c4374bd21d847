package handler

import (
	"quiz-quest/internal/dto"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ArticleHandler struct {
	articleService service.ArticleService
	validator      *middleware.ValidationMiddleware
}

func NewArticleHandler(articleService service.ArticleService, validator *middleware.ValidationMiddleware) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, validator: validator}
}

// ListArticles supports search, author and tag filters.
func (h *ArticleHandler) ListArticles(c *fiber.Ctx) error {
	var filter dto.ContentFilter
	if err := h.validator.Query(c, &filter); err != nil {
		return err
	}
	articles, err := h.articleService.ListArticles(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(articles)
}

func (h *ArticleHandler) GetArticle(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	article, err := h.articleService.GetArticle(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(article)
}

func (h *ArticleHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.ArticleCreateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	article, err := h.articleService.CreateArticle(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

func (h *ArticleHandler) UpdateArticle(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ArticleUpdateRequest
	if err := h.validator.Body(c, &req); err != nil {
		return err
	}
	article, err := h.articleService.UpdateArticle(c.UserContext(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(article)
}

func (h *ArticleHandler) DeleteArticle(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.articleService.DeleteArticle(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Article deleted successfully"})
}

func (h *ArticleHandler) Bookmark(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	bookmark, err := h.articleService.Bookmark(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(bookmark)
}

func (h *ArticleHandler) Unbookmark(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.articleService.Unbookmark(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Bookmark removed successfully"})
}

func (h *ArticleHandler) IsBookmarked(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	ok, err := h.articleService.IsBookmarked(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"bookmarked": ok})
}

func (h *ArticleHandler) Like(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	like, err := h.articleService.Like(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(like)
}

func (h *ArticleHandler) Unlike(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.articleService.Unlike(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Like removed successfully"})
}

func (h *ArticleHandler) IsLiked(c *fiber.Ctx) error {
	id, err := h.validator.ParamID(c, "id")
	if err != nil {
		return err
	}
	ok, err := h.articleService.IsLiked(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"liked": ok})
}
