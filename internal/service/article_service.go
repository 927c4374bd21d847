package service

import (
	"context"
	"strings"
	"time"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/dto"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"

	"go.uber.org/zap"
)

// ArticleService covers articles plus the per-user bookmark and like
// relations. The likes counter on an article never drops below zero.
type ArticleService interface {
	ListArticles(ctx context.Context, filter dto.ContentFilter) ([]domain.Article, error)
	GetArticle(ctx context.Context, id int64) (*domain.Article, error)
	CreateArticle(ctx context.Context, actor *domain.User, req *dto.ArticleCreateRequest) (*domain.Article, error)
	UpdateArticle(ctx context.Context, actor *domain.User, id int64, req *dto.ArticleUpdateRequest) (*domain.Article, error)
	DeleteArticle(ctx context.Context, actor *domain.User, id int64) error

	Bookmark(ctx context.Context, user *domain.User, articleID int64) (*domain.Bookmark, error)
	Unbookmark(ctx context.Context, user *domain.User, articleID int64) error
	IsBookmarked(ctx context.Context, user *domain.User, articleID int64) (bool, error)

	Like(ctx context.Context, user *domain.User, articleID int64) (*domain.Like, error)
	Unlike(ctx context.Context, user *domain.User, articleID int64) error
	IsLiked(ctx context.Context, user *domain.User, articleID int64) (bool, error)
}

type articleServiceImpl struct {
	articleRepo  repository.ArticleRepository
	bookmarkRepo repository.BookmarkRepository
	likeRepo     repository.LikeRepository
	now          func() time.Time
}

func NewArticleService(articleRepo repository.ArticleRepository, bookmarkRepo repository.BookmarkRepository, likeRepo repository.LikeRepository) ArticleService {
	return &articleServiceImpl{
		articleRepo:  articleRepo,
		bookmarkRepo: bookmarkRepo,
		likeRepo:     likeRepo,
		now:          time.Now,
	}
}

func hasTag(tags []string, want string, partial bool) bool {
	for _, t := range tags {
		if partial && containsFold(t, want) {
			return true
		}
		if !partial && strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func (s *articleServiceImpl) ListArticles(ctx context.Context, filter dto.ContentFilter) ([]domain.Article, error) {
	articles, err := s.articleRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list articles", err)
	}
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if filter.Search != "" && !containsFold(a.Title, filter.Search) && !containsFold(a.Excerpt, filter.Search) && !hasTag(a.Tags, filter.Search, true) {
			continue
		}
		if filter.Author != "" && !strings.EqualFold(a.Author, filter.Author) {
			continue
		}
		if filter.Tag != "" && !hasTag(a.Tags, filter.Tag, false) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *articleServiceImpl) load(ctx context.Context, id int64) (*domain.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load article", err)
	}
	if article == nil {
		return nil, domain.NewArticleNotFoundError(id)
	}
	return article, nil
}

func (s *articleServiceImpl) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	viewed, err := s.articleRepo.Update(ctx, id, map[string]any{"views": article.Views + 1})
	if err != nil {
		return nil, domain.NewInternalError("failed to count article view", err)
	}
	if viewed != nil {
		article = viewed
	}
	return article, nil
}

func (s *articleServiceImpl) CreateArticle(ctx context.Context, actor *domain.User, req *dto.ArticleCreateRequest) (*domain.Article, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	article, err := s.articleRepo.Create(ctx, &domain.Article{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Author:        req.Author,
		ReadTime:      req.ReadTime,
		Image:         req.Image,
		Tags:          tags,
		PublishedDate: s.now().UTC(),
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create article", err)
	}
	logger.Get().Info("Article created", zap.Int64("articleID", article.ID))
	return article, nil
}

func (s *articleServiceImpl) UpdateArticle(ctx context.Context, actor *domain.User, id int64, req *dto.ArticleUpdateRequest) (*domain.Article, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	article, err := s.articleRepo.Update(ctx, id, req.Patch())
	if err != nil {
		return nil, domain.NewInternalError("failed to update article", err)
	}
	if article == nil {
		return nil, domain.NewArticleNotFoundError(id)
	}
	return article, nil
}

func (s *articleServiceImpl) DeleteArticle(ctx context.Context, actor *domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ok, err := s.articleRepo.Delete(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to delete article", err)
	}
	if !ok {
		return domain.NewArticleNotFoundError(id)
	}
	return nil
}

func (s *articleServiceImpl) findBookmark(ctx context.Context, userID, articleID int64) (*domain.Bookmark, error) {
	mine, err := s.bookmarkRepo.FindBy(ctx, "user_id", userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load bookmarks", err)
	}
	for i := range mine {
		if mine[i].ArticleID == articleID {
			return &mine[i], nil
		}
	}
	return nil, nil
}

func (s *articleServiceImpl) findLike(ctx context.Context, userID, articleID int64) (*domain.Like, error) {
	mine, err := s.likeRepo.FindBy(ctx, "user_id", userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load likes", err)
	}
	for i := range mine {
		if mine[i].ArticleID == articleID {
			return &mine[i], nil
		}
	}
	return nil, nil
}

func (s *articleServiceImpl) Bookmark(ctx context.Context, user *domain.User, articleID int64) (*domain.Bookmark, error) {
	if _, err := s.load(ctx, articleID); err != nil {
		return nil, err
	}
	existing, err := s.findBookmark(ctx, user.ID, articleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("Article already bookmarked")
	}
	bookmark, err := s.bookmarkRepo.Create(ctx, &domain.Bookmark{
		UserID:       user.ID,
		ArticleID:    articleID,
		BookmarkedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create bookmark", err)
	}
	return bookmark, nil
}

func (s *articleServiceImpl) Unbookmark(ctx context.Context, user *domain.User, articleID int64) error {
	existing, err := s.findBookmark(ctx, user.ID, articleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NewNotFoundError("Bookmark not found")
	}
	if _, err := s.bookmarkRepo.Delete(ctx, existing.ID); err != nil {
		return domain.NewInternalError("failed to remove bookmark", err)
	}
	return nil
}

func (s *articleServiceImpl) IsBookmarked(ctx context.Context, user *domain.User, articleID int64) (bool, error) {
	existing, err := s.findBookmark(ctx, user.ID, articleID)
	return existing != nil, err
}

func (s *articleServiceImpl) Like(ctx context.Context, user *domain.User, articleID int64) (*domain.Like, error) {
	article, err := s.load(ctx, articleID)
	if err != nil {
		return nil, err
	}
	existing, err := s.findLike(ctx, user.ID, articleID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("Article already liked")
	}
	like, err := s.likeRepo.Create(ctx, &domain.Like{
		UserID:    user.ID,
		ArticleID: articleID,
		LikedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create like", err)
	}
	if _, err := s.articleRepo.Update(ctx, articleID, map[string]any{"likes": article.Likes + 1}); err != nil {
		return nil, domain.NewInternalError("failed to update article likes", err)
	}
	return like, nil
}

func (s *articleServiceImpl) Unlike(ctx context.Context, user *domain.User, articleID int64) error {
	existing, err := s.findLike(ctx, user.ID, articleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NewNotFoundError("Like not found")
	}
	if _, err := s.likeRepo.Delete(ctx, existing.ID); err != nil {
		return domain.NewInternalError("failed to remove like", err)
	}

	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return domain.NewInternalError("failed to load article", err)
	}
	if article == nil {
		return nil
	}
	if _, err := s.articleRepo.Update(ctx, articleID, map[string]any{"likes": max(0, article.Likes-1)}); err != nil {
		return domain.NewInternalError("failed to update article likes", err)
	}
	return nil
}

func (s *articleServiceImpl) IsLiked(ctx context.Context, user *domain.User, articleID int64) (bool, error) {
	existing, err := s.findLike(ctx, user.ID, articleID)
	return existing != nil, err
}
