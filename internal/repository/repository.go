package repository

import (
	"context"
	"fmt"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/store"

	"go.uber.org/zap"
)

// Repository is a typed view over one store collection. Lookups return a
// nil entity, not an error, when nothing matches.
type Repository[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context) ([]T, error)
	FindBy(ctx context.Context, field string, value any) ([]T, error)
	FindOneBy(ctx context.Context, field string, value any) (*T, error)
	Search(ctx context.Context, query string, fields []string) ([]T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id int64, patch map[string]any) (*T, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type (
	UserRepository        = Repository[domain.User]
	CourseRepository      = Repository[domain.Course]
	TutorialRepository    = Repository[domain.Tutorial]
	ArticleRepository     = Repository[domain.Article]
	QuizRepository        = Repository[domain.Quiz]
	EnrollmentRepository  = Repository[domain.Enrollment]
	CompletionRepository  = Repository[domain.Completion]
	BookmarkRepository    = Repository[domain.Bookmark]
	LikeRepository        = Repository[domain.Like]
	QuizAttemptRepository = Repository[domain.QuizAttempt]
)

type documentRepository[T any] struct {
	store      *store.Store
	collection string
}

// NewDocumentRepository binds T to a collection of s.
func NewDocumentRepository[T any](s *store.Store, collection string) Repository[T] {
	return &documentRepository[T]{store: s, collection: collection}
}

func (r *documentRepository[T]) decode(doc store.Document) (*T, error) {
	if doc == nil {
		return nil, nil
	}
	var v T
	if err := doc.Decode(&v); err != nil {
		return nil, fmt.Errorf("%s record %d: %w", r.collection, doc.ID(), err)
	}
	return &v, nil
}

// decodeAll skips records that do not fit T so one bad entry does not hide
// the rest of the collection.
func (r *documentRepository[T]) decodeAll(docs []store.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := r.decode(d)
		if err != nil {
			logger.Get().Warn("Skipping undecodable record",
				zap.String("collection", r.collection),
				zap.Int64("id", d.ID()),
				zap.Error(err),
			)
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *documentRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := r.store.Read(r.collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %d: %w", r.collection, id, err)
	}
	return r.decode(doc)
}

func (r *documentRepository[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := r.store.ReadAll(r.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.collection, err)
	}
	return r.decodeAll(docs)
}

func (r *documentRepository[T]) FindBy(ctx context.Context, field string, value any) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := r.store.FindByField(r.collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", r.collection, field, err)
	}
	return r.decodeAll(docs)
}

func (r *documentRepository[T]) FindOneBy(ctx context.Context, field string, value any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := r.store.FindOneByField(r.collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", r.collection, field, err)
	}
	return r.decode(doc)
}

func (r *documentRepository[T]) Search(ctx context.Context, query string, fields []string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := r.store.Search(r.collection, query, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", r.collection, err)
	}
	return r.decodeAll(docs)
}

// Create stores entity; its id and timestamps are assigned by the store.
func (r *documentRepository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fields, err := store.FromStruct(entity)
	if err != nil {
		return nil, err
	}
	doc, err := r.store.Create(r.collection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", r.collection, err)
	}
	return r.decode(doc)
}

func (r *documentRepository[T]) Update(ctx context.Context, id int64, patch map[string]any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	normalized, err := store.FromStruct(patch)
	if err != nil {
		return nil, err
	}
	doc, err := r.store.Update(r.collection, id, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", r.collection, id, err)
	}
	return r.decode(doc)
}

func (r *documentRepository[T]) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := r.store.Delete(r.collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s %d: %w", r.collection, id, err)
	}
	return ok, nil
}
