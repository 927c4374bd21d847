// Package export copies the record store into a SQL database so reports can
// be written in SQL instead of against the JSON files. The target tables are
// created by database.RunMigrations.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quiz-quest/internal/domain"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/store"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Source is the read side of the record store.
type Source interface {
	ReadAll(collection string) ([]store.Document, error)
}

const (
	insertDocumentQuery = `INSERT INTO documents (collection, id, body, exported_at) VALUES (?, ?, ?, ?)`
	insertAttemptQuery  = `INSERT INTO quiz_attempts (id, user_id, quiz_id, score, total_questions, correct_answers, attempted_at)
		VALUES (:id, :user_id, :quiz_id, :score, :total_questions, :correct_answers, :attempted_at)`
	quizSummaryQuery = `SELECT quiz_id, COUNT(*) AS attempts, AVG(score) AS average_score, MAX(score) AS best_score
		FROM quiz_attempts GROUP BY quiz_id ORDER BY quiz_id`
)

type attemptRow struct {
	ID             int64   `db:"id"`
	UserID         int64   `db:"user_id"`
	QuizID         int64   `db:"quiz_id"`
	Score          float64 `db:"score"`
	TotalQuestions int     `db:"total_questions"`
	CorrectAnswers int     `db:"correct_answers"`
	AttemptedAt    string  `db:"attempted_at"`
}

// QuizSummary is one row of the per-quiz report.
type QuizSummary struct {
	QuizID       int64   `db:"quiz_id" json:"quiz_id"`
	Attempts     int     `db:"attempts" json:"attempts"`
	AverageScore float64 `db:"average_score" json:"average_score"`
	BestScore    float64 `db:"best_score" json:"best_score"`
}

type Exporter struct {
	db  *sqlx.DB
	src Source
	now func() time.Time
}

func New(db *sqlx.DB, src Source) *Exporter {
	return &Exporter{db: db, src: src, now: time.Now}
}

// Export replaces the previous snapshot in a single transaction and returns
// the number of rows written per collection.
func (e *Exporter) Export(ctx context.Context) (counts map[string]int, err error) {
	appLogger := logger.Get()
	stamp := e.now().UTC().Format(time.RFC3339)

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin export transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				appLogger.Error("Failed to rollback export", zap.Error(rbErr))
			}
		}
	}()

	for _, table := range []string{"documents", "quiz_attempts"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	counts = make(map[string]int, len(store.Collections))
	insertDoc := tx.Rebind(insertDocumentQuery)
	for _, collection := range store.Collections {
		var docs []store.Document
		docs, err = e.src.ReadAll(collection)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", collection, err)
		}
		for _, doc := range docs {
			var body []byte
			body, err = json.Marshal(doc)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s/%d: %w", collection, doc.ID(), err)
			}
			if _, err = tx.ExecContext(ctx, insertDoc, collection, doc.ID(), string(body), stamp); err != nil {
				return nil, fmt.Errorf("failed to insert %s/%d: %w", collection, doc.ID(), err)
			}
			if collection == store.QuizAttempts {
				if err = insertAttempt(ctx, tx, doc); err != nil {
					return nil, err
				}
			}
		}
		counts[collection] = len(docs)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit export: %w", err)
	}
	appLogger.Info("Export committed", zap.Any("rows", counts))
	return counts, nil
}

func insertAttempt(ctx context.Context, tx *sqlx.Tx, doc store.Document) error {
	var a domain.QuizAttempt
	if err := doc.Decode(&a); err != nil {
		return fmt.Errorf("failed to decode attempt %d: %w", doc.ID(), err)
	}
	attempted := a.AttemptedAt
	if attempted.IsZero() {
		attempted = a.CreatedAt
	}
	row := attemptRow{
		ID:             a.ID,
		UserID:         a.UserID,
		QuizID:         a.QuizID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		CorrectAnswers: a.CorrectAnswers,
		AttemptedAt:    attempted.UTC().Format(time.RFC3339),
	}
	if _, err := tx.NamedExecContext(ctx, insertAttemptQuery, row); err != nil {
		return fmt.Errorf("failed to insert attempt %d: %w", a.ID, err)
	}
	return nil
}

// QuizSummaries reports attempts, average and best score per quiz from the
// last snapshot.
func (e *Exporter) QuizSummaries(ctx context.Context) ([]QuizSummary, error) {
	var out []QuizSummary
	if err := e.db.SelectContext(ctx, &out, quizSummaryQuery); err != nil {
		return nil, fmt.Errorf("failed to query quiz summaries: %w", err)
	}
	return out, nil
}
