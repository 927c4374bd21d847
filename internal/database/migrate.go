package database

import (
	"context"
	"fmt"

	"quiz-quest/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type migration struct {
	name string
	stmt string
}

// migrations are idempotent and applied in order.
var migrations = []migration{
	{"create_documents", `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id INTEGER NOT NULL,
		body TEXT NOT NULL,
		exported_at TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	)`},
	{"create_quiz_attempts", `CREATE TABLE IF NOT EXISTS quiz_attempts (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL,
		quiz_id INTEGER NOT NULL,
		score REAL NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER NOT NULL,
		attempted_at TEXT NOT NULL
	)`},
	{"index_quiz_attempts_quiz", `CREATE INDEX IF NOT EXISTS idx_quiz_attempts_quiz ON quiz_attempts(quiz_id)`},
}

// RunMigrations creates the reporting tables the exporter writes to.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m.stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", m.name, err)
		}
		logger.Get().Info("Executed migration", zap.String("name", m.name))
	}
	return nil
}
