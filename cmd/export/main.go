package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"quiz-quest/internal/config"
	"quiz-quest/internal/database"
	"quiz-quest/internal/export"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	recordStore, err := store.New(cfg.Store.DataDir)
	if err != nil {
		log.Fatal("Failed to open record store", zap.String("data_dir", cfg.Store.DataDir), zap.Error(err))
	}

	db, err := database.NewSQLXDB(cfg.Export)
	if err != nil {
		log.Fatal("Failed to connect to export database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// run cmd/migrate first against a fresh database
	exporter := export.New(db, recordStore)
	counts, err := exporter.Export(ctx)
	if err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}
	log.Info("Export completed", zap.String("dsn", cfg.Export.DSN), zap.Any("rows", counts))

	summaries, err := exporter.QuizSummaries(ctx)
	if err != nil {
		log.Fatal("Failed to build quiz report", zap.Error(err))
	}
	for _, s := range summaries {
		log.Info("Quiz summary",
			zap.Int64("quiz_id", s.QuizID),
			zap.Int("attempts", s.Attempts),
			zap.Float64("average_score", s.AverageScore),
			zap.Float64("best_score", s.BestScore),
		)
	}
}
