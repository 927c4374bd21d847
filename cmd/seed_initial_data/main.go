package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"quiz-quest/cmd/seed_initial_data/internal/seedmodels"
	"quiz-quest/internal/config"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/repository"
	"quiz-quest/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedFilePath = "configs/seed_data/initial_content.json"
)

func main() {
	ctx := context.Background()
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

	log.Info("Starting initial data seeding process...")
	recordStore, err := store.New(cfg.Store.DataDir, store.WithWriteLock(true))
	if err != nil {
		log.Fatal("Failed to open record store", zap.String("data_dir", cfg.Store.DataDir), zap.Error(err))
	}

	path := seedFilePath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	log.Info("Loading seed data from file", zap.String("path", path))
	byteValue, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", path), zap.Error(err))
	}

	var data seedmodels.SeedFile
	if err := json.Unmarshal(byteValue, &data); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	s := &seeder{
		repos:    repository.NewRepositories(recordStore),
		log:      log,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	report, err := s.run(ctx, &data)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Initial data seeding process completed.",
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
	)
}
