package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"quiz-quest/internal/adapter"
	"quiz-quest/internal/cache"
	"quiz-quest/internal/config"
	"quiz-quest/internal/domain"
	"quiz-quest/internal/handler"
	"quiz-quest/internal/logger"
	"quiz-quest/internal/metrics"
	"quiz-quest/internal/middleware"
	"quiz-quest/internal/repository"
	"quiz-quest/internal/service"
	"quiz-quest/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	cfg.WatchLogLevel(func(level string) {
		logger.SetLevel(level)
		appLogger.Info("Log level changed", zap.String("level", level))
	})

	appMetrics := metrics.New()

	recordStore, err := store.New(cfg.Store.DataDir,
		store.WithWriteLock(cfg.Store.WriteLock),
		store.WithCorruptionHook(appMetrics.StoreCorrupted),
	)
	if err != nil {
		appLogger.Fatal("Failed to open record store", zap.String("data_dir", cfg.Store.DataDir), zap.Error(err))
	}
	appLogger.Info("Record store ready", zap.String("data_dir", recordStore.DataDir()), zap.Bool("write_lock", cfg.Store.WriteLock))
	repos := repository.NewRepositories(recordStore)

	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis")
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		appLogger.Info("No Redis address configured, revoked tokens are kept in memory")
		cacheAdapter = adapter.NewMemoryCacheAdapter()
	}

	authService, err := service.NewAuthService(repos.Users, cacheAdapter, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	aggregationService := service.NewAggregationService(repos)
	validator := middleware.NewValidationMiddleware()

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, validator),
		User:     handler.NewUserHandler(service.NewUserService(repos.Users), validator),
		Course:   handler.NewCourseHandler(service.NewCourseService(repos.Courses, repos.Enrollments), validator),
		Tutorial: handler.NewTutorialHandler(service.NewTutorialService(repos.Tutorials, repos.Completions), validator),
		Article:  handler.NewArticleHandler(service.NewArticleService(repos.Articles, repos.Bookmarks, repos.Likes), validator),
		Quiz: handler.NewQuizHandler(
			service.NewQuizService(repos.Quizzes, repos.QuizAttempts),
			service.NewGradingService(repos.Quizzes, repos.QuizAttempts, appMetrics),
			aggregationService,
			validator,
		),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(repos), aggregationService, validator),
		Health:    handler.NewHealthHandler(recordStore, cacheAdapter, cfg.Version),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	limiter.StartSweeper(ctx, cfg.RateLimit.Window)

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics(appMetrics))
	origins := strings.Join(cfg.CORS.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           300,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))
	app.Use(limiter.Handler())

	handler.RegisterRoutes(app, handlers, authService)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
