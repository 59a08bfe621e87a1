package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/coursecraft/coursecraft-backend/internal/db"
	"github.com/coursecraft/coursecraft-backend/internal/handlers"
	"github.com/coursecraft/coursecraft-backend/internal/logger"
	"github.com/coursecraft/coursecraft-backend/internal/middleware"
	"github.com/coursecraft/coursecraft-backend/internal/observability"
	"github.com/coursecraft/coursecraft-backend/internal/queue"
	"github.com/coursecraft/coursecraft-backend/internal/repos"
	"github.com/coursecraft/coursecraft-backend/internal/server"
	"github.com/coursecraft/coursecraft-backend/internal/services"
	"github.com/coursecraft/coursecraft-backend/internal/sse"
	"github.com/coursecraft/coursecraft-backend/internal/utils"
	"github.com/coursecraft/coursecraft-backend/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "coursecraft-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.SeedLookups(); err != nil {
		log.Warn("Lookup seeding failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	lessonRepo := repos.NewLessonRepo(thePG, log)
	lessonContentRepo := repos.NewLessonContentRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	flashcardRepo := repos.NewFlashcardRepo(thePG, log)
	keyPointRepo := repos.NewKeyPointRepo(thePG, log)
	mindMapRepo := repos.NewMindMapRepo(thePG, log)
	enrollmentRepo := repos.NewEnrollmentRepo(thePG, log)
	usageRepo := repos.NewGenerationUsageRepo(thePG, log)
	levelRepo := repos.NewAcademicLevelRepo(thePG, log)
	subjectRepo := repos.NewSubjectRepo(thePG, log)

	// Queue
	jobQueue, err := queue.NewRedisQueue(log)
	if err != nil {
		log.Error("Could not init generation queue", "error", err)
		os.Exit(1)
	}

	// SSE
	hub := sse.NewHub(log)

	// Services
	log.Info("Setting up services...")
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		log.Error("Could not init AIClient", "error", err)
		os.Exit(1)
	}
	authService, err := services.NewAuthService(log, userRepo, usageRepo)
	if err != nil {
		log.Error("Could not init AuthService", "error", err)
		os.Exit(1)
	}
	mailer := services.NewMailer(log)
	notifier := services.NewNotifier(log, hub, mailer, userRepo)
	fanout := services.NewFanoutService(log, courseRepo, lessonRepo, lessonContentRepo, quizRepo, flashcardRepo, keyPointRepo, mindMapRepo)
	courseGenService := services.NewCourseGenerationService(
		log,
		aiClient,
		fanout,
		notifier,
		jobQueue,
		userRepo,
		courseRepo,
		levelRepo,
		subjectRepo,
		usageRepo,
		enrollmentRepo,
	)

	// Worker
	drainInterval := utils.GetEnvAsInt("QUEUE_DRAIN_INTERVAL_SECONDS", 60, log)
	genWorker := worker.New(log, courseGenService, time.Duration(drainInterval)*time.Second)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(log, authService)
	generateHandler := handlers.NewGenerateHandler(log, courseGenService, aiClient, genWorker)
	sseHandler := handlers.NewSSEHandler(log, hub)
	adminHandler := handlers.NewAdminHandler(log, genWorker)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		GenerateHandler: generateHandler,
		SSEHandler:      sseHandler,
		AdminHandler:    adminHandler,
		AuthMiddleware:  authMiddleware,
	})

	port := utils.GetEnv("PORT", "8080", log)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		genWorker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownOtel != nil {
			_ = shutdownOtel(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
