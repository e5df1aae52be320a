package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/handler"
	"inkpress/internal/queue"
	"inkpress/internal/redis"
	"inkpress/internal/repository"
	"inkpress/internal/service"
	"inkpress/internal/worker"
)

// Run wires the whole service together and blocks until shutdown.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Queue
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// Services
	userService := service.NewUserService(userRepo, followRepo)
	authService := service.NewAuthService(refreshTokenRepo, userRepo, cfg)
	followService := service.NewFollowService(followRepo, userRepo, db, publisher)
	postService := service.NewPostService(postRepo, db, publisher)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, statsRepo, db, publisher)
	threadService := service.NewThreadService(commentRepo, postRepo, statsRepo)
	moderationService := service.NewModerationService(commentRepo, postRepo, reportRepo)
	reportService := service.NewReportService(reportRepo, commentRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, commentRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)

	// Notification fan-out workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.EnsureGroup(ctx, queue.StreamNotifications, queue.ConsumerGroupNotifications); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	workerHandler := worker.NewHandler(subscriptionRepo, commentRepo, notificationService)
	workerManager := worker.NewManager(consumer, workerHandler, worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := workerManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	// HTTP surface
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		UserHandler:         handler.NewUserHandler(userService),
		FollowHandler:       handler.NewFollowHandler(followService),
		PostHandler:         handler.NewPostHandler(postService),
		CommentHandler:      handler.NewCommentHandler(commentService, threadService),
		ModerationHandler:   handler.NewModerationHandler(moderationService),
		ReportHandler:       handler.NewReportHandler(reportService),
		SubscriptionHandler: handler.NewSubscriptionHandler(subscriptionService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		JWTSecret:           cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	workerManager.Stop()

	return nil
}
