package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "github.com/ruddypp/Paramata-System/internal/api/http"
	"github.com/ruddypp/Paramata-System/internal/async"
	"github.com/ruddypp/Paramata-System/internal/cache"
	"github.com/ruddypp/Paramata-System/internal/config"
	"github.com/ruddypp/Paramata-System/internal/email"
	"github.com/ruddypp/Paramata-System/internal/logger"
	"github.com/ruddypp/Paramata-System/internal/push"
	"github.com/ruddypp/Paramata-System/internal/repository/postgres"
	"github.com/ruddypp/Paramata-System/internal/security"
	"github.com/ruddypp/Paramata-System/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env before the config so env overrides see it
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Paramata server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply migrations
	if err := postgres.Migrate(cfg.GetDatabaseConnectionString()); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Outbound channels. Each degrades to a no-op when unconfigured.
	redisCache := cache.New(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisCache.Close()

	emailSender := email.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	pushSender, err := push.NewFCMSender(context.Background(), cfg.Push.CredentialsFile)
	if err != nil {
		logger.Warn("Push delivery disabled", "error", err)
		pushSender = push.Noop()
	}

	// Post-commit task executor
	executor := async.NewExecutor(cfg.Async.Workers, cfg.Async.QueueSize)
	defer executor.Close()

	// Initialize Services
	clock := service.SystemClock()
	reminderSvc := service.NewReminderService(store, clock, service.ReminderConfig{
		LeadDays:                cfg.Reminders.LeadDays,
		MaintenanceFollowUpDays: cfg.Reminders.MaintenanceFollowUpDays,
	})
	notificationSvc := service.NewNotificationService(store, clock, reminderSvc, redisCache, emailSender, pushSender, service.NotificationConfig{
		SweepMinInterval: time.Duration(cfg.Reminders.SweepMinIntervalMinutes) * time.Minute,
		DedupCacheSize:   cfg.Reminders.DedupCacheSize,
		DedupCacheTTL:    time.Duration(cfg.Reminders.DedupCacheTTLMinutes) * time.Minute,
	})
	requestSvc := service.NewRequestService(store, clock, executor, notificationSvc, reminderSvc)
	itemSvc := service.NewItemService(store)
	scheduleSvc := service.NewScheduleService(store, clock, reminderSvc)
	authSvc := service.NewAuthService(store, tokenManager)

	// Seed the bootstrap admin account when configured
	if err := authSvc.EnsureAdmin(context.Background(), cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		logger.Error("Failed to ensure admin account", "error", err)
		log.Fatalf("Failed to ensure admin account: %v", err)
	}

	router := httpapi.NewRouter(httpapi.RouterDeps{
		DB:            db,
		TokenManager:  tokenManager,
		Auth:          authSvc,
		Requests:      requestSvc,
		Notifications: notificationSvc,
		Reminders:     reminderSvc,
		Items:         itemSvc,
		Schedules:     scheduleSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
