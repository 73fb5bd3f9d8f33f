package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/ruddypp/Paramata-System/internal/cache"
	"github.com/ruddypp/Paramata-System/internal/config"
	"github.com/ruddypp/Paramata-System/internal/email"
	"github.com/ruddypp/Paramata-System/internal/jobs"
	"github.com/ruddypp/Paramata-System/internal/logger"
	"github.com/ruddypp/Paramata-System/internal/push"
	"github.com/ruddypp/Paramata-System/internal/repository/postgres"
	"github.com/ruddypp/Paramata-System/internal/scheduler"
	"github.com/ruddypp/Paramata-System/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reminder-sweep', 'all-nightly')")
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
	logger.Info("Starting Paramata cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Outbound channels. Each degrades to a no-op when unconfigured.
	redisCache := cache.New(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisCache.Close()

	emailSender := email.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	pushSender, err := push.NewFCMSender(context.Background(), cfg.Push.CredentialsFile)
	if err != nil {
		logger.Warn("Push delivery disabled", "error", err)
		pushSender = push.Noop()
	}

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
	scheduleSvc := service.NewScheduleService(store, clock, reminderSvc)

	jobServices := &jobs.Services{
		Notifications: notificationSvc,
		Schedules:     scheduleSvc,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "reminder-sweep":
		jobRunner.ReminderSweep()
	case "sync-inventory-schedules":
		jobRunner.SyncInventorySchedules()
	case "cleanup-read-notifications":
		jobRunner.CleanupReadNotifications()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - reminder-sweep\n")
		fmt.Printf("  - sync-inventory-schedules\n")
		fmt.Printf("  - cleanup-read-notifications\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
