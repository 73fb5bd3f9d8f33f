package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Push      PushConfig      `yaml:"push"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Reminders RemindersConfig `yaml:"reminders"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Async     AsyncConfig     `yaml:"async"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig contains the read-cache settings. An empty address disables
// the cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SendGridConfig contains email delivery settings. An empty API key
// disables outgoing email.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// PushConfig contains Firebase Cloud Messaging settings. An empty
// credentials file disables push delivery.
type PushConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RemindersConfig tunes reminder scheduling and notification dispatch
type RemindersConfig struct {
	LeadDays                int `yaml:"lead_days"`
	MaintenanceFollowUpDays int `yaml:"maintenance_followup_days"`
	SweepMinIntervalMinutes int `yaml:"sweep_min_interval_minutes"`
	DedupCacheSize          int `yaml:"dedup_cache_size"`
	DedupCacheTTLMinutes    int `yaml:"dedup_cache_ttl_minutes"`
	CleanupReadAfterDays    int `yaml:"cleanup_read_after_days"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReminderSweep            string `yaml:"reminder_sweep"`
	SyncInventorySchedules   string `yaml:"sync_inventory_schedules"`
	CleanupReadNotifications string `yaml:"cleanup_read_notifications"`
}

// AsyncConfig sizes the post-commit task executor
type AsyncConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// BootstrapConfig seeds the initial admin account when set
type BootstrapConfig struct {
	AdminName     string `yaml:"admin_name"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}
	if val := os.Getenv("SENDGRID_FROM_NAME"); val != "" {
		c.SendGrid.FromName = val
	}

	// Push
	if val := os.Getenv("FCM_CREDENTIALS_FILE"); val != "" {
		c.Push.CredentialsFile = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Bootstrap admin
	if val := os.Getenv("ADMIN_EMAIL"); val != "" {
		c.Bootstrap.AdminEmail = val
	}
	if val := os.Getenv("ADMIN_PASSWORD"); val != "" {
		c.Bootstrap.AdminPassword = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60 // 1 hour
	}

	// Reminder defaults
	if c.Reminders.LeadDays <= 0 {
		c.Reminders.LeadDays = 7
	}
	if c.Reminders.MaintenanceFollowUpDays <= 0 {
		c.Reminders.MaintenanceFollowUpDays = 30
	}
	if c.Reminders.SweepMinIntervalMinutes <= 0 {
		c.Reminders.SweepMinIntervalMinutes = 10
	}
	if c.Reminders.DedupCacheSize <= 0 {
		c.Reminders.DedupCacheSize = 2048
	}
	if c.Reminders.DedupCacheTTLMinutes <= 0 {
		c.Reminders.DedupCacheTTLMinutes = 360 // 6 hours
	}
	if c.Reminders.CleanupReadAfterDays <= 0 {
		c.Reminders.CleanupReadAfterDays = 30
	}

	// Scheduler defaults
	if c.Scheduler.ReminderSweep == "" {
		c.Scheduler.ReminderSweep = "0 0 7 * * *" // 7 AM UTC
	}
	if c.Scheduler.SyncInventorySchedules == "" {
		c.Scheduler.SyncInventorySchedules = "0 30 0 * * *" // 00:30 UTC
	}
	if c.Scheduler.CleanupReadNotifications == "" {
		c.Scheduler.CleanupReadNotifications = "0 0 2 * * 0" // Sundays 2 AM UTC
	}

	// Async executor defaults
	if c.Async.Workers <= 0 {
		c.Async.Workers = 4
	}
	if c.Async.QueueSize <= 0 {
		c.Async.QueueSize = 256
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
