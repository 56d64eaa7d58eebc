package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"SERVER_PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		PublicBaseURL  string `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
		AllowedOrigins string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		WriteTimeout   string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
		AdminEmail      string `yaml:"admin_email" env:"DB_ADMIN_EMAIL"`
		AdminPassword   string `yaml:"admin_password" env:"DB_ADMIN_PASSWORD"`
	} `yaml:"database"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Submission struct {
		APIEndpoint    string `yaml:"api_endpoint" env:"APPLICATION_API_ENDPOINT"`
		MaxRetries     int    `yaml:"max_retries" env:"APPLICATION_API_MAX_RETRIES"`
		InitialBackoff string `yaml:"initial_backoff" env:"APPLICATION_API_INITIAL_BACKOFF"`
		MaxBackoff     string `yaml:"max_backoff" env:"APPLICATION_API_MAX_BACKOFF"`
		RequestTimeout string `yaml:"request_timeout" env:"APPLICATION_API_TIMEOUT"`
		TotalTimeout   string `yaml:"total_timeout" env:"APPLICATION_API_TOTAL_TIMEOUT"`
		DraftTTL       string `yaml:"draft_ttl" env:"APPLICATION_DRAFT_TTL"`
	} `yaml:"submission"`

	Storage struct {
		Driver    string `yaml:"driver" env:"STORAGE_DRIVER"`
		LocalPath string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		Bucket    string `yaml:"bucket" env:"STORAGE_BUCKET"`
		Region    string `yaml:"region" env:"STORAGE_REGION"`
		Endpoint  string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
		AccessKey string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
		UseSSL    bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL"`
		PublicURL string `yaml:"public_url" env:"STORAGE_PUBLIC_URL"`
		MaxSizeMB int    `yaml:"max_size_mb" env:"STORAGE_MAX_SIZE_MB"`
	} `yaml:"storage"`

	Messaging struct {
		AutoReply         bool   `yaml:"auto_reply" env:"MESSAGING_AUTO_REPLY"`
		AutoReplyMinDelay string `yaml:"auto_reply_min_delay" env:"MESSAGING_AUTO_REPLY_MIN_DELAY"`
		AutoReplyMaxDelay string `yaml:"auto_reply_max_delay" env:"MESSAGING_AUTO_REPLY_MAX_DELAY"`
	} `yaml:"messaging"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
		AgencyTo  string `yaml:"agency_to" env:"SMTP_AGENCY_TO"`
	} `yaml:"smtp"`

	Broker struct {
		Enabled  bool   `yaml:"enabled" env:"BROKER_ENABLED"`
		URL      string `yaml:"url" env:"BROKER_URL"`
		Exchange string `yaml:"exchange" env:"BROKER_EXCHANGE"`
	} `yaml:"broker"`

	Locale struct {
		Default string `yaml:"default" env:"LOCALE_DEFAULT"`
	} `yaml:"locale"`

	RateLimit struct {
		Requests int    `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
		Window   string `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	} `yaml:"rate_limit"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// .env is optional, real environment variables win over it
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.PublicBaseURL = "http://localhost:8080"
	config.Server.AllowedOrigins = "http://localhost:5173"
	config.Server.WriteTimeout = "30s"

	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "edupath"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.Seed = true
	config.Database.AdminEmail = "admin@edupath.app"

	config.Redis.Addr = "localhost:6379"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "edupath.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Submission.MaxRetries = 3
	config.Submission.InitialBackoff = "1s"
	config.Submission.MaxBackoff = "8s"
	config.Submission.RequestTimeout = "10s"
	config.Submission.TotalTimeout = "20s"
	config.Submission.DraftTTL = "720h"

	config.Storage.Driver = "local"
	config.Storage.LocalPath = "uploads"
	config.Storage.Region = "us-east-1"
	config.Storage.UseSSL = true
	config.Storage.MaxSizeMB = 10

	config.Messaging.AutoReply = true
	config.Messaging.AutoReplyMinDelay = "2s"
	config.Messaging.AutoReplyMaxDelay = "5s"

	config.SMTP.Port = 587
	config.SMTP.FromName = "EduPath Admissions"

	config.Broker.Exchange = "applications"

	config.Locale.Default = "ar"

	config.RateLimit.Requests = 30
	config.RateLimit.Window = "1m"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "postgres":
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	switch config.Storage.Driver {
	case "local":
		if config.Storage.LocalPath == "" {
			return fmt.Errorf("storage local path is required")
		}
	case "s3":
		if config.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", config.Storage.Driver)
	}

	if config.Submission.MaxRetries < 0 {
		return fmt.Errorf("submission max retries cannot be negative")
	}

	if config.Broker.Enabled && config.Broker.URL == "" {
		return fmt.Errorf("broker url is required when the broker is enabled")
	}

	durations := map[string]string{
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"database connection lifetime": config.Database.ConnMaxLifetime,
		"submission initial backoff":   config.Submission.InitialBackoff,
		"submission max backoff":       config.Submission.MaxBackoff,
		"submission request timeout":   config.Submission.RequestTimeout,
		"submission total timeout":     config.Submission.TotalTimeout,
		"server write timeout":         config.Server.WriteTimeout,
		"draft ttl":                    config.Submission.DraftTTL,
		"auto-reply min delay":         config.Messaging.AutoReplyMinDelay,
		"auto-reply max delay":         config.Messaging.AutoReplyMaxDelay,
		"rate limit window":            config.RateLimit.Window,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.MessagingDelayRange().Max < config.MessagingDelayRange().Min {
		return fmt.Errorf("auto-reply max delay must not be lower than min delay")
	}

	// Remote retries must end before the submit response is written.
	total, write := mustDuration(config.Submission.TotalTimeout), mustDuration(config.Server.WriteTimeout)
	if total <= 0 || total >= write {
		return fmt.Errorf("submission total timeout (%s) must be positive and below the server write timeout (%s)",
			config.Submission.TotalTimeout, config.Server.WriteTimeout)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Origins splits the comma separated CORS origins.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// DelayRange is an inclusive duration interval.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// MessagingDelayRange returns the auto-reply delay bounds.
func (c *Config) MessagingDelayRange() DelayRange {
	return DelayRange{
		Min: mustDuration(c.Messaging.AutoReplyMinDelay),
		Max: mustDuration(c.Messaging.AutoReplyMaxDelay),
	}
}

// Duration parses a duration value that validateConfig already checked.
func Duration(value string) time.Duration {
	return mustDuration(value)
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
