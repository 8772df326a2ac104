package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string
	DBMaxConns     int32

	JWTSecret string
	JWTIssuer string

	RedisAddr     string // Empty disables Redis; the in-process cache and log notifier are used instead
	RedisPassword string
	RedisDB       int

	ExchangeRateAPIKey     string
	ExchangeRateAPIBaseURL string
	ExchangeRateTimeout    time.Duration
	LatestRateTTL          time.Duration
	RateCacheSize          int

	NotifyLookaheadDays int
	NotificationStream  string

	SchedulerEnabled       bool
	InvoiceJobTime         string
	SubscriptionJobTime    string
	InvoiceNotifyTime      string
	SubscriptionNotifyTime string
	JobTimeout             time.Duration

	RateLimit   string   // ulule formatted, e.g. "100-M"
	CORSOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("JWT_ISSUER", "finance-ledger")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("EXCHANGE_RATE_API_KEY", "")
	v.SetDefault("EXCHANGE_RATE_API_BASE_URL", "https://v6.exchangerate-api.com/v6/")
	v.SetDefault("EXCHANGE_RATE_TIMEOUT", "10s")
	v.SetDefault("LATEST_RATE_TTL", "12h")
	v.SetDefault("RATE_CACHE_SIZE", 4096)
	v.SetDefault("NOTIFY_LOOKAHEAD_DAYS", 3)
	v.SetDefault("NOTIFICATION_STREAM", "finance_ledger:notifications")
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("INVOICE_JOB_TIME", "00:05")
	v.SetDefault("SUBSCRIPTION_JOB_TIME", "00:10")
	v.SetDefault("INVOICE_NOTIFY_TIME", "08:00")
	v.SetDefault("SUBSCRIPTION_NOTIFY_TIME", "09:00")
	v.SetDefault("JOB_TIMEOUT", "5m")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

// duration reads a Go duration, falling back to def when the value is malformed.
func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		return def
	}
	return d
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:  v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		DBMaxConns:     v.GetInt32("DB_MAX_CONNS"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTIssuer: v.GetString("JWT_ISSUER"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		ExchangeRateAPIKey:     v.GetString("EXCHANGE_RATE_API_KEY"),
		ExchangeRateAPIBaseURL: v.GetString("EXCHANGE_RATE_API_BASE_URL"),
		ExchangeRateTimeout:    duration(v, "EXCHANGE_RATE_TIMEOUT", 10*time.Second),
		LatestRateTTL:          duration(v, "LATEST_RATE_TTL", 12*time.Hour),
		RateCacheSize:          v.GetInt("RATE_CACHE_SIZE"),

		NotifyLookaheadDays: v.GetInt("NOTIFY_LOOKAHEAD_DAYS"),
		NotificationStream:  v.GetString("NOTIFICATION_STREAM"),

		SchedulerEnabled:       v.GetBool("SCHEDULER_ENABLED"),
		InvoiceJobTime:         v.GetString("INVOICE_JOB_TIME"),
		SubscriptionJobTime:    v.GetString("SUBSCRIPTION_JOB_TIME"),
		InvoiceNotifyTime:      v.GetString("INVOICE_NOTIFY_TIME"),
		SubscriptionNotifyTime: v.GetString("SUBSCRIPTION_NOTIFY_TIME"),
		JobTimeout:             duration(v, "JOB_TIMEOUT", 5*time.Minute),

		RateLimit: v.GetString("RATE_LIMIT"),
	}

	for _, origin := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == insecureJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.ExchangeRateAPIKey == "" {
		log.Println("Warning: EXCHANGE_RATE_API_KEY not set. Cross-currency settlements will fail unless rates are stored.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}
