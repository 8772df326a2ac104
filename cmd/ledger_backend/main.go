package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/finance_ledger/internal/adapters/notifier"
	"github.com/SscSPs/finance_ledger/internal/adapters/ratecache"
	"github.com/SscSPs/finance_ledger/internal/adapters/ratesapi"
	"github.com/SscSPs/finance_ledger/internal/core/services"
	"github.com/SscSPs/finance_ledger/internal/handlers"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/SscSPs/finance_ledger/internal/platform/config"
	"github.com/SscSPs/finance_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_ledger/internal/scheduler"
	"github.com/SscSPs/finance_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		if err := runMigrations(cfg, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	deps, closeDeps, err := newProviders(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize providers", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeDeps()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, deps)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		jobs, err := scheduler.BillingJobs(serviceContainer, scheduler.Times{
			GenerateInvoices:  cfg.InvoiceJobTime,
			BillSubscriptions: cfg.SubscriptionJobTime,
			NotifyInvoices:    cfg.InvoiceNotifyTime,
			NotifySubs:        cfg.SubscriptionNotifyTime,
		})
		if err != nil {
			logger.Error("Invalid scheduler configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sched = scheduler.New(logger, cfg.JobTimeout, jobs...)
		sched.Start()
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, ipLimiter)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down HTTP server", slog.String("error", err.Error()))
	}
	if sched != nil {
		sched.Shutdown(30 * time.Second)
	}
	logger.Info("Server stopped")
}

// newProviders wires the rate cache, the rate provider and the notifier. With
// REDIS_ADDR set both the cache and the notifications go through Redis; otherwise
// an in-process LRU and the log notifier stand in.
func newProviders(cfg *config.Config, logger *slog.Logger) (services.Providers, func(), error) {
	deps := services.Providers{
		RateProvider: ratesapi.NewClient(cfg.ExchangeRateAPIBaseURL, cfg.ExchangeRateAPIKey, cfg.ExchangeRateTimeout),
	}
	if cfg.ExchangeRateAPIKey == "" {
		logger.Warn("EXCHANGE_RATE_API_KEY not set, rates missing from the store will be unavailable")
	}

	if cfg.RedisAddr == "" {
		cache, err := ratecache.NewMemoryCache(cfg.RateCacheSize, cfg.LatestRateTTL)
		if err != nil {
			return deps, nil, err
		}
		deps.RateCache = cache
		deps.Notifier = notifier.LogNotifier{}
		logger.Info("Redis not configured, using in-process rate cache and log notifier")
		return deps, func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return deps, nil, err
	}

	deps.RateCache = ratecache.NewRedisCache(client)
	deps.Notifier = notifier.Multi{
		notifier.NewStreamNotifier(client, cfg.NotificationStream),
		notifier.LogNotifier{},
	}
	logger.Info("Connected to Redis", slog.String("addr", cfg.RedisAddr), slog.String("stream", cfg.NotificationStream))

	return deps, func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing Redis client", slog.String("error", err.Error()))
		}
	}, nil
}

// runMigrations applies all pending "up" migrations over a temporary database/sql
// connection using the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == nil {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}
	return nil
}
