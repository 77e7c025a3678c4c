package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/trongtuan99/review-company/internal/config"
	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/internal/event"
	handler "github.com/trongtuan99/review-company/internal/handler/http"
	"github.com/trongtuan99/review-company/internal/repository/postgres"
	"github.com/trongtuan99/review-company/internal/scheduler"
	"github.com/trongtuan99/review-company/internal/service"
	"github.com/trongtuan99/review-company/migrations"
	"github.com/trongtuan99/review-company/pkg/database"
	"github.com/trongtuan99/review-company/pkg/health"
	pkgkafka "github.com/trongtuan99/review-company/pkg/kafka"
	"github.com/trongtuan99/review-company/pkg/middleware"
	"github.com/trongtuan99/review-company/pkg/tracing"
)

// App wires together all dependencies and runs the review service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	producer       *pkgkafka.Producer
	dlq            *pkgkafka.DLQProducer
	httpServer     *http.Server
	likeEvents     *pkgkafka.Consumer
	sweeper        *scheduler.Scheduler
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "review",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis backs the distributed sweep locks.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)))

	// Initialize Kafka producer with connection validation and retry.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
		logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	reviewRepo := postgres.NewReviewRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	engagementRepo := postgres.NewEngagementRepository(pool)
	replyRepo := postgres.NewReplyRepository(pool)
	lifecycleRepo := postgres.NewLifecycleRepository(pool)

	eventProducer := event.NewProducer(producer, logger)
	engagementService := service.NewEngagementService(engagementRepo, pool, eventProducer, logger)
	reviewService := service.NewReviewService(reviewRepo, companyRepo, engagementRepo, pool, eventProducer, logger)
	replyService := service.NewReplyService(replyRepo, pool, logger)
	companyService := service.NewCompanyService(companyRepo, logger)
	lifecycleService := service.NewLifecycleService(lifecycleRepo, logger)

	// Reaction events arriving over the bus feed the same state machine as
	// the HTTP endpoints; replayed deliveries toggle, they never double-count.
	var dlq *pkgkafka.DLQProducer
	if cfg.LikeEventDLQEnable {
		dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)
	}
	likeHandler := event.NewLikeEventHandler(engagementService, logger)
	likeEvents := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.LikeEventGroupID,
		Topic:    event.TopicLikeEvent,
		MinBytes: 1,
		MaxBytes: 10e6,
	}, likeHandler.Handle, dlq, logger)

	// Lifecycle sweeps: one goroutine per entity kind.
	sweeper := scheduler.New(lifecycleService, scheduler.NewRedisSweepLock(redisClient), map[domain.EntityKind]scheduler.SweepConfig{
		domain.KindReview: {
			Interval: time.Duration(cfg.ReviewSweepMinutes) * time.Minute,
			Window:   cfg.ReviewRetention(),
		},
		domain.KindCompany: {
			Interval: time.Duration(cfg.CompanySweepHours) * time.Hour,
			Window:   cfg.CompanyRetention(),
		},
		domain.KindUser: {
			Interval: time.Duration(cfg.UserSweepHours) * time.Hour,
			Window:   cfg.UserRetention(),
		},
	}, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(reviewService, engagementService, replyService, companyService,
		healthHandler, middleware.DefaultCORSConfig(), logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		dlq:            dlq,
		httpServer:     httpServer,
		likeEvents:     likeEvents,
		sweeper:        sweeper,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server, the like-event consumer, and the lifecycle
// sweeps, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		if err := a.likeEvents.Start(ctx); err != nil {
			errCh <- fmt.Errorf("like event consumer: %w", err)
		}
	}()

	a.sweeper.Start(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka consumer and DLQ producer
// 4. Lifecycle sweeps
// 5. Kafka producer
// 6. Redis client and PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.likeEvents.Close(); err != nil {
		a.logger.Error("like event consumer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// Sweep goroutines stop on context cancelation; wait for any sweep in
	// flight to release its lock.
	a.sweeper.Wait()

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis client close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// pingKafkaWithRetry attempts to ping the Kafka producer with exponential
// backoff (3 attempts, 1s/2s/4s with ±25% jitter).
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := producer.Ping(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < 2 {
			base := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
			wait := base + jitter
			logger.Warn("kafka producer ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", 3),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("kafka producer ping failed after 3 attempts: %w", lastErr)
}
