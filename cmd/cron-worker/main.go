package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/sellerdesk-backend/internal/cron"
	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/metrics"
	"github.com/angelmondragon/sellerdesk-backend/pkg/migrate"
	"github.com/angelmondragon/sellerdesk-backend/pkg/outbox"
	"github.com/angelmondragon/sellerdesk-backend/pkg/redis"
)

const lockName = "cron-worker"

var errNoRedis = errors.New("cron worker needs redis for its lock")

func main() {
	logg := logger.New(logger.Options{ServiceName: lockName})
	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: lockName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
	})

	var closers []func() error
	err = run(ctx, cfg, logg, &closers)
	stop()
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i]())
	}
	if err != nil {
		logg.Error(ctx, "cron worker stopped with errors", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shut down gracefully")
}

// run wires the worker and blocks until ctx ends. Every opened resource is
// pushed onto closers so main can release them in reverse order.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, closers *[]func() error) error {
	if !cfg.Redis.Enabled() {
		return errNoRedis
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	*closers = append(*closers, dbClient.Close)
	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	*closers = append(*closers, redisClient.Close)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName), cfg.Cron.LockTTL)
	if err != nil {
		return err
	}
	retention, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		DB:               dbClient,
		Repository:       outbox.NewRepository(dbClient.DB()),
		RetentionDays:    cfg.Cron.OutboxRetentionDays,
		TerminalAttempts: cfg.Outbox.MaxAttempts,
	})
	if err != nil {
		return err
	}
	registry := cron.NewRegistry()
	if err := registry.Register(retention); err != nil {
		return err
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return err
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
