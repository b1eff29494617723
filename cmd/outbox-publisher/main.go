package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/migrate"
	"github.com/angelmondragon/sellerdesk-backend/pkg/outbox"
	"github.com/angelmondragon/sellerdesk-backend/pkg/pubsub"
)

const serviceName = "outbox-publisher"

func main() {
	os.Exit(run())
}

// run returns the process exit code.
func run() int {
	logg := logger.New(logger.Options{ServiceName: serviceName})
	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return 1
	}
	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"topic":      cfg.PubSub.OrdersTopic,
		"batch_size": cfg.Outbox.BatchSize,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		return 1
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		return closeAll(ctx, logg, 1, dbClient.Close)
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		return closeAll(ctx, logg, 1, dbClient.Close)
	}

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		PubSub:     pubsubClient,
		Repository: outbox.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(ctx, "failed to create outbox publisher", err)
		return closeAll(ctx, logg, 1, pubsubClient.Close, dbClient.Close)
	}

	logg.Info(ctx, "starting outbox publisher")
	code := 0
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped unexpectedly", err)
		code = 1
	}
	return closeAll(ctx, logg, code, pubsubClient.Close, dbClient.Close)
}

func closeAll(ctx context.Context, logg *logger.Logger, code int, closers ...func() error) int {
	var err error
	for _, closeFn := range closers {
		err = multierr.Append(err, closeFn())
	}
	if err != nil {
		logg.Error(ctx, "outbox publisher shutdown finished with errors", err)
		return 1
	}
	if code == 0 {
		logg.Info(ctx, "outbox publisher stopped")
	}
	return code
}
