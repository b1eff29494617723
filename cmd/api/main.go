package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerdesk-backend/api/controllers"
	"github.com/angelmondragon/sellerdesk-backend/api/routes"
	"github.com/angelmondragon/sellerdesk-backend/internal/auth"
	"github.com/angelmondragon/sellerdesk-backend/internal/clients"
	"github.com/angelmondragon/sellerdesk-backend/internal/inventory"
	"github.com/angelmondragon/sellerdesk-backend/internal/orders"
	products "github.com/angelmondragon/sellerdesk-backend/internal/products"
	"github.com/angelmondragon/sellerdesk-backend/internal/reports"
	"github.com/angelmondragon/sellerdesk-backend/internal/users"
	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/enums"
	"github.com/angelmondragon/sellerdesk-backend/pkg/env"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/metrics"
	"github.com/angelmondragon/sellerdesk-backend/pkg/migrate"
	"github.com/angelmondragon/sellerdesk-backend/pkg/outbox"
	"github.com/angelmondragon/sellerdesk-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient *redis.Client
		idempotency redis.IdempotencyStore
		rateLimiter redis.RateLimiter
		reportCache redis.Cache
	)
	readiness := []controllers.ReadinessCheck{{Name: "database", Pinger: dbClient}}
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		idempotency = redisClient
		rateLimiter = redisClient
		reportCache = redisClient
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
	} else {
		logg.Warn(ctx, "redis disabled: idempotency, auth rate limits and report cache are off")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	inventoryMetrics := metrics.NewInventoryMetrics(registry)

	stockPolicy, err := enums.ParseStockPolicy(cfg.Orders.StockPolicy)
	if err != nil {
		logg.Error(ctx, "invalid stock policy", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	usersRepo := users.NewRepository(conn)
	clientsRepo := clients.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(conn), logg)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	clientService, err := clients.NewService(dbClient, clientsRepo, logg)
	if err != nil {
		logg.Error(ctx, "failed to create client service", err)
		os.Exit(1)
	}

	ledger, err := inventory.NewLedger(inventory.NewRepository(conn), inventoryMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create inventory ledger", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo: orders.NewRepository(conn),
		Clients: func(tx *gorm.DB) orders.ClientLookup {
			return clientsRepo.WithTx(tx)
		},
		TxRunner:    dbClient,
		Ledger:      ledger,
		Outbox:      outbox.NewService(outbox.NewRepository(conn), logg),
		StockPolicy: stockPolicy,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create order service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(reports.ServiceParams{
		Repo:    reports.NewRepository(conn),
		Clients: clientsRepo,
		Users:   usersRepo,
		Cache:   reportCache,
		Config:  cfg.Reports,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create report service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"stock_policy": string(stockPolicy),
	})

	server := newHTTPServer(addr, routes.NewRouter(routes.Dependencies{
		Config:         cfg,
		Logger:         logg,
		Readiness:      readiness,
		Idempotency:    idempotency,
		RateLimiter:    rateLimiter,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:           authService,
		Products:       productService,
		Clients:        clientService,
		Orders:         orderService,
		Reports:        reportService,
	}))

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	}
	shutdownErr = multierr.Append(shutdownErr, dbClient.Close())
	if shutdownErr != nil {
		logg.Error(shutdownCtx, "shutdown finished with errors", shutdownErr)
		exitCode = 1
	} else {
		logg.Info(shutdownCtx, "api server stopped")
	}
	os.Exit(exitCode)
}

// newHTTPServer bounds header, body, response and keep-alive time per connection.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
