package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kanchanlabs/delivery-backend/api/routes"
	"github.com/kanchanlabs/delivery-backend/internal/billing"
	"github.com/kanchanlabs/delivery-backend/internal/customers"
	"github.com/kanchanlabs/delivery-backend/internal/dailyupdates"
	"github.com/kanchanlabs/delivery-backend/internal/dashboard"
	"github.com/kanchanlabs/delivery-backend/internal/orders"
	"github.com/kanchanlabs/delivery-backend/internal/pricing"
	"github.com/kanchanlabs/delivery-backend/pkg/config"
	"github.com/kanchanlabs/delivery-backend/pkg/db"
	"github.com/kanchanlabs/delivery-backend/pkg/logger"
	"github.com/kanchanlabs/delivery-backend/pkg/metrics"
	"github.com/kanchanlabs/delivery-backend/pkg/migrate"
	pkgredis "github.com/kanchanlabs/delivery-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	customerRepo := customers.NewRepository(dbClient.DB())
	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:   customerRepo,
		Logger: logg,
	})
	requireService(logg, "customers", err)

	dailyRepo := dailyupdates.NewRepository(dbClient.DB())
	dailyService, err := dailyupdates.NewService(dailyupdates.ServiceParams{
		Repo:      dailyRepo,
		Customers: customerRepo,
		Tx:        dbClient,
		Logger:    logg,
		Metrics:   engineMetrics,
		Retries:   cfg.Billing.UpsertRetries,
	})
	requireService(logg, "daily updates", err)

	pricingService, err := pricing.NewService(pricing.ServiceParams{
		Repo:   pricing.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Logger: logg,
	})
	requireService(logg, "pricing", err)

	billingService, err := billing.NewService(billing.ServiceParams{
		Repo:      billing.NewRepository(dbClient.DB()),
		Customers: customerRepo,
		Ledger:    dailyRepo,
		Pricing:   pricingService,
		Tx:        dbClient,
		Logger:    logg,
		Metrics:   engineMetrics,
		Workers:   cfg.Billing.BatchWorkers,
		Retries:   cfg.Billing.UpsertRetries,
	})
	requireService(logg, "billing", err)

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:   orderRepo,
		Logger: logg,
	})
	requireService(logg, "orders", err)

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Repo:      dashboard.NewRepository(dbClient.DB()),
		Customers: customerRepo,
		Orders:    orderRepo,
	})
	requireService(logg, "dashboard", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        idempotencyStore,
			HTTPMetrics:  httpMetrics,
			Registry:     registry,
			Customers:    customerService,
			DailyUpdates: dailyService,
			Billing:      billingService,
			Pricing:      pricingService,
			Orders:       orderService,
			Dashboard:    dashboardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", name)
	logg.Error(ctx, "failed to create service", err)
	os.Exit(1)
}
