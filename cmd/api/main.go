package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mirsal-ops/mirsal-backend/api/routes"
	"github.com/mirsal-ops/mirsal-backend/internal/automation"
	"github.com/mirsal-ops/mirsal-backend/internal/carriers"
	"github.com/mirsal-ops/mirsal-backend/internal/performance"
	"github.com/mirsal-ops/mirsal-backend/internal/shipments"
	"github.com/mirsal-ops/mirsal-backend/internal/tenants"
	"github.com/mirsal-ops/mirsal-backend/pkg/config"
	"github.com/mirsal-ops/mirsal-backend/pkg/db"
	"github.com/mirsal-ops/mirsal-backend/pkg/logger"
	"github.com/mirsal-ops/mirsal-backend/pkg/metrics"
	"github.com/mirsal-ops/mirsal-backend/pkg/migrate"
	"github.com/mirsal-ops/mirsal-backend/pkg/outbox"
	"github.com/mirsal-ops/mirsal-backend/pkg/redis"
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

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	trackingMetrics := metrics.NewTrackingMetrics(promRegistry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	automationService, err := automation.NewService(
		automation.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		trackingMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create automation service", err)
		os.Exit(1)
	}

	shipmentsService, err := shipments.NewService(shipments.Params{
		Repo:       shipments.NewRepository(dbClient.DB()),
		Tx:         dbClient,
		Automation: automationService,
		Cache:      redisClient,
		Metrics:    trackingMetrics,
		Logger:     logg,
		Tracking:   cfg.Tracking,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shipments service", err)
		os.Exit(1)
	}

	performanceService, err := performance.NewService(
		performance.NewRepository(dbClient.DB()),
		cfg.Scoring,
		cfg.Tracking,
		nil,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create performance service", err)
		os.Exit(1)
	}

	webhookGuard, err := redis.NewIdempotencyGuard(redisClient, "webhooks", cfg.Webhook.IdempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Tenants:      tenants.NewRepository(dbClient.DB()),
			Shipments:    shipmentsService,
			Automation:   automationService,
			Performance:  performanceService,
			Registry:     carriers.NewRegistry(),
			WebhookGuard: webhookGuard,
			Metrics:      trackingMetrics,
			PromRegistry: promRegistry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
