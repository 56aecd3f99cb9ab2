// Package api boots the marketplace HTTP API: configuration, observability,
// repositories, services, and transport wired in one place.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	foodsserver "github.com/nexyn/foods-api/server"

	foodscache "github.com/nexyn/foods-api/internal/domains/foods/adapters/cache"
	foodsmemory "github.com/nexyn/foods-api/internal/domains/foods/adapters/memory"
	foodsobs "github.com/nexyn/foods-api/internal/domains/foods/adapters/observability"
	foodspostgres "github.com/nexyn/foods-api/internal/domains/foods/adapters/persistence/postgres"
	foodsapp "github.com/nexyn/foods-api/internal/domains/foods/application"
	foodports "github.com/nexyn/foods-api/internal/domains/foods/ports"
	identityhttp "github.com/nexyn/foods-api/internal/domains/identity/adapters/http"
	identityapp "github.com/nexyn/foods-api/internal/domains/identity/application"
	orderscatalog "github.com/nexyn/foods-api/internal/domains/orders/adapters/catalog"
	ordersevents "github.com/nexyn/foods-api/internal/domains/orders/adapters/events"
	ordersmemory "github.com/nexyn/foods-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/nexyn/foods-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/nexyn/foods-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/nexyn/foods-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/nexyn/foods-api/internal/domains/orders/application"
	orderports "github.com/nexyn/foods-api/internal/domains/orders/ports"
	"github.com/nexyn/foods-api/internal/messaging"
	"github.com/nexyn/foods-api/internal/platform/migrations"
	platformobservability "github.com/nexyn/foods-api/internal/platform/observability"
	platformpostgres "github.com/nexyn/foods-api/internal/platform/postgres"
)

// Run boots the marketplace HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "foods-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	tokens, err := identityapp.NewTokenService(cfg.TokenSecret, identityapp.WithTTL(cfg.TokenTTL))
	if err != nil {
		return err
	}

	foodRepo, orderRepo, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	coreFoodService := foodsapp.NewService(foodRepo)
	var foodService foodports.Service = foodsobs.New(
		coreFoodService,
		foodsobs.WithLogger(logger),
		foodsobs.WithTracer(instruments.Tracer("internal.foods.application")),
		foodsobs.WithMeter(instruments.Meter("internal.foods.application")),
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		foodService = foodscache.New(foodService, redisClient)
		logger.Info("top-foods cache enabled", slog.String("addr", cfg.RedisAddr))
	}

	orderOptions := []ordersapp.Option{ordersapp.WithLogger(logger)}
	if cfg.KafkaBroker != "" {
		producer := messaging.NewProducer([]string{cfg.KafkaBroker}, ordersevents.OrderPlacedTopic)
		defer producer.Close()
		orderOptions = append(orderOptions, ordersapp.WithEventPublisher(ordersevents.NewKafkaPublisher(producer)))
		logger.Info("order events enabled", slog.String("broker", cfg.KafkaBroker))
	}
	coreOrderService := ordersapp.NewService(
		orderRepo,
		orderscatalog.NewFoodsCatalog(foodRepo),
		orderOptions...,
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var purchaseWorkflows orderports.WorkflowOrchestrator = ordersworkflows.NewInlinePurchaseWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running purchases inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		purchaseWorkflows = ordersworkflows.NewTemporalPurchaseWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled")
	}

	handlers := foodsserver.ApiHandleFunctions{
		AuthAPI:   foodsserver.NewAuthAPI(tokens),
		FoodsAPI:  foodsserver.NewFoodsAPI(foodService),
		OrdersAPI: foodsserver.NewOrdersAPI(orderService, purchaseWorkflows),
	}

	router := foodsserver.NewRouter(handlers, identityhttp.RequireAuth(tokens), otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("foods API listening", slog.String("addr", addr), slog.String("environment", cfg.Environment))
	if err := router.Run(addr); err != nil {
		logger.Error("foods API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildRepositories wires Postgres-backed repositories when a DSN is
// configured, and in-memory ones otherwise. Both contexts share the same
// database so the purchase decrement and the ledger insert hit one store.
func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (foodports.Repository, orderports.Repository, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return foodsmemory.NewRepository(), ordersmemory.NewRepository(), func() {}
	}
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return foodsmemory.NewRepository(), ordersmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return foodsmemory.NewRepository(), ordersmemory.NewRepository(), func() {}
	}
	logger.Info("repositories configured with postgres")
	return foodspostgres.NewRepository(db), orderspostgres.NewRepository(db), cleanup
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	address := cfg.TemporalAddress
	if address == "" {
		address = client.DefaultHostPort
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  address,
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
