// The worker consumes the purchase task queue, executing the reserve-and-
// record activity against the same stores as the API.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	foodsmemory "github.com/nexyn/foods-api/internal/domains/foods/adapters/memory"
	foodspostgres "github.com/nexyn/foods-api/internal/domains/foods/adapters/persistence/postgres"
	foodports "github.com/nexyn/foods-api/internal/domains/foods/ports"
	orderscatalog "github.com/nexyn/foods-api/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/nexyn/foods-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/nexyn/foods-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/nexyn/foods-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/nexyn/foods-api/internal/domains/orders/application"
	orderports "github.com/nexyn/foods-api/internal/domains/orders/ports"
	"github.com/nexyn/foods-api/internal/platform/migrations"
	platformobservability "github.com/nexyn/foods-api/internal/platform/observability"
	platformpostgres "github.com/nexyn/foods-api/internal/platform/postgres"
	orderactivities "github.com/nexyn/foods-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/nexyn/foods-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "foods-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	foodRepo, orderRepo, cleanupRepos := buildRepositories(ctx, logger)
	defer cleanupRepos()
	orderService := ordersobs.New(
		ordersapp.NewService(
			orderRepo,
			orderscatalog.NewFoodsCatalog(foodRepo),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	purchaseActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.PurchaseTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.PurchaseWorkflow, workflow.RegisterOptions{Name: orderworkflows.PurchaseWorkflowName})
	w.RegisterActivityWithOptions(purchaseActivities.ExecutePurchase, activity.RegisterOptions{Name: orderactivities.ExecutePurchaseActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.PurchaseTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildRepositories(ctx context.Context, logger *slog.Logger) (foodports.Repository, orderports.Repository, func()) {
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return foodsmemory.NewRepository(), ordersmemory.NewRepository(), func() {}
	}
	db, cleanup := platformpostgres.ConnectOptional(ctx, dsn, logger)
	if db == nil {
		return foodsmemory.NewRepository(), ordersmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return foodsmemory.NewRepository(), ordersmemory.NewRepository(), func() {}
	}
	logger.Info("worker repositories configured with postgres")
	return foodspostgres.NewRepository(db), orderspostgres.NewRepository(db), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
