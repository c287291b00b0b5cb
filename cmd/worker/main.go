package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	ordersmemory "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/observability"
	ordersmongo "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/persistence/mongo"
	ordersapp "github.com/Dostonlv/uLab3/internal/domains/orders/application"
	ordersports "github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	productsmemory "github.com/Dostonlv/uLab3/internal/domains/products/adapters/memory"
	productsmongo "github.com/Dostonlv/uLab3/internal/domains/products/adapters/persistence/mongo"
	productsports "github.com/Dostonlv/uLab3/internal/domains/products/ports"
	orderactivities "github.com/Dostonlv/uLab3/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Dostonlv/uLab3/internal/durable/temporal/workflows/orders"
	platformmongo "github.com/Dostonlv/uLab3/internal/platform/mongo"
	platformobservability "github.com/Dostonlv/uLab3/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "market-worker"
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

	productRepo, orderRepo, cleanupRepo := buildRepositories(ctx, logger)
	defer cleanupRepo()
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, productRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	orderActivities := orderactivities.NewActivities(orderService)

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

	w := worker.New(temporalClient, orderworkflows.OrderCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCreationWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildRepositories(ctx context.Context, logger *slog.Logger) (productsports.Repository, ordersports.Repository, func()) {
	db, cleanup := platformmongo.ConnectFromEnv(ctx, logger)
	if db == nil {
		productRepo := productsmemory.NewRepository()
		return productRepo, ordersmemory.NewRepository(productRepo), cleanup
	}
	return productsmongo.NewRepository(db), ordersmongo.NewRepository(db), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
