package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	marketserver "github.com/Dostonlv/uLab3/go"

	ordersmemory "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/observability"
	ordersmongo "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/persistence/mongo"
	ordersworkflows "github.com/Dostonlv/uLab3/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Dostonlv/uLab3/internal/domains/orders/application"
	ordersports "github.com/Dostonlv/uLab3/internal/domains/orders/ports"
	productsmemory "github.com/Dostonlv/uLab3/internal/domains/products/adapters/memory"
	productsobs "github.com/Dostonlv/uLab3/internal/domains/products/adapters/observability"
	productsmongo "github.com/Dostonlv/uLab3/internal/domains/products/adapters/persistence/mongo"
	productsapp "github.com/Dostonlv/uLab3/internal/domains/products/application"
	productsports "github.com/Dostonlv/uLab3/internal/domains/products/ports"
	platformmongo "github.com/Dostonlv/uLab3/internal/platform/mongo"
	platformobservability "github.com/Dostonlv/uLab3/internal/platform/observability"
)

// Run boots the market HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "market-api"
	cfg := LoadConfig()
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

	productRepo, orderRepo, cleanupRepo := buildRepositories(ctx, cfg, logger)
	defer cleanupRepo()

	productService := productsobs.New(
		productsapp.NewService(productRepo),
		productsobs.WithLogger(logger),
		productsobs.WithTracer(instruments.Tracer("internal.products.application")),
		productsobs.WithMeter(instruments.Meter("internal.products.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, productRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline CreateOrder", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := marketserver.ApiHandleFunctions{
		ProductAPI: marketserver.NewProductAPI(productService),
		OrderAPI:   marketserver.NewOrderAPI(orderService, orderWorkflows),
	}

	router := marketserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("market API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("market API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildRepositories wires mongo-backed repositories when MONGO_URI is set,
// falling back to the in-memory adapters otherwise. The orders repository
// joins product references through the catalog repository either way.
func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (productsports.Repository, ordersports.Repository, func()) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, falling back to in-memory repositories")
		productRepo := productsmemory.NewRepository()
		return productRepo, ordersmemory.NewRepository(productRepo), func() {}
	}
	mongoClient, err := platformmongo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Warn("failed to connect to mongo, falling back to in-memory repositories", slog.String("error", err.Error()))
		productRepo := productsmemory.NewRepository()
		return productRepo, ordersmemory.NewRepository(productRepo), func() {}
	}
	logger.Info("repositories configured with mongo", slog.String("database", cfg.MongoDatabase))
	db := mongoClient.Database(cfg.MongoDatabase)
	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}
	return productsmongo.NewRepository(db), ordersmongo.NewRepository(db), cleanup
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
