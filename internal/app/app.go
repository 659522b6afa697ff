package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/utafrali/catalogsearch/internal/config"
	"github.com/utafrali/catalogsearch/internal/event"
	handler "github.com/utafrali/catalogsearch/internal/handler/http"
	"github.com/utafrali/catalogsearch/internal/repository"
	"github.com/utafrali/catalogsearch/internal/repository/memory"
	"github.com/utafrali/catalogsearch/internal/repository/mongodb"
	"github.com/utafrali/catalogsearch/internal/service"
	"github.com/utafrali/catalogsearch/pkg/health"
	pkgkafka "github.com/utafrali/catalogsearch/pkg/kafka"
	"github.com/utafrali/catalogsearch/pkg/middleware"
	"github.com/utafrali/catalogsearch/pkg/tracing"
)

// App wires together all dependencies and runs the catalog search service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	mongoClient     *mongo.Client
	kafkaProducer   *pkgkafka.Producer
	tracingShutdown func(context.Context) error
	httpServer      *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "catalog-search",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	healthHandler := health.NewHandler()

	// Repositories.
	var (
		products    repository.ProductRepository
		orders      repository.OrderRepository
		reviews     repository.ReviewRepository
		users       repository.UserRepository
		mongoClient *mongo.Client
	)
	switch cfg.RepositoryBackend {
	case "mongodb":
		mongoClient, err = mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("init mongodb: %w", err)
		}
		db := mongoClient.Database(cfg.MongoDatabase)
		products = mongodb.NewProductRepository(db)
		orders = mongodb.NewOrderRepository(db)
		reviews = mongodb.NewReviewRepository(db)
		users = mongodb.NewUserRepository(db)
		healthHandler.Register("mongodb", mongodb.Ping(mongoClient))
		logger.Info("mongodb repositories initialized",
			slog.String("database", cfg.MongoDatabase),
		)
	default:
		memProducts := memory.NewProductRepository()
		products = memProducts
		orders = memory.NewOrderRepository(memProducts)
		reviews = memory.NewReviewRepository()
		users = memory.NewUserRepository()
		logger.Info("in-memory repositories initialized")
	}

	// Kafka producer for domain events.
	var kafkaProducer *pkgkafka.Producer
	var reviewPublisher service.ReviewEventPublisher
	if cfg.KafkaEnabled {
		kafkaProducer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		reviewPublisher = event.NewProducer(kafkaProducer, logger)
		healthHandler.Register("kafka", kafkaProducer.Ping)
		logger.Info("kafka producer initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
		)
	}

	// Services.
	searchService := service.NewSearchService(products, orders, cfg.StoreTimeout, logger)
	reviewService := service.NewReviewService(reviews, products, reviewPublisher, logger)
	orderService := service.NewOrderService(orders, users, products, logger)

	// HTTP router.
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	corsConfig.Environment = cfg.Environment

	router := handler.NewRouter(searchService, reviewService, orderService, healthHandler, corsConfig, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		mongoClient:     mongoClient,
		kafkaProducer:   kafkaProducer,
		tracingShutdown: tracingShutdown,
		httpServer:      httpServer,
	}, nil
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.logger.Error("mongodb disconnect error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
