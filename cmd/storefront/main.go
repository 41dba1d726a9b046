package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/config"
	storehttp "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/publisher"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/internal/service"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal(ctx, "storefront stopped with error", "error", err)
	}
	logger.Info(ctx, "storefront stopped")
}

type stores struct {
	carts   repository.CartRepository
	catalog repository.CatalogRepository
	close   func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn(ctx, "using in-memory stores; data is lost on restart")
		return &stores{
			carts:   repository.NewMemoryCartStore(),
			catalog: repository.NewMemoryProductStore(),
			close:   func(context.Context) error { return nil },
		}, nil
	}

	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	logger.Info(ctx, "connected to MongoDB", "database", cfg.MongoDBName)

	if err := repository.RunMigrations(cfg.MongoURI, cfg.MongoDBName); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &stores{
		carts:   repository.NewMongoRepository(db),
		catalog: repository.NewProductRepository(db),
		close:   db.Client().Disconnect,
	}, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			logger.Warn(closeCtx, "closing store failed", "error", err)
		}
	}()

	var products repository.ProductRepository = st.catalog
	var invalidator catalog.CacheInvalidator

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		logger.Info(ctx, "redis product cache enabled", "addr", cfg.RedisAddr)

		cached := cache.NewCachedProductStore(st.catalog, cache.NewRedisCache(redisClient))
		products = cached
		invalidator = cached
	}

	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.CheckoutTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Warn(context.Background(), "closing kafka writer failed", "error", err)
			}
		}()
		events = kafkaPublisher
		logger.Info(ctx, "checkout events enabled", "topic", cfg.CheckoutTopic, "brokers", cfg.KafkaBrokers)
	}

	cartService := service.NewCartService(st.carts, products)
	checkoutService := service.NewCheckoutService(st.carts, events)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := storehttp.NewRouter(products, cartService, checkoutService, storehttp.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		DefaultCartID:  cfg.DefaultCartID,
		Metrics:        metrics.NewServerMetrics("http", reg),
		Gatherer:       reg,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.SeedOnStart {
		seeder := catalog.NewSeeder(st.catalog, catalog.NewFakeStoreClient(cfg.FakeStoreURL, cfg.FakeStoreTimeout), invalidator)
		g.Go(func() error {
			if err := seeder.Run(gctx, cfg.SeedMinProducts); err != nil {
				logger.Error(gctx, "catalog seeding failed", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info(gctx, "http server listening", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info(gctx, "grpc health server listening", "addr", cfg.GRPCAddr())
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	return g.Wait()
}
