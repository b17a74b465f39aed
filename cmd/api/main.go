package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/api/rest"
	"github.com/satoshe-sluggers/ownership-indexer/internal/api/server"
	"github.com/satoshe-sluggers/ownership-indexer/internal/catalog"
	"github.com/satoshe-sluggers/ownership-indexer/internal/chain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ownership"
	"github.com/satoshe-sluggers/ownership-indexer/internal/providers/jetstream"
	"github.com/satoshe-sluggers/ownership-indexer/internal/providers/reservoir"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ratelimit"
	"github.com/satoshe-sluggers/ownership-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		Environment:     cfg.Env,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Ownership Indexer API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	clockAdapter := adapter.NewClock()
	natsJS := adapter.NewNatsJetStream()
	httpClient := adapter.NewHTTPClient(cfg.Reservoir.HTTPTimeout)

	// Load the static metadata catalog
	tokenCatalog, err := catalog.Load(fs, cfg.Catalog.MetadataPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load metadata catalog",
			zap.Error(err),
			zap.String("path", cfg.Catalog.MetadataPath))
	}
	logger.InfoCtx(ctx, "Loaded metadata catalog",
		zap.String("path", cfg.Catalog.MetadataPath),
		zap.Uint64("tokens", tokenCatalog.TotalSupply()))

	// Initialize the distributed rate limiter
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimit, redisClient, clockAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := rateLimitProxy.Close(); err != nil {
			logger.Error(err, zap.String("component", "ratelimit"))
		}
	}()

	// Initialize ethereum client
	ethDialer := adapter.NewEthClientDialer()
	adapterEthClient, err := ethDialer.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", cfg.Chain.RPCURL))
	}
	defer adapterEthClient.Close()
	chainClient, err := chain.NewClient(cfg.Chain, adapterEthClient)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create chain client", zap.Error(err))
	}

	// Initialize the tiered ownership resolver
	reservoirClient := reservoir.NewClient(cfg.Reservoir, httpClient, rateLimitProxy, jsonAdapter)
	resolver := ownership.NewResolver(cfg.Chain, reservoirClient, chainClient, rateLimitProxy, clockAdapter)

	// Initialize the ownership cache and warm it from the durable records
	ownershipCache := ownership.NewCache(cfg.Cache, cfg.Chain.TotalSupply, dataStore, clockAdapter)
	if err := ownershipCache.WarmFromStore(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to warm ownership cache", zap.Error(err))
	}
	if sold, total, err := dataStore.CountOwnership(ctx); err != nil {
		logger.WarnCtx(ctx, "Failed to count durable ownership records", zap.Error(err))
	} else {
		logger.InfoCtx(ctx, "Durable ownership records",
			zap.Uint64("sold", sold),
			zap.Uint64("resolved", total),
			zap.Uint64("total_supply", cfg.Chain.TotalSupply),
		)
	}

	// Initialize the reconciler and its periodic refresh loop
	reconciler := ownership.NewReconciler(cfg.Cache, ownershipCache, resolver, dataStore, clockAdapter)
	go func() {
		if err := reconciler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err, zap.String("component", "reconciler"))
		}
	}()

	// Initialize NATS publisher and subscriber. The publisher carries locally
	// confirmed purchases to the other replicas, the subscriber applies theirs
	natsPublisher, err := jetstream.NewPublisher(cfg.NATS, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer natsPublisher.Close()
	natsSubscriber, err := jetstream.NewSubscriber(cfg.NATS, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS subscriber", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer natsSubscriber.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream")

	go func() {
		err := natsSubscriber.SubscribePurchases(ctx, func(event *domain.PurchaseEvent) error {
			return reconciler.HandlePurchase(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err, zap.String("component", "subscriber"))
		}
	}()

	// Create and start server
	handler := rest.NewHandler(tokenCatalog, reconciler, natsPublisher, clockAdapter)
	srv := server.New(cfg.Debug, cfg.Server, cfg.Auth, handler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
