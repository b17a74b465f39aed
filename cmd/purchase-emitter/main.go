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
	"github.com/satoshe-sluggers/ownership-indexer/internal/chain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/providers/jetstream"
	"github.com/satoshe-sluggers/ownership-indexer/internal/store"
)

// cursorName keys the emitter's block cursor in the key-value store
const cursorName = "purchase-emitter"

// cursorSaveInterval is how often the last observed block is persisted
const cursorSaveInterval = 30 * time.Second

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEmitterConfig(*configFile, *envPath)
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
			"service": "purchase-emitter",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Purchase Emitter")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Initialize ethereum client over WebSocket
	ethDialer := adapter.NewEthClientDialer()
	adapterEthClient, err := ethDialer.Dial(ctx, cfg.Chain.WebSocketURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum WebSocket", zap.Error(err), zap.String("websocket_url", cfg.Chain.WebSocketURL))
	}
	defer adapterEthClient.Close()
	saleWatcher := chain.NewSaleWatcher(cfg.Chain, adapterEthClient, clockAdapter)

	latestBlock, err := saleWatcher.GetLatestBlock(ctx)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to fetch latest block", zap.Error(err))
	}
	lastSavedBlock, err := dataStore.GetBlockCursor(ctx, cursorName)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read block cursor", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to Ethereum WebSocket",
		zap.Uint64("latest_block", latestBlock),
		zap.Uint64("last_saved_block", lastSavedBlock),
	)

	// Persist the observed chain head periodically. After a crash the gap
	// between the cursor and the head tells operations how far behind the
	// subscription was
	go func() {
		ticker := time.NewTicker(cursorSaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				block, err := saleWatcher.GetLatestBlock(ctx)
				if err != nil {
					logger.WarnCtx(ctx, "Failed to fetch latest block for cursor save", zap.Error(err))
					continue
				}
				if err := dataStore.SetBlockCursor(ctx, cursorName, block); err != nil {
					logger.WarnCtx(ctx, "Failed to save block cursor", zap.Error(err))
				}
			}
		}
	}()

	// Initialize NATS publisher
	natsPublisher, err := jetstream.NewPublisher(cfg.NATS, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer natsPublisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for watcher errors
	errCh := make(chan error, 1)

	// Watch marketplace sales and publish each one to the purchase stream.
	// Publishing carries the event ID, so redeliveries after a crash between
	// observe and publish deduplicate on the broker
	go func() {
		err := saleWatcher.WatchSales(ctx, func(event *domain.PurchaseEvent) error {
			if err := natsPublisher.PublishPurchase(ctx, event); err != nil {
				return err
			}
			logger.InfoCtx(ctx, "Published purchase event",
				zap.String("event_id", event.ID),
				zap.Uint64("token_number", event.TokenNumber),
				zap.String("buyer", event.Buyer),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "sale-watcher"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Purchase emitter stopped")
}
