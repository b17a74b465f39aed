package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/messaging"
)

// Transfer(address indexed from, address indexed to, uint256 indexed tokenId)
var transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// SaleWatcher observes the collection contract for transfers out of the
// marketplace wallet, which is how a settled sale looks on-chain
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/sale_watcher.go -package=mocks -mock_names=SaleWatcher=MockSaleWatcher
type SaleWatcher interface {
	// WatchSales delivers one purchase event per observed sale until the
	// context is canceled
	WatchSales(ctx context.Context, handler messaging.PurchaseHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection
	Close()
}

type saleWatcher struct {
	eth   adapter.EthClient
	cfg   config.ChainConfig
	clock adapter.Clock
}

// NewSaleWatcher creates a watcher over the collection contract
func NewSaleWatcher(cfg config.ChainConfig, eth adapter.EthClient, clock adapter.Clock) SaleWatcher {
	return &saleWatcher{eth: eth, cfg: cfg, clock: clock}
}

// WatchSales subscribes to Transfer logs where the sender is the marketplace wallet
func (w *saleWatcher) WatchSales(ctx context.Context, handler messaging.PurchaseHandler) error {
	marketplace := common.HexToAddress(w.cfg.MarketplaceWallet)

	query := ethereum.FilterQuery{
		Addresses: []common.Address{common.HexToAddress(w.cfg.CollectionContract)},
		Topics: [][]common.Hash{
			{transferEventSignature},
			{common.BytesToHash(marketplace.Bytes())}, // from = marketplace wallet
		},
	}

	logs := make(chan types.Log)
	sub, err := w.eth.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to transfer logs: %w", err)
	}
	defer func() {
		sub.Unsubscribe()
		logger.InfoCtx(ctx, "Unsubscribed from marketplace transfer logs")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			event, err := w.parseSaleLog(ctx, vLog)
			if err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing transfer log"))
				continue
			}
			if event == nil {
				continue
			}

			if err := handler(event); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error handling sale"))
			}
		}
	}
}

// parseSaleLog converts a marketplace Transfer log into a purchase event.
// ERC20 transfers share the Transfer signature but carry only 3 topics.
func (w *saleWatcher) parseSaleLog(ctx context.Context, vLog types.Log) (*domain.PurchaseEvent, error) {
	if len(vLog.Topics) != 4 {
		return nil, nil
	}

	buyer := common.BytesToAddress(vLog.Topics[2].Bytes()).Hex()
	if domain.SameAddress(buyer, domain.ETHEREUM_ZERO_ADDRESS) {
		// Burn, not a sale
		return nil, nil
	}

	tokenNumber := new(big.Int).SetBytes(vLog.Topics[3].Bytes())
	if !tokenNumber.IsUint64() || tokenNumber.Uint64() > w.cfg.TotalSupply {
		return nil, fmt.Errorf("transfer log carries token number %s outside the collection", tokenNumber)
	}

	// Prefer the block timestamp; fall back to wall clock when the header
	// read fails so the sale is not dropped
	timestamp := w.clock.Now()
	header, err := w.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(vLog.BlockNumber))
	if err == nil {
		timestamp = time.Unix(int64(header.Time), 0) //nolint:gosec,G115 // header.Time is a uint64 from geth, safe to cast
	} else {
		logger.WarnCtx(ctx, "Failed to read block header for sale timestamp",
			zap.Uint64("block", vLog.BlockNumber),
			zap.Error(err),
		)
	}

	event := domain.NewPurchaseEvent(tokenNumber.Uint64(), buyer, "", vLog.TxHash.Hex(), timestamp)
	return &event, nil
}

// GetLatestBlock returns the latest block number
func (w *saleWatcher) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := w.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), nil
}

// Close closes the connection
func (w *saleWatcher) Close() {
	if w.eth == nil {
		return
	}
	w.eth.Close()
}
