package chain_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshe-sluggers/ownership-indexer/internal/chain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/mocks"
)

var transferSig = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// fakeSubscription satisfies ethereum.Subscription for the watcher tests
type fakeSubscription struct {
	errCh chan error
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{errCh: make(chan error)}
}

func (s *fakeSubscription) Unsubscribe()      {}
func (s *fakeSubscription) Err() <-chan error { return s.errCh }

func addressTopic(addr string) common.Hash {
	return common.BytesToHash(common.HexToAddress(addr).Bytes())
}

func transferLog(from, to string, tokenNumber uint64, blockNumber uint64) types.Log {
	return types.Log{
		Topics: []common.Hash{
			transferSig,
			addressTopic(from),
			addressTopic(to),
			common.BigToHash(new(big.Int).SetUint64(tokenNumber)),
		},
		BlockNumber: blockNumber,
		TxHash:      common.HexToHash("0xabc123"),
	}
}

func newTestWatcher(t *testing.T) (chain.SaleWatcher, *mocks.MockEthClient, *mocks.MockClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	eth := mocks.NewMockEthClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Now()).AnyTimes()

	return chain.NewSaleWatcher(testChainConfig(), eth, clock), eth, clock
}

func TestSaleWatcher_WatchSales(t *testing.T) {
	watcher, eth, _ := newTestWatcher(t)

	marketplace := testChainConfig().MarketplaceWallet
	blockTime := time.Unix(1_700_000_000, 0)

	eth.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
			assert.Equal(t, []common.Address{common.HexToAddress(testCollectionContract)}, query.Addresses)
			require.Len(t, query.Topics, 2)
			assert.Equal(t, []common.Hash{transferSig}, query.Topics[0])
			assert.Equal(t, []common.Hash{addressTopic(marketplace)}, query.Topics[1])

			go func() {
				// An ERC20 transfer shares the event signature but has no tokenId topic
				ch <- types.Log{Topics: []common.Hash{transferSig, addressTopic(marketplace), addressTopic(testOwner)}}
				// A burn is not a sale
				ch <- transferLog(marketplace, domain.ETHEREUM_ZERO_ADDRESS, 7, 100)
				// A token number past the collection is a parse error
				ch <- transferLog(marketplace, testOwner, 999_999, 100)
				// The real sale
				ch <- transferLog(marketplace, testOwner, 42, 100)
			}()
			return newFakeSubscription(), nil
		})

	eth.EXPECT().
		HeaderByNumber(gomock.Any(), new(big.Int).SetUint64(100)).
		Return(&types.Header{Time: uint64(blockTime.Unix()), Number: big.NewInt(100)}, nil) //nolint:gosec,G115

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []*domain.PurchaseEvent
	err := watcher.WatchSales(ctx, func(event *domain.PurchaseEvent) error {
		events = append(events, event)
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, events, 1)
	event := events[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, uint64(42), event.TokenNumber)
	assert.Equal(t, common.HexToAddress(testOwner).Hex(), event.Buyer)
	assert.Equal(t, common.HexToHash("0xabc123").Hex(), event.TxHash)
	assert.True(t, event.Timestamp.Equal(blockTime))
}

func TestSaleWatcher_WatchSalesHeaderFallsBackToClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	eth := mocks.NewMockEthClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	wallTime := time.Unix(1_700_000_500, 0)
	clock.EXPECT().Now().Return(wallTime).AnyTimes()

	watcher := chain.NewSaleWatcher(testChainConfig(), eth, clock)
	marketplace := testChainConfig().MarketplaceWallet

	eth.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
			go func() {
				ch <- transferLog(marketplace, testOwner, 42, 100)
			}()
			return newFakeSubscription(), nil
		})

	eth.EXPECT().
		HeaderByNumber(gomock.Any(), new(big.Int).SetUint64(100)).
		Return(nil, errors.New("header not available"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []*domain.PurchaseEvent
	err := watcher.WatchSales(ctx, func(event *domain.PurchaseEvent) error {
		events = append(events, event)
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(wallTime))
}

func TestSaleWatcher_WatchSalesSubscribeError(t *testing.T) {
	watcher, eth, _ := newTestWatcher(t)

	eth.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("websocket closed"))

	err := watcher.WatchSales(context.Background(), func(*domain.PurchaseEvent) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to subscribe to transfer logs")
}

func TestSaleWatcher_WatchSalesSubscriptionError(t *testing.T) {
	watcher, eth, _ := newTestWatcher(t)

	sub := newFakeSubscription()
	eth.EXPECT().
		SubscribeFilterLogs(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ethereum.FilterQuery, _ chan<- types.Log) (ethereum.Subscription, error) {
			go func() {
				sub.errCh <- errors.New("peer disconnected")
			}()
			return sub, nil
		})

	err := watcher.WatchSales(context.Background(), func(*domain.PurchaseEvent) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription error")
}

func TestSaleWatcher_GetLatestBlock(t *testing.T) {
	watcher, eth, _ := newTestWatcher(t)

	eth.EXPECT().
		HeaderByNumber(gomock.Any(), gomock.Nil()).
		Return(&types.Header{Number: big.NewInt(18_000_000)}, nil)

	block, err := watcher.GetLatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(18_000_000), block)
}

func TestSaleWatcher_GetLatestBlockError(t *testing.T) {
	watcher, eth, _ := newTestWatcher(t)

	eth.EXPECT().
		HeaderByNumber(gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("connection refused"))

	_, err := watcher.GetLatestBlock(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get latest block")
}
