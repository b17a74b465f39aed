package ownership_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/domain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/mocks"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ownership"
)

const testCollectionContract = "0x9A676e781A523b5d0C0e43731313A708CB607508"

func testChainConfig() config.ChainConfig {
	return config.ChainConfig{
		RPCURL:             "http://localhost:8545",
		CollectionContract: testCollectionContract,
		MarketplaceWallet:  testMarketplaceWallet,
		Multicall3Address:  "0xcA11bde05977b3631167028862bE2a173976CA11",
		TotalSupply:        testTotalSupply,
	}
}

type resolverMocks struct {
	reservoir *mocks.MockReservoirClient
	chain     *mocks.MockChainClient
	clock     *mocks.MockClock
}

func newResolver(t *testing.T, cfg config.ChainConfig, withReservoir bool) (ownership.Resolver, resolverMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := resolverMocks{
		reservoir: mocks.NewMockReservoirClient(ctrl),
		chain:     mocks.NewMockChainClient(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}
	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()

	var reservoirClient *mocks.MockReservoirClient
	if withReservoir {
		reservoirClient = m.reservoir
	}

	var resolver ownership.Resolver
	if reservoirClient != nil {
		resolver = ownership.NewResolver(cfg, reservoirClient, m.chain, nil, m.clock)
	} else {
		resolver = ownership.NewResolver(cfg, nil, m.chain, nil, m.clock)
	}
	return resolver, m
}

func TestResolver_IndexedTierCoversEverything(t *testing.T) {
	resolver, m := newResolver(t, testChainConfig(), true)

	ctx := context.Background()
	tokens := []uint64{1, 2, 3}

	m.reservoir.EXPECT().
		BatchOwners(gomock.Any(), testCollectionContract, tokens).
		Return(map[uint64]string{
			1: testBuyer,
			2: testMarketplaceWallet,
			3: "",
		}, nil)

	records, err := resolver.Resolve(ctx, tokens)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[1].Sold)
	assert.False(t, records[2].Sold)
	// No-owner sentinel counts sold-side and carries no owner
	assert.True(t, records[3].Sold)
	assert.False(t, records[3].HasOwner)
}

func TestResolver_IndexedTierPartialCoverage(t *testing.T) {
	resolver, m := newResolver(t, testChainConfig(), true)

	ctx := context.Background()

	m.reservoir.EXPECT().
		BatchOwners(gomock.Any(), testCollectionContract, []uint64{1, 2}).
		Return(map[uint64]string{1: testBuyer}, nil)

	// The uncovered token falls through to the multicall tier
	m.chain.EXPECT().
		BatchOwnerOf(gomock.Any(), []uint64{2}).
		Return(map[uint64]string{2: testMarketplaceWallet}, nil)

	records, err := resolver.Resolve(ctx, []uint64{1, 2})

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[1].Sold)
	assert.False(t, records[2].Sold)
}

func TestResolver_IndexedTierFailureFallsBack(t *testing.T) {
	resolver, m := newResolver(t, testChainConfig(), true)

	ctx := context.Background()
	tokens := []uint64{1, 2}

	m.reservoir.EXPECT().
		BatchOwners(gomock.Any(), testCollectionContract, tokens).
		Return(nil, assert.AnError)

	m.chain.EXPECT().
		BatchOwnerOf(gomock.Any(), tokens).
		Return(map[uint64]string{1: testBuyer, 2: testMarketplaceWallet}, nil)

	records, err := resolver.Resolve(ctx, tokens)

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestResolver_MulticallFailureFallsBackToSingles(t *testing.T) {
	resolver, m := newResolver(t, testChainConfig(), false)

	ctx := context.Background()
	tokens := []uint64{1, 2}

	m.chain.EXPECT().
		BatchOwnerOf(gomock.Any(), tokens).
		Return(nil, assert.AnError)

	m.chain.EXPECT().OwnerOf(gomock.Any(), uint64(1)).Return(testBuyer, nil)
	m.chain.EXPECT().OwnerOf(gomock.Any(), uint64(2)).Return("", nil)

	records, err := resolver.Resolve(ctx, tokens)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[1].Sold)
	assert.True(t, records[1].HasOwner)
	assert.False(t, records[2].HasOwner)
}

func TestResolver_SingleFailureIsIsolated(t *testing.T) {
	cfg := testChainConfig()
	cfg.Multicall3Address = "" // skip straight to per-token reads
	resolver, m := newResolver(t, cfg, false)

	ctx := context.Background()

	m.chain.EXPECT().OwnerOf(gomock.Any(), uint64(1)).Return(testBuyer, nil)
	m.chain.EXPECT().OwnerOf(gomock.Any(), uint64(2)).Return("", assert.AnError)
	m.chain.EXPECT().OwnerOf(gomock.Any(), uint64(3)).Return(testMarketplaceWallet, nil)

	records, err := resolver.Resolve(ctx, []uint64{1, 2, 3})

	// Partial success is success; the failed token is simply absent
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Contains(t, records, uint64(1))
	assert.NotContains(t, records, uint64(2))
	assert.Contains(t, records, uint64(3))
}

func TestResolver_AllTiersFail(t *testing.T) {
	cfg := testChainConfig()
	cfg.Multicall3Address = ""
	resolver, m := newResolver(t, cfg, false)

	ctx := context.Background()

	m.chain.EXPECT().OwnerOf(gomock.Any(), uint64(1)).Return("", assert.AnError)

	records, err := resolver.Resolve(ctx, []uint64{1})

	assert.ErrorIs(t, err, domain.ErrOwnershipUnavailable)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "all resolution tiers failed")
}

func TestResolver_FallbackEquivalence(t *testing.T) {
	// The same owners produce the same records no matter which tier served them
	ctx := context.Background()
	tokens := []uint64{1, 2, 3}
	owners := map[uint64]string{
		1: testBuyer,
		2: testMarketplaceWallet,
		3: "",
	}

	viaIndexed, m1 := newResolver(t, testChainConfig(), true)
	m1.reservoir.EXPECT().
		BatchOwners(gomock.Any(), testCollectionContract, tokens).
		Return(owners, nil)

	viaMulticall, m2 := newResolver(t, testChainConfig(), false)
	m2.chain.EXPECT().
		BatchOwnerOf(gomock.Any(), tokens).
		Return(owners, nil)

	cfg := testChainConfig()
	cfg.Multicall3Address = ""
	viaSingles, m3 := newResolver(t, cfg, false)
	for tokenNumber, owner := range owners {
		m3.chain.EXPECT().OwnerOf(gomock.Any(), tokenNumber).Return(owner, nil)
	}

	indexed, err := viaIndexed.Resolve(ctx, tokens)
	require.NoError(t, err)
	multicall, err := viaMulticall.Resolve(ctx, tokens)
	require.NoError(t, err)
	singles, err := viaSingles.Resolve(ctx, tokens)
	require.NoError(t, err)

	for _, tokenNumber := range tokens {
		a, b, c := indexed[tokenNumber], multicall[tokenNumber], singles[tokenNumber]
		assert.Equal(t, a.Owner, b.Owner)
		assert.Equal(t, a.Owner, c.Owner)
		assert.Equal(t, a.Sold, b.Sold)
		assert.Equal(t, a.Sold, c.Sold)
		assert.Equal(t, a.HasOwner, b.HasOwner)
		assert.Equal(t, a.HasOwner, c.HasOwner)
	}
}

func TestResolver_CircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	resolver, m := newResolver(t, testChainConfig(), true)

	ctx := context.Background()
	tokens := []uint64{1}

	// Three consecutive failures trip the breaker; the fourth Resolve skips
	// the indexed tier without calling it
	m.reservoir.EXPECT().
		BatchOwners(gomock.Any(), testCollectionContract, tokens).
		Return(nil, assert.AnError).
		Times(3)

	m.chain.EXPECT().
		BatchOwnerOf(gomock.Any(), tokens).
		Return(map[uint64]string{1: testBuyer}, nil).
		Times(4)

	for i := 0; i < 4; i++ {
		records, err := resolver.Resolve(ctx, tokens)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	}
}

func TestResolver_EmptyInput(t *testing.T) {
	resolver, _ := newResolver(t, testChainConfig(), true)

	records, err := resolver.Resolve(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, records)
}
