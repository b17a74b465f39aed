package chain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshe-sluggers/ownership-indexer/internal/chain"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/mocks"
)

const (
	testCollectionContract = "0x9A676e781A523b5d0C0e43731313A708CB607508"
	testMulticall3Address  = "0xcA11bde05977b3631167028862bE2a173976CA11"
	testOwner              = "0x1234567890123456789012345678901234567890"
	testOtherOwner         = "0x396343362be2A4dA1cE0C1C210945346fb82Aa49"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

func testChainConfig() config.ChainConfig {
	return config.ChainConfig{
		CollectionContract: testCollectionContract,
		Multicall3Address:  testMulticall3Address,
		MarketplaceWallet:  testOtherOwner,
		TotalSupply:        7777,
		MulticallBatchSize: 100,
	}
}

func newTestClient(t *testing.T, cfg config.ChainConfig) (chain.Client, *mocks.MockEthClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	eth := mocks.NewMockEthClient(ctrl)
	client, err := chain.NewClient(cfg, eth)
	require.NoError(t, err)
	return client, eth
}

// packAddressReturn encodes an address the way an ownerOf call returns it
func packAddressReturn(addr string) []byte {
	return common.LeftPadBytes(common.HexToAddress(addr).Bytes(), 32)
}

// multicallResult mirrors the Multicall3.Result tuple for packing test payloads
type multicallResult struct {
	Success    bool
	ReturnData []byte
}

// packTryAggregateReturn encodes a tryAggregate return payload
func packTryAggregateReturn(t *testing.T, results []multicallResult) []byte {
	t.Helper()

	resultType, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "success", Type: "bool"},
		{Name: "returnData", Type: "bytes"},
	})
	require.NoError(t, err)

	packed, err := abi.Arguments{{Type: resultType}}.Pack(results)
	require.NoError(t, err)
	return packed
}

func TestClient_OwnerOf(t *testing.T) {
	client, eth := newTestClient(t, testChainConfig())

	eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ interface{}) ([]byte, error) {
			assert.Equal(t, common.HexToAddress(testCollectionContract), *msg.To)
			assert.NotEmpty(t, msg.Data)
			return packAddressReturn(testOwner), nil
		})

	owner, err := client.OwnerOf(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testOwner).Hex(), owner)
}

func TestClient_OwnerOfRevertIsNoOwner(t *testing.T) {
	client, eth := newTestClient(t, testChainConfig())

	eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("execution reverted: ERC721: invalid token ID"))

	owner, err := client.OwnerOf(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, owner)
}

func TestClient_OwnerOfTransportError(t *testing.T) {
	client, eth := newTestClient(t, testChainConfig())

	eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("connection refused"))

	_, err := client.OwnerOf(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call contract")
}

func TestClient_BatchOwnerOf(t *testing.T) {
	client, eth := newTestClient(t, testChainConfig())

	payload := packTryAggregateReturn(t, []multicallResult{
		{Success: true, ReturnData: packAddressReturn(testOwner)},
		{Success: false},
		{Success: true, ReturnData: packAddressReturn(testOtherOwner)},
	})

	eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ interface{}) ([]byte, error) {
			assert.Equal(t, common.HexToAddress(testMulticall3Address), *msg.To)
			return payload, nil
		})

	owners, err := client.BatchOwnerOf(context.Background(), []uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{
		1: common.HexToAddress(testOwner).Hex(),
		2: "",
		3: common.HexToAddress(testOtherOwner).Hex(),
	}, owners)
}

func TestClient_BatchOwnerOfChunking(t *testing.T) {
	cfg := testChainConfig()
	cfg.MulticallBatchSize = 2
	client, eth := newTestClient(t, cfg)

	// 5 tokens with batch size 2 split into chunks of 2, 2 and 1
	chunkSizes := []int{2, 2, 1}
	call := 0
	eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ interface{}) ([]byte, error) {
			results := make([]multicallResult, chunkSizes[call])
			for i := range results {
				results[i] = multicallResult{Success: true, ReturnData: packAddressReturn(testOwner)}
			}
			call++
			return packTryAggregateReturn(t, results), nil
		}).
		Times(3)

	owners, err := client.BatchOwnerOf(context.Background(), []uint64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Len(t, owners, 5)
	assert.Equal(t, 3, call)
}

func TestClient_BatchOwnerOfNotConfigured(t *testing.T) {
	cfg := testChainConfig()
	cfg.Multicall3Address = ""
	client, _ := newTestClient(t, cfg)

	_, err := client.BatchOwnerOf(context.Background(), []uint64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multicall3 address not configured")
}

func TestClient_BatchOwnerOfResultCountMismatch(t *testing.T) {
	client, eth := newTestClient(t, testChainConfig())

	payload := packTryAggregateReturn(t, []multicallResult{
		{Success: true, ReturnData: packAddressReturn(testOwner)},
	})

	eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(payload, nil)

	_, err := client.BatchOwnerOf(context.Background(), []uint64{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multicall returned 1 results for 2 calls")
}

func TestClient_BatchOwnerOfMalformedPayloadIsIsolated(t *testing.T) {
	client, eth := newTestClient(t, testChainConfig())

	payload := packTryAggregateReturn(t, []multicallResult{
		{Success: true, ReturnData: []byte{0x01, 0x02}},
		{Success: true, ReturnData: packAddressReturn(testOwner)},
	})

	eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(payload, nil)

	owners, err := client.BatchOwnerOf(context.Background(), []uint64{7, 8})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{
		7: "",
		8: common.HexToAddress(testOwner).Hex(),
	}, owners)
}
