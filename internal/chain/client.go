package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
)

// erc721ABIJSON covers the single read we need from the collection contract
const erc721ABIJSON = `[{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`

// multicall3ABIJSON covers tryAggregate, which reports per-call success flags
// so one reverting ownerOf does not abort the whole batch
const multicall3ABIJSON = `[{"inputs":[{"name":"requireSuccess","type":"bool"},{"components":[{"name":"target","type":"address"},{"name":"callData","type":"bytes"}],"name":"calls","type":"tuple[]"}],"name":"tryAggregate","outputs":[{"components":[{"name":"success","type":"bool"},{"name":"returnData","type":"bytes"}],"name":"returnData","type":"tuple[]"}],"stateMutability":"payable","type":"function"}]`

// multicall3Call mirrors the Multicall3.Call tuple
type multicall3Call struct {
	Target   common.Address
	CallData []byte
}

// multicall3Result mirrors the Multicall3.Result tuple
type multicall3Result struct {
	Success    bool
	ReturnData []byte
}

// Client defines chain reads against the collection contract. An owner of ""
// is the no-owner sentinel for burned or never-minted tokens; it is reported
// as a value, never as an error.
//
//go:generate mockgen -source=client.go -destination=../mocks/chain_client.go -package=mocks -mock_names=Client=MockChainClient
type Client interface {
	// OwnerOf fetches the current owner of a single token
	OwnerOf(ctx context.Context, tokenNumber uint64) (string, error)

	// BatchOwnerOf fetches the current owners of many tokens through the
	// Multicall3 aggregation contract, chunked to the configured batch size
	BatchOwnerOf(ctx context.Context, tokenNumbers []uint64) (map[uint64]string, error)

	// Close closes the underlying connection
	Close()
}

type client struct {
	cfg          config.ChainConfig
	eth          adapter.EthClient
	erc721ABI    abi.ABI
	multicallABI abi.ABI
	collection   common.Address
	multicall    common.Address
}

// NewClient creates a chain client for the collection contract
func NewClient(cfg config.ChainConfig, eth adapter.EthClient) (Client, error) {
	erc721ABI, err := abi.JSON(strings.NewReader(erc721ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC721 ABI: %w", err)
	}

	multicallABI, err := abi.JSON(strings.NewReader(multicall3ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Multicall3 ABI: %w", err)
	}

	return &client{
		cfg:          cfg,
		eth:          eth,
		erc721ABI:    erc721ABI,
		multicallABI: multicallABI,
		collection:   common.HexToAddress(cfg.CollectionContract),
		multicall:    common.HexToAddress(cfg.Multicall3Address),
	}, nil
}

// OwnerOf fetches the current owner of a single token
func (c *client) OwnerOf(ctx context.Context, tokenNumber uint64) (string, error) {
	data, err := c.erc721ABI.Pack("ownerOf", new(big.Int).SetUint64(tokenNumber))
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.collection,
		Data: data,
	}, nil)
	if err != nil {
		// ownerOf reverts for burned or never-minted tokens
		if isRevertError(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to call contract: %w", err)
	}

	owner, err := c.unpackOwner(result)
	if err != nil {
		return "", err
	}
	return owner, nil
}

// BatchOwnerOf fetches the current owners of many tokens through Multicall3
func (c *client) BatchOwnerOf(ctx context.Context, tokenNumbers []uint64) (map[uint64]string, error) {
	if c.cfg.Multicall3Address == "" {
		return nil, fmt.Errorf("multicall3 address not configured")
	}

	batchSize := c.cfg.MulticallBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	owners := make(map[uint64]string, len(tokenNumbers))
	for start := 0; start < len(tokenNumbers); start += batchSize {
		end := min(start+batchSize, len(tokenNumbers))
		if err := c.batchOwnerOfChunk(ctx, tokenNumbers[start:end], owners); err != nil {
			return nil, err
		}
	}

	return owners, nil
}

func (c *client) batchOwnerOfChunk(ctx context.Context, tokenNumbers []uint64, owners map[uint64]string) error {
	calls := make([]multicall3Call, len(tokenNumbers))
	for i, tokenNumber := range tokenNumbers {
		callData, err := c.erc721ABI.Pack("ownerOf", new(big.Int).SetUint64(tokenNumber))
		if err != nil {
			return fmt.Errorf("failed to pack ownerOf for token %d: %w", tokenNumber, err)
		}
		calls[i] = multicall3Call{Target: c.collection, CallData: callData}
	}

	// requireSuccess=false keeps the batch alive when individual calls revert
	data, err := c.multicallABI.Pack("tryAggregate", false, calls)
	if err != nil {
		return fmt.Errorf("failed to pack tryAggregate: %w", err)
	}

	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.multicall,
		Data: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to call multicall contract: %w", err)
	}

	unpacked, err := c.multicallABI.Unpack("tryAggregate", output)
	if err != nil {
		return fmt.Errorf("failed to unpack tryAggregate result: %w", err)
	}

	results := *abi.ConvertType(unpacked[0], new([]multicall3Result)).(*[]multicall3Result)
	if len(results) != len(tokenNumbers) {
		return fmt.Errorf("multicall returned %d results for %d calls", len(results), len(tokenNumbers))
	}

	for i, result := range results {
		tokenNumber := tokenNumbers[i]
		if !result.Success {
			// Individual revert maps to the no-owner sentinel
			owners[tokenNumber] = ""
			continue
		}

		owner, err := c.unpackOwner(result.ReturnData)
		if err != nil {
			// Malformed per-token payload is isolated, it does not fail the batch
			owners[tokenNumber] = ""
			continue
		}
		owners[tokenNumber] = owner
	}

	return nil
}

// unpackOwner decodes an ownerOf return payload into a hex address
func (c *client) unpackOwner(data []byte) (string, error) {
	var owner common.Address
	if err := c.erc721ABI.UnpackIntoInterface(&owner, "ownerOf", data); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}
	return owner.Hex(), nil
}

// Close closes the underlying connection
func (c *client) Close() {
	c.eth.Close()
}

// isRevertError checks whether a contract call failed with a revert rather
// than a transport problem
func isRevertError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "revert") ||
		strings.Contains(msg, "invalid opcode")
}
