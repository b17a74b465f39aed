package reservoir

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/satoshe-sluggers/ownership-indexer/internal/adapter"
	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/ratelimit"
)

const PROVIDER_NAME = "reservoir"

// DEFAULT_BATCH_SIZE is the maximum number of token IDs the tokens endpoint
// accepts per call
const DEFAULT_BATCH_SIZE = 20

// tokenEntry represents a single token in the Reservoir tokens response
type tokenEntry struct {
	Token struct {
		TokenID string  `json:"tokenId"`
		Owner   *string `json:"owner"`
	} `json:"token"`
}

// tokensResponse represents the response from the Reservoir tokens endpoint
type tokensResponse struct {
	Tokens []tokenEntry `json:"tokens"`
}

// Client defines the interface for Reservoir client operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/reservoir_client.go -package=mocks -mock_names=Client=MockReservoirClient
type Client interface {
	// BatchOwners fetches the current owner of each token from the Reservoir
	// indexed API. Tokens the indexer does not know are absent from the result
	BatchOwners(ctx context.Context, contractAddress string, tokenNumbers []uint64) (map[uint64]string, error)
}

// ReservoirClient implements Client against the Reservoir tokens API
type ReservoirClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	json           adapter.JSON
	baseURL        string
	apiKey         string
	batchSize      int
}

// NewClient creates a new Reservoir client
func NewClient(cfg config.ReservoirConfig, httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, json adapter.JSON) Client {
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > DEFAULT_BATCH_SIZE {
		batchSize = DEFAULT_BATCH_SIZE
	}

	return &ReservoirClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		json:           json,
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		batchSize:      batchSize,
	}
}

// BatchOwners fetches the current owner of each token, chunking requests to
// the endpoint's per-call token limit
func (c *ReservoirClient) BatchOwners(ctx context.Context, contractAddress string, tokenNumbers []uint64) (map[uint64]string, error) {
	owners := make(map[uint64]string, len(tokenNumbers))

	for start := 0; start < len(tokenNumbers); start += c.batchSize {
		end := start + c.batchSize
		if end > len(tokenNumbers) {
			end = len(tokenNumbers)
		}

		chunk, err := c.batchOwnersChunk(ctx, contractAddress, tokenNumbers[start:end])
		if err != nil {
			return nil, err
		}

		for tokenNumber, owner := range chunk {
			owners[tokenNumber] = owner
		}
	}

	return owners, nil
}

// batchOwnersChunk fetches one tokens-endpoint page worth of owners
func (c *ReservoirClient) batchOwnersChunk(ctx context.Context, contractAddress string, tokenNumbers []uint64) (map[uint64]string, error) {
	query := url.Values{}
	for _, tokenNumber := range tokenNumbers {
		query.Add("tokens", fmt.Sprintf("%s:%d", strings.ToLower(contractAddress), tokenNumber))
	}
	query.Set("limit", fmt.Sprintf("%d", len(tokenNumbers)))

	requestURL := fmt.Sprintf("%s/tokens/v7?%s", c.baseURL, query.Encode())

	headers := map[string]string{
		"Accept": "application/json",
	}
	if c.apiKey != "" {
		headers["x-api-key"] = c.apiKey
	}

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, requestURL, headers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Reservoir API: %w", err)
	}

	var response tokensResponse
	if err := c.json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Reservoir response: %w", err)
	}

	owners := make(map[uint64]string, len(response.Tokens))
	for _, entry := range response.Tokens {
		tokenNumber, ok := new(big.Int).SetString(entry.Token.TokenID, 10)
		if !ok || !tokenNumber.IsUint64() {
			// A malformed token ID affects only its own entry
			continue
		}

		owner := ""
		if entry.Token.Owner != nil {
			owner = *entry.Token.Owner
		}
		owners[tokenNumber.Uint64()] = owner
	}

	return owners, nil
}
