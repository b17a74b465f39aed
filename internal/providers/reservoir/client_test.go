package reservoir_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshe-sluggers/ownership-indexer/internal/config"
	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
	"github.com/satoshe-sluggers/ownership-indexer/internal/mocks"
	"github.com/satoshe-sluggers/ownership-indexer/internal/providers/reservoir"
)

const testContract = "0x9A676e781A523b5d0C0e43731313A708CB607508"

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

func newTestClient(t *testing.T) (reservoir.Client, *mocks.MockHTTPClient, *mocks.MockJSON) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	mockJSON := mocks.NewMockJSON(ctrl)

	cfg := config.ReservoirConfig{
		BaseURL:   "https://api.reservoir.tools",
		APIKey:    "test-api-key",
		BatchSize: 20,
	}

	client := reservoir.NewClient(cfg, mockHTTPClient, nil, mockJSON)
	return client, mockHTTPClient, mockJSON
}

func TestReservoirClient_BatchOwners(t *testing.T) {
	client, mockHTTPClient, mockJSON := newTestClient(t)

	ctx := context.Background()

	responseJSON := []byte(`{
		"tokens": [
			{"token": {"tokenId": "1", "owner": "0x1111111111111111111111111111111111111111"}},
			{"token": {"tokenId": "2", "owner": "0x2222222222222222222222222222222222222222"}}
		]
	}`)

	mockHTTPClient.EXPECT().
		GetBytes(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, url string, headers map[string]string) ([]byte, error) {
			assert.Contains(t, url, "https://api.reservoir.tools/tokens/v7?")
			assert.Contains(t, url, strings.ToLower(testContract)+"%3A1")
			assert.Contains(t, url, strings.ToLower(testContract)+"%3A2")
			assert.Equal(t, "test-api-key", headers["x-api-key"])
			return responseJSON, nil
		})

	mockJSON.EXPECT().
		Unmarshal(responseJSON, gomock.Any()).
		DoAndReturn(realUnmarshal)

	owners, err := client.BatchOwners(ctx, testContract, []uint64{1, 2})

	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{
		1: "0x1111111111111111111111111111111111111111",
		2: "0x2222222222222222222222222222222222222222",
	}, owners)
}

// realUnmarshal lets the mocked JSON adapter decode fixtures for real
func realUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func TestReservoirClient_BatchOwners_Chunking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	mockJSON := mocks.NewMockJSON(ctrl)

	cfg := config.ReservoirConfig{
		BaseURL:   "https://api.reservoir.tools",
		BatchSize: 2,
	}
	client := reservoir.NewClient(cfg, mockHTTPClient, nil, mockJSON)

	ctx := context.Background()

	// 5 tokens with a batch size of 2 means 3 calls
	mockHTTPClient.EXPECT().
		GetBytes(ctx, gomock.Any(), gomock.Any()).
		Return([]byte(`{"tokens": []}`), nil).
		Times(3)

	mockJSON.EXPECT().
		Unmarshal(gomock.Any(), gomock.Any()).
		DoAndReturn(realUnmarshal).
		Times(3)

	owners, err := client.BatchOwners(ctx, testContract, []uint64{1, 2, 3, 4, 5})

	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestReservoirClient_BatchOwners_NoOwner(t *testing.T) {
	client, mockHTTPClient, mockJSON := newTestClient(t)

	ctx := context.Background()

	// Owner can be null when the indexer has no ownership data for the token
	responseJSON := []byte(`{
		"tokens": [
			{"token": {"tokenId": "7", "owner": null}}
		]
	}`)

	mockHTTPClient.EXPECT().
		GetBytes(ctx, gomock.Any(), gomock.Any()).
		Return(responseJSON, nil)
	mockJSON.EXPECT().
		Unmarshal(responseJSON, gomock.Any()).
		DoAndReturn(realUnmarshal)

	owners, err := client.BatchOwners(ctx, testContract, []uint64{7})

	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{7: ""}, owners)
}

func TestReservoirClient_BatchOwners_MalformedTokenID(t *testing.T) {
	client, mockHTTPClient, mockJSON := newTestClient(t)

	ctx := context.Background()

	// The malformed entry is dropped without affecting its siblings
	responseJSON := []byte(`{
		"tokens": [
			{"token": {"tokenId": "not-a-number", "owner": "0x1111111111111111111111111111111111111111"}},
			{"token": {"tokenId": "3", "owner": "0x3333333333333333333333333333333333333333"}}
		]
	}`)

	mockHTTPClient.EXPECT().
		GetBytes(ctx, gomock.Any(), gomock.Any()).
		Return(responseJSON, nil)
	mockJSON.EXPECT().
		Unmarshal(responseJSON, gomock.Any()).
		DoAndReturn(realUnmarshal)

	owners, err := client.BatchOwners(ctx, testContract, []uint64{1, 3})

	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{3: "0x3333333333333333333333333333333333333333"}, owners)
}

func TestReservoirClient_BatchOwners_APIError(t *testing.T) {
	client, mockHTTPClient, _ := newTestClient(t)

	ctx := context.Background()

	mockHTTPClient.EXPECT().
		GetBytes(ctx, gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	owners, err := client.BatchOwners(ctx, testContract, []uint64{1})

	assert.Error(t, err)
	assert.Nil(t, owners)
	assert.Contains(t, err.Error(), "failed to call Reservoir API")
}

func TestReservoirClient_BatchOwners_UnmarshalError(t *testing.T) {
	client, mockHTTPClient, mockJSON := newTestClient(t)

	ctx := context.Background()

	responseJSON := []byte(`invalid json`)

	mockHTTPClient.EXPECT().
		GetBytes(ctx, gomock.Any(), gomock.Any()).
		Return(responseJSON, nil)
	mockJSON.EXPECT().
		Unmarshal(responseJSON, gomock.Any()).
		Return(assert.AnError)

	owners, err := client.BatchOwners(ctx, testContract, []uint64{1})

	assert.Error(t, err)
	assert.Nil(t, owners)
	assert.Contains(t, err.Error(), "failed to unmarshal Reservoir response")
}
