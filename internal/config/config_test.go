package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCollectionContract = "0x9A676e781A523b5d0C0e43731313A708CB607508"
	testMarketplaceWallet  = "0x396343362be2A4dA1cE0C1C210945346fb82Aa49"
)

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
  allowed_origins:
    - "https://satoshesluggers.example"
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
redis:
  addr: "localhost:6380"
nats:
  url: "nats://localhost:4222"
chain:
  rpc_url: "http://localhost:8545"
  collection_contract: "` + testCollectionContract + `"
  marketplace_wallet: "` + testMarketplaceWallet + `"
  total_supply: 7777
reservoir:
  api_key: "test-key"
rate_limit:
  providers:
    chain:
      requests_per_second: 100
cache:
  ttl: "20s"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, []string{"https://satoshesluggers.example"}, cfg.Server.AllowedOrigins)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, testCollectionContract, cfg.Chain.CollectionContract)
				assert.Equal(t, testMarketplaceWallet, cfg.Chain.MarketplaceWallet)
				assert.Equal(t, "test-key", cfg.Reservoir.APIKey)
				assert.Equal(t, 100, cfg.RateLimit.Providers["chain"].RequestsPerSecond)
				assert.Equal(t, "20s", cfg.Cache.TTL.String())
			},
		},
		{
			name: "config with defaults",
			configFile: `
chain:
  rpc_url: "http://localhost:8545"
  collection_contract: "` + testCollectionContract + `"
  marketplace_wallet: "` + testMarketplaceWallet + `"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				// Check defaults
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "PURCHASE_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, "purchases.confirmed", cfg.NATS.Subject)
				assert.Equal(t, "0xcA11bde05977b3631167028862bE2a173976CA11", cfg.Chain.Multicall3Address)
				assert.Equal(t, uint64(7777), cfg.Chain.TotalSupply)
				assert.Equal(t, 100, cfg.Chain.MulticallBatchSize)
				assert.Equal(t, "https://api.reservoir.tools", cfg.Reservoir.BaseURL)
				assert.Equal(t, 20, cfg.Reservoir.BatchSize)
				assert.Equal(t, "sluggers:limiter:", cfg.RateLimit.RedisKeyPrefix)
				assert.True(t, cfg.RateLimit.EnableLocalFallback)
				assert.Equal(t, 200, cfg.RateLimit.Providers["chain"].RequestsPerSecond)
				assert.Equal(t, "30s", cfg.RateLimit.Providers["chain"].MaxQueueTime.String())
				assert.Equal(t, "30s", cfg.Cache.TTL.String())
				assert.Equal(t, "5m0s", cfg.Cache.StaleWindow.String())
				assert.Equal(t, "config/metadata.json", cfg.Catalog.MetadataPath)
			},
		},
		{
			name: "missing rpc url is fatal",
			configFile: `
chain:
  collection_contract: "` + testCollectionContract + `"
  marketplace_wallet: "` + testMarketplaceWallet + `"
`,
			expectError: true,
		},
		{
			name: "malformed marketplace wallet is fatal",
			configFile: `
chain:
  rpc_url: "http://localhost:8545"
  collection_contract: "` + testCollectionContract + `"
  marketplace_wallet: "not-an-address"
`,
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
				server:
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadAPIConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestLoadEmitterConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *EmitterConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
nats:
  url: "nats://localhost:4222"
  connection_name: "purchase-emitter"
chain:
  rpc_url: "http://localhost:8545"
  websocket_url: "ws://localhost:8545"
  collection_contract: "` + testCollectionContract + `"
  marketplace_wallet: "` + testMarketplaceWallet + `"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *EmitterConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "PURCHASE_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, "ws://localhost:8545", cfg.Chain.WebSocketURL)
				assert.Equal(t, uint64(7777), cfg.Chain.TotalSupply)
			},
		},
		{
			name: "missing websocket url is fatal",
			configFile: `
chain:
  rpc_url: "http://localhost:8545"
  collection_contract: "` + testCollectionContract + `"
  marketplace_wallet: "` + testMarketplaceWallet + `"
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadEmitterConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestChainConfig_Validate(t *testing.T) {
	valid := ChainConfig{
		RPCURL:             "http://localhost:8545",
		CollectionContract: testCollectionContract,
		MarketplaceWallet:  testMarketplaceWallet,
		TotalSupply:        7777,
	}
	assert.NoError(t, valid.Validate())

	missingSupply := valid
	missingSupply.TotalSupply = 0
	assert.Error(t, missingSupply.Validate())

	badMulticall := valid
	badMulticall.Multicall3Address = "0x123"
	assert.Error(t, badMulticall.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass",
		DBName:   "sluggers",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost port=5432 user=user password=pass dbname=sluggers sslmode=disable", cfg.DSN())
}
