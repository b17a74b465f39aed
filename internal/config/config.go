package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
	Env       string `mapstructure:"env"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis configuration for the distributed rate limiter
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	Subject        string        `mapstructure:"subject"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// ChainConfig holds Ethereum chain configuration for the collection
type ChainConfig struct {
	RPCURL             string `mapstructure:"rpc_url"`
	WebSocketURL       string `mapstructure:"websocket_url"`
	CollectionContract string `mapstructure:"collection_contract"`
	MarketplaceWallet  string `mapstructure:"marketplace_wallet"`
	Multicall3Address  string `mapstructure:"multicall3_address"`
	TotalSupply        uint64 `mapstructure:"total_supply"`
	MulticallBatchSize int    `mapstructure:"multicall_batch_size"`
}

// ReservoirConfig holds configuration for the indexed batch-query API
type ReservoirConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	BatchSize   int           `mapstructure:"batch_size"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// RateLimitConfig holds the rate limit settings for a single provider
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds rate limiter configuration for chain reads
type RateLimiterConfig struct {
	RedisKeyPrefix          string                     `mapstructure:"redis_key_prefix"`
	EnableLocalFallback     bool                       `mapstructure:"enable_local_fallback"`
	LocalFallbackMultiplier float64                    `mapstructure:"local_fallback_multiplier"`
	MaxWorkers              int                        `mapstructure:"max_workers"`
	MaxQueueSize            int                        `mapstructure:"max_queue_size"`
	Providers               map[string]RateLimitConfig `mapstructure:"providers"`
}

// CacheConfig holds ownership cache configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	StaleWindow     time.Duration `mapstructure:"stale_window"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// CatalogConfig holds static metadata catalog configuration
type CatalogConfig struct {
	MetadataPath string `mapstructure:"metadata_path"`
}

// AuthConfig holds authentication configuration for admin endpoints
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig      `mapstructure:"server"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Redis      RedisConfig       `mapstructure:"redis"`
	NATS       NATSConfig        `mapstructure:"nats"`
	Chain      ChainConfig       `mapstructure:"chain"`
	Reservoir  ReservoirConfig   `mapstructure:"reservoir"`
	RateLimit  RateLimiterConfig `mapstructure:"rate_limit"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Catalog    CatalogConfig     `mapstructure:"catalog"`
	Auth       AuthConfig        `mapstructure:"auth"`
}

// EmitterConfig holds configuration for the purchase-emitter
type EmitterConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Chain      ChainConfig    `mapstructure:"chain"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("nats.stream_name", "PURCHASE_EVENTS")
	v.SetDefault("nats.subject", "purchases.confirmed")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 3)
	v.SetDefault("chain.multicall3_address", "0xcA11bde05977b3631167028862bE2a173976CA11")
	v.SetDefault("chain.total_supply", 7777)
	v.SetDefault("chain.multicall_batch_size", 100)
	v.SetDefault("reservoir.base_url", "https://api.reservoir.tools")
	v.SetDefault("reservoir.batch_size", 20)
	v.SetDefault("reservoir.http_timeout", "10s")
	v.SetDefault("rate_limit.redis_key_prefix", "sluggers:limiter:")
	v.SetDefault("rate_limit.enable_local_fallback", true)
	v.SetDefault("rate_limit.local_fallback_multiplier", 0.5)
	v.SetDefault("rate_limit.max_queue_size", 10000)
	v.SetDefault("rate_limit.providers.chain.requests_per_second", 200)
	v.SetDefault("rate_limit.providers.chain.max_queue_time", "30s")
	v.SetDefault("rate_limit.providers.reservoir.requests_per_second", 4)
	v.SetDefault("rate_limit.providers.reservoir.max_queue_time", "10s")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("cache.stale_window", "5m")
	v.SetDefault("cache.refresh_interval", "45s")
	v.SetDefault("catalog.metadata_path", "config/metadata.json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Chain.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadEmitterConfig loads configuration for the purchase-emitter
func LoadEmitterConfig(configFile string, envPath string) (*EmitterConfig, error) {
	v := configureViper("purchase-emitter", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.stream_name", "PURCHASE_EVENTS")
	v.SetDefault("nats.subject", "purchases.confirmed")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("chain.total_supply", 7777)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config EmitterConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Chain.Validate(); err != nil {
		return nil, err
	}
	if config.Chain.WebSocketURL == "" {
		return nil, errors.New("chain.websocket_url is required")
	}

	return &config, nil
}

// Validate enforces the fail-fast chain configuration contract. A missing or
// malformed chain provider setup is fatal at startup rather than a silent
// degradation at resolution time.
func (c *ChainConfig) Validate() error {
	if c.RPCURL == "" {
		return errors.New("chain.rpc_url is required")
	}
	if c.CollectionContract == "" || !common.IsHexAddress(c.CollectionContract) {
		return errors.New("chain.collection_contract must be a valid address")
	}
	if c.MarketplaceWallet == "" || !common.IsHexAddress(c.MarketplaceWallet) {
		return errors.New("chain.marketplace_wallet must be a valid address")
	}
	if c.Multicall3Address != "" && !common.IsHexAddress(c.Multicall3Address) {
		return errors.New("chain.multicall3_address must be a valid address")
	}
	if c.TotalSupply == 0 {
		return errors.New("chain.total_supply is required")
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("SLUGGERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"env",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Chain
		"chain.rpc_url",
		"chain.websocket_url",
		"chain.collection_contract",
		"chain.marketplace_wallet",
		"chain.multicall3_address",
		"chain.total_supply",
		"chain.multicall_batch_size",
		// Reservoir
		"reservoir.base_url",
		"reservoir.api_key",
		"reservoir.batch_size",
		"reservoir.http_timeout",
		// Rate limit
		"rate_limit.redis_key_prefix",
		"rate_limit.enable_local_fallback",
		"rate_limit.local_fallback_multiplier",
		"rate_limit.max_workers",
		"rate_limit.max_queue_size",
		"rate_limit.providers.chain.requests_per_second",
		"rate_limit.providers.chain.burst",
		"rate_limit.providers.chain.max_queue_time",
		"rate_limit.providers.reservoir.requests_per_second",
		"rate_limit.providers.reservoir.burst",
		"rate_limit.providers.reservoir.max_queue_time",
		// Cache
		"cache.ttl",
		"cache.stale_window",
		"cache.refresh_interval",
		// Catalog
		"catalog.metadata_path",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
