package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// EVMNetwork holds the connection and signing settings for one EVM chain.
type EVMNetwork struct {
	RPCUrl     string  `mapstructure:"rpc_url"`
	ChainID    int64   `mapstructure:"chain_id"`
	PrivateKey string  `mapstructure:"private_key"`
	GasLimit   *uint64 `mapstructure:"gas_limit"`
	GasPrice   *int64  `mapstructure:"gas_price"`
}

// EVMConfig holds settings for all configured EVM networks, keyed by the
// numeric chain id in string form (the form the routing venue uses).
type EVMConfig struct {
	Networks map[string]EVMNetwork `mapstructure:"networks"`
}

// SolanaConfig holds the connection and signing settings for Solana.
type SolanaConfig struct {
	RPCUrl        string `mapstructure:"rpc_url"`
	PrivateKey    string `mapstructure:"private_key"`
	Commitment    string `mapstructure:"commitment"`
	SkipPreflight bool   `mapstructure:"skip_preflight"`
}

// Config holds the application configuration
type Config struct {
	SkipBaseURL   string       `mapstructure:"skip_base_url"`
	GasAPIBaseURL string       `mapstructure:"gas_api_base_url"`
	SentryDSN     string       `mapstructure:"sentry_dsn"`
	AutoConfirm   bool         `mapstructure:"auto_confirm"`
	EVM           EVMConfig    `mapstructure:"evm"`
	Solana        SolanaConfig `mapstructure:"solana"`
	// Addresses maps a chain name to the wallet address used on that chain.
	// Chains this tool cannot sign for locally still need an entry here so
	// routes can resolve their required signer addresses.
	Addresses map[string]string `mapstructure:"addresses"`
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".skip-bridge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("skip_base_url", "https://api.skip.money")
	viper.SetDefault("gas_api_base_url", "https://api.cypherd.io")
	viper.SetDefault("solana.commitment", "confirmed")

	// Read from environment variables
	viper.SetEnvPrefix("SKIP_BRIDGE")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.SkipBaseURL == "" {
		return nil, fmt.Errorf("routing venue base URL not configured. Set SKIP_BRIDGE_SKIP_BASE_URL or create a .skip-bridge.yaml config file")
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
