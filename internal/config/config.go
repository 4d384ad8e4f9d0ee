package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Network bundles the per-chain constants the CLI needs. Presets cover
// Base mainnet and the Sepolia testnet; every field can be overridden.
type Network struct {
	Name        string
	ChainID     uint64
	RPCURL      string
	ExplorerURL string
	Factory     string
	USDC        string
	WETH        string
}

var networks = map[string]Network{
	"mainnet": {
		Name:        "mainnet",
		ChainID:     8453,
		RPCURL:      "https://mainnet.base.org",
		ExplorerURL: "https://basescan.org",
		Factory:     "0x88B49d6F0BC138f52C60B33CaB2245ADe9597189",
		USDC:        "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		WETH:        "0x4200000000000000000000000000000000000006",
	},
	"testnet": {
		Name:        "testnet",
		ChainID:     84532,
		RPCURL:      "https://sepolia.base.org",
		ExplorerURL: "https://sepolia.basescan.org",
		Factory:     "0x1be2351ce3840de7eea5f701688427606cd55c79",
		USDC:        "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		WETH:        "0x4200000000000000000000000000000000000006",
	},
}

// ReserveDecimals maps the supported reserve token symbols to their
// on-chain decimals.
var ReserveDecimals = map[string]uint8{
	"USDC": 6,
	"WETH": 18,
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Network Network

	// Swapper has no preset: the router is deployed per environment.
	Swapper string

	FeeTier      uint32
	ReserveToken string // USDC or WETH

	BatchSize  int64
	FetchLimit int64

	CachePath   string
	PostgresDSN string

	PrivateKey string

	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("network", "mainnet")
	v.SetDefault("fee-tier", uint32(10000))
	v.SetDefault("reserve", "USDC")
	v.SetDefault("batch-size", int64(25))
	v.SetDefault("fetch-limit", int64(50))
	v.SetDefault("cache", "./data/metadata.json")
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	name := strings.ToLower(v.GetString("network"))
	net, ok := networks[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown network %q (want mainnet or testnet)", name)
	}
	if rpc := v.GetString("rpc"); rpc != "" {
		net.RPCURL = rpc
	}
	if factory := v.GetString("factory"); factory != "" {
		net.Factory = factory
	}

	reserve := strings.ToUpper(v.GetString("reserve"))
	if _, ok := ReserveDecimals[reserve]; !ok {
		return Config{}, fmt.Errorf("unknown reserve token %q (want USDC or WETH)", v.GetString("reserve"))
	}

	cfg := Config{
		Network:      net,
		Swapper:      v.GetString("swapper"),
		FeeTier:      v.GetUint32("fee-tier"),
		ReserveToken: reserve,
		BatchSize:    v.GetInt64("batch-size"),
		FetchLimit:   v.GetInt64("fetch-limit"),
		CachePath:    v.GetString("cache"),
		PostgresDSN:  v.GetString("pg-dsn"),
		PrivateKey:   v.GetString("private-key"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// ReserveAddress returns the configured reserve token's address on the
// selected network.
func (c Config) ReserveAddress() string {
	if c.ReserveToken == "WETH" {
		return c.Network.WETH
	}
	return c.Network.USDC
}
