package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	APIKey        string
	ProjectID     string
	BaseURL       string
	CoinGeckoURL  string
	WalletAddress string
	ChainID       uint64
	Slippage      string
	RPCURL        string
	RPCURLs       map[uint64]string
	CacheTTL      time.Duration
	CacheDir      string
	HTTPTimeout   time.Duration
	LogLevel      string
}

// flag name -> config key
var flagKeys = map[string]string{
	"chain":     "chain_id",
	"wallet":    "wallet_address",
	"slippage":  "slippage",
	"rpc":       "rpc_url",
	"log-level": "log_level",
}

// Load merges the config file, PATHFINDER_* environment variables and flags
// into Config. An empty cfgFile searches for .pathfinder.yaml in $HOME and
// the working directory; a missing file is not an error.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PATHFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", "https://api.enso.finance/api/v1")
	v.SetDefault("coingecko_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("chain_id", 1)
	v.SetDefault("slippage", "0.5")
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("log_level", "warn")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(".pathfinder")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	rpcURLs, err := parseRPCURLs(v.GetStringMapString("rpc_urls"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:        v.GetString("api_key"),
		ProjectID:     v.GetString("project_id"),
		BaseURL:       v.GetString("base_url"),
		CoinGeckoURL:  v.GetString("coingecko_url"),
		WalletAddress: v.GetString("wallet_address"),
		ChainID:       v.GetUint64("chain_id"),
		Slippage:      v.GetString("slippage"),
		RPCURL:        v.GetString("rpc_url"),
		RPCURLs:       rpcURLs,
		CacheTTL:      v.GetDuration("cache_ttl"),
		CacheDir:      v.GetString("cache_dir"),
		HTTPTimeout:   v.GetDuration("http_timeout"),
		LogLevel:      v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the required settings
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key not found. Please set PATHFINDER_API_KEY environment variable or create a .pathfinder.yaml config file")
	}
	if c.ProjectID == "" {
		return fmt.Errorf("project ID not found. Please set PATHFINDER_PROJECT_ID environment variable or add project_id to .pathfinder.yaml")
	}
	if c.ChainID == 0 {
		return fmt.Errorf("chain_id must be set")
	}
	return nil
}

// RPCURLFor returns the RPC endpoint for a chain. The rpc_url override
// applies to the selected chain only. An empty result means gas price and
// block height are not available for the chain.
func (c *Config) RPCURLFor(chainID uint64) string {
	if c.RPCURL != "" && chainID == c.ChainID {
		return c.RPCURL
	}
	return c.RPCURLs[chainID]
}

// defaultCacheDir is the catalog cache under the user cache directory, or
// empty (memory only) when the platform has none
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pathfinder", "catalog")
}

func parseRPCURLs(raw map[string]string) (map[uint64]string, error) {
	urls := make(map[uint64]string, len(raw))
	for k, url := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(k), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %q in rpc_urls: %w", k, err)
		}
		urls[id] = url
	}
	return urls, nil
}
