package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pathfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
api_key: test-key
project_id: test-project
chain_id: 137
wallet_address: "0x1111111111111111111111111111111111111111"
cache_ttl: 1m
rpc_urls:
  "1": https://eth.example
  "137": https://polygon.example
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "test-key", cfg.APIKey)
	require.Equal(t, "test-project", cfg.ProjectID)
	require.Equal(t, uint64(137), cfg.ChainID)
	require.Equal(t, time.Minute, cfg.CacheTTL)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "0.5", cfg.Slippage)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "https://api.enso.finance/api/v1", cfg.BaseURL)
	require.Equal(t, "https://polygon.example", cfg.RPCURLFor(137))
	require.Equal(t, "https://eth.example", cfg.RPCURLFor(1))
	require.Equal(t, "", cfg.RPCURLFor(10))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api_key: file-key\nproject_id: p\n")
	t.Setenv("PATHFINDER_API_KEY", "env-key")
	t.Setenv("PATHFINDER_SLIPPAGE", "1")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.APIKey)
	require.Equal(t, "1", cfg.Slippage)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	path := writeConfig(t, "api_key: k\nproject_id: p\n")
	t.Setenv("PATHFINDER_CHAIN_ID", "10")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("chain", 0, "")
	flags.String("rpc", "", "")
	require.NoError(t, flags.Parse([]string{"--chain", "8453", "--rpc", "https://base.example"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, uint64(8453), cfg.ChainID)
	require.Equal(t, "https://base.example", cfg.RPCURLFor(8453))
	require.Equal(t, "", cfg.RPCURLFor(1))
}

func TestLoadRequiresAPIKey(t *testing.T) {
	path := writeConfig(t, "project_id: p\n")
	_, err := Load(path, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "PATHFINDER_API_KEY")
}

func TestLoadRequiresProjectID(t *testing.T) {
	path := writeConfig(t, "api_key: k\n")
	_, err := Load(path, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "PATHFINDER_PROJECT_ID")
}

func TestLoadRejectsBadRPCKey(t *testing.T) {
	path := writeConfig(t, "api_key: k\nproject_id: p\nrpc_urls:\n  mainnet: https://x\n")
	_, err := Load(path, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rpc_urls")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config")
}

func TestLoadCacheDir(t *testing.T) {
	path := writeConfig(t, "api_key: k\nproject_id: p\n")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	base, err := os.UserCacheDir()
	require.NoError(t, err)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "pathfinder", "catalog"), cfg.CacheDir)

	path = writeConfig(t, "api_key: k\nproject_id: p\ncache_dir: \"\"\n")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	require.Empty(t, cfg.CacheDir)
}
