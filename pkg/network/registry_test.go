package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownChains(t *testing.T) {
	cases := []struct {
		chainID   uint64
		symbol    string
		priceID   string
		blockTime float64
	}{
		{Ethereum, "ETH", "ethereum", 12},
		{Optimism, "ETH", "ethereum", 2},
		{BNBChain, "BNB", "binancecoin", 3},
		{Polygon, "MATIC", "matic-network", 2},
		{Arbitrum, "ETH", "ethereum", 0.25},
		{Avalanche, "AVAX", "avalanche-2", 2},
		{Base, "ETH", "ethereum", 2},
	}

	for _, tc := range cases {
		cfg, ok := Lookup(tc.chainID)
		require.True(t, ok, "chain %d", tc.chainID)
		require.Equal(t, tc.chainID, cfg.ChainID)
		require.Equal(t, tc.symbol, cfg.NativeCurrency.Symbol)
		require.Equal(t, 18, cfg.NativeCurrency.Decimals)
		require.Equal(t, tc.priceID, cfg.NativeCurrency.CoingeckoID)
		require.Equal(t, tc.blockTime, cfg.BlockTime)
	}
}

func TestLookupUnknownChain(t *testing.T) {
	cfg, ok := Lookup(999)
	require.False(t, ok)
	require.Equal(t, Config{}, cfg)
}

func TestBlockInterval(t *testing.T) {
	arb, _ := Lookup(Arbitrum)
	require.Equal(t, 250*time.Millisecond, arb.BlockInterval())

	eth, _ := Lookup(Ethereum)
	require.Equal(t, 12*time.Second, eth.BlockInterval())
}

func TestChainIDsSorted(t *testing.T) {
	require.Equal(t, []uint64{1, 10, 56, 137, 8453, 42161, 43114}, ChainIDs())
}
