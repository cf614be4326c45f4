package network

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Chain identifiers known to the registry
const (
	Ethereum  uint64 = 1
	Optimism  uint64 = 10
	BNBChain  uint64 = 56
	Polygon   uint64 = 137
	Base      uint64 = 8453
	Arbitrum  uint64 = 42161
	Avalanche uint64 = 43114
)

// NativeCurrency describes the coin used to pay gas on a chain
type NativeCurrency struct {
	Symbol      string
	Decimals    int
	CoingeckoID string // price feed id, empty when no feed exists
}

// Config holds static metadata for a chain
type Config struct {
	ChainID        uint64
	Name           string
	NativeCurrency NativeCurrency
	BlockTime      float64 // average block time in seconds
}

// BlockInterval returns the average block time as a duration
func (c Config) BlockInterval() time.Duration {
	return time.Duration(c.BlockTime * float64(time.Second))
}

var configs = map[uint64]Config{
	Ethereum: {
		ChainID:        Ethereum,
		Name:           "Ethereum",
		NativeCurrency: NativeCurrency{Symbol: "ETH", Decimals: 18, CoingeckoID: "ethereum"},
		BlockTime:      12,
	},
	Optimism: {
		ChainID:        Optimism,
		Name:           "Optimism",
		NativeCurrency: NativeCurrency{Symbol: "ETH", Decimals: 18, CoingeckoID: "ethereum"},
		BlockTime:      2,
	},
	BNBChain: {
		ChainID:        BNBChain,
		Name:           "BNB Chain",
		NativeCurrency: NativeCurrency{Symbol: "BNB", Decimals: 18, CoingeckoID: "binancecoin"},
		BlockTime:      3,
	},
	Polygon: {
		ChainID:        Polygon,
		Name:           "Polygon",
		NativeCurrency: NativeCurrency{Symbol: "MATIC", Decimals: 18, CoingeckoID: "matic-network"},
		BlockTime:      2,
	},
	Arbitrum: {
		ChainID:        Arbitrum,
		Name:           "Arbitrum",
		NativeCurrency: NativeCurrency{Symbol: "ETH", Decimals: 18, CoingeckoID: "ethereum"},
		BlockTime:      0.25,
	},
	Avalanche: {
		ChainID:        Avalanche,
		Name:           "Avalanche",
		NativeCurrency: NativeCurrency{Symbol: "AVAX", Decimals: 18, CoingeckoID: "avalanche-2"},
		BlockTime:      2,
	},
	Base: {
		ChainID:        Base,
		Name:           "Base",
		NativeCurrency: NativeCurrency{Symbol: "ETH", Decimals: 18, CoingeckoID: "ethereum"},
		BlockTime:      2,
	},
}

// Lookup returns the config for a chain. The second value is false for unknown chains.
func Lookup(chainID uint64) (Config, bool) {
	cfg, ok := configs[chainID]
	return cfg, ok
}

// ChainIDs returns every registered chain id in ascending order
func ChainIDs() []uint64 {
	ids := lo.Keys(configs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
