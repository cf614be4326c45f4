package format

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"pathfinder/pkg/network"
)

const (
	// DefaultDecimals is used when a token's decimals are unknown
	DefaultDecimals = 18

	// NativeAssetAddress is the placeholder the routing API uses for a chain's native coin
	NativeAssetAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

	// NotAvailable is shown for any value that cannot be computed
	NotAvailable = "N/A"

	amountPlaces   = 6
	nativePlaces   = 6
	usdPlaces      = 2
	nativeFallback = "ETH"
)

var (
	million  = big.NewInt(1_000_000)
	thousand = big.NewInt(1_000)
)

// GasEstimate is the display form of a gas amount on a given chain
type GasEstimate struct {
	Units      string `json:"units"`
	NativeCost string `json:"native_cost"`
	USDCost    string `json:"usd_cost"`
}

// IsNativeAsset reports whether the address is the native coin placeholder
func IsNativeAsset(address string) bool {
	return strings.EqualFold(address, NativeAssetAddress)
}

// FormatAmount converts an integer base-unit amount into a decimal string
// with six fixed decimals. Empty or non-integer input yields "0".
func FormatAmount(amount string, decimals int) string {
	if amount == "" {
		return "0"
	}

	value, ok := new(big.Int).SetString(strings.TrimSpace(amount), 10)
	if !ok {
		return "0"
	}

	return toUnits(value, decimals).StringFixed(amountPlaces)
}

// FormatAddress shortens an address for display. The native asset
// placeholder is always labelled "ETH"; use FormatAddressOnChain for the
// chain's own symbol.
func FormatAddress(address string) string {
	if address == "" {
		return ""
	}
	if IsNativeAsset(address) {
		return nativeFallback
	}
	return shorten(address)
}

// FormatAddressOnChain is FormatAddress with the native placeholder
// labelled by the chain's registered symbol.
func FormatAddressOnChain(address string, chainID uint64) string {
	if IsNativeAsset(address) {
		if cfg, ok := network.Lookup(chainID); ok {
			return cfg.NativeCurrency.Symbol
		}
	}
	return FormatAddress(address)
}

func shorten(address string) string {
	head := address
	if len(head) > 6 {
		head = head[:6]
	}
	tail := address
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return head + "..." + tail
}

// FormatGasUnits renders a gas amount as "2.50M gas", "25.0K gas" or "500 gas".
// Buckets are strictly greater-than, so exactly 1,000,000 renders in K.
func FormatGasUnits(gas *big.Int) string {
	d := decimal.NewFromBigInt(gas, 0)
	switch {
	case gas.Cmp(million) > 0:
		return d.Shift(-6).StringFixed(2) + "M gas"
	case gas.Cmp(thousand) > 0:
		return d.Shift(-3).StringFixed(1) + "K gas"
	default:
		return gas.String() + " gas"
	}
}

// FormatGas builds the gas estimate for a route or approval. Each cost
// degrades to "N/A" on its own when its inputs are missing: an unknown
// chain or no gas price leaves both costs unavailable, and no USD price
// leaves only the USD cost unavailable.
func FormatGas(gas string, chainID uint64, gasPriceWei *big.Int, usdPrice *float64) GasEstimate {
	gasUnits, ok := new(big.Int).SetString(strings.TrimSpace(gas), 10)
	if !ok {
		return GasEstimate{Units: NotAvailable, NativeCost: NotAvailable, USDCost: NotAvailable}
	}

	estimate := GasEstimate{
		Units:      FormatGasUnits(gasUnits),
		NativeCost: NotAvailable,
		USDCost:    NotAvailable,
	}

	cfg, known := network.Lookup(chainID)
	if !known || gasPriceWei == nil || gasPriceWei.Sign() == 0 {
		return estimate
	}

	costWei := new(big.Int).Mul(gasUnits, gasPriceWei)
	native := toUnits(costWei, cfg.NativeCurrency.Decimals)
	estimate.NativeCost = fmt.Sprintf("%s %s", native.StringFixed(nativePlaces), cfg.NativeCurrency.Symbol)

	if usdPrice != nil && *usdPrice != 0 && !math.IsNaN(*usdPrice) && !math.IsInf(*usdPrice, 0) {
		usd := native.Mul(decimal.NewFromFloat(*usdPrice))
		estimate.USDCost = "$" + usd.StringFixed(usdPlaces)
	}

	return estimate
}

// FormatCreatedAt describes how long ago a block was produced, using the
// chain's average block time. It returns "" when either block is missing
// and "N/A" for an unknown chain.
func FormatCreatedAt(createdAtBlock uint64, chainID uint64, currentBlock *uint64) string {
	if createdAtBlock == 0 || currentBlock == nil {
		return ""
	}

	cfg, ok := network.Lookup(chainID)
	if !ok {
		return NotAvailable
	}

	blocks := float64(int64(*currentBlock) - int64(createdAtBlock))
	secondsAgo := blocks * cfg.BlockTime

	switch {
	case secondsAgo < 60:
		return "just now"
	case secondsAgo < 3600:
		return plural(int64(math.Floor(secondsAgo/60)), "minute")
	case secondsAgo < 86400:
		return plural(int64(math.Floor(secondsAgo/3600)), "hour")
	default:
		return plural(int64(math.Floor(secondsAgo/86400)), "day")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatPriceImpact renders a price impact percentage with two decimals
func FormatPriceImpact(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(2) + "%"
}

func toUnits(amount *big.Int, decimals int) decimal.Decimal {
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}
