package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"pathfinder/pkg/format"
	"pathfinder/pkg/network"
	"pathfinder/pkg/types"
)

// SwapCommand is a parsed "<amount> <token> to <token>" command. Token
// references are either symbols or 0x addresses.
type SwapCommand struct {
	Amount string
	From   string
	To     string
}

var swapPattern = regexp.MustCompile(`(?i)^(?:swap\s+)?(\d+\.?\d*|\.\d+)\s+([A-Za-z0-9.\-]+)\s+to\s+([A-Za-z0-9.\-]+)$`)

// ParseSwapCommand parses a swap command
// Examples:
//   - "swap 1 ETH to USDC"
//   - "1.5 WETH to DAI"
//   - "100 0xA0b8...eB48 to 0x6B17...1d0F"
func ParseSwapCommand(command string) (*SwapCommand, error) {
	command = strings.Join(strings.Fields(command), " ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: '<amount> <token> to <token>' (e.g., '1 ETH to USDC')")
	}

	return &SwapCommand{
		Amount: matches[1],
		From:   matches[2],
		To:     matches[3],
	}, nil
}

// ParseSwapArgs parses command-line arguments of the form <amount> <token> to <token>
func ParseSwapArgs(args []string) (*SwapCommand, error) {
	return ParseSwapCommand(strings.Join(args, " "))
}

// ValidateSwapCommand validates that a swap command has all required fields
func ValidateSwapCommand(cmd *SwapCommand) error {
	if cmd.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if cmd.From == "" {
		return fmt.Errorf("source token is required")
	}
	if cmd.To == "" {
		return fmt.Errorf("destination token is required")
	}
	if strings.EqualFold(cmd.From, cmd.To) {
		return fmt.Errorf("source and destination tokens must differ")
	}
	return nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"ETHER": "ETH",
		"POL":   "MATIC",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}

// ResolveToken finds the token a reference points to in a chain's token list.
// Addresses match exactly (case-insensitive), then symbols match exactly,
// then partially. The chain's native symbol falls back to the native
// placeholder when the list does not carry it.
func ResolveToken(tokens []types.Token, ref string, chainID uint64) (*types.Token, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("token reference is empty")
	}

	if common.IsHexAddress(ref) {
		if t, ok := lo.Find(tokens, func(t types.Token) bool {
			return strings.EqualFold(t.Address, ref)
		}); ok {
			return &t, nil
		}
		if format.IsNativeAsset(ref) {
			return nativeToken(chainID), nil
		}
		return nil, fmt.Errorf("token '%s' not found on chain %d", ref, chainID)
	}

	symbol := NormalizeTokenSymbol(ref)

	if t, ok := lo.Find(tokens, func(t types.Token) bool {
		return strings.ToUpper(t.Symbol) == symbol
	}); ok {
		return &t, nil
	}

	if cfg, ok := network.Lookup(chainID); ok && cfg.NativeCurrency.Symbol == symbol {
		return nativeToken(chainID), nil
	}

	if t, ok := lo.Find(tokens, func(t types.Token) bool {
		return strings.Contains(strings.ToUpper(t.Symbol), symbol)
	}); ok {
		return &t, nil
	}

	return nil, fmt.Errorf("token '%s' not found on chain %d", ref, chainID)
}

// FilterTokens keeps the tokens whose symbol, name or address contains the
// query, case-insensitively. An empty query keeps everything.
func FilterTokens(tokens []types.Token, query string) []types.Token {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tokens
	}
	return lo.Filter(tokens, func(t types.Token, _ int) bool {
		return strings.Contains(strings.ToLower(t.Symbol), query) ||
			strings.Contains(strings.ToLower(t.Name), query) ||
			strings.Contains(strings.ToLower(t.Address), query)
	})
}

func nativeToken(chainID uint64) *types.Token {
	symbol := "ETH"
	name := "Ether"
	if cfg, ok := network.Lookup(chainID); ok {
		symbol = cfg.NativeCurrency.Symbol
		name = cfg.Name + " native asset"
	}
	return &types.Token{
		Address:  format.NativeAssetAddress,
		Name:     name,
		Symbol:   symbol,
		Decimals: format.DefaultDecimals,
		ChainID:  chainID,
		Type:     "base",
	}
}
