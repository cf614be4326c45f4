package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"pathfinder/pkg/format"
	"pathfinder/pkg/network"
	"pathfinder/pkg/types"
)

// Networks prints the networks the routing API supports. Chains with a
// local registry entry are marked so the user knows gas can be priced.
func Networks(w io.Writer, networks []types.Network) {
	if len(networks) == 0 {
		fmt.Fprintln(w, "\nNo networks returned by the routing API.")
		return
	}

	header(w, "SUPPORTED NETWORKS", narrowWidth, color.FgGreen)

	sorted := append([]types.Network(nil), networks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, n := range sorted {
		symbol := ""
		if n.NativeCurrency != nil {
			symbol = n.NativeCurrency.Symbol
		}

		marker := color.HiBlackString("-")
		if cfg, ok := network.Lookup(n.ID); ok {
			marker = color.GreenString("*")
			if symbol == "" {
				symbol = cfg.NativeCurrency.Symbol
			}
		}

		fmt.Fprintf(w, "  %s %-8d %-24s %s\n", marker, n.ID, n.Name, color.YellowString(symbol))
	}

	footer(w, narrowWidth)
	fmt.Fprintf(w, "\nTotal: %d networks (%s = gas pricing available)\n\n", len(networks), color.GreenString("*"))
}

// Tokens prints a token list grouped by token type
func Tokens(w io.Writer, tokens []types.Token) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "\nNo tokens found matching the criteria.")
		return
	}

	header(w, "SUPPORTED TOKENS", wideWidth, color.FgGreen)

	byType := lo.GroupBy(tokens, func(t types.Token) string {
		if t.Type == "" {
			return "other"
		}
		return strings.ToLower(t.Type)
	})

	kinds := lo.Keys(byType)
	sort.Strings(kinds)

	for _, kind := range kinds {
		section(w, strings.ToUpper(kind), wideWidth)

		for _, token := range byType[kind] {
			address := token.Address
			if len(address) > 42 {
				address = address[:39] + "..."
			}

			fmt.Fprintf(w, "  %-10s  %2d decimals  %s  %s\n",
				color.YellowString(token.Symbol),
				token.Decimals,
				color.HiBlackString(address),
				token.Name)
		}
	}

	footer(w, wideWidth)
	fmt.Fprintf(w, "\nTotal: %d tokens across %d types\n\n", len(tokens), len(kinds))
}

// Protocols prints the protocols the router can use
func Protocols(w io.Writer, protocols []types.Protocol) {
	if len(protocols) == 0 {
		fmt.Fprintln(w, "\nNo protocols found matching the criteria.")
		return
	}

	header(w, "PROTOCOLS", wideWidth, color.FgGreen)

	sorted := append([]types.Protocol(nil), protocols...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Slug < sorted[j].Slug })

	for _, p := range sorted {
		chains := lo.Map(p.Chains, func(c types.ProtocolChain, _ int) string {
			if cfg, ok := network.Lookup(c.ID); ok {
				return cfg.Name
			}
			if c.Name != "" {
				return c.Name
			}
			return fmt.Sprintf("%d", c.ID)
		})

		fmt.Fprintf(w, "  %-28s %s\n", color.YellowString(p.Slug), p.Name)
		if len(chains) > 0 {
			fmt.Fprintf(w, "  %-28s %s\n", "", color.HiBlackString(strings.Join(chains, ", ")))
		}
	}

	footer(w, wideWidth)
	fmt.Fprintf(w, "\nTotal: %d protocols\n\n", len(protocols))
}

// ChainName returns the registry name of a chain, or its id when unknown
func ChainName(chainID uint64) string {
	if cfg, ok := network.Lookup(chainID); ok {
		return cfg.Name
	}
	return fmt.Sprintf("chain %d", chainID)
}

// TokenLabel returns the symbol of a token, or its shortened address when it has none
func TokenLabel(t *types.Token, chainID uint64) string {
	if t == nil {
		return "tokens"
	}
	if t.Symbol != "" {
		return t.Symbol
	}
	return format.FormatAddressOnChain(t.Address, chainID)
}
