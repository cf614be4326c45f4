package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"pathfinder/pkg/format"
	"pathfinder/pkg/pathfinder"
	"pathfinder/pkg/types"
)

// ImpactLevel classifies a price impact for colouring
type ImpactLevel int

const (
	ImpactLow ImpactLevel = iota
	ImpactMedium
	ImpactHigh
)

// PriceImpactLevel returns high above 5%, medium above 2% and low otherwise
func PriceImpactLevel(pct float64) ImpactLevel {
	switch {
	case pct > 5:
		return ImpactHigh
	case pct > 2:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func coloredImpact(pct float64) string {
	s := format.FormatPriceImpact(pct)
	switch PriceImpactLevel(pct) {
	case ImpactHigh:
		return color.RedString(s)
	case ImpactMedium:
		return color.YellowString(s)
	default:
		return color.GreenString(s)
	}
}

// StepLabel returns "1 step" or "N steps"
func StepLabel(n int) string {
	if n == 1 {
		return "1 step"
	}
	return fmt.Sprintf("%d steps", n)
}

// OutputToken returns the symbol and decimals used to display an output
// amount. A missing token falls back to "tokens" with 18 decimals.
func OutputToken(t *types.Token) (string, int) {
	if t == nil {
		return "tokens", format.DefaultDecimals
	}
	symbol := t.Symbol
	if symbol == "" {
		symbol = "tokens"
	}
	return symbol, t.Decimals
}

func gasLines(w io.Writer, label string, gas types.Numeric, chainID uint64, snap pathfinder.Snapshot) {
	est := format.FormatGas(gas.String(), chainID, snap.GasPrice, snap.USDPrice)

	cost := est.NativeCost
	if est.USDCost != format.NotAvailable {
		cost = fmt.Sprintf("%s (%s)", est.NativeCost, est.USDCost)
	}

	fmt.Fprintf(w, "  %-18s %s\n", label, color.CyanString(est.Units))
	fmt.Fprintf(w, "  %-18s %s\n", "", cost)
}

// RouteSteps prints each step of a route in execution order. Steps name
// their protocol by its display name when it is in the protocol list.
func RouteSteps(w io.Writer, steps []types.RouteStep, protocols []types.Protocol, chainID uint64) {
	section(w, "ROUTE", narrowWidth)

	if len(steps) == 0 {
		fmt.Fprintln(w, "  No steps in route.")
		return
	}

	for i, step := range steps {
		name := step.Protocol
		protocol, found := lo.Find(protocols, func(p types.Protocol) bool {
			return p.Slug == step.Protocol
		})
		if found && protocol.Name != "" {
			name = protocol.Name
		}

		fmt.Fprintf(w, "  %d. %s  [%s]\n", i+1, color.YellowString(name), step.Action)
		fmt.Fprintf(w, "     From: %s\n", addressList(step.TokenIn, chainID))
		fmt.Fprintf(w, "     To:   %s\n", addressList(step.TokenOut, chainID))
		if found && protocol.URL != "" {
			fmt.Fprintf(w, "     %s\n", color.HiBlackString(protocol.URL))
		}
		if i < len(steps)-1 {
			fmt.Fprintln(w, "     |")
		}
	}
}

func addressList(addresses []string, chainID uint64) string {
	return strings.Join(lo.Map(addresses, func(a string, _ int) string {
		return format.FormatAddressOnChain(a, chainID)
	}), ", ")
}

// RouteSummary prints the headline numbers of a route
func RouteSummary(w io.Writer, route *types.RouteResponse, to *types.Token, chainID uint64, snap pathfinder.Snapshot) {
	header(w, "BEST ROUTE", narrowWidth, color.FgGreen)

	symbol, decimals := OutputToken(to)

	fmt.Fprintf(w, "\n  %-18s %s\n", "Steps:", StepLabel(len(route.Route)))
	fmt.Fprintf(w, "  %-18s %s %s\n", "Expected Output:",
		color.GreenString(format.FormatAmount(route.AmountOut.String(), decimals)),
		color.YellowString(symbol))
	gasLines(w, "Estimated Gas:", route.Gas, chainID, snap)

	if route.PriceImpact != nil {
		fmt.Fprintf(w, "  %-18s %s\n", "Price Impact:", coloredImpact(*route.PriceImpact))
	}

	if created := format.FormatCreatedAt(route.CreatedAt, chainID, snap.CurrentBlock); created != "" {
		fmt.Fprintf(w, "  %-18s %s\n", "Calculated:", color.HiBlackString(created))
	}
}

// QuotePreview prints a quote estimate
func QuotePreview(w io.Writer, quote *types.QuoteResponse, to *types.Token, chainID uint64, snap pathfinder.Snapshot) {
	header(w, "QUOTE PREVIEW", narrowWidth, color.FgGreen)

	symbol, decimals := OutputToken(to)

	fmt.Fprintf(w, "\n  %-18s %s %s\n", "Expected Output:",
		color.GreenString(format.FormatAmount(quote.AmountOut.String(), decimals)),
		color.YellowString(symbol))
	gasLines(w, "Estimated Gas:", quote.Gas, chainID, snap)

	if quote.PriceImpact != nil {
		fmt.Fprintf(w, "  %-18s %s\n", "Price Impact:", coloredImpact(*quote.PriceImpact))
	}

	fmt.Fprintln(w, color.HiBlackString("\n  These values are estimates and may change when executing the transaction."))
	footer(w, narrowWidth)
}

// Approval prints the approval prompt with its gas cost
func Approval(w io.Writer, approval *types.ApprovalResponse, chainID uint64, snap pathfinder.Snapshot) {
	color.New(color.FgYellow).Fprintln(w, "\n  Token approval required")
	if approval.Spender != "" {
		fmt.Fprintf(w, "  %-18s %s\n", "Spender:", color.CyanString(approval.Spender))
	}
	gasLines(w, "Approval Gas:", approval.Gas, chainID, snap)
}

// ExpectedOutput prints the final "you receive" line of a route
func ExpectedOutput(w io.Writer, amountOut types.Numeric, to *types.Token) {
	symbol, decimals := OutputToken(to)
	fmt.Fprintln(w, "\n"+strings.Repeat("-", narrowWidth))
	fmt.Fprintf(w, "  %-18s %s %s\n", "Expected Output:",
		color.GreenString(format.FormatAmount(amountOut.String(), decimals)),
		color.YellowString(symbol))
	footer(w, narrowWidth)
}
