package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"pathfinder/pkg/display"
	"pathfinder/pkg/parser"
	"pathfinder/pkg/types"
)

var (
	filterSymbol string
	filterType   string
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List tokens available on a chain",
	Long: `List the tokens the routing API knows for the selected chain.

You can filter by symbol, name or address, and by token type (base or defi).

Examples:
  pathfinder tokens
  pathfinder tokens --chain 137
  pathfinder tokens --symbol USDC
  pathfinder tokens --type defi`,
	Args: cobra.NoArgs,
	Run:  runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by symbol, name or address")
	tokensCmd.Flags().StringVar(&filterType, "type", "", "Filter by token type (base, defi)")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	d, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer d.Close()

	ctx, cancel := signalContext()
	defer cancel()

	stop := startSpinner(" Fetching supported tokens...", !jsonOutput)
	tokens, err := d.api.GetTokens(ctx, d.cfg.ChainID)
	stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Apply filters
	filtered := parser.FilterTokens(tokens, filterSymbol)
	if filterType != "" {
		filtered = lo.Filter(filtered, func(t types.Token, _ int) bool {
			return strings.EqualFold(t.Type, filterType)
		})
	}

	if jsonOutput {
		printJSON(filtered)
	} else {
		display.Tokens(os.Stdout, filtered)
	}
}
