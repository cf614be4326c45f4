package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pathfinder/pkg/display"
	"pathfinder/pkg/format"
	"pathfinder/pkg/pathfinder"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Preview the expected output of a swap",
	Long: `Ask the routing API for a quote: the expected output, gas and price impact,
without building a transaction. Tokens are symbols or 0x addresses on the
selected chain.

Examples:
  pathfinder quote 1 ETH to USDC --wallet 0x...
  pathfinder quote 250 USDC to DAI --chain 137 --wallet 0x...
  pathfinder quote 1 0xA0b8...eB48 to 0x6B17...1d0F --json
  pathfinder quote 100 USDC to DAI --wallet 0x... --reverse`,
	Args: cobra.MinimumNArgs(4),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolP("reverse", "r", false, "Swap the source and destination tokens")
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	d, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer d.Close()

	ctx, cancel := signalContext()
	defer cancel()

	p := pathfinder.New(d.api, d.logger)

	reverse, _ := cmd.Flags().GetBool("reverse")
	stop := startSpinner(" Resolving tokens...", !jsonOutput)
	session, err := d.session(ctx, p, args, reverse)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	feeds := d.feeds(ctx)

	stop = startSpinner(" Fetching quote...", !jsonOutput)
	var (
		view pathfinder.View
		snap pathfinder.Snapshot
		g    errgroup.Group
	)
	g.Go(func() error {
		view = p.Evaluate(ctx, session)
		return nil
	})
	g.Go(func() error {
		snap = feeds.Refresh(ctx)
		return nil
	})
	_ = g.Wait()
	stop()

	if view.Quote.IsRejected() {
		printError(fmt.Errorf("failed to get quote: %w", view.Quote.Err))
		os.Exit(1)
	}
	if !view.Quote.IsResolved() || view.Quote.Data == nil {
		printError(fmt.Errorf("no quote available for these inputs"))
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"chain_id":   session.ChainID(),
			"from_token": session.From(),
			"to_token":   session.To(),
			"amount_in":  session.Amount(),
			"quote":      view.Quote.Data,
			"gas":        format.FormatGas(view.Quote.Data.Gas.String(), session.ChainID(), snap.GasPrice, snap.USDPrice),
		}
		if view.NeedsApproval() {
			output["approval"] = view.Approval.Data
		}
		printJSON(output)
		return
	}

	fmt.Printf("\n  %s %s -> %s\n",
		session.Amount(),
		color.YellowString(display.TokenLabel(session.From(), session.ChainID())),
		color.YellowString(display.TokenLabel(session.To(), session.ChainID())))

	display.QuotePreview(os.Stdout, view.Quote.Data, session.To(), session.ChainID(), snap)

	switch {
	case view.NeedsApproval():
		display.Approval(os.Stdout, view.Approval.Data, session.ChainID(), snap)
	case view.Approval.IsRejected():
		display.Error(os.Stdout, "approval", view.Approval.Err)
	}

	fmt.Println("\nTo build the full route, run:")
	color.Cyan("  pathfinder route %s %s to %s\n", session.Amount(),
		display.TokenLabel(session.From(), session.ChainID()),
		display.TokenLabel(session.To(), session.ChainID()))
}
