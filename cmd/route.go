package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pathfinder/pkg/display"
	"pathfinder/pkg/format"
	"pathfinder/pkg/pathfinder"
	"pathfinder/pkg/types"
)

var watchRoute bool

var routeCmd = &cobra.Command{
	Use:   "route <amount> <source-token> to <dest-token>",
	Short: "Find the best route for a swap",
	Long: `Find the best route for a swap through the routing API and show each
protocol step, the expected output, gas cost, price impact and whether the
source token needs approval.

Slippage is a percentage between 0 and 100 (default 0.5).

Examples:
  pathfinder route 1 ETH to USDC --wallet 0x...
  pathfinder route 100 USDC to DAI --wallet 0x... --slippage 0.3
  pathfinder route 100 USDC to DAI --wallet 0x... --watch`,
	Args: cobra.MinimumNArgs(4),
	Run:  runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().String("slippage", "", "Slippage tolerance in percent (default 0.5)")
	routeCmd.Flags().BoolVarP(&watchRoute, "watch", "w", false, "Keep the gas cost and route age up to date")
	routeCmd.Flags().BoolP("reverse", "r", false, "Swap the source and destination tokens")
}

func runRoute(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if watchRoute && jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

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
	session.FindRoute()

	feeds := d.feeds(ctx)

	stop = startSpinner(" Finding route...", !jsonOutput)
	var (
		catalog pathfinder.Catalog
		view    pathfinder.View
		snap    pathfinder.Snapshot
		g       errgroup.Group
	)
	g.Go(func() error {
		var err error
		catalog, err = p.LoadCatalog(ctx, session.ChainID())
		if err != nil {
			d.logger.Warn("catalog incomplete", zap.Error(err))
		}
		return nil
	})
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

	if view.Route.IsRejected() {
		printError(fmt.Errorf("failed to find route: %w", view.Route.Err))
		os.Exit(1)
	}
	if !view.Route.IsResolved() || view.Route.Data == nil {
		printError(fmt.Errorf("no route available for these inputs"))
		os.Exit(1)
	}

	route := view.Route.Data

	if jsonOutput {
		output := map[string]interface{}{
			"chain_id":     session.ChainID(),
			"from_token":   session.From(),
			"to_token":     session.To(),
			"amount_in":    session.Amount(),
			"slippage_bps": slippageBPS(session),
			"route":        route,
			"gas":          format.FormatGas(route.Gas.String(), session.ChainID(), snap.GasPrice, snap.USDPrice),
			"created_at":   format.FormatCreatedAt(route.CreatedAt, session.ChainID(), snap.CurrentBlock),
		}
		if view.NeedsApproval() {
			output["approval"] = view.Approval.Data
		}
		printJSON(output)
		return
	}

	renderRoute(session, catalog.Protocols.Data, view, snap)

	if !watchRoute {
		return
	}

	fmt.Printf("\nWatching gas cost and route age on %s. Press Ctrl+C to stop.\n",
		color.CyanString(display.ChainName(session.ChainID())))

	watchFeeds(ctx, feeds, snap, func(next pathfinder.Snapshot) {
		display.RouteSummary(os.Stdout, route, session.To(), session.ChainID(), next)
	})

	printSuccess("Stopped watching.")
}

func renderRoute(session *pathfinder.Session, protocols []types.Protocol, view pathfinder.View, snap pathfinder.Snapshot) {
	route := view.Route.Data
	chainID := session.ChainID()

	display.RouteSummary(os.Stdout, route, session.To(), chainID, snap)
	display.RouteSteps(os.Stdout, route.Route, protocols, chainID)

	switch {
	case view.NeedsApproval():
		display.Approval(os.Stdout, view.Approval.Data, chainID, snap)
	case view.Approval.IsRejected():
		display.Error(os.Stdout, "approval", view.Approval.Err)
	}

	display.ExpectedOutput(os.Stdout, route.AmountOut, session.To())
}

// watchFeeds calls render whenever the live values change, until ctx is done
func watchFeeds(ctx context.Context, feeds *pathfinder.Feeds, last pathfinder.Snapshot, render func(pathfinder.Snapshot)) {
	feeds.Watch(ctx, func(next pathfinder.Snapshot) {
		if next.Equal(last) {
			return
		}
		last = next
		render(next)
	})
	<-ctx.Done()
}

func slippageBPS(s *pathfinder.Session) string {
	bps, err := s.SlippageBasisPoints()
	if err != nil {
		return ""
	}
	return bps
}
