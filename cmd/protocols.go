package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"pathfinder/pkg/display"
	"pathfinder/pkg/types"
)

var allChains bool

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List protocols the router can use",
	Long: `List the DeFi protocols the routing API can route through on the selected
chain. Use --all to list every protocol regardless of chain.

Examples:
  pathfinder protocols
  pathfinder protocols --chain 42161
  pathfinder protocols --all`,
	Args: cobra.NoArgs,
	Run:  runProtocols,
}

func init() {
	rootCmd.AddCommand(protocolsCmd)

	protocolsCmd.Flags().BoolVar(&allChains, "all", false, "List protocols on every chain")
}

func runProtocols(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	d, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer d.Close()

	ctx, cancel := signalContext()
	defer cancel()

	stop := startSpinner(" Fetching protocols...", !jsonOutput)
	protocols, err := d.api.GetProtocols(ctx)
	stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !allChains {
		protocols = lo.Filter(protocols, func(p types.Protocol, _ int) bool {
			return p.SupportsChain(d.cfg.ChainID)
		})
	}

	if jsonOutput {
		printJSON(protocols)
	} else {
		display.Protocols(os.Stdout, protocols)
	}
}
