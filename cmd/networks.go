package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"pathfinder/pkg/display"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List networks supported by the routing API",
	Long: `List every network the routing API supports. Networks marked with * have
gas pricing and block timing available locally.

Examples:
  pathfinder networks
  pathfinder networks --json`,
	Args: cobra.NoArgs,
	Run:  runNetworks,
}

func init() {
	rootCmd.AddCommand(networksCmd)
}

func runNetworks(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	d, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer d.Close()

	ctx, cancel := signalContext()
	defer cancel()

	stop := startSpinner(" Fetching networks...", !jsonOutput)
	networks, err := d.api.GetNetworks(ctx)
	stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(networks)
	} else {
		display.Networks(os.Stdout, networks)
	}
}
