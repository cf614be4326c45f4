package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pathfinder/pkg/display"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show the routing wallet assigned to your address",
	Long: `Look up the smart wallet the routing API assigns to your address on the
selected chain, and whether it has been deployed.

Examples:
  pathfinder wallet --wallet 0x...
  pathfinder wallet --wallet 0x... --chain 8453`,
	Args: cobra.NoArgs,
	Run:  runWallet,
}

func init() {
	rootCmd.AddCommand(walletCmd)
}

func runWallet(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	d, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer d.Close()

	if !common.IsHexAddress(d.cfg.WalletAddress) {
		printError(fmt.Errorf("a valid --wallet address is required"))
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	stop := startSpinner(" Fetching wallet...", !jsonOutput)
	wallet, err := d.api.GetWallet(ctx, d.cfg.ChainID, d.cfg.WalletAddress)
	stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(wallet)
		return
	}

	deployed := color.YellowString("not deployed")
	if wallet.IsDeployed {
		deployed = color.GreenString("deployed")
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     ROUTING WALLET")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Owner:     %s\n", d.cfg.WalletAddress)
	fmt.Printf("  Wallet:    %s\n", color.CyanString(wallet.Address))
	fmt.Printf("  Chain:     %s\n", display.ChainName(d.cfg.ChainID))
	fmt.Printf("  Status:    %s\n", deployed)
	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
