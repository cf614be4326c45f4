package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "A CLI for discovering swap routes across DeFi protocols",
	Long: `pathfinder is a command-line tool that finds swap routes through the Enso
routing API. Pick a network, a wallet, two tokens and an amount to preview a
quote or discover the full route with its gas cost and price impact.

Examples:
  pathfinder networks
  pathfinder tokens --chain 1 --symbol USDC
  pathfinder quote 1 ETH to USDC --wallet 0x...
  pathfinder route 100 USDC to DAI --wallet 0x... --slippage 0.3
  pathfinder route 100 USDC to DAI --wallet 0x... --watch`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.pathfinder.yaml)")
	rootCmd.PersistentFlags().Uint64("chain", 0, "Chain ID (defaults to chain_id from config, or 1)")
	rootCmd.PersistentFlags().String("wallet", "", "Wallet address used as the sender")
	rootCmd.PersistentFlags().String("rpc", "", "RPC URL for the selected chain (gas price and block height)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
