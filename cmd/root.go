package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skip-bridge",
	Short: "A CLI for cross-chain swaps and bridges over the Skip API",
	Long: `skip-bridge moves value between chains through the Skip routing venue.
It fetches a route, walks the required signing steps per chain family
(EVM, Cosmos, Solana), handles ERC-20 approvals, and tracks the transfer
across relay networks until it completes.

Examples:
  skip-bridge bridge 10 USDC to USDC --from-chain 1 --to-chain noble-1
  skip-bridge quote 0.5 ETH to ATOM --from-chain 1 --to-chain cosmoshub-4
  skip-bridge status <tx-hash> --chain-id 1 --watch
  skip-bridge list-tokens --chain 1`,
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
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
