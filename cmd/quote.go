package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"skip-bridge/pkg/amount"
	"skip-bridge/pkg/faults"
	"skip-bridge/pkg/parser"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [amount] [token] to [token]",
	Short: "Fetch a route quote without executing it",
	Long: `Fetch a quote for a cross-chain transfer and print the route, the
expected output amount and the estimated fees. Nothing is signed or
submitted.

Examples:
  skip-bridge quote 10 USDC to USDC --from-chain 1 --to-chain noble-1
  skip-bridge quote 0.5 ETH to ATOM --from-chain 1 --to-chain cosmoshub-4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().String("from-chain", "", "Source chain id (e.g. 1, cosmoshub-4, solana)")
	quoteCmd.Flags().String("to-chain", "", "Destination chain id")
	quoteCmd.MarkFlagRequired("from-chain")
	quoteCmd.MarkFlagRequired("to-chain")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req, err := parser.ParseBridgeCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		return err
	}
	req.SourceChain, _ = cmd.Flags().GetString("from-chain")
	req.DestChain, _ = cmd.Flags().GetString("to-chain")
	if err := parser.ValidateBridgeRequest(req); err != nil {
		printError(err)
		return err
	}

	_, apiClient, cat, collector, err := setup(ctx, false)
	if err != nil {
		printError(err)
		return err
	}
	defer faults.Flush()

	source, err := cat.FindAssetBySymbol(req.SourceChain, req.SourceToken)
	if err != nil {
		printError(err)
		return err
	}
	dest, err := cat.FindAssetBySymbol(req.DestChain, req.DestToken)
	if err != nil {
		printError(err)
		return err
	}

	amountIn, err := amount.ToMinorUnits(req.Amount, source.Decimals)
	if err != nil {
		printError(err)
		return err
	}

	route, err := fetchRoute(ctx, apiClient, cat, collector, source, dest, amountIn)
	if err != nil {
		return err
	}

	displayRoute(cat, route, source, dest)
	return nil
}
