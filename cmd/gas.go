package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"skip-bridge/config"
	"skip-bridge/pkg/gas"
)

var gasPricesCmd = &cobra.Command{
	Use:   "gas-prices [chain-name...]",
	Short: "Show Cosmos gas prices used for fee computation",
	Long: `Show the per-chain Cosmos gas price quotes the fee computation uses,
fetched from the pricing endpoint with the static table as fallback.

Examples:
  skip-bridge gas-prices cosmos osmosis noble`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGasPrices,
}

func init() {
	rootCmd.AddCommand(gasPricesCmd)
}

func runGasPrices(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		return err
	}
	pricer := gas.NewCosmosPricer(cfg.GasAPIBaseURL)

	color.Green("\n=== Cosmos Gas Prices ===")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("%-15s %-18s %-12s %s\n", "CHAIN", "GAS PRICE", "MULTIPLIER", "FEE DENOM")
	fmt.Println(strings.Repeat("-", 60))
	for _, chainName := range args {
		price, err := pricer.GasPrice(ctx, chainName)
		if err != nil {
			fmt.Printf("%-15s %v\n", chainName, err)
			continue
		}
		denom, err := gas.FeeDenom(chainName)
		if err != nil {
			denom = "-"
		}
		fmt.Printf("%-15s %-18g %-12g %s\n", strings.ToLower(chainName), price.GasPrice, price.GasLimitMultiplier, denom)
	}
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	return nil
}
