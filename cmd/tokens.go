package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listTokensCmd = &cobra.Command{
	Use:   "list-tokens",
	Short: "List tokens available for bridging",
	Long: `List the tokens the routing venue can bridge, grouped by chain.

Examples:
  skip-bridge list-tokens --chain 1
  skip-bridge list-tokens --symbol USDC`,
	RunE: runListTokens,
}

var listChainsCmd = &cobra.Command{
	Use:   "list-chains",
	Short: "List chains the venue can route through",
	RunE:  runListChains,
}

func init() {
	rootCmd.AddCommand(listTokensCmd)
	rootCmd.AddCommand(listChainsCmd)
	listTokensCmd.Flags().String("chain", "", "Only show tokens on this chain id")
	listTokensCmd.Flags().String("symbol", "", "Only show tokens with this symbol")
}

func runListTokens(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	chainFilter, _ := cmd.Flags().GetString("chain")
	symbolFilter, _ := cmd.Flags().GetString("symbol")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, _, cat, _, err := setup(ctx, jsonOutput)
	if err != nil {
		printError(err)
		return err
	}

	chains := cat.Chains()
	sort.Slice(chains, func(i, j int) bool { return chains[i].ChainID < chains[j].ChainID })

	type tokenRow struct {
		ChainID  string `json:"chain_id"`
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Denom    string `json:"denom"`
		Decimals int    `json:"decimals"`
	}
	var rows []tokenRow
	for _, chain := range chains {
		if chainFilter != "" && chain.ChainID != chainFilter {
			continue
		}
		assets := cat.Assets(chain.ChainID)
		sort.Slice(assets, func(i, j int) bool { return assets[i].Symbol < assets[j].Symbol })
		for _, asset := range assets {
			if symbolFilter != "" && !strings.EqualFold(asset.Symbol, symbolFilter) {
				continue
			}
			rows = append(rows, tokenRow{
				ChainID:  asset.ChainID,
				Symbol:   asset.Symbol,
				Name:     asset.Name,
				Denom:    asset.Denom,
				Decimals: asset.Decimals,
			})
		}
	}

	if jsonOutput {
		encoded, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(encoded))
		return nil
	}

	color.Green("\n=== Available Tokens ===")
	fmt.Println(strings.Repeat("=", 90))
	fmt.Printf("%-15s %-10s %-25s %-10s %s\n", "CHAIN", "SYMBOL", "NAME", "DECIMALS", "DENOM")
	fmt.Println(strings.Repeat("-", 90))
	for _, row := range rows {
		name := row.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		denom := row.Denom
		if len(denom) > 30 {
			denom = denom[:27] + "..."
		}
		fmt.Printf("%-15s %-10s %-25s %-10d %s\n", row.ChainID, row.Symbol, name, row.Decimals, denom)
	}
	fmt.Println(strings.Repeat("=", 90))
	fmt.Printf("Total: %d tokens\n\n", len(rows))
	return nil
}

func runListChains(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, _, cat, _, err := setup(ctx, jsonOutput)
	if err != nil {
		printError(err)
		return err
	}

	chains := cat.Chains()
	sort.Slice(chains, func(i, j int) bool { return chains[i].ChainName < chains[j].ChainName })

	if jsonOutput {
		type chainRow struct {
			ChainID   string `json:"chain_id"`
			ChainName string `json:"chain_name"`
			Family    string `json:"family"`
		}
		rows := make([]chainRow, 0, len(chains))
		for _, chain := range chains {
			rows = append(rows, chainRow{chain.ChainID, chain.ChainName, string(chain.Family)})
		}
		encoded, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(encoded))
		return nil
	}

	color.Green("\n=== Supported Chains ===")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("%-25s %-20s %s\n", "NAME", "CHAIN ID", "FAMILY")
	fmt.Println(strings.Repeat("-", 60))
	for _, chain := range chains {
		fmt.Printf("%-25s %-20s %s\n", chain.ChainName, chain.ChainID, chain.Family)
	}
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total: %d chains\n\n", len(chains))
	return nil
}
