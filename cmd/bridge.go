package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"skip-bridge/pkg/amount"
	"skip-bridge/pkg/catalog"
	"skip-bridge/pkg/coordinator"
	"skip-bridge/pkg/faults"
	"skip-bridge/pkg/history"
	"skip-bridge/pkg/parser"
	"skip-bridge/pkg/quote"
	"skip-bridge/pkg/signer"
	"skip-bridge/pkg/tracker"
	"skip-bridge/pkg/types"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge [amount] [token] to [token]",
	Short: "Bridge tokens between chains",
	Long: `Bridge tokens from one chain to another through the routing venue.

The command fetches a route, asks for confirmation, signs and submits the
required transactions in order (EVM first, then Cosmos, then Solana) and
tracks the transfer until it completes.

Examples:
  skip-bridge bridge 10 USDC to USDC --from-chain 1 --to-chain noble-1
  skip-bridge bridge 0.5 ETH to ATOM --from-chain 1 --to-chain cosmoshub-4 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
	bridgeCmd.Flags().String("from-chain", "", "Source chain id (e.g. 1, cosmoshub-4, solana)")
	bridgeCmd.Flags().String("to-chain", "", "Destination chain id")
	bridgeCmd.Flags().BoolP("yes", "y", false, "Approve every signing prompt without asking")
	bridgeCmd.MarkFlagRequired("from-chain")
	bridgeCmd.MarkFlagRequired("to-chain")
}

func runBridge(cmd *cobra.Command, args []string) error {
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
	autoConfirm, _ := cmd.Flags().GetBool("yes")

	cfg, apiClient, cat, collector, err := setup(ctx, false)
	if err != nil {
		printError(err)
		return err
	}
	defer faults.Flush()
	if cfg.AutoConfirm {
		autoConfirm = true
	}

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

	if !autoConfirm && !promptYesNo(fmt.Sprintf("Bridge %s %s from %s to %s?",
		req.Amount, source.Symbol, chainLabel(cat, source.ChainID), chainLabel(cat, dest.ChainID))) {
		fmt.Println("Bridge cancelled")
		return nil
	}

	registry, book, guards, err := buildSigners(cfg, cat)
	if err != nil {
		printError(err)
		return err
	}

	track := tracker.New(apiClient)
	track.OnUpdate = func(snapshots []types.TransferStatusSnapshot) {
		displayProgress(snapshots, len(route.ChainIDs))
	}
	track.OnError = func(err error) {
		fmt.Printf("\n%s %v\n", color.YellowString("Status polling stopped:"), err)
	}

	gate := newTerminalGate(autoConfirm)
	coord := coordinator.New(apiClient, cat, book, registry, guards, gate, track, collector)

	fmt.Println()
	result, err := coord.Execute(ctx, route)
	for _, tx := range result.Submitted {
		fmt.Printf("%s %s (chain %s)\n", color.GreenString("Submitted:"), tx.Hash, tx.ChainID)
	}

	var recordID string
	if store, storeErr := history.NewStore(""); storeErr == nil && len(result.Submitted) > 0 {
		recordID = result.Submitted[0].Hash
		record := &history.Record{
			ID:          recordID,
			CreatedAt:   time.Now().UTC(),
			Amount:      req.Amount,
			SourceToken: req.SourceToken,
			DestToken:   req.DestToken,
			SourceChain: req.SourceChain,
			DestChain:   req.DestChain,
			Submitted:   result.Submitted,
		}
		if addErr := store.Add(record); addErr != nil {
			fmt.Printf("%s %v\n", color.YellowString("Could not record history:"), addErr)
			recordID = ""
		}
	}

	if err != nil {
		if signer.IsUserRejection(err) {
			fmt.Println(color.YellowString("\nBridge stopped: transaction rejected"))
			return nil
		}
		printError(err)
		return err
	}

	fmt.Println("\nWaiting for the transfer to complete (Ctrl+C to stop watching)...")
	track.Wait()

	if state, ok := track.Outcome(len(route.ChainIDs)); ok {
		if recordID != "" {
			if store, storeErr := history.NewStore(""); storeErr == nil {
				store.SetFinalState(recordID, state)
			}
		}
		fmt.Println()
		if state == types.StateCompletedSuccess {
			color.Green("Bridge completed successfully!")
		} else {
			color.Red("Bridge finished with state %s", state)
		}
	} else if ctx.Err() != nil {
		fmt.Println("\nStopped watching. Check later with:")
		if len(result.Submitted) > 0 {
			last := result.Submitted[len(result.Submitted)-1]
			fmt.Printf("  skip-bridge status %s --chain-id %s\n", last.Hash, last.ChainID)
		}
	}
	return nil
}

// fetchRoute runs the quote service with a spinner and renders no-route
// failures with the venue's message verbatim.
func fetchRoute(ctx context.Context, venue quote.RouteFetcher, cat *catalog.Catalog, collector faults.Collector, source, dest catalog.Asset, amountIn string) (*types.Route, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Finding the best route..."
	s.Start()

	svc := quote.NewService(venue, nil, cat, collector)
	route, err := svc.GetRoute(ctx, source, dest, amountIn)
	s.Stop()
	if err != nil {
		var notFound *quote.RouteNotFoundError
		if errors.As(err, &notFound) {
			fmt.Printf("\n%s %s\n\n", color.YellowString("No route available:"), notFound.Message)
			return nil, err
		}
		printError(err)
		return nil, err
	}
	return route, nil
}

func displayRoute(cat *catalog.Catalog, route *types.Route, source, dest catalog.Asset) {
	color.Green("\n=== Route Found ===")
	fmt.Println(strings.Repeat("=", 60))

	in, _ := amount.FromMinorUnits(route.AmountIn, source.Decimals)
	out, _ := amount.FromMinorUnits(route.AmountOut, dest.Decimals)
	fmt.Printf("Send:     %s %s on %s\n", trimZeros(in), source.Symbol, chainLabel(cat, source.ChainID))
	fmt.Printf("Receive:  %s %s on %s\n", trimZeros(out), dest.Symbol, chainLabel(cat, dest.ChainID))
	if route.USDAmountIn != "" && route.USDAmountOut != "" {
		fmt.Printf("USD:      $%s -> $%s\n", route.USDAmountIn, route.USDAmountOut)
	}

	if len(route.ChainIDs) > 1 {
		hops := make([]string, 0, len(route.ChainIDs))
		for _, chainID := range route.ChainIDs {
			hops = append(hops, chainLabel(cat, chainID))
		}
		fmt.Printf("Path:     %s\n", strings.Join(hops, " -> "))
	}
	fmt.Printf("Signatures required: %d\n", route.TxsRequired)

	for _, fee := range route.EstimatedFees {
		fmt.Printf("Fee:      %s on %s ($%s)\n", fee.Amount, chainLabel(cat, fee.ChainID), fee.USDAmount)
	}
	if route.Warning != nil {
		fmt.Printf("\n%s %s\n", color.YellowString("Warning:"), route.Warning.Message)
	}
	fmt.Println(strings.Repeat("=", 60))
}

// displayProgress rewrites a one-line progress summary after every poll.
func displayProgress(snapshots []types.TransferStatusSnapshot, numChainIDs int) {
	if len(snapshots) == 0 {
		return
	}
	last := snapshots[len(snapshots)-1]
	fmt.Printf("\r[%d/%d] %s            ", len(snapshots), numChainIDs-1, stateLabel(last.State))
}

func stateLabel(state types.TxState) string {
	switch state {
	case types.StateCompletedSuccess:
		return color.GreenString(string(state))
	case types.StateCompletedError, types.StateAbandoned, types.StatePendingError:
		return color.RedString(string(state))
	default:
		return color.YellowString(string(state))
	}
}

func chainLabel(cat *catalog.Catalog, chainID string) string {
	if name, err := cat.ChainName(chainID); err == nil && name != "" {
		return fmt.Sprintf("%s (%s)", name, chainID)
	}
	return chainID
}

func trimZeros(value string) string {
	if !strings.Contains(value, ".") {
		return value
	}
	value = strings.TrimRight(value, "0")
	return strings.TrimSuffix(value, ".")
}

func promptYesNo(question string) bool {
	fmt.Printf("\n%s (y/N): ", question)
	var response string
	fmt.Scanln(&response)
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
