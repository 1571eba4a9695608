package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"skip-bridge/config"
	"skip-bridge/pkg/skipclient"
	"skip-bridge/pkg/tracker"
	"skip-bridge/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [tx-hash]",
	Short: "Check the status of a tracked transfer",
	Long: `Check the venue's lifecycle state for a submitted transaction.

With --watch the command keeps polling until the transfer reaches a
terminal state.

Examples:
  skip-bridge status 0xabc... --chain-id 1
  skip-bridge status 0xabc... --chain-id 1 --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("chain-id", "", "Chain id the transaction was submitted on")
	statusCmd.Flags().BoolP("watch", "w", false, "Keep polling until the transfer completes")
	statusCmd.MarkFlagRequired("chain-id")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	txHash := args[0]
	chainID, _ := cmd.Flags().GetString("chain-id")
	watch, _ := cmd.Flags().GetBool("watch")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		return err
	}
	apiClient := skipclient.New(cfg.SkipBaseURL)

	if !watch {
		resp, err := apiClient.Status(ctx, txHash, chainID)
		if err != nil {
			printError(err)
			return err
		}
		if jsonOutput {
			encoded, _ := json.MarshalIndent(resp, "", "  ")
			fmt.Println(string(encoded))
			return nil
		}
		displayStatus(txHash, resp)
		return nil
	}

	track := tracker.New(apiClient)
	track.OnUpdate = func(snapshots []types.TransferStatusSnapshot) {
		if len(snapshots) == 0 {
			return
		}
		last := snapshots[len(snapshots)-1]
		fmt.Printf("\r%s            ", stateLabel(last.State))
	}
	track.OnError = func(err error) {
		fmt.Printf("\n%s %v\n", color.YellowString("Status polling stopped:"), err)
	}

	fmt.Printf("Watching %s on chain %s (Ctrl+C to stop)...\n", txHash, chainID)
	if err := track.Track(ctx, txHash, chainID); err != nil {
		printError(err)
		return err
	}
	track.Wait()

	snapshots := track.Snapshots()
	if len(snapshots) > 0 {
		fmt.Printf("\nFinal state: %s\n", stateLabel(snapshots[len(snapshots)-1].State))
	}
	return nil
}

func displayStatus(txHash string, resp *skipclient.StatusResponse) {
	color.Green("\n=== Transfer Status ===")
	fmt.Printf("Transaction: %s\n", txHash)
	fmt.Printf("State:       %s\n", stateLabel(resp.State))
	if len(resp.TransferSequence) > 0 {
		fmt.Printf("Hops:        %d\n", len(resp.TransferSequence))
	}
	fmt.Println()
}
