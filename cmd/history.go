package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"skip-bridge/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past bridge attempts",
	Long: `List the bridge attempts recorded on this machine, most recent
first, with the submitted transaction hashes and the final state when
tracking concluded.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum number of records to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.NewStore("")
	if err != nil {
		printError(err)
		return err
	}

	records := store.List()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	if jsonOutput {
		encoded, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(encoded))
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No bridge attempts recorded yet")
		return nil
	}

	color.Green("\n=== Bridge History ===")
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("%-20s %-24s %-24s %-14s %s\n", "DATE", "SENT", "RECEIVED", "STATE", "FIRST TX")
	fmt.Println(strings.Repeat("-", 100))
	for _, record := range records {
		sent := fmt.Sprintf("%s %s (%s)", record.Amount, record.SourceToken, record.SourceChain)
		received := fmt.Sprintf("%s (%s)", record.DestToken, record.DestChain)
		state := string(record.FinalState)
		if state == "" {
			state = "unknown"
		}
		hash := record.ID
		if len(hash) > 20 {
			hash = hash[:17] + "..."
		}
		fmt.Printf("%-20s %-24s %-24s %-14s %s\n",
			record.CreatedAt.Local().Format("2006-01-02 15:04:05"), sent, received, state, hash)
	}
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("Total: %d records (%s)\n\n", store.Count(), store.FilePath())
	return nil
}
