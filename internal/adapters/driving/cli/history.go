package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent retrieval queries",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	entries, err := queryLog.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("read query log: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No queries recorded.")
		return nil
	}

	for _, e := range entries {
		collection := e.Collection
		if collection == "" {
			collection = "-"
		}
		cmd.Printf("%s  %-20s %q (%d chars, %d sources, %s)\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), collection, e.Query,
			e.ContextChars, e.SourceCount, e.Elapsed)
	}
	return nil
}
