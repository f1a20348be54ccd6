package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deadlettersCmd = &cobra.Command{
	Use:   "deadletters",
	Short: "List files abandoned after repeated failures",
	Long: `Lists files whose failure count reached the retry budget. These are
skipped by sync passes; clear the underlying problem and remove the
file's attempt record to retry it.`,
	RunE: runDeadletters,
}

func init() {
	rootCmd.AddCommand(deadlettersCmd)
}

func runDeadletters(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	dead, err := attempts.DeadLettered(cmd.Context(), maxAttempts)
	if err != nil {
		return fmt.Errorf("list dead letters: %w", err)
	}
	if len(dead) == 0 {
		cmd.Println("No dead-lettered files.")
		return nil
	}

	for _, f := range dead {
		cmd.Printf("%s %s (%d attempts)\n", f.Folder, f.Path, f.Attempts)
		if f.LastError != "" {
			cmd.Printf("    last error: %s\n", f.LastError)
		}
	}
	return nil
}
