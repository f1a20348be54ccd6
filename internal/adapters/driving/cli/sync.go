package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync [folder]",
	Short: "Synchronise remote folders into the vector store",
	Long: `Runs one delta-sync pass: lists remote files created after the
watermark, stages them locally, chunks and ingests them, then archives.
If a folder name is given, only that folder is synchronised and the
watermark is not advanced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	ctx := cmd.Context()

	var report *domain.RunReport
	var err error
	if len(args) > 0 {
		cmd.Printf("Synchronising folder %s...\n", args[0])
		report, err = syncRunner.RunFolder(ctx, args[0])
	} else {
		cmd.Println("Synchronising all folders...")
		report, err = syncRunner.Run(ctx)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printReport(cmd, report)
	if report.Failed() {
		return fmt.Errorf("sync completed with failures")
	}
	return nil
}

func printReport(cmd *cobra.Command, report *domain.RunReport) {
	for _, folder := range report.Folders {
		if folder.ListErr != nil {
			cmd.Printf("  %s: listing failed: %v\n", folder.Folder, folder.ListErr)
			continue
		}

		var failed, skipped, chunks int
		for _, f := range folder.Files {
			switch {
			case f.Skipped:
				skipped++
			case f.Err != nil:
				failed++
			default:
				chunks += f.Chunks
			}
		}
		cmd.Printf("  %s: %d processed (%d chunks)", folder.Folder, folder.Processed(), chunks)
		if failed > 0 {
			cmd.Printf(", %d failed", failed)
		}
		if skipped > 0 {
			cmd.Printf(", %d dead-lettered", skipped)
		}
		cmd.Println()

		for _, f := range folder.Files {
			if f.Err != nil {
				cmd.Printf("    %s failed at %s: %v\n", f.Ref.Name, f.Stage, f.Err)
			}
		}
	}

	if report.WatermarkAdvanced {
		cmd.Printf("Watermark advanced to %s.\n", domain.FormatWatermark(report.StartedAt))
	} else {
		cmd.Println("Watermark unchanged.")
	}
}
