package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/services"
)

var scheduleInterval time.Duration

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run sync passes on a fixed interval",
	Long: `Runs one sync pass immediately, then one per interval, until
interrupted. A pass with failures leaves the watermark unchanged so the
next tick re-lists the same window.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().DurationVarP(&scheduleInterval, "interval", "i", time.Hour, "time between sync passes")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Scheduling sync every %s. Ctrl-C to stop.\n", scheduleInterval)

	err := services.NewScheduler(syncRunner, scheduleInterval).Start(ctx)
	if ctx.Err() != nil {
		// Interrupted: a clean shutdown, not a failure
		cmd.Println("Stopped.")
		return nil
	}
	return err
}
