package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cleanCmd removes matches older than the stale window.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete matches past the stale window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		d, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer d.log.Sync()

		now := time.Now()
		deleted, err := d.pipeline.CleanStale(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to clean stale matches: %w", err)
		}
		d.log.Info("Stale matches removed",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", d.pipeline.StaleCutoff(now)),
		)
		fmt.Printf("Deleted %d stale matches\n", deleted)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
}
