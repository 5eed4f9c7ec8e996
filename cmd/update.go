package cmd

import (
	"context"
	"fmt"

	"courtside/core/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var updateJSON bool

// updateCmd runs one update synchronously and prints its report.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one update across every enabled source",
	Long: `Removes stale matches, then fetches every enabled source in priority order
(official, aggregator, scraper, AI) and reconciles the records into the schedule.

A failing source is reported and the run continues with the next one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		d, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer d.log.Sync()

		d.log.Info("Starting update run", zap.Int("sources", d.pipeline.Registry().Len()))
		report := d.pipeline.Run(ctx, pipeline.TriggerCLI)

		if updateJSON {
			if err := printJSON(report); err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			return nil
		}
		printReport(report)
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateJSON, "json", false, "Print the run report as JSON")
	RootCmd.AddCommand(updateCmd)
}
