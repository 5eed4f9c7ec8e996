package cmd

import (
	"context"
	"fmt"
	"strings"

	"courtside/feature/admin"

	"github.com/spf13/cobra"
)

// sourcesCmd lists the registered connectors.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List sources in run order with their enabled state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, done, err := adminService(ctx)
		if err != nil {
			return err
		}
		defer done()

		list, err := svc.Sources(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}

		fmt.Printf("%-16s %-18s %-11s %-8s %s\n", "NAME", "PREFIX", "TIER", "ENABLED", "REQUIRES")
		for _, s := range list {
			fmt.Printf("%-16s %-18s %-11s %-8t %s\n", s.Name, s.Prefix, s.Tier, s.Enabled, strings.Join(s.Requires, ","))
		}
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleSource(args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleSource(args[0], false)
	},
}

func toggleSource(name string, enabled bool) error {
	ctx := context.Background()
	svc, done, err := adminService(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := svc.SetSourceEnabled(ctx, name, enabled); err != nil {
		return fmt.Errorf("failed to toggle %s: %w", name, err)
	}
	fmt.Printf("Source %s enabled=%t\n", name, enabled)
	return nil
}

func adminService(ctx context.Context) (*admin.Service, func(), error) {
	d, err := bootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}
	return admin.NewService(d.pipeline, d.settings, d.log), func() { _ = d.log.Sync() }, nil
}

func init() {
	sourcesCmd.AddCommand(enableCmd)
	sourcesCmd.AddCommand(disableCmd)
	RootCmd.AddCommand(sourcesCmd)
}
