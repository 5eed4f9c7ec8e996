package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"courtside/core/config"
	"courtside/core/database"
	"courtside/core/logger"
	"courtside/core/storage"
	"courtside/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Run every integrity check",
	Long:  `Checks the database schema against the models, the stored data against the schedule's consistency rules and, when enabled, the raw record archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, logg, err := integrityService()
		if err != nil {
			return err
		}
		defer logg.Sync()
		return printJSON(svc.Report(ctx))
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Compare the database tables with the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := integrityService()
		if err != nil {
			return err
		}
		defer logg.Sync()

		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if !report.Matched {
			logg.Warn("Schema mismatch, run the migrate command", zap.Strings("errors", report.Errors))
		}
		return printJSON(report)
	},
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Count rows that break consistency rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logg, err := integrityService()
		if err != nil {
			return err
		}
		defer logg.Sync()

		report, err := svc.CheckData(context.Background())
		if err != nil {
			return fmt.Errorf("data check failed: %w", err)
		}
		fmt.Printf("Orphan matches:        %d\n", report.OrphanMatches)
		fmt.Printf("Same team matches:     %d\n", report.SameTeamMatches)
		fmt.Printf("Scored scheduled:      %d\n", report.ScoredScheduled)
		fmt.Printf("Orphan broadcasts:     %d\n", report.OrphanBroadcasts)
		fmt.Printf("Free flag mismatches:  %d\n", report.FreeFlagMismatches)
		if report.Clean {
			fmt.Println("✓ Data is consistent")
		}
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Check (and optionally create) the raw record archive bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svc, logg, err := integrityService()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if fixFlag {
			if err := svc.FixArchive(ctx); err != nil {
				return fmt.Errorf("failed to fix archive: %w", err)
			}
		}
		report, err := svc.CheckArchive(ctx)
		if err != nil {
			return fmt.Errorf("archive check failed: %w", err)
		}
		return printJSON(report)
	},
}

// integrityService connects without migrating so the schema check sees the
// tables as they are.
func integrityService() (*integrity.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection required: %w", err)
	}

	var client storage.Client
	if cfg.Storage.Enabled {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}
	return integrity.NewService(db, client, cfg.Storage.Bucket, logg), logg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	archiveCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when it is missing")

	integrityCmd.AddCommand(schemaCmd)
	integrityCmd.AddCommand(dataCmd)
	integrityCmd.AddCommand(archiveCmd)
	RootCmd.AddCommand(integrityCmd)
}
