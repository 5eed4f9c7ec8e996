package cmd

import (
	"context"
	"fmt"

	"courtside/core/config"
	"courtside/core/database"
	"courtside/core/logger"
	"courtside/core/models"
	"courtside/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the schema and seeds the broadcaster catalog.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		if err := database.Migrate(db, models.All()...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		seeded, err := reconcile.NewEngine(db, logg).SeedBroadcasters(context.Background())
		if err != nil {
			return fmt.Errorf("failed to seed broadcasters: %w", err)
		}

		logg.Info("Database migrated", zap.String("driver", cfg.Database.Driver), zap.Int("broadcasters", seeded))
		fmt.Printf("Migrated %d tables, %d catalog broadcasters present\n", len(models.All()), seeded)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
