package cmd

import (
	"context"
	"fmt"
	"time"

	"courtside/core/config"
	"courtside/core/database"
	"courtside/core/logger"
	"courtside/core/metrics"
	"courtside/core/models"
	"courtside/core/pipeline"
	"courtside/core/reconcile"
	"courtside/core/settings"
	"courtside/core/storage"
	"courtside/feature/sources"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps bundles everything a command needs to drive the pipeline.
type deps struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	settings *settings.Store
	engine   *reconcile.Engine
	pipeline *pipeline.Pipeline
	metrics  *metrics.Collector
	// store is nil when the archive is disabled.
	store storage.Client
	loc   *time.Location
}

// bootstrap loads configuration, connects to the database, migrates it and
// wires the pipeline with every connector.
func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	if err := database.Migrate(db, models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	engine := reconcile.NewEngine(db, logg)
	if _, err := engine.SeedBroadcasters(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed broadcasters: %w", err)
	}

	store := settings.New(db, sources.Keys(cfg.Sources))
	registry := pipeline.NewRegistry()
	if err := sources.Register(registry, cfg.Sources, store, logg); err != nil {
		return nil, fmt.Errorf("failed to register sources: %w", err)
	}

	collector := metrics.New()
	opts := []pipeline.Option{
		pipeline.WithToggles(store),
		pipeline.WithSecrets(store),
		pipeline.WithRecorder(collector),
	}

	var client storage.Client
	if cfg.Storage.Enabled {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		archive := storage.NewArchive(client, cfg.Storage.Bucket)
		if err := archive.EnsureBucket(ctx); err != nil {
			logg.Warn("Archive bucket unavailable, raw records will not be archived",
				zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		} else {
			opts = append(opts, pipeline.WithArchive(archive))
		}
	}

	loc, err := time.LoadLocation(cfg.Pipeline.Timezone)
	if err != nil {
		logg.Warn("Unknown timezone, falling back to UTC", zap.String("timezone", cfg.Pipeline.Timezone))
		loc = time.UTC
	}

	return &deps{
		cfg:      cfg,
		log:      logg,
		db:       db,
		settings: store,
		engine:   engine,
		pipeline: pipeline.New(db, registry, engine, logg, cfg.Pipeline, opts...),
		metrics:  collector,
		store:    client,
		loc:      loc,
	}, nil
}

// printReport writes a human readable run summary to stdout.
func printReport(r pipeline.Report) {
	fmt.Printf("\nRun %s (%s) finished in %s\n", r.RunID, r.Trigger, r.Elapsed().Round(time.Millisecond))
	fmt.Printf("  Stale matches removed: %d\n", r.Stale)
	for _, s := range r.Sources {
		switch {
		case s.Disabled:
			fmt.Printf("  %-16s disabled\n", s.Name)
		case len(s.Missing) > 0:
			fmt.Printf("  %-16s skipped (missing %v)\n", s.Name, s.Missing)
		case s.Failed:
			fmt.Printf("  %-16s failed: %s (created %d, updated %d)\n", s.Name, s.Error, s.Created, s.Updated)
		default:
			fmt.Printf("  %-16s created %d, updated %d, skipped %d\n", s.Name, s.Created, s.Updated, s.Skipped)
		}
	}
	fmt.Printf("  Total: %d\n", r.Total)
}
