// Package pipeline orchestrates update runs.
//
// A run moves through fixed steps:
//
//	START -> CLEAN_STALE -> for each source: RUN_CONNECTOR -> INGEST -> DONE
//
// CLEAN_STALE deletes matches scheduled more than Config.StaleDays ago, once per
// run. Sources then run sequentially in tier order (official, aggregator,
// scraper, ai) and by registration order within a tier. Sequential execution keeps
// sources from racing on the same league, team and broadcaster rows.
//
// Before a source is read, its toggle (SOURCE_<NAME>_ENABLED) and required keys are
// checked; disabled or unconfigured sources are skipped without error. Each source
// runs behind a recover boundary: fetch errors, broken streams and panics are logged
// and reported, and the next source still runs. Records that fail to ingest are
// skipped one by one.
//
// Every run is stored in update_runs, its raw records can be archived to object
// storage, and its counts are exported as Prometheus metrics.
//
// # Usage
//
//	reg := pipeline.NewRegistry()
//	_ = reg.Register(pipeline.TierOfficial, nba.New(cfg.Sources.NBA))
//	p := pipeline.New(db, reg, engine, log, cfg.Pipeline, pipeline.WithToggles(store))
//	report := p.Run(ctx, pipeline.TriggerManual)
package pipeline
