// Package sources wires the match connectors into a pipeline registry.
//
// Connectors run in tier order:
//
//   - official: nba, euroleague
//   - aggregator: balldontlie
//   - scraper: tvguide, fixturefile (only when a path is configured)
//   - ai: ai
//
// Each connector lives in its own sub-package and only yields reconcile.RawMatch
// values; resolution, upserts and broadcaster links are handled by the pipeline.
package sources
