package sources

import (
	"fmt"
	"time"

	"courtside/core/pipeline"
	"courtside/feature/sources/ai"
	"courtside/feature/sources/balldontlie"
	"courtside/feature/sources/euroleague"
	"courtside/feature/sources/fixturefile"
	"courtside/feature/sources/httpclient"
	"courtside/feature/sources/nba"
	"courtside/feature/sources/tvguide"

	"go.uber.org/zap"
)

type entry struct {
	tier pipeline.Tier
	src  pipeline.Source
}

// Register adds every connector to reg in priority order. Connectors that
// need API keys resolve them through secrets when they run.
func Register(reg *pipeline.Registry, cfg Config, secrets pipeline.Secrets, log *zap.Logger) error {
	opts := httpclient.Options{
		Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.MaxRetries,
	}
	client := httpclient.New(opts)

	bdlOpts := opts
	bdlOpts.RequestsPerMinute = cfg.BallDontLie.RequestsPerMinute

	entries := []entry{
		{pipeline.TierOfficial, nba.New(cfg.NBA, client)},
		{pipeline.TierOfficial, euroleague.New(cfg.EuroLeague, client)},
		{pipeline.TierAggregator, balldontlie.New(cfg.BallDontLie, httpclient.New(bdlOpts), secrets)},
		{pipeline.TierScraper, tvguide.New(cfg.TVGuide, client)},
	}
	if cfg.FixtureFile.Path != "" {
		entries = append(entries, entry{pipeline.TierScraper, fixturefile.New(cfg.FixtureFile)})
	} else {
		log.Debug("Fixture file source not configured")
	}
	entries = append(entries, entry{pipeline.TierAI, ai.New(cfg.AI, client, secrets)})

	for _, e := range entries {
		if err := reg.Register(e.tier, e.src); err != nil {
			return fmt.Errorf("register %s: %w", e.src.Name(), err)
		}
	}
	log.Debug("Sources registered", zap.Int("count", reg.Len()))
	return nil
}

// Keys returns the API keys found in configuration, by settings key. They
// serve as fallbacks for keys the settings table does not hold.
func Keys(cfg Config) map[string]string {
	keys := map[string]string{}
	if cfg.BallDontLie.APIKey != "" {
		keys[balldontlie.APIKey] = cfg.BallDontLie.APIKey
	}
	if cfg.AI.APIKey != "" {
		keys[ai.APIKey] = cfg.AI.APIKey
	}
	return keys
}
