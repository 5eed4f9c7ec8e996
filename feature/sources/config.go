package sources

import (
	"courtside/feature/sources/ai"
	"courtside/feature/sources/balldontlie"
	"courtside/feature/sources/euroleague"
	"courtside/feature/sources/fixturefile"
	"courtside/feature/sources/nba"
	"courtside/feature/sources/tvguide"
)

// Config holds configuration for every source connector.
type Config struct {
	// TimeoutSeconds bounds a single HTTP attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of retries after a failed attempt.
	MaxRetries int `mapstructure:"max_retries" default:"3"`

	NBA         nba.Config         `mapstructure:"nba"`
	EuroLeague  euroleague.Config  `mapstructure:"euroleague"`
	BallDontLie balldontlie.Config `mapstructure:"balldontlie"`
	TVGuide     tvguide.Config     `mapstructure:"tvguide"`
	AI          ai.Config          `mapstructure:"ai"`
	FixtureFile fixturefile.Config `mapstructure:"fixture_file"`
}
