package euroleague

// Config holds configuration for the Euroleague Basketball games API.
type Config struct {
	BaseURL string `mapstructure:"base_url" default:"https://api-live.euroleague.net"`
	// Season is the season start year, e.g. 2025 for 2025-26.
	Season int `mapstructure:"season" default:"2025"`
	// Competitions lists competition codes: E (EuroLeague) and U (EuroCup).
	Competitions []string `mapstructure:"competitions" default:"E,U"`
	DaysBehind   int      `mapstructure:"days_behind" default:"2"`
	DaysAhead    int      `mapstructure:"days_ahead" default:"21"`
	Broadcasters []string `mapstructure:"broadcasters" default:"Skweek"`
}
