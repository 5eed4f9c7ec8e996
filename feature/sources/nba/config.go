package nba

// Config holds configuration for the NBA schedule source.
type Config struct {
	// URL is the season schedule feed.
	URL string `mapstructure:"url" default:"https://cdn.nba.com/static/json/staticData/scheduleLeagueV2_1.json"`
	// DaysBehind keeps games that started up to this many days ago.
	DaysBehind int `mapstructure:"days_behind" default:"2"`
	// DaysAhead keeps games starting within this many days.
	DaysAhead int `mapstructure:"days_ahead" default:"21"`
	// Broadcasters are attached to every game; the feed only lists US networks.
	Broadcasters []string `mapstructure:"broadcasters" default:"beIN SPORTS 1,NBA League Pass"`
}
