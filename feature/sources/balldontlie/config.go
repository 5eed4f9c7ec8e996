package balldontlie

// Config holds configuration for the balldontlie games API.
type Config struct {
	// APIKey seeds BALLDONTLIE_API_KEY when the settings table has no value.
	APIKey            string   `mapstructure:"api_key" env:"BALLDONTLIE_API_KEY" default:""`
	BaseURL           string   `mapstructure:"base_url" default:"https://api.balldontlie.io/v1"`
	PerPage           int      `mapstructure:"per_page" default:"100"`
	RequestsPerMinute int      `mapstructure:"requests_per_minute" default:"5"`
	DaysBehind        int      `mapstructure:"days_behind" default:"1"`
	DaysAhead         int      `mapstructure:"days_ahead" default:"7"`
	Broadcasters      []string `mapstructure:"broadcasters" default:"NBA League Pass"`
}
