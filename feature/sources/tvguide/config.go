package tvguide

// Config holds configuration for the TV guide scraper.
type Config struct {
	URL string `mapstructure:"url" default:"https://www.programme-tv.net/sport/basket/"`
	// Timezone is the zone the guide prints its times in.
	Timezone string `mapstructure:"timezone" default:"Europe/Paris"`
}
