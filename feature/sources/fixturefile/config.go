package fixturefile

// Config holds configuration for the local fixture file source.
type Config struct {
	// Path to a JSON array of matches. The source is not registered when empty.
	Path string `mapstructure:"path" default:""`
	// Broadcasters replace the file's lists instead of merging into them.
	Replace bool `mapstructure:"replace" default:"false"`
}
