package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the admin API.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowOrigins is the comma separated CORS allow-list for the read API.
	AllowOrigins string `mapstructure:"allow_origins" default:"*"`
	// ReadTimeoutSeconds bounds how long a request may take to be read.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"15"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// AdminEnabled reports whether admin routes can be served.
// Without an API key they are never mounted.
func (c Config) AdminEnabled() bool {
	return strings.TrimSpace(c.ApiKey) != ""
}
