// Package config loads the application configuration.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (godotenv). Defaults come from struct tags, so every setting is
// documented next to the field it fills.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, admin API key, CORS origins
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Log: level and encoding
//   - Storage: MinIO/S3 archive of raw source records
//   - Pipeline: stale window, cron schedule, timezone, per-source timeout
//   - Sources: connector endpoints, windows and API keys
//
// Nested keys map to environment variables by joining with underscores, e.g.
// PIPELINE_STALE_DAYS or SOURCES_BALLDONTLIE_API_KEY. API keys also accept their
// short names (BALLDONTLIE_API_KEY, GEMINI_API_KEY).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
