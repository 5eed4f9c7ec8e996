package pipeline

// Config holds configuration for update runs.
type Config struct {
	// StaleDays is the age in days after which a match is evicted.
	StaleDays int `mapstructure:"stale_days" default:"7"`
	// Cron is the schedule of the daily run.
	Cron string `mapstructure:"cron" default:"0 6 * * *"`
	// Timezone is the location the cron schedule is evaluated in.
	Timezone string `mapstructure:"timezone" default:"Europe/Paris"`
	// RunOnStart triggers one run when the server starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"false"`
	// SourceTimeoutSeconds bounds a single source's fetch and ingestion.
	SourceTimeoutSeconds int `mapstructure:"source_timeout_seconds" default:"600"`
	// ArchiveRetentionDays is how long raw record archives are kept.
	ArchiveRetentionDays int `mapstructure:"archive_retention_days" default:"30"`
}
