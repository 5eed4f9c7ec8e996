package pipeline

import "time"

// Trigger names what started a run.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerCLI      = "cli"
)

// SourceReport holds the counts of one source within a run.
type SourceReport struct {
	Name     string `json:"name"`
	Tier     string `json:"tier"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Purged   int64  `json:"purged,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
	// Missing lists the configuration keys that kept the source from running.
	Missing []string `json:"missing,omitempty"`
	Failed  bool     `json:"failed,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Total returns the matches the source created or updated.
func (s SourceReport) Total() int {
	return s.Created + s.Updated
}

// Report is the outcome of one run. Runs never fail as a whole; failures are
// recorded per source.
type Report struct {
	RunID      string         `json:"run_id"`
	Trigger    string         `json:"trigger"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Stale      int            `json:"stale"`
	Sources    []SourceReport `json:"sources"`
	Total      int            `json:"total"`
}

// Elapsed returns the wall time of the run.
func (r Report) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Source returns the report of the named source.
func (r Report) Source(name string) (SourceReport, bool) {
	for _, s := range r.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceReport{}, false
}
