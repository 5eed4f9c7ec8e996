// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework and the update pipeline.
//
// # Context Awareness
//
// WithRayID extracts the RayID from a Fiber context and attaches it to the log entry, so all logs of a
// request can be correlated. WithRun does the same for an update pipeline run, tagging every entry with
// the run id and what triggered it (schedule, manual, cli).
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithRun(log, runID, "schedule")
//	l.Warn("Source returned no matches", zap.String("source", "nba"))
package logger
