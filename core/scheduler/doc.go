// Package scheduler runs the update pipeline on a daily cron schedule.
//
// Scheduled runs call the same Pipeline.Run as the admin trigger and the CLI; they
// are not serialized against manual runs.
package scheduler
