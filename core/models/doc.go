// Package models defines the relational schema of the schedule store.
//
// Every table the reconciliation pipeline writes and the read API queries is declared here
// as a GORM model, so the same definitions drive migrations, queries and schema checks.
//
// # Identity Keys
//
//   - League: name (unique)
//   - Team: (name, league_id); rows with a NULL league come from sources that do not scope teams
//   - Match: external_id (unique, source-namespaced)
//   - Broadcaster: name (unique)
//   - MatchBroadcast: (match_id, broadcaster_id) (unique)
//   - Setting: key (primary key)
package models
