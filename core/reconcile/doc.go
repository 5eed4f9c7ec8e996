// Package reconcile merges match records from many sources into one schedule
// without creating duplicates.
//
// Every source yields RawMatch values. Engine.Ingest pushes each one through
// the same steps:
//
//  1. Entity resolution: ResolveLeague and ResolveTeam find or create the
//     canonical rows by exact name. Teams are scoped by league, with a fallback
//     to legacy rows that have no league.
//  2. Identity: RawMatch.ExternalID namespaces the source's native id with its
//     prefix, or builds a synthetic id from the team names and kick-off.
//  3. Upsert: UpsertMatch inserts a new match or refreshes date, status, scores
//     and venue. League and teams never change after creation.
//  4. Attachment: AttachBroadcasters links broadcasters in merge or replace mode.
//
// Each create-or-update is its own atomic unit. Identity keys (external id,
// league name, broadcaster name) make repeated ingestion idempotent, so an
// interrupted run is healed by the next one.
//
// # Errors
//
// Callers are expected to log and skip records failing with ErrInvalidRecord,
// ErrSameTeams, ErrEmptyName or ErrConflict; the last one means another writer
// inserted the same match first.
//
// # Usage
//
//	engine := reconcile.NewEngine(db, log)
//	outcome, err := engine.Ingest(ctx, raw, reconcile.ModeMerge)
package reconcile
