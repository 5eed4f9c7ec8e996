// Package integrity provides health checks of the match store and its archive.
//
// # Checks Provided
//
//   - Schema: every table and column declared by the models exists in the database.
//   - Data: no orphaned matches or links, no match against itself, no scores on
//     scheduled matches, and link is_free flags agree with their broadcaster.
//   - Archive: the raw record bucket exists (supports ?fix=true to create it).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/data : Runs the data check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
package integrity
