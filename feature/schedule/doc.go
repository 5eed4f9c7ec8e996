// Package schedule serves the read side of the match store.
//
// # HTTP Endpoints
//
//   - GET /matches?start=&end= : matches in [start, end) for active leagues
//   - GET /matches/week?date= : Monday-to-Sunday week containing date
//   - GET /matches/month?year=&month= : one calendar month
//   - GET /leagues : active leagues
//   - GET /leagues/:id/matches : one league, next 30 days unless start/end are given
//   - GET /broadcasters : all broadcasters, alphabetical
//
// Bounds accept RFC 3339 timestamps or YYYY-MM-DD dates. Dates, weeks and months
// are interpreted in the configured pipeline timezone.
package schedule
