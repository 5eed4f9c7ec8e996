// Package nba reads the official NBA season schedule from cdn.nba.com.
//
// The feed covers the whole season; only games inside the configured window are
// yielded. Game ids are native, so records are keyed as "nba-<gameId>".
package nba
