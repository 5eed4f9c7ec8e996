// Package balldontlie pages through the balldontlie NBA games API.
//
// The API requires a key (BALLDONTLIE_API_KEY) and enforces a low request rate on
// free plans, so the connector uses its own rate-limited HTTP client.
package balldontlie
