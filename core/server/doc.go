// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for the listener, the admin API key and the CORS allow-list.
//
// # Configuration
//
// The admin routes are only mounted when an API key is configured; the read API is
// always served.
package server
