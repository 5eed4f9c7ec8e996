// Package admin exposes the operator surface of the pipeline.
//
// Every route requires the server API key (X-API-Key header or bearer token) and the
// feature is not mounted when no key is configured.
//
// # HTTP Endpoints
//
//   - POST /admin/update : runs every source once and returns {total, report}
//   - POST /admin/clean : deletes matches past the stale window
//   - GET /admin/runs : recent run reports
//   - GET /admin/sources : registered sources with their enabled flag
//   - PUT /admin/sources/:name : stores a source's enabled flag
//
// A failed update answers 500 with {"error": "update failed", "details": ...} and
// nothing else.
package admin
