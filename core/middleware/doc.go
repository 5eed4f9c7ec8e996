// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the admin routes.
//   - rayid: a unique request id (ray id) for every incoming request, stored in the
//     fiber locals and echoed in the X-Ray-ID response header for tracing.
//
// The ray id is registered globally. Auth is passed to the admin and integrity
// route groups when they are mounted; the read API stays public.
package middleware
