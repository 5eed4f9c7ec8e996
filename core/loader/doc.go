// Package loader mounts HTTP features on the fiber app.
//
// A feature bundles a service and its handler behind three methods:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The start command registers the schedule, admin and integrity features with
// a Manager and calls LoadAll once. Disabled features are logged and skipped,
// so admin routes simply do not exist when no API key is configured. Load
// errors stop startup.
package loader
