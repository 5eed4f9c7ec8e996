// Package settings exposes the key/value config table.
//
// The table stores API keys and source toggles (SOURCE_<NAME>_ENABLED). Keys absent
// from the table fall back to values loaded from the environment.
package settings
