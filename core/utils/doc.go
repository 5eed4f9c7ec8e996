// Package utils holds lenient conversions for loosely typed source payloads,
// such as JSON decoded into map[string]any by the AI extraction source.
package utils
