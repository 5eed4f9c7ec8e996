// Package ai extracts matches from free-form schedule pages with the Gemini API.
//
// Page text is stripped of scripts and styles, sent with an extraction prompt, and
// the returned JSON array is read leniently. Broadcasters of these matches are
// replaced, not merged, on every run.
package ai
