// Package fixturefile reads hand-maintained matches from a local JSON file.
package fixturefile
