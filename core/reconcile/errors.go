package reconcile

import "errors"

var (
	// ErrEmptyName is returned when a league, team or broadcaster name is blank.
	ErrEmptyName = errors.New("reconcile: empty name")
	// ErrSameTeams is returned when a match would be played by one team against itself.
	ErrSameTeams = errors.New("reconcile: home and away team are the same")
	// ErrConflict is returned when a concurrent writer created the same match first.
	ErrConflict = errors.New("reconcile: match already exists")
	// ErrInvalidRecord is returned when a raw record cannot be mapped to a match.
	ErrInvalidRecord = errors.New("reconcile: invalid record")
)
