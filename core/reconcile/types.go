package reconcile

import (
	"fmt"
	"strings"
	"time"

	"courtside/core/models"
)

// UpsertOutcome tells whether an upsert created or updated a match.
type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created"
	OutcomeUpdated UpsertOutcome = "updated"
)

// AttachMode is the discipline used to write a match's broadcaster set.
type AttachMode string

const (
	// ModeMerge adds missing pairs and never deletes.
	ModeMerge AttachMode = "merge"
	// ModeReplace clears the match's broadcasters before inserting the new set.
	ModeReplace AttachMode = "replace"
)

// ParseAttachMode parses "merge" or "replace". An empty string is merge.
func ParseAttachMode(s string) (AttachMode, error) {
	switch AttachMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMerge, "":
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown attach mode %q", s)
	}
}

// TeamHint carries optional attributes a source knows about a team.
type TeamHint struct {
	ShortName string
	LogoURL   string
}

// BroadcasterHint carries optional attributes a source knows about a broadcaster.
// Zero values mean unknown; the catalogue fills them when it can.
type BroadcasterHint struct {
	Type    models.BroadcasterType
	IsFree  *bool
	LogoURL string
}

// MatchFields are the resolved values written by UpsertMatch.
type MatchFields struct {
	LeagueID   uint
	HomeTeamID uint
	AwayTeamID uint
	DateTime   time.Time
	Status     models.MatchStatus
	HomeScore  *int
	AwayScore  *int
	Venue      *string
	Source     string
}
