package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"courtside/core/models"
)

// RawMatch is the common shape every source yields.
type RawMatch struct {
	SourcePrefix     string             `json:"source_prefix"`
	NativeID         string             `json:"native_id,omitempty"`
	LeagueName       string             `json:"league"`
	HomeTeamName     string             `json:"home_team"`
	AwayTeamName     string             `json:"away_team"`
	HomeTeamShort    string             `json:"home_team_short,omitempty"`
	AwayTeamShort    string             `json:"away_team_short,omitempty"`
	HomeTeamLogo     string             `json:"home_team_logo,omitempty"`
	AwayTeamLogo     string             `json:"away_team_logo,omitempty"`
	DateTimeUTC      time.Time          `json:"date_time"`
	Status           models.MatchStatus `json:"status,omitempty"`
	HomeScore        *int               `json:"home_score,omitempty"`
	AwayScore        *int               `json:"away_score,omitempty"`
	Venue            string             `json:"venue,omitempty"`
	BroadcasterNames []string           `json:"broadcasters,omitempty"`
	// StableID selects the day-based identifier when NativeID is empty.
	StableID bool `json:"stable_id,omitempty"`
}

// ExternalID returns the identity key of the record.
func (m RawMatch) ExternalID() string {
	if id := strings.TrimSpace(m.NativeID); id != "" {
		return BuildExternalID(m.SourcePrefix, id)
	}
	home, away := strings.TrimSpace(m.HomeTeamName), strings.TrimSpace(m.AwayTeamName)
	if m.StableID {
		return FixtureExternalID(m.SourcePrefix, home, away, m.DateTimeUTC)
	}
	return SyntheticExternalID(m.SourcePrefix, home, away, m.DateTimeUTC)
}

// Validate checks the fields every record must carry.
func (m RawMatch) Validate() error {
	var missing []string
	if strings.TrimSpace(m.SourcePrefix) == "" {
		missing = append(missing, "source prefix")
	}
	if strings.TrimSpace(m.LeagueName) == "" {
		missing = append(missing, "league")
	}
	if strings.TrimSpace(m.HomeTeamName) == "" {
		missing = append(missing, "home team")
	}
	if strings.TrimSpace(m.AwayTeamName) == "" {
		missing = append(missing, "away team")
	}
	if m.DateTimeUTC.IsZero() {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRecord, strings.Join(missing, ", "))
	}
	if m.Status != "" && !m.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, m.Status)
	}
	if strings.TrimSpace(m.HomeTeamName) == strings.TrimSpace(m.AwayTeamName) {
		return fmt.Errorf("%w: %s", ErrSameTeams, m.HomeTeamName)
	}
	return nil
}

// NormalizeStatus maps the status vocabularies of sources onto MatchStatus.
// Unknown values are treated as scheduled.
func NormalizeStatus(s string) models.MatchStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "in_progress", "inprogress", "in progress", "playing", "halftime", "1", "2":
		return models.StatusLive
	case "finished", "final", "ft", "ended", "closed", "complete", "completed", "3":
		return models.StatusFinished
	default:
		return models.StatusScheduled
	}
}

// Ingest resolves the record's league and teams, upserts the match and
// attaches its broadcasters using mode.
func (e *Engine) Ingest(ctx context.Context, raw RawMatch, mode AttachMode) (UpsertOutcome, error) {
	if err := raw.Validate(); err != nil {
		return "", err
	}

	league, err := e.ResolveLeague(ctx, raw.LeagueName)
	if err != nil {
		return "", err
	}
	home, err := e.ResolveTeam(ctx, raw.HomeTeamName, &league.ID, TeamHint{ShortName: raw.HomeTeamShort, LogoURL: raw.HomeTeamLogo})
	if err != nil {
		return "", err
	}
	away, err := e.ResolveTeam(ctx, raw.AwayTeamName, &league.ID, TeamHint{ShortName: raw.AwayTeamShort, LogoURL: raw.AwayTeamLogo})
	if err != nil {
		return "", err
	}

	fields := MatchFields{
		LeagueID:   league.ID,
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		DateTime:   raw.DateTimeUTC,
		Status:     raw.Status,
		HomeScore:  raw.HomeScore,
		AwayScore:  raw.AwayScore,
		Source:     raw.SourcePrefix,
	}
	if raw.Venue != "" {
		venue := raw.Venue
		fields.Venue = &venue
	}

	match, outcome, err := e.UpsertMatch(ctx, raw.ExternalID(), fields)
	if err != nil {
		return "", err
	}
	if err := e.AttachBroadcasters(ctx, match.ID, raw.BroadcasterNames, mode); err != nil {
		return outcome, err
	}
	return outcome, nil
}
