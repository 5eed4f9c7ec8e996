package reconcile

import (
	"context"
	"fmt"
	"strings"

	"courtside/core/database"
	"courtside/core/models"

	"go.uber.org/zap"
)

// UpsertMatch creates the match identified by externalID or refreshes its
// mutable fields. League and teams are fixed at creation; a differing value
// on a later sighting is logged and ignored. Scores are only stored for live
// and finished matches and are overwritten on every sighting.
func (e *Engine) UpsertMatch(ctx context.Context, externalID string, f MatchFields) (*models.Match, UpsertOutcome, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, "", fmt.Errorf("%w: empty external id", ErrInvalidRecord)
	}
	if f.HomeTeamID == f.AwayTeamID {
		return nil, "", fmt.Errorf("match %s: %w", externalID, ErrSameTeams)
	}
	if f.DateTime.IsZero() {
		return nil, "", fmt.Errorf("%w: match %s has no date", ErrInvalidRecord, externalID)
	}

	status := f.Status
	if status == "" {
		status = models.StatusScheduled
	}
	if !status.Valid() {
		return nil, "", fmt.Errorf("%w: match %s has status %q", ErrInvalidRecord, externalID, status)
	}
	homeScore, awayScore := f.HomeScore, f.AwayScore
	if !status.HasScore() {
		homeScore, awayScore = nil, nil
	}
	var venue *string
	if f.Venue != nil && strings.TrimSpace(*f.Venue) != "" {
		v := strings.TrimSpace(*f.Venue)
		venue = &v
	}

	existing, err := e.FindExistingMatch(ctx, externalID)
	if err != nil {
		return nil, "", err
	}

	db := e.db.WithContext(ctx)

	if existing == nil {
		match := models.Match{
			ExternalID: externalID,
			Source:     f.Source,
			DateTime:   f.DateTime.UTC(),
			Status:     status,
			HomeTeamID: f.HomeTeamID,
			AwayTeamID: f.AwayTeamID,
			LeagueID:   f.LeagueID,
			HomeScore:  homeScore,
			AwayScore:  awayScore,
			Venue:      venue,
		}
		if err := db.Create(&match).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return nil, "", fmt.Errorf("match %s: %w", externalID, ErrConflict)
			}
			return nil, "", fmt.Errorf("create match %s: %w", externalID, err)
		}
		return &match, OutcomeCreated, nil
	}

	if existing.LeagueID != f.LeagueID || existing.HomeTeamID != f.HomeTeamID || existing.AwayTeamID != f.AwayTeamID {
		e.log.Warn("Ignoring league/team reassignment on existing match",
			zap.String("external_id", externalID),
			zap.Uint("league_id", existing.LeagueID),
			zap.Uint("incoming_league_id", f.LeagueID),
			zap.Uint("home_team_id", existing.HomeTeamID),
			zap.Uint("incoming_home_team_id", f.HomeTeamID),
			zap.Uint("away_team_id", existing.AwayTeamID),
			zap.Uint("incoming_away_team_id", f.AwayTeamID),
		)
	}

	updates := map[string]any{
		"date_time":  f.DateTime.UTC(),
		"status":     status,
		"home_score": intOrNil(homeScore),
		"away_score": intOrNil(awayScore),
	}
	if venue != nil {
		updates["venue"] = *venue
	}
	if err := db.Model(existing).Updates(updates).Error; err != nil {
		return nil, "", fmt.Errorf("update match %s: %w", externalID, err)
	}

	existing.DateTime = f.DateTime.UTC()
	existing.Status = status
	existing.HomeScore = homeScore
	existing.AwayScore = awayScore
	if venue != nil {
		existing.Venue = venue
	}
	return existing, OutcomeUpdated, nil
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
