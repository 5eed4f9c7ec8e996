package checks

import (
	"context"
	"fmt"

	"courtside/core/models"

	"gorm.io/gorm"
)

// DataReport counts rows that break the store's invariants. Every count
// should be zero.
type DataReport struct {
	Clean bool `json:"clean"`
	// OrphanMatches reference a league or team that no longer exists.
	OrphanMatches int64 `json:"orphan_matches"`
	// SameTeamMatches have identical home and away teams.
	SameTeamMatches int64 `json:"same_team_matches"`
	// ScoredScheduled are scheduled matches carrying a score.
	ScoredScheduled int64 `json:"scored_scheduled"`
	// OrphanBroadcasts link to a missing match or broadcaster.
	OrphanBroadcasts int64 `json:"orphan_broadcasts"`
	// FreeFlagMismatches are links whose is_free differs from their broadcaster's.
	FreeFlagMismatches int64 `json:"free_flag_mismatches"`
}

// CheckData runs the consistency queries.
func CheckData(ctx context.Context, db *gorm.DB) (*DataReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	db = db.WithContext(ctx)
	report := &DataReport{}

	queries := []struct {
		name  string
		dest  *int64
		query *gorm.DB
	}{
		{"orphan matches", &report.OrphanMatches, db.Model(&models.Match{}).
			Where("league_id NOT IN (?) OR home_team_id NOT IN (?) OR away_team_id NOT IN (?)",
				db.Model(&models.League{}).Select("id"),
				db.Model(&models.Team{}).Select("id"),
				db.Model(&models.Team{}).Select("id"))},
		{"same team matches", &report.SameTeamMatches, db.Model(&models.Match{}).
			Where("home_team_id = away_team_id")},
		{"scored scheduled matches", &report.ScoredScheduled, db.Model(&models.Match{}).
			Where("status = ? AND (home_score IS NOT NULL OR away_score IS NOT NULL)", models.StatusScheduled)},
		{"orphan broadcasts", &report.OrphanBroadcasts, db.Model(&models.MatchBroadcast{}).
			Where("match_id NOT IN (?) OR broadcaster_id NOT IN (?)",
				db.Model(&models.Match{}).Select("id"),
				db.Model(&models.Broadcaster{}).Select("id"))},
		{"free flag mismatches", &report.FreeFlagMismatches, db.Model(&models.MatchBroadcast{}).
			Joins("JOIN broadcasters ON broadcasters.id = match_broadcasts.broadcaster_id").
			Where("match_broadcasts.is_free <> broadcasters.is_free")},
	}
	for _, q := range queries {
		if err := q.query.Count(q.dest).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", q.name, err)
		}
	}

	report.Clean = report.OrphanMatches == 0 && report.SameTeamMatches == 0 &&
		report.ScoredScheduled == 0 && report.OrphanBroadcasts == 0 && report.FreeFlagMismatches == 0
	return report, nil
}
