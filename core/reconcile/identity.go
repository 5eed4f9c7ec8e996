package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/core/models"

	"gorm.io/gorm"
)

// BuildExternalID namespaces a source's native identifier, e.g. "nba-0022400123".
func BuildExternalID(prefix, nativeID string) string {
	return prefix + "-" + nativeID
}

// SyntheticExternalID builds an identifier for sources without native ids from
// the team names and the kick-off instant in epoch milliseconds. A later
// correction of the kick-off time yields a different identifier.
func SyntheticExternalID(prefix, home, away string, kickoff time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%d", prefix, home, away, kickoff.UnixMilli())
}

// FixtureExternalID builds an identifier from the team names and the UTC
// calendar day of the kick-off, so it survives time corrections within the day.
func FixtureExternalID(prefix, home, away string, kickoff time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s", prefix, home, away, kickoff.UTC().Format("20060102"))
}

// FindExistingMatch returns the match with the given external id, or nil when
// none exists.
func (e *Engine) FindExistingMatch(ctx context.Context, externalID string) (*models.Match, error) {
	var match models.Match
	err := e.db.WithContext(ctx).Where("external_id = ?", externalID).Take(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match %s: %w", externalID, err)
	}
	return &match, nil
}
