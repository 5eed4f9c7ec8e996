package schedule

import (
	"context"
	"testing"
	"time"

	"courtside/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMatchesWindow(t *testing.T) {
	svc := NewService(seed(t), zap.NewNop(), time.UTC)
	ctx := context.Background()

	matches, err := svc.Matches(ctx, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"nba-1", "bce-1", "nba-2"}, externalIDs(matches))

	first := matches[0]
	require.NotNil(t, first.HomeTeam)
	assert.Equal(t, "Boston Celtics", first.HomeTeam.Name)
	require.NotNil(t, first.League)
	assert.Equal(t, "NBA", first.League.Name)
	require.Len(t, first.Broadcasts, 2)
	assert.NotNil(t, first.Broadcasts[0].Broadcaster)
}

func TestMatchesHalfOpen(t *testing.T) {
	svc := NewService(seed(t), zap.NewNop(), time.UTC)
	kickoff := time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC)

	matches, err := svc.Matches(context.Background(), kickoff, kickoff.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"bce-1"}, externalIDs(matches))

	matches, err = svc.Matches(context.Background(), kickoff.Add(-time.Hour), kickoff)
	require.NoError(t, err)
	assert.Empty(t, matches, "inactive league and end bound are excluded")
}

func TestMatchesInvalidRange(t *testing.T) {
	svc := NewService(seed(t), zap.NewNop(), time.UTC)
	now := time.Now()
	_, err := svc.Matches(context.Background(), now, now)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestLeagueMatches(t *testing.T) {
	db := seed(t)
	svc := NewService(db, zap.NewNop(), time.UTC)
	ctx := context.Background()

	var nba, old models.League
	require.NoError(t, db.Where("name = ?", "NBA").Take(&nba).Error)
	require.NoError(t, db.Where("name = ?", "Old League").Take(&old).Error)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	matches, err := svc.LeagueMatches(ctx, nba.ID, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"nba-1", "nba-2"}, externalIDs(matches))

	_, err = svc.LeagueMatches(ctx, old.ID, start, start.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, ErrLeagueNotFound)

	_, err = svc.LeagueMatches(ctx, 9999, start, start.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}

func TestLeaguesAndBroadcasters(t *testing.T) {
	svc := NewService(seed(t), zap.NewNop(), time.UTC)
	ctx := context.Background()

	leagues, err := svc.Leagues(ctx)
	require.NoError(t, err)
	var names []string
	for _, l := range leagues {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"Betclic ELITE", "NBA"}, names)

	broadcasters, err := svc.Broadcasters(ctx)
	require.NoError(t, err)
	require.Len(t, broadcasters, 2)
	assert.Equal(t, "Canal+", broadcasters[0].Name)
	assert.Equal(t, "beIN SPORTS 1", broadcasters[1].Name)
}

func TestWeekRange(t *testing.T) {
	svc := NewService(nil, zap.NewNop(), time.UTC)

	start, end := svc.WeekRange(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), end)

	start, _ = svc.WeekRange(time.Date(2025, 1, 19, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), start, "sunday belongs to the week before")
}

func TestWeekRangeInZone(t *testing.T) {
	loc := paris(t)
	svc := NewService(seed(t), zap.NewNop(), loc)

	start, end := svc.WeekRange(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	matches, err := svc.Matches(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{"nba-1", "bce-1"}, externalIDs(matches), "nba-2 tips off on Monday in Paris")
}

func TestMonthRange(t *testing.T) {
	svc := NewService(nil, zap.NewNop(), time.UTC)
	start, end := svc.MonthRange(2024, time.December)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
