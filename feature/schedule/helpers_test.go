package schedule

import (
	"context"
	"testing"
	"time"

	"courtside/core/database"
	"courtside/core/models"
	"courtside/core/reconcile"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seed stores four matches:
//
//	nba-1  NBA        2025-01-13 20:00 UTC (Monday)  beIN SPORTS 1, Canal+
//	nba-2  NBA        2025-01-19 23:30 UTC (Sunday, already Monday in Paris)
//	bce-1  Betclic    2025-01-15 19:00 UTC
//	old-1  Old League 2025-01-15 18:00 UTC (league inactive)
func seed(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))

	engine := reconcile.NewEngine(db, zap.NewNop())
	ctx := context.Background()
	records := []reconcile.RawMatch{
		{SourcePrefix: "nba", NativeID: "1", LeagueName: "NBA", HomeTeamName: "Boston Celtics", AwayTeamName: "New York Knicks",
			DateTimeUTC: time.Date(2025, 1, 13, 20, 0, 0, 0, time.UTC), BroadcasterNames: []string{"Canal+", "beIN SPORTS 1"}},
		{SourcePrefix: "nba", NativeID: "2", LeagueName: "NBA", HomeTeamName: "Los Angeles Lakers", AwayTeamName: "Phoenix Suns",
			DateTimeUTC: time.Date(2025, 1, 19, 23, 30, 0, 0, time.UTC)},
		{SourcePrefix: "bce", NativeID: "1", LeagueName: "Betclic ELITE", HomeTeamName: "ASVEL", AwayTeamName: "Monaco",
			DateTimeUTC: time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC)},
		{SourcePrefix: "old", NativeID: "1", LeagueName: "Old League", HomeTeamName: "Alpha", AwayTeamName: "Beta",
			DateTimeUTC: time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)},
	}
	for _, raw := range records {
		_, err := engine.Ingest(ctx, raw, reconcile.ModeMerge)
		require.NoError(t, err)
	}
	require.NoError(t, db.Model(&models.League{}).Where("name = ?", "Old League").Update("active", false).Error)
	return db
}

func externalIDs(matches []models.Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ExternalID)
	}
	return ids
}

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	return loc
}
