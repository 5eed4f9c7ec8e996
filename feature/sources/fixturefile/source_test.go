package fixturefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"courtside/core/models"
	"courtside/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = `[
  {"native_id": "cdf-sf1", "league": "Coupe de France", "home_team": "Cholet", "away_team": "Le Mans",
   "date_time": "2025-04-12T16:00:00Z", "status": "Final", "home_score": 80, "away_score": 77,
   "venue": "Accor Arena", "broadcasters": ["France 3"]},
  {"source_prefix": "other", "league": "LFB", "home_team": "Bourges", "away_team": "Basket Landes",
   "date_time": "2025-04-13T18:00:00+02:00", "home_score": 10},
  {"league": "LFB", "date_time": 12}
]`

func writeFixtures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFetch(t *testing.T) {
	src := New(Config{Path: writeFixtures(t, fixtures)})

	seq, err := src.Fetch(context.Background())
	require.NoError(t, err)

	var records []reconcile.RawMatch
	var errs []error
	for raw, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, raw)
	}

	require.Len(t, records, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], reconcile.ErrInvalidRecord)

	final := records[0]
	assert.Equal(t, "file-cdf-sf1", final.ExternalID())
	assert.Equal(t, models.StatusFinished, final.Status)
	assert.Equal(t, 80, *final.HomeScore)
	assert.Equal(t, []string{"France 3"}, final.BroadcasterNames)

	upcoming := records[1]
	assert.Equal(t, Prefix, upcoming.SourcePrefix)
	assert.Equal(t, models.StatusScheduled, upcoming.Status)
	assert.Nil(t, upcoming.HomeScore)
	assert.True(t, upcoming.DateTimeUTC.Equal(time.Date(2025, 4, 13, 16, 0, 0, 0, time.UTC)))
}

func TestFetchErrors(t *testing.T) {
	_, err := New(Config{Path: filepath.Join(t.TempDir(), "missing.json")}).Fetch(context.Background())
	assert.ErrorContains(t, err, "read fixtures")

	_, err = New(Config{Path: writeFixtures(t, `{"not": "an array"}`)}).Fetch(context.Background())
	assert.ErrorContains(t, err, "decode fixtures")
}

func TestAttachMode(t *testing.T) {
	assert.Equal(t, reconcile.ModeMerge, New(Config{}).AttachMode())
	assert.Equal(t, reconcile.ModeReplace, New(Config{Replace: true}).AttachMode())
}
