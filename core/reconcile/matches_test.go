package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtside/core/models"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// seedTeams creates a league and two teams and returns base fields for a match.
func seedTeams(t *testing.T, e *Engine) MatchFields {
	t.Helper()
	ctx := context.Background()
	league, err := e.ResolveLeague(ctx, "NBA")
	require.NoError(t, err)
	home, err := e.ResolveTeam(ctx, "Boston Celtics", &league.ID, TeamHint{})
	require.NoError(t, err)
	away, err := e.ResolveTeam(ctx, "Miami Heat", &league.ID, TeamHint{})
	require.NoError(t, err)
	return MatchFields{LeagueID: league.ID, HomeTeamID: home.ID, AwayTeamID: away.ID, DateTime: kickoff, Source: "nba"}
}

func TestUpsertMatch_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	e, db := setupEngine(t)
	fields := seedTeams(t, e)

	created, outcome, err := e.UpsertMatch(ctx, "nba-001", fields)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, models.StatusScheduled, created.Status)
	assert.Nil(t, created.HomeScore)

	fields.Status = models.StatusFinished
	fields.HomeScore, fields.AwayScore = intPtr(101), intPtr(99)
	fields.DateTime = kickoff.Add(time.Hour)
	fields.Venue = strPtr("TD Garden")

	updated, outcome, err := e.UpsertMatch(ctx, "nba-001", fields)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, created.ID, updated.ID)
	assert.EqualValues(t, 1, count(t, db, &models.Match{}))

	var stored models.Match
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.Equal(t, models.StatusFinished, stored.Status)
	assert.Equal(t, 101, *stored.HomeScore)
	assert.Equal(t, 99, *stored.AwayScore)
	assert.Equal(t, "TD Garden", *stored.Venue)
	assert.True(t, stored.DateTime.Equal(kickoff.Add(time.Hour)))
}

func TestUpsertMatch_ScoresOnCreation(t *testing.T) {
	e, _ := setupEngine(t)
	fields := seedTeams(t, e)
	fields.Status = models.StatusLive
	fields.HomeScore, fields.AwayScore = intPtr(10), intPtr(8)

	match, _, err := e.UpsertMatch(context.Background(), "nba-live", fields)
	require.NoError(t, err)
	require.NotNil(t, match.HomeScore)
	assert.Equal(t, 10, *match.HomeScore)
}

func TestUpsertMatch_ScheduledClearsScores(t *testing.T) {
	ctx := context.Background()
	e, db := setupEngine(t)
	fields := seedTeams(t, e)

	fields.Status = models.StatusScheduled
	fields.HomeScore, fields.AwayScore = intPtr(3), intPtr(2)
	match, _, err := e.UpsertMatch(ctx, "nba-002", fields)
	require.NoError(t, err)
	assert.Nil(t, match.HomeScore)

	fields.Status = models.StatusLive
	_, _, err = e.UpsertMatch(ctx, "nba-002", fields)
	require.NoError(t, err)

	// A postponed game goes back to scheduled.
	fields.Status = models.StatusScheduled
	_, _, err = e.UpsertMatch(ctx, "nba-002", fields)
	require.NoError(t, err)

	var violations int64
	require.NoError(t, db.Model(&models.Match{}).
		Where("status = ? AND (home_score IS NOT NULL OR away_score IS NOT NULL)", models.StatusScheduled).
		Count(&violations).Error)
	assert.Zero(t, violations)
}

func TestUpsertMatch_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	e, db := setupEngine(t)
	fields := seedTeams(t, e)

	fields.Status = models.StatusFinished
	fields.HomeScore, fields.AwayScore = intPtr(110), intPtr(100)
	match, _, err := e.UpsertMatch(ctx, "nba-003", fields)
	require.NoError(t, err)

	fields.Status = models.StatusLive
	fields.HomeScore, fields.AwayScore = intPtr(50), intPtr(48)
	_, _, err = e.UpsertMatch(ctx, "nba-003", fields)
	require.NoError(t, err)

	var stored models.Match
	require.NoError(t, db.First(&stored, match.ID).Error)
	assert.Equal(t, models.StatusLive, stored.Status)
	assert.Equal(t, 50, *stored.HomeScore)
}

func TestUpsertMatch_ImmutableTeams(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	e, db := setupEngine(t)
	e.log = zap.New(core)
	fields := seedTeams(t, e)

	match, _, err := e.UpsertMatch(ctx, "nba-004", fields)
	require.NoError(t, err)

	other, err := e.ResolveTeam(ctx, "Orlando Magic", &fields.LeagueID, TeamHint{})
	require.NoError(t, err)
	changed := fields
	changed.AwayTeamID = other.ID
	changed.Venue = strPtr("Kaseya Center")

	_, outcome, err := e.UpsertMatch(ctx, "nba-004", changed)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)

	var stored models.Match
	require.NoError(t, db.First(&stored, match.ID).Error)
	assert.Equal(t, fields.AwayTeamID, stored.AwayTeamID)
	assert.Equal(t, "Kaseya Center", *stored.Venue)
	assert.Equal(t, 1, logs.FilterMessage("Ignoring league/team reassignment on existing match").Len())
}

func TestUpsertMatch_Validation(t *testing.T) {
	e, _ := setupEngine(t)
	fields := seedTeams(t, e)

	tests := []struct {
		name    string
		id      string
		mutate  func(f *MatchFields)
		wantErr error
	}{
		{"EmptyID", " ", func(f *MatchFields) {}, ErrInvalidRecord},
		{"SameTeams", "nba-x", func(f *MatchFields) { f.AwayTeamID = f.HomeTeamID }, ErrSameTeams},
		{"NoDate", "nba-x", func(f *MatchFields) { f.DateTime = time.Time{} }, ErrInvalidRecord},
		{"BadStatus", "nba-x", func(f *MatchFields) { f.Status = "postponed" }, ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields
			tt.mutate(&f)
			_, _, err := e.UpsertMatch(context.Background(), tt.id, f)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpsertMatch_InsertConflict(t *testing.T) {
	tests := []struct {
		name     string
		insert   error
		conflict bool
	}{
		{"DuplicateKey", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'nba-9' for key 'idx_matches_external_id'"}, true},
		{"OtherError", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer sqlDB.Close()

			db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
				Logger:         logger.Default.LogMode(logger.Silent),
				TranslateError: true,
			})
			require.NoError(t, err)

			mock.ExpectQuery("SELECT \\* FROM `matches`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO `matches`").WillReturnError(tt.insert)
			mock.ExpectRollback()

			e := NewEngine(db, zap.NewNop())
			_, _, err = e.UpsertMatch(context.Background(), "nba-9", MatchFields{
				LeagueID: 1, HomeTeamID: 1, AwayTeamID: 2, DateTime: kickoff,
			})
			require.Error(t, err)
			assert.Equal(t, tt.conflict, errors.Is(err, ErrConflict))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
