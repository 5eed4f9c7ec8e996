package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"
	"time"

	"courtside/core/database"
	"courtside/core/models"
	"courtside/core/reconcile"
	"courtside/core/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

var now = time.Date(2025, 2, 10, 6, 0, 0, 0, time.UTC)

type fakeSource struct {
	name     string
	prefix   string
	records  []reconcile.RawMatch
	errs     map[int]error
	fetchErr error
	panics   bool
	// panicAt panics the iterator once that many records were yielded.
	panicAt  int
	keys     []string
	mode     reconcile.AttachMode
	purge    bool
	fetched  *[]string
}

func (s *fakeSource) Name() string   { return s.name }
func (s *fakeSource) Prefix() string { return s.prefix }

func (s *fakeSource) Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error) {
	if s.fetched != nil {
		*s.fetched = append(*s.fetched, s.name)
	}
	if s.panics {
		panic("connector exploded")
	}
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return func(yield func(reconcile.RawMatch, error) bool) {
		for i, raw := range s.records {
			if s.panicAt > 0 && i == s.panicAt {
				panic("connector exploded mid-stream")
			}
			if err, ok := s.errs[i]; ok {
				if !yield(reconcile.RawMatch{}, err) {
					return
				}
				continue
			}
			if !yield(raw, nil) {
				return
			}
		}
	}, nil
}

type keyedSource struct{ *fakeSource }

func (s keyedSource) RequiredKeys() []string { return s.keys }

type replacingSource struct{ *fakeSource }

func (s replacingSource) AttachMode() reconcile.AttachMode { return s.mode }

type purgingSource struct{ *fakeSource }

func (s purgingSource) PurgeBeforeRun() bool { return s.purge }

// games builds n records between two teams of a league, each with its own id.
func games(prefix string, n int) []reconcile.RawMatch {
	out := make([]reconcile.RawMatch, n)
	for i := range out {
		out[i] = reconcile.RawMatch{
			NativeID:         fmt.Sprintf("%d", i+1),
			LeagueName:       "NBA",
			HomeTeamName:     fmt.Sprintf("%s home %d", prefix, i),
			AwayTeamName:     fmt.Sprintf("%s away %d", prefix, i),
			DateTimeUTC:      now.Add(time.Duration(i+1) * time.Hour),
			BroadcasterNames: []string{"beIN SPORTS 1"},
		}
	}
	return out
}

func setup(t *testing.T) (*gorm.DB, *reconcile.Engine) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return db, reconcile.NewEngine(db, zap.NewNop())
}

func newPipeline(db *gorm.DB, reg *Registry, ing Ingester, opts ...Option) *Pipeline {
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return New(db, reg, ing, zap.NewNop(), Config{StaleDays: 7}, opts...)
}

func TestRun_PerSourceIsolation(t *testing.T) {
	tests := []struct {
		name   string
		broken *fakeSource
	}{
		{"FetchError", &fakeSource{name: "b", prefix: "b", fetchErr: errors.New("quota exceeded")}},
		{"Panic", &fakeSource{name: "b", prefix: "b", panics: true}},
		{"StreamBroken", &fakeSource{name: "b", prefix: "b", records: games("b", 2),
			errs: map[int]error{0: fmt.Errorf("page 2: %w", ErrStreamBroken)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, engine := setup(t)
			var order []string
			tt.broken.fetched = &order

			reg := NewRegistry()
			require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "a", prefix: "a", records: games("a", 5), fetched: &order}))
			require.NoError(t, reg.Register(TierOfficial, tt.broken))
			require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "c", prefix: "c", records: games("c", 3), fetched: &order}))

			report := newPipeline(db, reg, engine).Run(context.Background(), TriggerManual)

			assert.Equal(t, 8, report.Total)
			assert.Equal(t, []string{"a", "b", "c"}, order)

			b, ok := report.Source("b")
			require.True(t, ok)
			assert.True(t, b.Failed)
			assert.NotEmpty(t, b.Error)
			assert.Zero(t, b.Total())

			var matches int64
			require.NoError(t, db.Model(&models.Match{}).Count(&matches).Error)
			assert.EqualValues(t, 8, matches)
		})
	}
}

func TestRun_Idempotent(t *testing.T) {
	db, engine := setup(t)
	reg := NewRegistry()
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "nba", prefix: "nba", records: games("nba", 4)}))
	p := newPipeline(db, reg, engine)

	first := p.Run(context.Background(), TriggerManual)
	second := p.Run(context.Background(), TriggerSchedule)

	nba, _ := first.Source("nba")
	assert.Equal(t, 4, nba.Created)
	nba, _ = second.Source("nba")
	assert.Equal(t, 0, nba.Created)
	assert.Equal(t, 4, nba.Updated)

	var matches, links int64
	require.NoError(t, db.Model(&models.Match{}).Count(&matches).Error)
	require.NoError(t, db.Model(&models.MatchBroadcast{}).Count(&links).Error)
	assert.EqualValues(t, 4, matches)
	assert.EqualValues(t, 4, links)
}

func TestRun_StaleEviction(t *testing.T) {
	ctx := context.Background()
	db, engine := setup(t)

	for id, at := range map[string]time.Time{"old": now.AddDate(0, 0, -8), "recent": now.AddDate(0, 0, -6)} {
		_, err := engine.Ingest(ctx, reconcile.RawMatch{
			SourcePrefix: "nba", NativeID: id, LeagueName: "NBA",
			HomeTeamName: "Home", AwayTeamName: "Away", DateTimeUTC: at,
			BroadcasterNames: []string{"DAZN"},
		}, reconcile.ModeMerge)
		require.NoError(t, err)
	}

	report := newPipeline(db, NewRegistry(), engine).Run(ctx, TriggerManual)
	assert.Equal(t, 1, report.Stale)

	var remaining []models.Match
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "nba-recent", remaining[0].ExternalID)

	var links int64
	require.NoError(t, db.Model(&models.MatchBroadcast{}).Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestRun_PriorityOrder(t *testing.T) {
	db, engine := setup(t)
	var order []string

	reg := NewRegistry()
	require.NoError(t, reg.Register(TierAI, &fakeSource{name: "ai", prefix: "ai", fetched: &order}))
	require.NoError(t, reg.Register(TierScraper, &fakeSource{name: "scraper", prefix: "s", fetched: &order}))
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "nba", prefix: "nba", fetched: &order}))
	require.NoError(t, reg.Register(TierAggregator, &fakeSource{name: "bdl", prefix: "bdl", fetched: &order}))
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "euroleague", prefix: "el", fetched: &order}))

	report := newPipeline(db, reg, engine).Run(context.Background(), TriggerCLI)

	assert.Equal(t, []string{"nba", "euroleague", "bdl", "scraper", "ai"}, order)
	require.Len(t, report.Sources, 5)
	assert.Equal(t, "official", report.Sources[0].Tier)
	assert.Equal(t, "ai", report.Sources[4].Tier)
}

func TestRun_DisabledSource(t *testing.T) {
	ctx := context.Background()
	db, engine := setup(t)
	store := settings.New(db, nil)
	require.NoError(t, store.SetSourceEnabled(ctx, "b", false))

	var order []string
	reg := NewRegistry()
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "a", prefix: "a", records: games("a", 1), fetched: &order}))
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "b", prefix: "b", records: games("b", 2), fetched: &order}))

	report := newPipeline(db, reg, engine, WithToggles(store)).Run(ctx, TriggerManual)

	assert.Equal(t, []string{"a"}, order)
	b, _ := report.Source("b")
	assert.True(t, b.Disabled)
	assert.False(t, b.Failed)
	assert.Equal(t, 1, report.Total)
}

func TestRun_MissingConfiguration(t *testing.T) {
	ctx := context.Background()
	db, engine := setup(t)
	store := settings.New(db, map[string]string{"PRESENT_KEY": "secret"})

	var order []string
	reg := NewRegistry()
	require.NoError(t, reg.Register(TierAggregator, keyedSource{&fakeSource{name: "needs-key", prefix: "k", keys: []string{"MISSING_KEY"}, fetched: &order}}))
	require.NoError(t, reg.Register(TierAggregator, keyedSource{&fakeSource{name: "has-key", prefix: "h", keys: []string{"PRESENT_KEY"}, records: games("h", 2), fetched: &order}}))

	report := newPipeline(db, reg, engine, WithSecrets(store)).Run(ctx, TriggerManual)

	assert.Equal(t, []string{"has-key"}, order)
	skipped, _ := report.Source("needs-key")
	assert.Equal(t, []string{"MISSING_KEY"}, skipped.Missing)
	assert.False(t, skipped.Failed)
	assert.Equal(t, 2, report.Total)
}

func TestRun_PurgeBeforeRun(t *testing.T) {
	ctx := context.Background()
	db, engine := setup(t)

	_, err := engine.Ingest(ctx, reconcile.RawMatch{
		SourcePrefix: "tvguide-scraped", LeagueName: "NBA",
		HomeTeamName: "Old Home", AwayTeamName: "Old Away", DateTimeUTC: now.Add(time.Hour),
	}, reconcile.ModeMerge)
	require.NoError(t, err)
	_, err = engine.Ingest(ctx, reconcile.RawMatch{
		SourcePrefix: "nba", NativeID: "keep", LeagueName: "NBA",
		HomeTeamName: "Home", AwayTeamName: "Away", DateTimeUTC: now.Add(time.Hour),
	}, reconcile.ModeMerge)
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.Register(TierScraper, purgingSource{&fakeSource{name: "tvguide", prefix: "tvguide-scraped", purge: true, records: games("t", 2)}}))

	report := newPipeline(db, reg, engine).Run(ctx, TriggerManual)
	tv, _ := report.Source("tvguide")
	assert.EqualValues(t, 1, tv.Purged)
	assert.Equal(t, 2, tv.Created)

	var count int64
	require.NoError(t, db.Model(&models.Match{}).Where("source = ?", "tvguide-scraped").Count(&count).Error)
	assert.EqualValues(t, 2, count)
	require.NoError(t, db.Model(&models.Match{}).Where("external_id = ?", "nba-keep").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRun_PurgeBeforeRun_FetchErrorKeepsRows(t *testing.T) {
	ctx := context.Background()
	db, engine := setup(t)

	_, err := engine.Ingest(ctx, reconcile.RawMatch{
		SourcePrefix: "tvguide-scraped", LeagueName: "NBA",
		HomeTeamName: "Old Home", AwayTeamName: "Old Away", DateTimeUTC: now.Add(time.Hour),
	}, reconcile.ModeMerge)
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.Register(TierScraper, purgingSource{&fakeSource{name: "tvguide", prefix: "tvguide-scraped", purge: true,
		fetchErr: errors.New("guide down")}}))

	report := newPipeline(db, reg, engine).Run(ctx, TriggerManual)
	tv, _ := report.Source("tvguide")
	assert.True(t, tv.Failed)
	assert.Equal(t, "guide down", tv.Error)
	assert.Zero(t, tv.Purged)

	var count int64
	require.NoError(t, db.Model(&models.Match{}).Where("source = ?", "tvguide-scraped").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

type mockIngester struct{ mock.Mock }

func (m *mockIngester) Ingest(ctx context.Context, raw reconcile.RawMatch, mode reconcile.AttachMode) (reconcile.UpsertOutcome, error) {
	args := m.Called(ctx, raw, mode)
	return args.Get(0).(reconcile.UpsertOutcome), args.Error(1)
}

func TestRun_RecordErrors(t *testing.T) {
	db, _ := setup(t)
	records := games("x", 4)
	for i := range records {
		records[i].SourcePrefix = "x"
	}

	ing := new(mockIngester)
	ing.On("Ingest", mock.Anything, records[0], reconcile.ModeReplace).Return(reconcile.OutcomeCreated, nil)
	ing.On("Ingest", mock.Anything, records[1], reconcile.ModeReplace).Return(reconcile.UpsertOutcome(""), fmt.Errorf("wrap: %w", reconcile.ErrConflict))
	ing.On("Ingest", mock.Anything, records[3], reconcile.ModeReplace).Return(reconcile.OutcomeUpdated, nil)

	src := replacingSource{&fakeSource{name: "x", prefix: "x", mode: reconcile.ModeReplace, records: records,
		errs: map[int]error{2: errors.New("unexpected shape")}}}
	reg := NewRegistry()
	require.NoError(t, reg.Register(TierAI, src))

	report := newPipeline(db, reg, ing).Run(context.Background(), TriggerManual)

	x, _ := report.Source("x")
	assert.Equal(t, 1, x.Created)
	assert.Equal(t, 1, x.Updated)
	assert.Equal(t, 2, x.Skipped)
	assert.False(t, x.Failed)
	assert.Equal(t, 2, report.Total)
	ing.AssertExpectations(t)
}

func TestRun_AttachFailureStillCounted(t *testing.T) {
	db, _ := setup(t)
	records := games("x", 2)
	for i := range records {
		records[i].SourcePrefix = "x"
	}

	ing := new(mockIngester)
	ing.On("Ingest", mock.Anything, records[0], reconcile.ModeMerge).Return(reconcile.OutcomeCreated, errors.New("attach failed"))
	ing.On("Ingest", mock.Anything, records[1], reconcile.ModeMerge).Return(reconcile.OutcomeUpdated, errors.New("attach failed"))

	reg := NewRegistry()
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "x", prefix: "x", records: records}))

	report := newPipeline(db, reg, ing).Run(context.Background(), TriggerManual)

	x, _ := report.Source("x")
	assert.Equal(t, 1, x.Created)
	assert.Equal(t, 1, x.Updated)
	assert.Zero(t, x.Skipped)
	assert.Equal(t, 2, report.Total)
	ing.AssertExpectations(t)
}

func TestRun_EmptyRunWarns(t *testing.T) {
	db, engine := setup(t)
	core, logs := observer.New(zapcore.WarnLevel)

	reg := NewRegistry()
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "empty", prefix: "e"}))
	p := New(db, reg, engine, zap.New(core), Config{StaleDays: 7})

	report := p.Run(context.Background(), TriggerSchedule)
	assert.Zero(t, report.Total)
	assert.Equal(t, 1, logs.FilterMessage("Update run produced no matches").Len())
}

type mockArchive struct{ mock.Mock }

func (m *mockArchive) PutJSON(ctx context.Context, key string, v any) error {
	return m.Called(ctx, key, v).Error(0)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) ObserveRun(trigger string, stale, total int, elapsed time.Duration) {
	m.Called(trigger, stale, total, elapsed)
}

func (m *mockRecorder) ObserveSource(source string, created, updated, skipped int, failed bool) {
	m.Called(source, created, updated, skipped, failed)
}

func TestRun_HistoryArchiveAndMetrics(t *testing.T) {
	ctx := context.Background()
	db, engine := setup(t)

	reg := NewRegistry()
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "nba", prefix: "nba", records: games("nba", 2)}))
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "down", prefix: "down", fetchErr: errors.New("timeout")}))

	archive := new(mockArchive)
	archive.On("PutJSON", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 0 && key[:len("runs/2025-02-10/")] == "runs/2025-02-10/"
	}), mock.Anything).Return(errors.New("bucket unavailable")).Once()

	recorder := new(mockRecorder)
	recorder.On("ObserveSource", "nba", 2, 0, 0, false).Once()
	recorder.On("ObserveSource", "down", 0, 0, 0, true).Once()
	recorder.On("ObserveRun", TriggerManual, 0, 2, mock.Anything).Once()

	p := newPipeline(db, reg, engine, WithArchive(archive), WithRecorder(recorder))
	report := p.Run(ctx, TriggerManual)

	// Archive failures never affect ingestion.
	assert.Equal(t, 2, report.Total)
	archive.AssertExpectations(t)
	recorder.AssertExpectations(t)

	runs, err := p.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].RunID)
	assert.Equal(t, 2, runs[0].Total)
	require.Len(t, runs[0].Sources, 2)
	assert.True(t, runs[0].Sources[1].Failed)
}

func TestRun_ArchivesRecordsBeforePanic(t *testing.T) {
	db, engine := setup(t)
	records := games("nba", 3)

	reg := NewRegistry()
	require.NoError(t, reg.Register(TierOfficial, &fakeSource{name: "nba", prefix: "nba", records: records, panicAt: 2}))

	archive := new(mockArchive)
	archive.On("PutJSON", mock.Anything, mock.Anything, mock.MatchedBy(func(v any) bool {
		got, ok := v.([]reconcile.RawMatch)
		return ok && len(got) == 2 && got[0].NativeID == "1" && got[1].NativeID == "2"
	})).Return(nil).Once()

	report := newPipeline(db, reg, engine, WithArchive(archive)).Run(context.Background(), TriggerManual)

	nba, _ := report.Source("nba")
	assert.True(t, nba.Failed)
	assert.Contains(t, nba.Error, "panic")
	assert.Equal(t, 2, nba.Created)
	archive.AssertExpectations(t)
}

func TestPurgeSource_EmptyPrefix(t *testing.T) {
	db, engine := setup(t)
	_, err := newPipeline(db, NewRegistry(), engine).PurgeSource(context.Background(), "")
	assert.Error(t, err)
}
