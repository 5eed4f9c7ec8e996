package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/core/logger"
	"courtside/core/reconcile"
	"courtside/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ingester writes one raw record.
type Ingester interface {
	Ingest(ctx context.Context, raw reconcile.RawMatch, mode reconcile.AttachMode) (reconcile.UpsertOutcome, error)
}

// Toggles decides whether a source may run.
type Toggles interface {
	SourceEnabled(ctx context.Context, source string) (bool, error)
}

// Secrets resolves configuration keys such as API keys.
type Secrets interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
}

// Archiver stores documents describing a run.
type Archiver interface {
	PutJSON(ctx context.Context, key string, v any) error
}

// Recorder receives run metrics.
type Recorder interface {
	ObserveRun(trigger string, stale, total int, elapsed time.Duration)
	ObserveSource(source string, created, updated, skipped int, failed bool)
}

// Pipeline runs every registered source in priority order and ingests what
// they yield. Sources run one after the other, never in parallel.
type Pipeline struct {
	db       *gorm.DB
	registry *Registry
	ingester Ingester
	log      *zap.Logger
	cfg      Config

	toggles  Toggles
	secrets  Secrets
	archive  Archiver
	recorder Recorder
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithToggles sets the source toggle lookup. Without it every source is enabled.
func WithToggles(t Toggles) Option {
	return func(p *Pipeline) { p.toggles = t }
}

// WithSecrets sets the lookup used for KeyedSource checks.
func WithSecrets(s Secrets) Option {
	return func(p *Pipeline) { p.secrets = s }
}

// WithArchive enables archiving of raw records.
func WithArchive(a Archiver) Option {
	return func(p *Pipeline) { p.archive = a }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline.
func New(db *gorm.DB, registry *Registry, ingester Ingester, log *zap.Logger, cfg Config, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.StaleDays <= 0 {
		cfg.StaleDays = 7
	}
	p := &Pipeline{
		db:       db,
		registry: registry,
		ingester: ingester,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the pipeline's sources.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Run executes one update: the stale sweep, then every source in order.
// It never returns an error; failures are logged and reported per source.
func (p *Pipeline) Run(ctx context.Context, trigger string) Report {
	report := Report{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: p.now().UTC(),
		Sources:   []SourceReport{},
	}
	log := logger.WithRun(p.log, report.RunID, trigger)
	log.Info("Update run started", zap.Int("sources", p.registry.Len()))

	stale, err := p.CleanStale(ctx, report.StartedAt)
	if err != nil {
		log.Error("Stale sweep failed", zap.Error(err))
	}
	report.Stale = int(stale)
	p.pruneArchive(ctx, log, report.StartedAt)

	for _, reg := range p.registry.Sources() {
		sr := p.runSource(ctx, log, reg, report)
		report.Sources = append(report.Sources, sr)
		report.Total += sr.Total()
	}

	report.FinishedAt = p.now().UTC()

	if report.Total == 0 {
		log.Warn("Update run produced no matches", zap.Int("sources", len(report.Sources)))
	}
	if p.recorder != nil {
		p.recorder.ObserveRun(trigger, report.Stale, report.Total, report.Elapsed())
	}
	if err := p.saveRun(ctx, report); err != nil {
		log.Error("Failed to record run", zap.Error(err))
	}

	log.Info("Update run finished",
		zap.Int("total", report.Total),
		zap.Int("stale", report.Stale),
		zap.Duration("elapsed", report.Elapsed()),
	)
	return report
}

// runSource processes one source. Panics and errors stay inside.
func (p *Pipeline) runSource(ctx context.Context, runLog *zap.Logger, reg Registered, run Report) (sr SourceReport) {
	src := reg.Source
	sr = SourceReport{Name: src.Name(), Tier: reg.Tier.String()}
	log := runLog.With(zap.String("source", sr.Name))

	// Records yielded so far, archived even when the source panics mid-stream.
	var archived []reconcile.RawMatch
	defer func() {
		if r := recover(); r != nil {
			sr.Failed = true
			sr.Error = fmt.Sprintf("panic: %v", r)
			log.Error("Source panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		p.archiveRecords(ctx, log, run, sr.Name, archived)
		if p.recorder != nil && !sr.Disabled && len(sr.Missing) == 0 {
			p.recorder.ObserveSource(sr.Name, sr.Created, sr.Updated, sr.Skipped, sr.Failed)
		}
	}()

	if p.toggles != nil {
		enabled, err := p.toggles.SourceEnabled(ctx, sr.Name)
		if err != nil {
			log.Warn("Could not read source toggle, assuming enabled", zap.Error(err))
		}
		if !enabled {
			sr.Disabled = true
			log.Info("Source disabled, skipping")
			return sr
		}
	}

	if missing := p.missingKeys(ctx, log, src); len(missing) > 0 {
		sr.Missing = missing
		log.Info("Source not configured, skipping", zap.Strings("missing", missing))
		return sr
	}

	if timeout := p.cfg.SourceTimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	mode := reconcile.ModeMerge
	if rs, ok := src.(ReplacingSource); ok {
		mode = rs.AttachMode()
	}

	records, err := src.Fetch(ctx)
	if err != nil {
		sr.Failed = true
		sr.Error = err.Error()
		log.Error("Source fetch failed", zap.Error(err))
		return sr
	}

	// Only a successful fetch replaces what the source produced last time.
	if ps, ok := src.(PurgingSource); ok && ps.PurgeBeforeRun() {
		purged, err := p.PurgeSource(ctx, src.Prefix())
		if err != nil {
			log.Error("Prefix purge failed", zap.String("prefix", src.Prefix()), zap.Error(err))
		} else {
			sr.Purged = purged
			log.Info("Purged source matches", zap.Int64("deleted", purged))
		}
	}

	for raw, err := range records {
		if err != nil {
			if errors.Is(err, ErrStreamBroken) {
				sr.Failed = true
				sr.Error = err.Error()
				log.Error("Source stream broken", zap.Error(err))
				break
			}
			sr.Skipped++
			log.Warn("Skipping unreadable record", zap.Error(err))
			continue
		}

		if raw.SourcePrefix == "" {
			raw.SourcePrefix = src.Prefix()
		}
		if p.archive != nil {
			archived = append(archived, raw)
		}

		outcome, err := p.ingester.Ingest(ctx, raw, mode)
		switch {
		case errors.Is(err, reconcile.ErrConflict):
			sr.Skipped++
			log.Debug("Match already exists, skipping", zap.String("external_id", raw.ExternalID()))
		case err != nil && outcome == "":
			sr.Skipped++
			log.Warn("Skipping record", zap.String("external_id", raw.ExternalID()), zap.Error(err))
		default:
			// The match row is written even when attaching broadcasters failed.
			if err != nil {
				log.Warn("Broadcaster attach failed", zap.String("external_id", raw.ExternalID()), zap.Error(err))
			}
			if outcome == reconcile.OutcomeCreated {
				sr.Created++
			} else {
				sr.Updated++
			}
		}

		if ctx.Err() != nil {
			sr.Failed = true
			sr.Error = ctx.Err().Error()
			log.Error("Source interrupted", zap.Error(ctx.Err()))
			break
		}
	}

	log.Info("Source finished",
		zap.Int("created", sr.Created),
		zap.Int("updated", sr.Updated),
		zap.Int("skipped", sr.Skipped),
	)
	return sr
}

func (p *Pipeline) archiveRecords(ctx context.Context, log *zap.Logger, run Report, source string, records []reconcile.RawMatch) {
	if p.archive == nil || len(records) == 0 {
		return
	}
	key := storage.RunKey(run.StartedAt, run.RunID, source)
	// The source context may have expired by now.
	if err := p.archive.PutJSON(context.WithoutCancel(ctx), key, records); err != nil {
		log.Warn("Failed to archive raw records", zap.String("key", key), zap.Error(err))
	}
}

// missingKeys returns the required keys of src that resolve to nothing.
func (p *Pipeline) missingKeys(ctx context.Context, log *zap.Logger, src Source) []string {
	ks, ok := src.(KeyedSource)
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range ks.RequiredKeys() {
		if p.secrets == nil {
			missing = append(missing, key)
			continue
		}
		_, found, err := p.secrets.Lookup(ctx, key)
		if err != nil {
			log.Warn("Could not read configuration key", zap.String("key", key), zap.Error(err))
		}
		if !found {
			missing = append(missing, key)
		}
	}
	return missing
}

func (p *Pipeline) pruneArchive(ctx context.Context, log *zap.Logger, now time.Time) {
	pruner, ok := p.archive.(interface {
		Prune(ctx context.Context, cutoff time.Time) (int, error)
	})
	if !ok || p.cfg.ArchiveRetentionDays <= 0 {
		return
	}
	cutoff := now.AddDate(0, 0, -p.cfg.ArchiveRetentionDays)
	removed, err := pruner.Prune(ctx, cutoff)
	if err != nil {
		log.Warn("Archive prune failed", zap.Error(err))
		return
	}
	if removed > 0 {
		log.Info("Pruned archived runs", zap.Int("removed", removed))
	}
}
