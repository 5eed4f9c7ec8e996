package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/core/pipeline"

	"go.uber.org/zap"
)

// ErrUnknownSource is returned when toggling a source that is not registered.
var ErrUnknownSource = errors.New("unknown source")

// Runner is the part of the pipeline the admin surface drives.
type Runner interface {
	Run(ctx context.Context, trigger string) pipeline.Report
	CleanStale(ctx context.Context, now time.Time) (int64, error)
	PurgeSource(ctx context.Context, prefix string) (int64, error)
	Runs(ctx context.Context, limit int) ([]pipeline.Report, error)
	Registry() *pipeline.Registry
}

// Toggles reads and writes the enabled flag of sources.
type Toggles interface {
	SourceEnabled(ctx context.Context, source string) (bool, error)
	SetSourceEnabled(ctx context.Context, source string, enabled bool) error
}

// SourceStatus describes a registered source.
type SourceStatus struct {
	Name     string   `json:"name"`
	Prefix   string   `json:"prefix"`
	Tier     string   `json:"tier"`
	Enabled  bool     `json:"enabled"`
	Requires []string `json:"requires,omitempty"`
}

// Service runs administrative operations for the HTTP handler and the CLI.
type Service struct {
	runner  Runner
	toggles Toggles
	logger  *zap.Logger
}

// NewService creates an admin service.
func NewService(runner Runner, toggles Toggles, logger *zap.Logger) *Service {
	return &Service{runner: runner, toggles: toggles, logger: logger}
}

// Update performs one full run. The pipeline reports source failures in the
// report; an error here means the run itself could not complete.
func (s *Service) Update(ctx context.Context, trigger string) (report pipeline.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Update run panicked", zap.Any("panic", r))
			err = fmt.Errorf("run panicked: %v", r)
		}
	}()

	report = s.runner.Run(ctx, trigger)
	if cerr := ctx.Err(); cerr != nil {
		return report, fmt.Errorf("run interrupted: %w", cerr)
	}
	return report, nil
}

// Clean deletes matches past the stale window.
func (s *Service) Clean(ctx context.Context) (int64, error) {
	return s.runner.CleanStale(ctx, time.Now())
}

// Purge deletes every match of a source prefix.
func (s *Service) Purge(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		return 0, errors.New("prefix is required")
	}
	return s.runner.PurgeSource(ctx, prefix)
}

// Runs returns the most recent runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]pipeline.Report, error) {
	return s.runner.Runs(ctx, limit)
}

// Sources lists registered sources in run order with their enabled flag.
func (s *Service) Sources(ctx context.Context) ([]SourceStatus, error) {
	var out []SourceStatus
	for _, reg := range s.runner.Registry().Sources() {
		enabled, err := s.toggles.SourceEnabled(ctx, reg.Source.Name())
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", reg.Source.Name(), err)
		}
		st := SourceStatus{
			Name:    reg.Source.Name(),
			Prefix:  reg.Source.Prefix(),
			Tier:    reg.Tier.String(),
			Enabled: enabled,
		}
		if ks, ok := reg.Source.(pipeline.KeyedSource); ok {
			st.Requires = ks.RequiredKeys()
		}
		out = append(out, st)
	}
	return out, nil
}

// SetSourceEnabled toggles a registered source.
func (s *Service) SetSourceEnabled(ctx context.Context, name string, enabled bool) error {
	if _, ok := s.runner.Registry().Lookup(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	if err := s.toggles.SetSourceEnabled(ctx, name, enabled); err != nil {
		return err
	}
	s.logger.Info("Source toggled", zap.String("source", name), zap.Bool("enabled", enabled))
	return nil
}
