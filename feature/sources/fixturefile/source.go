package fixturefile

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"

	"courtside/core/reconcile"
)

const (
	Name   = "fixturefile"
	Prefix = "file"
)

// Source reads hand-maintained fixtures from a JSON file, typically for
// competitions no connector covers.
type Source struct {
	cfg Config
}

// New creates the source.
func New(cfg Config) *Source {
	return &Source{cfg: cfg}
}

func (s *Source) Name() string   { return Name }
func (s *Source) Prefix() string { return Prefix }

func (s *Source) AttachMode() reconcile.AttachMode {
	if s.cfg.Replace {
		return reconcile.ModeReplace
	}
	return reconcile.ModeMerge
}

// Fetch reads the whole file. Records take the source prefix whatever
// their own prefix field says.
func (s *Source) Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error) {
	data, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", s.cfg.Path, err)
	}

	return func(yield func(reconcile.RawMatch, error) bool) {
		for i, rec := range records {
			if ctx.Err() != nil {
				return
			}
			if !yield(decode(i, rec)) {
				return
			}
		}
	}, nil
}

type record struct {
	reconcile.RawMatch
	Status string `json:"status"`
}

func decode(i int, data json.RawMessage) (reconcile.RawMatch, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return reconcile.RawMatch{}, fmt.Errorf("%w: fixture %d: %w", reconcile.ErrInvalidRecord, i, err)
	}
	raw := rec.RawMatch
	raw.SourcePrefix = Prefix
	raw.Status = reconcile.NormalizeStatus(rec.Status)
	if !raw.Status.HasScore() {
		raw.HomeScore, raw.AwayScore = nil, nil
	}
	return raw, nil
}
