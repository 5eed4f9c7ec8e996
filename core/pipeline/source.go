package pipeline

import (
	"context"
	"errors"
	"iter"

	"courtside/core/reconcile"
)

// ErrStreamBroken is wrapped by sources whose record stream cannot continue,
// e.g. when a later page of a paginated API fails. Other yielded errors only
// skip the record they belong to.
var ErrStreamBroken = errors.New("pipeline: source stream broken")

// Source yields raw match records from one external origin.
//
// Fetch returns a lazy, finite sequence. It is consumed once per run; every
// run calls Fetch again.
type Source interface {
	// Name is the unique name used in logs, reports and toggles.
	Name() string
	// Prefix namespaces the external ids of the source's matches.
	Prefix() string
	// Fetch starts reading the source.
	Fetch(ctx context.Context) (iter.Seq2[reconcile.RawMatch, error], error)
}

// KeyedSource is implemented by sources that need configuration keys,
// such as API keys, before they can run.
type KeyedSource interface {
	RequiredKeys() []string
}

// ReplacingSource is implemented by sources that re-derive the full
// broadcaster set of their matches on every run.
type ReplacingSource interface {
	AttachMode() reconcile.AttachMode
}

// PurgingSource is implemented by sources whose matches are deleted
// before each run, typically scrapers with synthetic ids.
type PurgingSource interface {
	PurgeBeforeRun() bool
}
