package pipeline

import (
	"fmt"
	"sort"
	"sync"
)

// Tier orders sources by trust. Lower tiers run first.
type Tier int

const (
	TierOfficial Tier = iota
	TierAggregator
	TierScraper
	TierAI
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierOfficial:
		return "official"
	case TierAggregator:
		return "aggregator"
	case TierScraper:
		return "scraper"
	case TierAI:
		return "ai"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Registered is a source together with its tier.
type Registered struct {
	Tier   Tier
	Source Source
}

// Registry holds the sources of a pipeline in priority order.
type Registry struct {
	mu      sync.RWMutex
	sources []Registered
	names   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a source. Names must be unique.
func (r *Registry) Register(tier Tier, src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := src.Name()
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("source %q already registered", name)
	}
	r.names[name] = struct{}{}
	r.sources = append(r.sources, Registered{Tier: tier, Source: src})
	return nil
}

// Sources returns the sources ordered by tier, then by registration order.
func (r *Registry) Sources() []Registered {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registered, len(r.sources))
	copy(out, r.sources)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

// Lookup returns the source registered under name.
func (r *Registry) Lookup(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, reg := range r.sources {
		if reg.Source.Name() == name {
			return reg.Source, true
		}
	}
	return nil, false
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}
