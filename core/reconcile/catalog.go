package reconcile

import (
	"context"
	"sort"
	"strings"

	"courtside/core/models"
)

// CatalogEntry describes a known broadcaster.
type CatalogEntry struct {
	Name    string
	Type    models.BroadcasterType
	IsFree  bool
	LogoURL string
	Aliases []string
}

// Catalog maps broadcaster spellings seen in sources to canonical entries.
type Catalog struct {
	entries map[string]CatalogEntry
	aliases map[string]string
}

// NewCatalog builds a catalogue from entries. Names and aliases are matched
// case-insensitively.
func NewCatalog(entries ...CatalogEntry) Catalog {
	c := Catalog{
		entries: make(map[string]CatalogEntry, len(entries)),
		aliases: make(map[string]string, len(entries)*2),
	}
	for _, entry := range entries {
		c.entries[entry.Name] = entry
		c.aliases[foldName(entry.Name)] = entry.Name
		for _, alias := range entry.Aliases {
			c.aliases[foldName(alias)] = entry.Name
		}
	}
	return c
}

// DefaultCatalog returns the French broadcasters carrying basketball.
func DefaultCatalog() Catalog {
	return NewCatalog(
		CatalogEntry{Name: "beIN SPORTS 1", Type: models.BroadcasterCable, Aliases: []string{"bein sports 1", "beIN 1", "beinsports1"}},
		CatalogEntry{Name: "beIN SPORTS 2", Type: models.BroadcasterCable, Aliases: []string{"bein sports 2", "beIN 2", "beinsports2"}},
		CatalogEntry{Name: "beIN SPORTS 3", Type: models.BroadcasterCable, Aliases: []string{"bein sports 3", "beIN 3", "beinsports3"}},
		CatalogEntry{Name: "beIN SPORTS MAX", Type: models.BroadcasterCable, Aliases: []string{"bein sports max"}},
		CatalogEntry{Name: "Prime Video", Type: models.BroadcasterStreaming, Aliases: []string{"Amazon Prime Video", "Amazon Prime"}},
		CatalogEntry{Name: "DAZN", Type: models.BroadcasterStreaming},
		CatalogEntry{Name: "La Chaîne L'Équipe", Type: models.BroadcasterTNT, IsFree: true, Aliases: []string{"L'Equipe", "L'Équipe", "La Chaine L'Equipe", "L'Equipe TV"}},
		CatalogEntry{Name: "Skweek", Type: models.BroadcasterStreaming},
		CatalogEntry{Name: "NBA League Pass", Type: models.BroadcasterStreaming, Aliases: []string{"League Pass"}},
		CatalogEntry{Name: "Canal+", Type: models.BroadcasterCable, Aliases: []string{"Canal Plus", "Canal+ Sport"}},
		CatalogEntry{Name: "RMC Sport 1", Type: models.BroadcasterCable, Aliases: []string{"RMC Sport"}},
		CatalogEntry{Name: "France TV", Type: models.BroadcasterTNT, IsFree: true, Aliases: []string{"France 2", "France 3", "France.tv", "France Télévisions"}},
		CatalogEntry{Name: "TV5 Monde", Type: models.BroadcasterTV, IsFree: true, Aliases: []string{"TV5", "TV5MONDE"}},
		CatalogEntry{Name: "Eurosport 1", Type: models.BroadcasterCable, Aliases: []string{"Eurosport"}},
		CatalogEntry{Name: "Eurosport 2", Type: models.BroadcasterCable},
		CatalogEntry{Name: "Sport en France", Type: models.BroadcasterTNT, IsFree: true},
		CatalogEntry{Name: "EuroLeague TV", Type: models.BroadcasterStreaming},
		CatalogEntry{Name: "FIBA TV", Type: models.BroadcasterStreaming, IsFree: true},
	)
}

// Canonical returns the catalogue spelling of name, or name with its
// whitespace normalized when it is not catalogued.
func (c Catalog) Canonical(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if canonical, ok := c.aliases[foldName(name)]; ok {
		return canonical
	}
	return name
}

// Lookup returns the entry for name or any of its aliases.
func (c Catalog) Lookup(name string) (CatalogEntry, bool) {
	entry, ok := c.entries[c.Canonical(name)]
	return entry, ok
}

// Entries returns the catalogue sorted by name.
func (c Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SeedBroadcasters resolves every catalogued broadcaster so the table is
// populated before the first run. It returns the number of entries resolved.
func (e *Engine) SeedBroadcasters(ctx context.Context) (int, error) {
	n := 0
	for _, entry := range e.catalog.Entries() {
		if _, err := e.ResolveBroadcaster(ctx, entry.Name, BroadcasterHint{}); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
