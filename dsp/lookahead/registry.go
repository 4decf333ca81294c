package lookahead

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// SearchEntry is one registered peak search strategy.
type SearchEntry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int
	Search    PeakSearch
}

// SearchRegistry stores available strategies.
type SearchRegistry struct {
	mu      sync.RWMutex
	entries []SearchEntry
	sorted  bool
}

// Searches is the default strategy registry.
var Searches = &SearchRegistry{}

func init() {
	Searches.Register(SearchEntry{
		Name:      "scalar",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Search:    ScalarSearch{},
	})
	Searches.Register(SearchEntry{
		Name:      "batched",
		SIMDLevel: cpu.SIMDSSE2,
		Priority:  10,
		Search:    BatchedSearch{},
	})
	Searches.Register(SearchEntry{
		Name:      "batched",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  10,
		Search:    BatchedSearch{},
	})
}

// Register adds a strategy entry.
func (r *SearchRegistry) Register(entry SearchEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority strategy supported by features.
func (r *SearchRegistry) Lookup(features cpu.Features) *SearchEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

// ByName returns the first entry registered under name.
func (r *SearchRegistry) ByName(name string) (*SearchEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		if r.entries[i].Name == name {
			entry := r.entries[i]
			return &entry, true
		}
	}

	return nil, false
}

func (r *SearchRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of entries for tests/debugging.
func (r *SearchRegistry) ListEntries() []SearchEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]SearchEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// DefaultSearch returns the best strategy for the running CPU.
func DefaultSearch() PeakSearch {
	if entry := Searches.Lookup(cpu.DetectFeatures()); entry != nil {
		return entry.Search
	}
	return ScalarSearch{}
}

// SearchByName resolves a strategy by name. An empty name selects
// DefaultSearch.
func SearchByName(name string) (PeakSearch, error) {
	if name == "" {
		return DefaultSearch(), nil
	}

	entry, ok := Searches.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown peak search strategy: %q", name)
	}

	return entry.Search, nil
}
