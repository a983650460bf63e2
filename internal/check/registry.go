package check

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pankaj-dahiya-devops/posture/internal/models"
)

// ErrDuplicateID is returned by Add when a check ID is already registered.
var ErrDuplicateID = errors.New("duplicate check ID")

// Registry is a simple in-memory set of checks keyed by ID.
// Discovery order is the lexical order of check IDs, independent of the
// order checks were registered in, so reports diff cleanly between scans.
type Registry struct {
	checks []Check
	index  map[string]Check
}

// NewRegistry returns an empty registry ready for check registration.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]Check)}
}

// Add registers c. It fails when the ID is empty or already registered.
func (r *Registry) Add(c Check) error {
	id := c.Metadata().ID
	if id == "" {
		return fmt.Errorf("register check: empty ID")
	}
	if _, exists := r.index[id]; exists {
		return fmt.Errorf("register check %q: %w", id, ErrDuplicateID)
	}
	r.checks = append(r.checks, c)
	r.index[id] = c
	return nil
}

// Register adds c and panics on failure, to catch wiring mistakes at startup.
func (r *Registry) Register(c Check) {
	if err := r.Add(c); err != nil {
		panic(err)
	}
}

// RegisterAll registers every check in cs.
func (r *Registry) RegisterAll(cs ...Check) {
	for _, c := range cs {
		r.Register(c)
	}
}

// Get returns the check registered under id.
func (r *Registry) Get(id string) (Check, bool) {
	c, ok := r.index[id]
	return c, ok
}

// Len returns the number of registered checks.
func (r *Registry) Len() int { return len(r.checks) }

// All returns every registered check in discovery order.
func (r *Registry) All() []Check {
	return r.Discover(Filter{})
}

// IDs returns every registered check ID in discovery order.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = c.Metadata().ID
	}
	return ids
}

// Filter narrows discovery. Zero values select everything.
type Filter struct {
	// Providers keeps only checks for these providers.
	Providers []models.Provider

	// Include keeps only these check IDs.
	Include []string

	// Exclude drops these check IDs. Exclude wins over Include.
	Exclude []string

	// Enabled, when set, is consulted last (e.g. a scan policy).
	Enabled func(models.CheckMetadata) bool
}

func (f Filter) keep(meta models.CheckMetadata) bool {
	if len(f.Providers) > 0 && !contains(f.Providers, meta.Provider) {
		return false
	}
	if len(f.Include) > 0 && !contains(f.Include, meta.ID) {
		return false
	}
	if contains(f.Exclude, meta.ID) {
		return false
	}
	if f.Enabled != nil && !f.Enabled(meta) {
		return false
	}
	return true
}

// Discover returns the checks selected by f, sorted by ID.
func (r *Registry) Discover(f Filter) []Check {
	out := make([]Check, 0, len(r.checks))
	for _, c := range r.checks {
		if f.keep(c.Metadata()) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Metadata().ID < out[j].Metadata().ID
	})
	return out
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
