/*
registry.go - Region provider registration and lookup

PURPOSE:
  Maps region identifiers ("Chile", "Chile/AricaAndParinacota", "CL-AP")
  to providers and runs computations with well-formed inputs.

HOW IT WORKS:
  1. Region packages build their providers
  2. Callers register them on a Registry (e.g. chile.Register(reg, names))
  3. API/CLI resolve a region string and call Holidays()

WHY AN INSTANCE, NOT A GLOBAL:
  Tests build registries with fixture name tables, and data-defined
  calendars are added and removed at runtime.

SEE ALSO:
  - types.go: Provider interface
  - chile/register.go: Built-in registrations
  - factory/calendar.go: Data-defined providers
*/
package generic

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// =============================================================================
// REGISTRY
// =============================================================================

type Registry struct {
	mu            sync.RWMutex
	providers     map[string]Provider // by lower-cased region name
	ids           map[string]string   // lower-cased ID -> lower-cased region name
	defaultLocale string
}

// NewRegistry creates an empty registry. defaultLocale is used when a
// caller passes no locale; empty means DefaultLocale.
func NewRegistry(defaultLocale string) *Registry {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	return &Registry{
		providers:     make(map[string]Provider),
		ids:           make(map[string]string),
		defaultLocale: NormalizeLocale(defaultLocale),
	}
}

// DefaultLocale returns the locale applied to calls without one.
func (r *Registry) DefaultLocale() string { return r.defaultLocale }

// Register adds providers. Region names and IDs are case-insensitive and
// must be unique across the registry.
func (r *Registry) Register(ps ...Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range ps {
		name := strings.ToLower(p.Region())
		id := strings.ToLower(p.ID())
		if _, exists := r.providers[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateRegion, p.Region())
		}
		if _, exists := r.ids[id]; exists && id != "" {
			return fmt.Errorf("%w: %s", ErrDuplicateRegion, p.ID())
		}
		r.providers[name] = p
		if id != "" {
			r.ids[id] = name
		}
	}
	return nil
}

// Unregister removes the provider registered under region (name or ID).
func (r *Registry) Unregister(region string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.lookupLocked(region)
	if !ok {
		return false
	}
	delete(r.providers, strings.ToLower(p.Region()))
	delete(r.ids, strings.ToLower(p.ID()))
	return true
}

// Lookup finds a provider by region name or ID.
func (r *Registry) Lookup(region string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.lookupLocked(region)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	return p, nil
}

func (r *Registry) lookupLocked(region string) (Provider, bool) {
	key := strings.ToLower(strings.TrimSpace(region))
	if p, ok := r.providers[key]; ok {
		return p, true
	}
	if name, ok := r.ids[key]; ok {
		return r.providers[name], true
	}
	return nil, false
}

// List returns all providers sorted by region name.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Region() < result[j].Region() })
	return result
}

// Resolve fills empty Params fields with the provider's timezone and the
// registry's default locale.
func (r *Registry) Resolve(p Provider, params Params) Params {
	if params.Timezone == "" {
		params.Timezone = p.Timezone()
	}
	if params.Locale == "" {
		params.Locale = r.defaultLocale
	}
	return params
}

// Holidays looks up region and computes its holidays for params.
func (r *Registry) Holidays(region string, params Params) (*Set, error) {
	p, err := r.Lookup(region)
	if err != nil {
		return nil, err
	}
	return p.Holidays(r.Resolve(p, params))
}
