package generic

import (
	"sort"
)

// =============================================================================
// SET - Holidays of one region-year, unique by key
// =============================================================================

// Set is the result of one provider computation. Keys are unique; adding a
// key twice fails with DuplicateKeyError.
//
// A Set is built by a single computation and then only read. It is not
// safe for concurrent mutation.
type Set struct {
	scope Scope
	items []Holiday
	index map[string]int
}

// NewSet returns an empty set for scope.
func NewSet(scope Scope) *Set {
	return &Set{scope: scope, index: make(map[string]int)}
}

// Extend starts a sub-region result from its parent's result. The parent
// set is copied, not shared.
func Extend(parent *Set, region string) *Set {
	s := parent.Clone()
	s.scope.Region = region
	return s
}

// Add appends holidays in order. Nothing is added if any key collides.
func (s *Set) Add(hs ...Holiday) error {
	seen := make(map[string]struct{}, len(hs))
	for _, h := range hs {
		_, dup := seen[h.Key]
		if _, exists := s.index[h.Key]; exists || dup {
			return &DuplicateKeyError{Region: s.scope.Region, Year: s.scope.Year, Key: h.Key}
		}
		seen[h.Key] = struct{}{}
	}
	for _, h := range hs {
		s.index[h.Key] = len(s.items)
		s.items = append(s.items, h)
	}
	return nil
}

// Remove drops key from the set. Calendars use it to exclude base holidays.
func (s *Set) Remove(key string) bool {
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	return true
}

func (s *Set) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, h := range s.items {
		s.index[h.Key] = i
	}
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	c := &Set{scope: s.scope, items: make([]Holiday, len(s.items))}
	copy(c.items, s.items)
	c.reindex()
	return c
}

// Accessors
func (s *Set) Scope() Scope   { return s.scope }
func (s *Set) Region() string { return s.scope.Region }
func (s *Set) Year() int      { return s.scope.Year }
func (s *Set) Locale() string { return s.scope.Locale }
func (s *Set) Len() int       { return len(s.items) }

// Get returns the holiday with key.
func (s *Set) Get(key string) (Holiday, bool) {
	i, ok := s.index[key]
	if !ok {
		return Holiday{}, false
	}
	return s.items[i], true
}

func (s *Set) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// All returns the holidays ordered by date; same-day holidays keep
// insertion order.
func (s *Set) All() []Holiday {
	out := make([]Holiday, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Keys returns keys in All order.
func (s *Set) Keys() []string {
	all := s.All()
	keys := make([]string, len(all))
	for i, h := range all {
		keys[i] = h.Key
	}
	return keys
}

// On returns the holidays falling on d.
func (s *Set) On(d Date) []Holiday {
	return s.filter(func(h Holiday) bool { return h.Date.Equal(d) })
}

// IsHoliday reports whether any holiday falls on d.
func (s *Set) IsHoliday(d Date) bool {
	for _, h := range s.items {
		if h.Date.Equal(d) {
			return true
		}
	}
	return false
}

// ByType returns the holidays of type t.
func (s *Set) ByType(t Type) []Holiday {
	return s.filter(func(h Holiday) bool { return h.Type == t })
}

// Between returns holidays in [from, to].
func (s *Set) Between(from, to Date) []Holiday {
	return s.filter(func(h Holiday) bool {
		return !h.Date.Before(from) && !h.Date.After(to)
	})
}

func (s *Set) filter(keep func(Holiday) bool) []Holiday {
	var out []Holiday
	for _, h := range s.All() {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}
