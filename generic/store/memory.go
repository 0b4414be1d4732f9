// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warp/holiday-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	sets      map[key]*generic.Set
	calendars map[string]generic.CalendarRecord
	now       func() time.Time
}

type key struct {
	Region string
	Year   int
	Locale string
}

func NewMemory() *Memory {
	return &Memory{
		sets:      make(map[key]*generic.Set),
		calendars: make(map[string]generic.CalendarRecord),
		now:       time.Now,
	}
}

var _ generic.Store = (*Memory)(nil)

func setKey(region string, year int, locale string) key {
	return key{Region: strings.ToLower(region), Year: year, Locale: generic.NormalizeLocale(locale)}
}

// SaveHolidays stores a private copy of set.
func (m *Memory) SaveHolidays(_ context.Context, set *generic.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[setKey(set.Region(), set.Year(), set.Locale())] = set.Clone()
	return nil
}

func (m *Memory) LoadHolidays(_ context.Context, region string, year int, locale string) (*generic.Set, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.sets[setKey(region, year, locale)]
	if !ok {
		return nil, false, nil
	}
	return set.Clone(), true, nil
}

func (m *Memory) DeleteHolidays(_ context.Context, region string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	region = strings.ToLower(region)
	for k := range m.sets {
		if k.Region == region {
			delete(m.sets, k)
		}
	}
	return nil
}

// =============================================================================
// CALENDAR DEFINITIONS
// =============================================================================

func (m *Memory) SaveCalendar(_ context.Context, rec generic.CalendarRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	if prev, ok := m.calendars[rec.ID]; ok {
		rec.Version = prev.Version + 1
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.Version = 1
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.calendars[rec.ID] = rec
	return nil
}

func (m *Memory) GetCalendar(_ context.Context, id string) (generic.CalendarRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.calendars[id]
	if !ok {
		return generic.CalendarRecord{}, generic.ErrCalendarNotFound
	}
	return rec, nil
}

func (m *Memory) ListCalendars(_ context.Context) ([]generic.CalendarRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.CalendarRecord, 0, len(m.calendars))
	for _, rec := range m.calendars {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) DeleteCalendar(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.calendars[id]; !ok {
		return generic.ErrCalendarNotFound
	}
	delete(m.calendars, id)
	return nil
}
