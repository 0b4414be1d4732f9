/*
store.go - Persistence interfaces for computed holidays and calendar definitions

PURPOSE:
  Defines the interface between the engine and the database. Computing a
  region-year is cheap, but the API serves the same sets repeatedly and
  data-defined calendars must survive restarts.

KEY INTERFACES:
  HolidayStore:  Cache of computed sets keyed by (region, year, locale)
  CalendarStore: JSON calendar definitions (see factory/calendar.go)

CACHE CONTRACT:
  - A cached set is exactly what the provider computed: same keys, dates,
    names, types and substitute links.
  - DeleteHolidays(region) drops every cached year of a region. Callers
    invoke it whenever the region's definition changes.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - set.go: The cached value
  - api/handlers.go: Read-through usage
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// HOLIDAY STORE - Cache of computed sets
// =============================================================================

type HolidayStore interface {
	// SaveHolidays stores set under (set.Region(), set.Year(), set.Locale()),
	// replacing any previous entry.
	SaveHolidays(ctx context.Context, set *Set) error

	// LoadHolidays returns the cached set, or ok=false if absent.
	LoadHolidays(ctx context.Context, region string, year int, locale string) (set *Set, ok bool, err error)

	// DeleteHolidays drops every cached set of region.
	DeleteHolidays(ctx context.Context, region string) error
}

// =============================================================================
// CALENDAR STORE - Data-defined calendars
// =============================================================================

// CalendarRecord is a stored calendar definition.
type CalendarRecord struct {
	ID         string
	Name       string
	Base       string // parent region, may be empty
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CalendarStore interface {
	// SaveCalendar inserts or replaces a definition, bumping Version on replace.
	SaveCalendar(ctx context.Context, rec CalendarRecord) error

	// GetCalendar returns ErrCalendarNotFound if id is unknown.
	GetCalendar(ctx context.Context, id string) (CalendarRecord, error)

	ListCalendars(ctx context.Context) ([]CalendarRecord, error)

	// DeleteCalendar returns ErrCalendarNotFound if id is unknown.
	DeleteCalendar(ctx context.Context, id string) error
}

// Store is everything the API needs.
type Store interface {
	HolidayStore
	CalendarStore
}

// =============================================================================
// RESTORE - Rebuild a set from stored rows
// =============================================================================

// StoredHoliday is the flat form of a Holiday used by stores.
type StoredHoliday struct {
	Key         string
	Date        string // YYYY-MM-DD
	Type        Type
	Names       map[string]string
	ObservedKey string // original key for substitutes
}

// Flatten converts a holiday for storage.
func Flatten(h Holiday) StoredHoliday {
	sh := StoredHoliday{Key: h.Key, Date: h.Date.String(), Type: h.Type, Names: h.Names}
	if h.Observed != nil {
		sh.ObservedKey = h.Observed.Key
	}
	return sh
}

// RestoreSet rebuilds a set computed for (region, params). Rows must be in
// insertion order; substitutes are linked to the row named by ObservedKey.
func RestoreSet(region string, params Params, rows []StoredHoliday) (*Set, error) {
	scope, err := NewScope(region, params, params.Timezone, nil)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]Holiday, len(rows))
	holidays := make([]Holiday, 0, len(rows))
	for _, row := range rows {
		d, err := ParseDate(row.Date, scope.Location)
		if err != nil {
			return nil, err
		}
		h := NewHoliday(row.Key, row.Names, d, row.Type, scope.Locale)
		byKey[h.Key] = h
		holidays = append(holidays, h)
	}
	for i, row := range rows {
		if row.ObservedKey == "" {
			continue
		}
		if orig, ok := byKey[row.ObservedKey]; ok {
			holidays[i].Observed = &orig
		}
	}
	set := NewSet(scope)
	if err := set.Add(holidays...); err != nil {
		return nil, err
	}
	return set, nil
}

// Rows flattens a set in insertion order, the order RestoreSet expects.
func (s *Set) Rows() []StoredHoliday {
	rows := make([]StoredHoliday, len(s.items))
	for i, h := range s.items {
		rows[i] = Flatten(h)
	}
	return rows
}
