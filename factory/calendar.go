/*
Package factory provides JSON to Go calendar conversion.

PURPOSE:
  Converts JSON calendar definitions into generic.Provider values. This
  enables custom calendars without code changes: an organisation layers its
  own days (founder's day, a shutdown week, a one-off closure) over a
  registered region, and the result behaves like any built-in region.

JSON SCHEMA:
  {
    "id": "acme-santiago",
    "name": "ACME Santiago office",
    "base": "Chile",
    "timezone": "America/Santiago",
    "rules": ["christmasEve"],
    "exclude": ["armyDay"],
    "holidays": [
      {"key": "foundersDay", "month": 3, "day": 14, "from_year": 1998,
       "names": {"en": "Founder's Day", "es": "Día del Fundador"},
       "substitute": "sunday_to_monday"},
      {"key": "companyRetreat", "easter_offset": 3, "type": "other"},
      {"key": "officeMove2024", "month": 6, "day": 3, "year": 2024}
    ]
  }

GUARDS:
  from_year   establishment year (inclusive)
  until_year  abolition year (inclusive, last year observed)
  year        exact-year one-off; excludes from_year/until_year

EXCLUDE:
  Keys dropped from the base result, with their substitutes. A calendar
  may exclude a base holiday and define its own under the same key.

KEY FEATURES:
  - Validates structure and rejects keys already produced by the base
  - Rules reuse the shared catalog (rules.Catalog)
  - Substitute laws by name (rules.Laws)

USAGE:
  f := factory.NewCalendarFactory(registry, names)
  cal, err := f.ParseCalendar(jsonString)
  registry.Register(cal)

SEE ALSO:
  - rules/catalog.go: Shared rules by key
  - generic/store.go: CalendarRecord persistence
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warp/holiday-engine/generic"
	"github.com/warp/holiday-engine/rules"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CalendarJSON is the JSON representation of a calendar.
type CalendarJSON struct {
	ID       string        `json:"id"`
	Name     string        `json:"name,omitempty"`
	Base     string        `json:"base,omitempty"`
	Timezone string        `json:"timezone,omitempty"`
	Rules    []string      `json:"rules,omitempty"`
	Exclude  []string      `json:"exclude,omitempty"`
	Holidays []HolidayJSON `json:"holidays,omitempty"`
}

// HolidayJSON defines one holiday: a fixed month/day or an Easter offset.
type HolidayJSON struct {
	Key          string            `json:"key"`
	Month        int               `json:"month,omitempty"`
	Day          int               `json:"day,omitempty"`
	EasterOffset *int              `json:"easter_offset,omitempty"`
	Type         string            `json:"type,omitempty"`
	Names        map[string]string `json:"names,omitempty"`
	FromYear     int               `json:"from_year,omitempty"`
	UntilYear    int               `json:"until_year,omitempty"`
	Year         int               `json:"year,omitempty"`
	Substitute   string            `json:"substitute,omitempty"`
}

// =============================================================================
// CALENDAR FACTORY
// =============================================================================

// Bases resolves the region a calendar extends. *generic.Registry implements it.
type Bases interface {
	Lookup(region string) (generic.Provider, error)
}

// CalendarFactory converts JSON calendars to providers.
type CalendarFactory struct {
	bases Bases
	names generic.Translator
}

// NewCalendarFactory creates a factory resolving bases through bases.
func NewCalendarFactory(bases Bases, names generic.Translator) *CalendarFactory {
	return &CalendarFactory{bases: bases, names: names}
}

// ParseCalendar parses a JSON string into a Calendar provider.
func (f *CalendarFactory) ParseCalendar(jsonStr string) (*Calendar, error) {
	var cj CalendarJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrInvalidDefinition, err)
	}
	return f.FromJSON(cj)
}

// FromJSON validates cj and builds the provider.
func (f *CalendarFactory) FromJSON(cj CalendarJSON) (*Calendar, error) {
	cj.ID = strings.TrimSpace(cj.ID)
	if cj.ID == "" {
		return nil, invalid("id is required")
	}
	if strings.Contains(cj.ID, "/") {
		return nil, invalid("id %q must not contain '/'", cj.ID)
	}

	if len(cj.Exclude) > 0 && cj.Base == "" {
		return nil, invalid("exclude requires a base")
	}
	cj.Exclude = append([]string(nil), cj.Exclude...)
	excluded := make(map[string]struct{}, len(cj.Exclude))
	for i, key := range cj.Exclude {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, invalid("exclude[%d] is empty", i)
		}
		if _, dup := excluded[key]; dup {
			return nil, invalid("exclude lists %q twice", key)
		}
		excluded[key] = struct{}{}
		cj.Exclude[i] = key
	}

	cal := &Calendar{def: cj, bases: f.bases, names: f.names}

	var base generic.Provider
	if cj.Base != "" {
		var err error
		if base, err = f.bases.Lookup(cj.Base); err != nil {
			return nil, fmt.Errorf("%w: base: %v", generic.ErrInvalidDefinition, err)
		}
		if err := f.checkChain(cj.ID, base); err != nil {
			return nil, err
		}
	}

	cal.timezone = cj.Timezone
	if cal.timezone == "" && base != nil {
		cal.timezone = base.Timezone()
	}
	if cal.timezone == "" {
		cal.timezone = "UTC"
	}
	if _, err := generic.LoadLocation(cal.timezone); err != nil {
		return nil, fmt.Errorf("%w: %w", generic.ErrInvalidDefinition, err)
	}

	seen := make(map[string]struct{})
	for _, name := range cj.Rules {
		rule, ok := rules.Lookup(name)
		if !ok {
			return nil, invalid("unknown rule %q", name)
		}
		if _, dup := seen[name]; dup {
			return nil, invalid("duplicate key %q", name)
		}
		seen[name] = struct{}{}
		cal.rules = append(cal.rules, rule)
	}

	for i, hj := range cj.Holidays {
		def, err := parseHoliday(hj)
		if err != nil {
			return nil, fmt.Errorf("holidays[%d]: %w", i, err)
		}
		if _, dup := seen[def.key]; dup {
			return nil, invalid("duplicate key %q", def.key)
		}
		seen[def.key] = struct{}{}
		cal.holidays = append(cal.holidays, def)
	}

	// A trial computation surfaces collisions with the base at definition
	// time instead of on the first request.
	if _, err := cal.Holidays(generic.Params{Year: time.Now().Year()}); err != nil {
		return nil, fmt.Errorf("%w: %w", generic.ErrInvalidDefinition, err)
	}

	return cal, nil
}

// checkChain rejects a base chain that leads back to the calendar id.
func (f *CalendarFactory) checkChain(id string, base generic.Provider) error {
	for p := base; ; {
		if strings.EqualFold(p.ID(), id) || strings.EqualFold(p.Region(), id) {
			return invalid("base chain of %q leads back to itself", id)
		}
		cal, ok := p.(*Calendar)
		if !ok || cal.def.Base == "" {
			return nil
		}
		next, err := cal.bases.Lookup(cal.def.Base)
		if err != nil {
			return fmt.Errorf("%w: base: %v", generic.ErrInvalidDefinition, err)
		}
		p = next
	}
}

// ToJSON renders the definition a calendar was built from.
func (f *CalendarFactory) ToJSON(cal *Calendar) (string, error) {
	b, err := json.MarshalIndent(cal.def, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

type holidayDef struct {
	key          string
	month        time.Month
	day          int
	easterOffset *int
	typ          generic.Type
	names        map[string]string
	fromYear     int
	untilYear    int
	year         int
	law          rules.Law
}

func parseHoliday(hj HolidayJSON) (holidayDef, error) {
	def := holidayDef{
		key:       strings.TrimSpace(hj.Key),
		names:     hj.Names,
		fromYear:  hj.FromYear,
		untilYear: hj.UntilYear,
		year:      hj.Year,
	}
	if def.key == "" {
		return def, invalid("key is required")
	}
	if strings.HasPrefix(def.key, generic.SubstitutePrefix) {
		return def, invalid("key %q uses the reserved %q prefix", def.key, generic.SubstitutePrefix)
	}

	switch {
	case hj.EasterOffset != nil && (hj.Month != 0 || hj.Day != 0):
		return def, invalid("%s: month/day and easter_offset are exclusive", def.key)
	case hj.EasterOffset != nil:
		def.easterOffset = hj.EasterOffset
	default:
		if hj.Month < 1 || hj.Month > 12 {
			return def, invalid("%s: month %d out of range", def.key, hj.Month)
		}
		if hj.Day < 1 || hj.Day > daysIn(time.Month(hj.Month)) {
			return def, invalid("%s: day %d out of range", def.key, hj.Day)
		}
		def.month = time.Month(hj.Month)
		def.day = hj.Day
	}

	typ, err := generic.ParseType(hj.Type)
	if err != nil {
		return def, fmt.Errorf("%w: %s: %w", generic.ErrInvalidDefinition, def.key, err)
	}
	def.typ = typ

	if hj.Year != 0 && (hj.FromYear != 0 || hj.UntilYear != 0) {
		return def, invalid("%s: year excludes from_year/until_year", def.key)
	}
	if hj.FromYear != 0 && hj.UntilYear != 0 && hj.UntilYear < hj.FromYear {
		return def, invalid("%s: until_year %d before from_year %d", def.key, hj.UntilYear, hj.FromYear)
	}

	if hj.Substitute != "" {
		law, ok := rules.Laws[hj.Substitute]
		if !ok {
			return def, invalid("%s: unknown substitute law %q", def.key, hj.Substitute)
		}
		def.law = law
	}
	return def, nil
}

// daysIn allows February 29; non-leap years roll it to March 1 like time.Date.
func daysIn(m time.Month) int {
	if m == time.February {
		return 29
	}
	return time.Date(2001, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", generic.ErrInvalidDefinition, fmt.Sprintf(format, args...))
}

// applies reports whether the definition holds in year.
func (d holidayDef) applies(year int) bool {
	if d.year != 0 {
		return year == d.year
	}
	if d.fromYear != 0 && year < d.fromYear {
		return false
	}
	if d.untilYear != 0 && year > d.untilYear {
		return false
	}
	return true
}

func (d holidayDef) build(s generic.Scope) []generic.Holiday {
	if !d.applies(s.Year) {
		return nil
	}
	var date generic.Date
	if d.easterOffset != nil {
		date = s.Easter().AddDays(*d.easterOffset)
	} else {
		date = s.Date(d.month, d.day)
	}
	h := s.NewHoliday(d.key, d.names, date, d.typ)
	if d.law == nil {
		return []generic.Holiday{h}
	}
	if sub, ok := d.law(h, nil, d.typ); ok {
		return []generic.Holiday{h, sub}
	}
	return []generic.Holiday{h}
}
