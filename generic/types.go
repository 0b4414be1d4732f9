/*
Package generic provides the core holiday calculation engine.

PURPOSE:
  This package contains region-agnostic types and algorithms for deriving
  public holidays. Whether computing Chile, one of its regions, or a
  data-defined company calendar, the same engine handles dates, holiday
  occurrences, substitute days, result sets and name resolution.

KEY CONCEPTS IN THIS FILE (types.go):
  - Holiday: One concrete dated occurrence (key, date, names, type)
  - Substitute: A holiday observed on another day, linked to its original
  - Type: Legal/practical weight of a day (official, observance, ...)
  - Params/Scope: The {year, timezone, locale} inputs of one computation
  - Provider: The rule-composition unit for one region

DESIGN PRINCIPLES:
  1. Immutability: Holidays are built once and never modified
  2. Purity: A computation depends only on its Params and the name table
  3. Composition: Sub-regions call their parent's computation explicitly
  4. Injection: Translation tables are passed in, never global

USAGE:
  scope, err := generic.NewScope("Chile", generic.Params{Year: 2017}, "America/Santiago", names)
  h := scope.NewHoliday("navyDay", map[string]string{"es_CL": "Día de las Glorias Navales"},
      scope.Date(time.May, 21), generic.TypeOfficial)

SEE ALSO:
  - set.go: Result collection with unique keys
  - time.go: Date arithmetic and Easter
  - registry.go: Region lookup
*/
package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// HOLIDAY TYPE
// =============================================================================

type Type string

const (
	TypeOfficial   Type = "official"
	TypeObservance Type = "observance"
	TypeBank       Type = "bank"
	TypeSeason     Type = "season"
	TypeOther      Type = "other"
)

// Types lists every valid Type.
var Types = []Type{TypeOfficial, TypeObservance, TypeBank, TypeSeason, TypeOther}

// ParseType parses a type name. The legacy "national" kind maps to TypeOfficial.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeOfficial, TypeObservance, TypeBank, TypeSeason, TypeOther:
		return t, nil
	case "national":
		return TypeOfficial, nil
	case "":
		return TypeOfficial, nil
	default:
		return "", &InvalidArgumentError{Field: "type", Value: s}
	}
}

// =============================================================================
// HOLIDAY - One concrete occurrence
// =============================================================================

// SubstitutePrefix starts the key of every substitute holiday.
const SubstitutePrefix = "substituteHoliday:"

// Holiday is one dated holiday instance in a region-year.
// Treat it as immutable; constructors copy the Names map.
type Holiday struct {
	Key    string
	Date   Date
	Names  map[string]string // normalized locale -> display name
	Type   Type
	Locale string // display locale requested for the computation

	// Observed is the original holiday when this one substitutes for it.
	Observed *Holiday
}

// NewHoliday builds a holiday. Locale keys in names are normalized.
func NewHoliday(key string, names map[string]string, date Date, typ Type, locale string) Holiday {
	if typ == "" {
		typ = TypeOfficial
	}
	return Holiday{
		Key:    key,
		Date:   date,
		Names:  normalizeNames(names),
		Type:   typ,
		Locale: NormalizeLocale(locale),
	}
}

// NewSubstitute builds the holiday observed on date in place of observed.
// Empty names let the original holiday's name show through.
func NewSubstitute(observed Holiday, date Date, names map[string]string, typ Type) Holiday {
	h := NewHoliday(SubstitutePrefix+observed.Key, names, date, typ, observed.Locale)
	orig := observed
	h.Observed = &orig
	return h
}

// IsSubstitute reports whether h stands in for another holiday.
func (h Holiday) IsSubstitute() bool { return h.Observed != nil }

// Name returns the display name in the computation locale.
func (h Holiday) Name() string { return h.NameIn(h.Locale) }

// NameIn resolves the display name for locale: the locale, its parents,
// DefaultLocale; then the observed holiday's name for substitutes; then the key.
func (h Holiday) NameIn(locale string) string {
	for _, l := range LocaleChain(locale, DefaultLocale) {
		if name, ok := h.Names[l]; ok {
			return name
		}
	}
	if h.Observed != nil {
		return h.Observed.NameIn(locale)
	}
	return h.Key
}

func (h Holiday) String() string {
	return fmt.Sprintf("%s (%s) %s", h.Key, h.Type, h.Date)
}

// =============================================================================
// COMPUTATION INPUTS
// =============================================================================

// Params are the inputs of one provider computation.
// Empty Timezone and Locale mean the provider's defaults.
type Params struct {
	Year     int
	Timezone string
	Locale   string
}

// Translator supplies the shared name table. Names returns a fresh map
// (locale -> name) for key, or nil.
type Translator interface {
	Names(key string) map[string]string
}

// Scope is a resolved Params: what every rule function receives.
type Scope struct {
	Region   string
	Year     int
	Location *time.Location
	Locale   string
	Names    Translator
}

// NewScope resolves p for region. defaultTimezone applies when p.Timezone
// is empty. An unknown zone is the only failure.
func NewScope(region string, p Params, defaultTimezone string, names Translator) (Scope, error) {
	tz := p.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := LoadLocation(tz)
	if err != nil {
		return Scope{}, fmt.Errorf("%s %d: %w", region, p.Year, err)
	}
	locale := p.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	return Scope{
		Region:   region,
		Year:     p.Year,
		Location: loc,
		Locale:   NormalizeLocale(locale),
		Names:    names,
	}, nil
}

// Params returns the inputs this scope was resolved from.
func (s Scope) Params() Params {
	return Params{Year: s.Year, Timezone: s.Location.String(), Locale: s.Locale}
}

// Date returns month/day of the scope year.
func (s Scope) Date(month time.Month, day int) Date {
	return NewDate(s.Year, month, day, s.Location)
}

// Easter returns Easter Sunday of the scope year.
func (s Scope) Easter() Date {
	return Easter(s.Year, s.Location)
}

// NewHoliday builds a holiday in this scope. Table names for key are the
// base; inline names override them per locale.
func (s Scope) NewHoliday(key string, inline map[string]string, date Date, typ Type) Holiday {
	names := make(map[string]string)
	if s.Names != nil {
		for locale, name := range s.Names.Names(key) {
			names[locale] = name
		}
	}
	for locale, name := range inline {
		names[locale] = name
	}
	return NewHoliday(key, names, date, typ, s.Locale)
}

// =============================================================================
// PROVIDER - Rule composition for one region
// =============================================================================

// Provider computes the holidays of one region. Implementations hold no
// per-computation state; Holidays may be called concurrently.
type Provider interface {
	// ID is the short code, e.g. "CL" or "CL-AP".
	ID() string

	// Region is the registry name, e.g. "Chile/AricaAndParinacota".
	Region() string

	// Timezone is the IANA zone used when Params.Timezone is empty.
	Timezone() string

	// Holidays computes the full set for p. Fails only on malformed inputs
	// or a duplicate key.
	Holidays(p Params) (*Set, error)
}
