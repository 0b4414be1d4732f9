package generic

import (
	"fmt"
	"time"

	// Zone data is embedded so providers resolve their IANA zones on hosts
	// without a system zoneinfo database.
	_ "time/tzdata"
)

// =============================================================================
// DATE - Whole-day value anchored to a timezone
// =============================================================================

// Date is a calendar day in a specific location. Holidays are whole-day
// events, so the time of day is local midnight, or the first instant after
// it when a DST change skips midnight.
//
// Date is a value: every operation returns a new Date and never touches the
// receiver.
type Date struct {
	t time.Time
}

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// NewDate returns the given day in loc. A nil loc means UTC.
// Out-of-range values are normalized the way time.Date does it.
func NewDate(year int, month time.Month, day int, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	n := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	t := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	// A midnight skipped by a DST change may resolve to the previous evening.
	for t.Day() != n.Day() {
		t = t.Add(time.Hour)
	}
	return Date{t: t}
}

// DateOf truncates t to the calendar day it falls on in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day(), t.Location())
}

// ParseDate parses a YYYY-MM-DD string in loc.
func ParseDate(s string, loc *time.Location) (Date, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return Date{}, &InvalidArgumentError{Field: "date", Value: s, Err: err}
	}
	return DateOf(t), nil
}

// LoadLocation resolves an IANA zone name. Failures carry ErrInvalidArgument.
func LoadLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &InvalidArgumentError{Field: "timezone", Value: name, Err: err}
	}
	return loc, nil
}

// Comparison
func (d Date) Equal(o Date) bool  { return d.key() == o.key() }
func (d Date) Before(o Date) bool { return d.key() < o.key() }
func (d Date) After(o Date) bool  { return d.key() > o.key() }

// key orders dates by calendar day regardless of their locations.
func (d Date) key() int {
	return d.t.Year()*10000 + int(d.t.Month())*100 + d.t.Day()
}

// Arithmetic

// AddDays rebuilds the date through time.Date so DST gaps at midnight
// never push the result onto a neighbouring day.
func (d Date) AddDays(n int) Date {
	return NewDate(d.t.Year(), d.t.Month(), d.t.Day()+n, d.t.Location())
}

// Next returns the first date strictly after d falling on wd.
func (d Date) Next(wd time.Weekday) Date {
	n := (int(wd) - int(d.Weekday()) + 7) % 7
	if n == 0 {
		n = 7
	}
	return d.AddDays(n)
}

// Previous returns the last date strictly before d falling on wd.
func (d Date) Previous(wd time.Weekday) Date {
	n := (int(d.Weekday()) - int(wd) + 7) % 7
	if n == 0 {
		n = 7
	}
	return d.AddDays(-n)
}

// Properties
func (d Date) Year() int                { return d.t.Year() }
func (d Date) Month() time.Month        { return d.t.Month() }
func (d Date) Day() int                 { return d.t.Day() }
func (d Date) Weekday() time.Weekday    { return d.t.Weekday() }
func (d Date) Location() *time.Location { return d.t.Location() }
func (d Date) Time() time.Time          { return d.t }
func (d Date) IsZero() bool             { return d.t.IsZero() }
func (d Date) IsWeekend() bool          { wd := d.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (d Date) String() string           { return d.t.Format(DateLayout) }

// IsWorkday reports whether d is neither a weekend day nor a holiday in set.
func (d Date) IsWorkday(set *Set) bool {
	if d.IsWeekend() {
		return false
	}
	return set == nil || !set.IsHoliday(d)
}

// WeekdayOf returns the numeric weekday of d, 0 = Sunday.
func WeekdayOf(d Date) int { return int(d.Weekday()) }

// MarshalText renders the ISO date.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// =============================================================================
// MOVEABLE FEASTS
// =============================================================================

// Easter returns Gregorian Easter Sunday for year in loc, using the
// Meeus/Jones/Butcher algorithm.
func Easter(year int, loc *time.Location) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return NewDate(year, time.Month(month), day, loc)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to Date) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func StartOfYear(year int, loc *time.Location) Date { return NewDate(year, time.January, 1, loc) }
func EndOfYear(year int, loc *time.Location) Date   { return NewDate(year, time.December, 31, loc) }

// WorkdaysBetween counts workdays in [from, to] that are not holidays in set.
func WorkdaysBetween(from, to Date, set *Set) (int, error) {
	if to.Before(from) {
		return 0, fmt.Errorf("%w: %s is before %s", ErrInvalidArgument, to, from)
	}
	n := 0
	for d := from; !d.After(to); d = d.AddDays(1) {
		if d.IsWorkday(set) {
			n++
		}
	}
	return n, nil
}
