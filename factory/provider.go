package factory

import (
	"fmt"
	"strings"

	"github.com/warp/holiday-engine/generic"
	"github.com/warp/holiday-engine/rules"
)

// Calendar is a provider built from a CalendarJSON definition. The base
// region is resolved by name on every computation, so replacing a base
// calendar reaches every calendar built on it.
type Calendar struct {
	def      CalendarJSON
	bases    Bases
	timezone string // explicit, or the base's at definition time
	names    generic.Translator
	rules    []rules.Rule
	holidays []holidayDef
}

var _ generic.Provider = (*Calendar)(nil)

func (c *Calendar) ID() string     { return c.def.ID }
func (c *Calendar) Region() string { return c.def.ID }

// Timezone is the explicit timezone, else the current base's.
func (c *Calendar) Timezone() string {
	if c.def.Timezone == "" && c.def.Base != "" {
		if base, err := c.bases.Lookup(c.def.Base); err == nil {
			return base.Timezone()
		}
	}
	return c.timezone
}

// Name is the human-readable calendar name, defaulting to the ID.
func (c *Calendar) Name() string {
	if c.def.Name != "" {
		return c.def.Name
	}
	return c.def.ID
}

// Base returns the extended region, or "" for a standalone calendar.
func (c *Calendar) Base() string { return c.def.Base }

// Definition returns the (trimmed) JSON definition.
func (c *Calendar) Definition() CalendarJSON { return c.def }

// Holidays computes the base region's holidays, if any, drops the excluded
// keys, then adds the calendar's rules and holidays.
func (c *Calendar) Holidays(p generic.Params) (*generic.Set, error) {
	if p.Timezone == "" {
		p.Timezone = c.Timezone()
	}

	var set *generic.Set
	if c.def.Base != "" {
		base, err := c.bases.Lookup(c.def.Base)
		if err != nil {
			return nil, fmt.Errorf("calendar %s: base: %w", c.def.ID, err)
		}
		parent, err := base.Holidays(p)
		if err != nil {
			return nil, err
		}
		set = generic.Extend(parent, c.Region())
		for _, key := range c.def.Exclude {
			set.Remove(key)
			set.Remove(generic.SubstitutePrefix + key)
		}
	} else {
		s, err := generic.NewScope(c.Region(), p, c.timezone, c.names)
		if err != nil {
			return nil, err
		}
		set = generic.NewSet(s)
	}

	// The base may have been built with another name table.
	s := set.Scope()
	s.Names = c.names

	for _, r := range c.rules {
		if err := set.Add(r(s)); err != nil {
			return nil, err
		}
	}
	for _, d := range c.holidays {
		if err := set.Add(d.build(s)...); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// =============================================================================
// CALENDAR CHAINS
// =============================================================================

// Dependents returns the calendars among ps that extend id, directly or
// through other calendars, parents before children.
func Dependents(id string, ps []generic.Provider) []*Calendar {
	var out []*Calendar
	parents := map[string]struct{}{strings.ToLower(id): {}}
	for {
		var level []*Calendar
		for _, p := range ps {
			cal, ok := p.(*Calendar)
			if !ok || cal.def.Base == "" {
				continue
			}
			if _, done := parents[strings.ToLower(cal.ID())]; done {
				continue
			}
			if _, ok := parents[strings.ToLower(cal.def.Base)]; ok {
				level = append(level, cal)
			}
		}
		if len(level) == 0 {
			return out
		}
		for _, cal := range level {
			parents[strings.ToLower(cal.ID())] = struct{}{}
		}
		out = append(out, level...)
	}
}

// overlay resolves its own providers before falling back to bases.
type overlay struct {
	bases Bases
	ps    map[string]generic.Provider
}

func (o overlay) Lookup(region string) (generic.Provider, error) {
	if p, ok := o.ps[strings.ToLower(region)]; ok {
		return p, nil
	}
	return o.bases.Lookup(region)
}

// Revalidate rebuilds dependents as if cal had replaced its registered
// version, so a replacement cannot break calendars built on it.
// dependents must be ordered parents first, as Dependents returns them.
func (f *CalendarFactory) Revalidate(cal *Calendar, dependents []*Calendar) error {
	o := overlay{bases: f.bases, ps: map[string]generic.Provider{strings.ToLower(cal.ID()): cal}}
	scratch := &CalendarFactory{bases: o, names: f.names}
	for _, d := range dependents {
		next, err := scratch.FromJSON(d.def)
		if err != nil {
			return fmt.Errorf("%w: %s extends %s: %w", generic.ErrInvalidDefinition, d.ID(), cal.ID(), err)
		}
		o.ps[strings.ToLower(next.ID())] = next
	}
	return nil
}
