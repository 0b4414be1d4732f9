/*
Package rules provides reusable holiday rules shared by region providers.

PURPOSE:
  Each rule is a pure function of a generic.Scope returning one holiday.
  Rules know WHEN a holiday falls, never WHETHER it applies: establishment
  and abolition years differ per region, so providers guard the call.

GROUPS:
  common.go:     Secular days (New Year's Day, Workers' Day)
  christian.go:  Fixed feasts and Easter-relative moveable feasts
  substitute.go: Substitute-day laws (Sunday->Monday, Monday transfer)
  catalog.go:    Rules by key for data-defined calendars

USAGE:
  set.Add(rules.NewYearsDay(scope), rules.GoodFriday(scope))
  if scope.Year >= 1932 {
      set.Add(rules.InternationalWorkersDay(scope))
  }
*/
package rules

import (
	"time"

	"github.com/warp/holiday-engine/generic"
)

// Rule derives one holiday from a scope.
type Rule func(s generic.Scope) generic.Holiday

// NewYearsDay is January 1st.
func NewYearsDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("newYearsDay", nil, s.Date(time.January, 1), generic.TypeOfficial)
}

// NewYearsEve is December 31st.
func NewYearsEve(s generic.Scope) generic.Holiday {
	return s.NewHoliday("newYearsEve", nil, s.Date(time.December, 31), generic.TypeObservance)
}

// InternationalWorkersDay is May 1st.
func InternationalWorkersDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("internationalWorkersDay", nil, s.Date(time.May, 1), generic.TypeOfficial)
}
