package rules

import (
	"time"

	"github.com/warp/holiday-engine/generic"
)

// Law is a substitute-day law: given a holiday it returns the substitute
// holiday, or false when the law grants none for that date.
type Law func(h generic.Holiday, names map[string]string, typ generic.Type) (generic.Holiday, bool)

// SundayToMonday grants the following Monday when h falls on a Sunday.
func SundayToMonday(h generic.Holiday, names map[string]string, typ generic.Type) (generic.Holiday, bool) {
	if h.Date.Weekday() != time.Sunday {
		return generic.Holiday{}, false
	}
	return generic.NewSubstitute(h, h.Date.Next(time.Monday), names, typ), true
}

// MondayTransfer moves h to a Monday: Tuesday through Thursday go to the
// previous Monday, Friday to the next one. Saturday, Sunday and Monday
// holidays stay put and get no substitute.
func MondayTransfer(h generic.Holiday, names map[string]string, typ generic.Type) (generic.Holiday, bool) {
	switch h.Date.Weekday() {
	case time.Tuesday, time.Wednesday, time.Thursday:
		return generic.NewSubstitute(h, h.Date.Previous(time.Monday), names, typ), true
	case time.Friday:
		return generic.NewSubstitute(h, h.Date.Next(time.Monday), names, typ), true
	default:
		return generic.Holiday{}, false
	}
}

// Laws lists substitute laws by name.
var Laws = map[string]Law{
	"sunday_to_monday": SundayToMonday,
	"monday_transfer":  MondayTransfer,
}
