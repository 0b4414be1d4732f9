package rules

import (
	"time"

	"github.com/warp/holiday-engine/generic"
)

// =============================================================================
// MOVEABLE FEASTS - Offsets from Easter Sunday
// =============================================================================

// EasterOffset returns a rule for the day n days after Easter Sunday
// (negative n for days before).
func EasterOffset(key string, n int, typ generic.Type) Rule {
	return func(s generic.Scope) generic.Holiday {
		return s.NewHoliday(key, nil, s.Easter().AddDays(n), typ)
	}
}

func Easter(s generic.Scope) generic.Holiday {
	return EasterOffset("easter", 0, generic.TypeOfficial)(s)
}

func MaundyThursday(s generic.Scope) generic.Holiday {
	return EasterOffset("maundyThursday", -3, generic.TypeOfficial)(s)
}

func GoodFriday(s generic.Scope) generic.Holiday {
	return EasterOffset("goodFriday", -2, generic.TypeOfficial)(s)
}

func HolySaturday(s generic.Scope) generic.Holiday {
	return EasterOffset("holySaturday", -1, generic.TypeOfficial)(s)
}

func EasterMonday(s generic.Scope) generic.Holiday {
	return EasterOffset("easterMonday", 1, generic.TypeOfficial)(s)
}

func AscensionDay(s generic.Scope) generic.Holiday {
	return EasterOffset("ascensionDay", 39, generic.TypeOfficial)(s)
}

func Pentecost(s generic.Scope) generic.Holiday {
	return EasterOffset("pentecost", 49, generic.TypeOfficial)(s)
}

func PentecostMonday(s generic.Scope) generic.Holiday {
	return EasterOffset("pentecostMonday", 50, generic.TypeOfficial)(s)
}

func CorpusChristi(s generic.Scope) generic.Holiday {
	return EasterOffset("corpusChristi", 60, generic.TypeOfficial)(s)
}

// =============================================================================
// FIXED FEASTS
// =============================================================================

// StPeterPaul is the Feast of Saints Peter and Paul, June 29th.
func StPeterPaul(s generic.Scope) generic.Holiday {
	return s.NewHoliday("stPeterPaulsDay", nil, s.Date(time.June, 29), generic.TypeOfficial)
}

// AssumptionOfMary is August 15th.
func AssumptionOfMary(s generic.Scope) generic.Holiday {
	return s.NewHoliday("assumptionOfMary", nil, s.Date(time.August, 15), generic.TypeOfficial)
}

func AllSaintsDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("allSaintsDay", nil, s.Date(time.November, 1), generic.TypeOfficial)
}

func ImmaculateConception(s generic.Scope) generic.Holiday {
	return s.NewHoliday("immaculateConception", nil, s.Date(time.December, 8), generic.TypeOfficial)
}

func ChristmasEve(s generic.Scope) generic.Holiday {
	return s.NewHoliday("christmasEve", nil, s.Date(time.December, 24), generic.TypeObservance)
}

func ChristmasDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("christmasDay", nil, s.Date(time.December, 25), generic.TypeOfficial)
}

func SecondChristmasDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("secondChristmasDay", nil, s.Date(time.December, 26), generic.TypeOfficial)
}
