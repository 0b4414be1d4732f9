/*
Package chile provides the holiday providers of Chile and its regions.

PURPOSE:
  Chile composes the shared rules with Chilean law: establishment years,
  one-off census and election days, and two substitute-day laws.

LAWS APPLIED:
  Law 20,983 (2017+): New Year's Day on a Sunday grants Monday January 2nd,
                      popularly "San Lunes".
  Law 19,668 (2000+): Saints Peter and Paul moves to a Monday: Tue-Thu to
                      the previous Monday, Friday to the next Monday.

ONE-OFF DAYS:
  Census days (1982, 1992, 2002, 2017) and the 2020 municipal elections
  exist only in their exact year. Callers must not assume a stable key
  set across years.

SEE ALSO:
  - arica.go: Arica and Parinacota region, extends Chile
  - rules/: Shared rules used here
*/
package chile

import (
	"time"

	"github.com/warp/holiday-engine/generic"
	"github.com/warp/holiday-engine/rules"
)

const (
	ID       = "CL"
	Region   = "Chile"
	Timezone = "America/Santiago"
	Locale   = "es_CL"
)

// Chile computes national Chilean holidays.
type Chile struct {
	names generic.Translator
}

var _ generic.Provider = (*Chile)(nil)

// New returns the Chile provider using names for shared holiday names.
func New(names generic.Translator) *Chile {
	return &Chile{names: names}
}

func (c *Chile) ID() string       { return ID }
func (c *Chile) Region() string   { return Region }
func (c *Chile) Timezone() string { return Timezone }

// Holidays computes all Chilean holidays for p.
func (c *Chile) Holidays(p generic.Params) (*generic.Set, error) {
	s, err := generic.NewScope(Region, p, Timezone, c.names)
	if err != nil {
		return nil, err
	}

	set := generic.NewSet(s)
	calculations := []func(generic.Scope) []generic.Holiday{
		newYearsDay,
		one(rules.GoodFriday),
		one(holySaturday),
		since(1932, rules.InternationalWorkersDay),
		since(1915, navyDay),
		stPeterPaulsDay,
		since(2007, ourLadyOfMountCarmel),
		one(rules.AssumptionOfMary),
		one(independenceDay),
		one(armyDay),
		one(rules.AllSaintsDay),
		one(rules.ImmaculateConception),
		one(rules.ChristmasDay),
		censusDay1982,
		censusDay1992,
		censusDay2002,
		censusDay2017,
		municipalElections2020,
	}
	for _, calc := range calculations {
		if err := set.Add(calc(s)...); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// one adapts an unconditional rule.
func one(r rules.Rule) func(generic.Scope) []generic.Holiday {
	return func(s generic.Scope) []generic.Holiday {
		return []generic.Holiday{r(s)}
	}
}

// since applies r from the establishment year onwards.
func since(year int, r rules.Rule) func(generic.Scope) []generic.Holiday {
	return func(s generic.Scope) []generic.Holiday {
		if s.Year < year {
			return nil
		}
		return []generic.Holiday{r(s)}
	}
}

// onlyIn adds a fixed day in exactly one year.
func onlyIn(year int, key string, month time.Month, day int, names map[string]string) func(generic.Scope) []generic.Holiday {
	return func(s generic.Scope) []generic.Holiday {
		if s.Year != year {
			return nil
		}
		return []generic.Holiday{s.NewHoliday(key, names, s.Date(month, day), generic.TypeOfficial)}
	}
}

// =============================================================================
// NEW YEAR'S DAY - Law 20,983
// =============================================================================

func newYearsDay(s generic.Scope) []generic.Holiday {
	h := rules.NewYearsDay(s)
	if s.Year < 2017 {
		return []generic.Holiday{h}
	}
	sub, ok := rules.SundayToMonday(h, map[string]string{Locale: "San Lunes"}, generic.TypeObservance)
	if !ok {
		return []generic.Holiday{h}
	}
	return []generic.Holiday{h, sub}
}

// localNames names a region-specific holiday in English and Spanish. The
// Chilean locale keeps its own entry; plain "es" requests reach the same name.
func localNames(en, es string) map[string]string {
	return map[string]string{"en": en, "es": es, Locale: es}
}

// Holy Saturday is an observance day in Chile, not an official holiday.
var holySaturday = rules.EasterOffset("holySaturday", -1, generic.TypeObservance)

// =============================================================================
// SAINTS PETER AND PAUL - Law 19,668
// =============================================================================

// The substitute has no names of its own and displays the feast's name.
func stPeterPaulsDay(s generic.Scope) []generic.Holiday {
	h := rules.StPeterPaul(s)
	if s.Year < 2000 {
		return []generic.Holiday{h}
	}
	sub, ok := rules.MondayTransfer(h, nil, generic.TypeOfficial)
	if !ok {
		return []generic.Holiday{h}
	}
	return []generic.Holiday{h, sub}
}

// =============================================================================
// NATIONAL DAYS
// =============================================================================

func navyDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("navyDay", localNames("Navy Day", "Día de las Glorias Navales"), s.Date(time.May, 21), generic.TypeOfficial)
}

func ourLadyOfMountCarmel(s generic.Scope) generic.Holiday {
	return s.NewHoliday("ourLadyOfMountCarmel", localNames("Our Lady of Mount Carmel", "Virgen del Carmen"), s.Date(time.July, 16), generic.TypeOfficial)
}

func independenceDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("independenceDay", localNames("Independence Day", "Fiestas Patrias"), s.Date(time.September, 18), generic.TypeOfficial)
}

func armyDay(s generic.Scope) generic.Holiday {
	return s.NewHoliday("armyDay", localNames("Army Day", "Día de las Glorias del Ejército"), s.Date(time.September, 19), generic.TypeOfficial)
}

// =============================================================================
// ONE-OFF DAYS
// =============================================================================

// Census days were declared holidays by ad-hoc laws in 1982 and 1992 and by
// the census law reform afterwards. The 2012 census ran over two months and
// was no holiday; the abbreviated 2017 census was.
var (
	censusDay1982          = onlyIn(1982, "1982CensusDay", time.April, 21, localNames("1982 Census Day", "XV censo nacional de población y IV de vivienda"))
	censusDay1992          = onlyIn(1992, "1992CensusDay", time.April, 22, localNames("1992 Census Day", "XVI censo nacional de población y V de vivienda"))
	censusDay2002          = onlyIn(2002, "2002CensusDay", time.April, 24, localNames("2002 Census Day", "XVII censo nacional de población y VI de vivienda"))
	censusDay2017          = onlyIn(2017, "2017CensusDay", time.April, 19, localNames("2017 Census Day", "Censo abreviado 2017"))
	municipalElections2020 = onlyIn(2020, "2020MunicipalElections", time.October, 25, localNames("2020 Municipal Elections", "Elecciones municipales 2020"))
)
