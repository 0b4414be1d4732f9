package chile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/holiday-engine/chile"
	"github.com/warp/holiday-engine/generic"
	"github.com/warp/holiday-engine/translations"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newChile(t *testing.T) *chile.Chile {
	t.Helper()
	names, err := translations.Default()
	require.NoError(t, err)
	return chile.New(names)
}

func holidaysOf(t *testing.T, p generic.Provider, year int, locale string) *generic.Set {
	t.Helper()
	set, err := p.Holidays(generic.Params{Year: year, Locale: locale})
	require.NoError(t, err)
	return set
}

func date(t *testing.T, s string) generic.Date {
	t.Helper()
	loc, err := time.LoadLocation(chile.Timezone)
	require.NoError(t, err)
	d, err := generic.ParseDate(s, loc)
	require.NoError(t, err)
	return d
}

func assertOn(t *testing.T, set *generic.Set, key, want string) generic.Holiday {
	t.Helper()
	h, ok := set.Get(key)
	require.True(t, ok, "%s missing in %d", key, set.Year())
	assert.Equal(t, want, h.Date.String(), key)
	return h
}

// =============================================================================
// END-TO-END
// =============================================================================

func TestChile_2017(t *testing.T) {
	// GIVEN: Chile, 2017, Chilean Spanish
	// WHEN: Computing holidays
	// THEN: Sunday New Year's Day brings San Lunes, census day is present,
	//       and Saints Peter and Paul (Thursday) moves to the previous Monday

	set := holidaysOf(t, newChile(t), 2017, chile.Locale)

	newYear := assertOn(t, set, "newYearsDay", "2017-01-01")
	assert.Equal(t, time.Sunday, newYear.Date.Weekday())

	sanLunes := assertOn(t, set, "substituteHoliday:newYearsDay", "2017-01-02")
	assert.Equal(t, time.Monday, sanLunes.Date.Weekday())
	assert.Equal(t, "San Lunes", sanLunes.Name())
	assert.Equal(t, generic.TypeObservance, sanLunes.Type)
	require.NotNil(t, sanLunes.Observed)
	assert.Equal(t, "newYearsDay", sanLunes.Observed.Key)

	assertOn(t, set, "2017CensusDay", "2017-04-19")
	assertOn(t, set, "internationalWorkersDay", "2017-05-01")
	assertOn(t, set, "navyDay", "2017-05-21")

	peterPaul := assertOn(t, set, "stPeterPaulsDay", "2017-06-29")
	assert.Equal(t, time.Thursday, peterPaul.Date.Weekday())
	sub := assertOn(t, set, "substituteHoliday:stPeterPaulsDay", "2017-06-26")
	assert.Equal(t, time.Monday, sub.Date.Weekday())
	assert.Equal(t, "San Pedro y San Pablo", sub.Name(), "substitute falls back to the feast's name")
}

func TestChile_2017_AllDates(t *testing.T) {
	set := holidaysOf(t, newChile(t), 2017, "en")

	expected := map[string]string{
		"newYearsDay":                       "2017-01-01",
		"substituteHoliday:newYearsDay":     "2017-01-02",
		"goodFriday":                        "2017-04-14",
		"holySaturday":                      "2017-04-15",
		"2017CensusDay":                     "2017-04-19",
		"internationalWorkersDay":           "2017-05-01",
		"navyDay":                           "2017-05-21",
		"stPeterPaulsDay":                   "2017-06-29",
		"substituteHoliday:stPeterPaulsDay": "2017-06-26",
		"ourLadyOfMountCarmel":              "2017-07-16",
		"assumptionOfMary":                  "2017-08-15",
		"independenceDay":                   "2017-09-18",
		"armyDay":                           "2017-09-19",
		"allSaintsDay":                      "2017-11-01",
		"immaculateConception":              "2017-12-08",
		"christmasDay":                      "2017-12-25",
	}

	assert.Equal(t, len(expected), set.Len())
	for key, want := range expected {
		assertOn(t, set, key, want)
	}
}

func TestChile_OrderedByDate(t *testing.T) {
	set := holidaysOf(t, newChile(t), 2017, "en")
	all := set.All()

	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Date.Before(all[i-1].Date), "%s before %s", all[i].Key, all[i-1].Key)
	}
	assert.Equal(t, "newYearsDay", all[0].Key)
	assert.Equal(t, "christmasDay", all[len(all)-1].Key)
}

// =============================================================================
// NEW YEAR'S DAY - San Lunes
// =============================================================================

func TestChile_SanLunes_Property(t *testing.T) {
	// GIVEN: Every year from 1990 to 2100
	// THEN: The substitute exists iff year >= 2017 and January 1 is a Sunday

	c := newChile(t)
	for year := 1990; year <= 2100; year++ {
		set := holidaysOf(t, c, year, chile.Locale)
		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

		h, ok := set.Get("substituteHoliday:newYearsDay")
		if year >= 2017 && jan1.Weekday() == time.Sunday {
			require.True(t, ok, "year %d", year)
			assert.Equal(t, time.Date(year, time.January, 2, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), h.Date.String())
			assert.Equal(t, "San Lunes", h.NameIn(chile.Locale))
			continue
		}
		assert.False(t, ok, "year %d", year)
	}
}

func TestChile_SanLunes_NotBefore2017(t *testing.T) {
	// GIVEN: 2012 starts on a Sunday but predates Law 20,983
	set := holidaysOf(t, newChile(t), 2012, chile.Locale)

	assertOn(t, set, "newYearsDay", "2012-01-01")
	assert.False(t, set.Has("substituteHoliday:newYearsDay"))
}

// =============================================================================
// SAINTS PETER AND PAUL - Monday transfer
// =============================================================================

func TestChile_StPeterPaul_Property(t *testing.T) {
	// GIVEN: Every year from 2000 to 2100
	// THEN: Tue-Thu move to the previous Monday, Friday to the next Monday,
	//       Sat-Mon have no substitute

	c := newChile(t)
	for year := 2000; year <= 2100; year++ {
		set := holidaysOf(t, c, year, chile.Locale)
		base := date(t, time.Date(year, time.June, 29, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
		assertOn(t, set, "stPeterPaulsDay", base.String())

		sub, ok := set.Get("substituteHoliday:stPeterPaulsDay")
		switch base.Weekday() {
		case time.Tuesday, time.Wednesday, time.Thursday:
			require.True(t, ok, "year %d", year)
			assert.Equal(t, time.Monday, sub.Date.Weekday())
			assert.True(t, sub.Date.Before(base))
			assert.Less(t, generic.DaysBetween(sub.Date, base), 7)
		case time.Friday:
			require.True(t, ok, "year %d", year)
			assert.Equal(t, base.AddDays(3).String(), sub.Date.String())
		default:
			assert.False(t, ok, "year %d (%s)", year, base.Weekday())
		}
	}
}

func TestChile_StPeterPaul_KnownYears(t *testing.T) {
	tests := []struct {
		year int
		sub  string // empty: no substitute
	}{
		{2018, "2018-07-02"}, // Friday
		{2019, ""},           // Saturday
		{2020, ""},           // Monday
		{2021, "2021-06-28"}, // Tuesday
		{2022, "2022-06-27"}, // Wednesday
		{2023, "2023-06-26"}, // Thursday
		{2025, ""},           // Sunday
	}

	c := newChile(t)
	for _, tt := range tests {
		set := holidaysOf(t, c, tt.year, "en")
		sub, ok := set.Get("substituteHoliday:stPeterPaulsDay")
		if tt.sub == "" {
			assert.False(t, ok, "year %d", tt.year)
			continue
		}
		require.True(t, ok, "year %d", tt.year)
		assert.Equal(t, tt.sub, sub.Date.String())
		assert.Equal(t, generic.TypeOfficial, sub.Type)
	}
}

func TestChile_StPeterPaul_NoTransferBefore2000(t *testing.T) {
	// 1999-06-29 was a Tuesday
	set := holidaysOf(t, newChile(t), 1999, "en")
	assertOn(t, set, "stPeterPaulsDay", "1999-06-29")
	assert.False(t, set.Has("substituteHoliday:stPeterPaulsDay"))
}

// =============================================================================
// ESTABLISHMENT YEARS AND ONE-OFF DAYS
// =============================================================================

func TestChile_EstablishmentGuards(t *testing.T) {
	tests := []struct {
		key   string
		since int
		month time.Month
		day   int
	}{
		{"navyDay", 1915, time.May, 21},
		{"internationalWorkersDay", 1932, time.May, 1},
		{"ourLadyOfMountCarmel", 2007, time.July, 16},
	}

	c := newChile(t)
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			before := holidaysOf(t, c, tt.since-1, "en")
			assert.False(t, before.Has(tt.key), "absent in %d", tt.since-1)

			for _, year := range []int{tt.since, tt.since + 1, 2050} {
				set := holidaysOf(t, c, year, "en")
				want := time.Date(year, tt.month, tt.day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
				assertOn(t, set, tt.key, want)
			}
		})
	}
}

func TestChile_OneOffDays(t *testing.T) {
	// GIVEN: Census and election days
	// THEN: Present only in their exact year

	tests := []struct {
		key  string
		year int
		date string
	}{
		{"1982CensusDay", 1982, "1982-04-21"},
		{"1992CensusDay", 1992, "1992-04-22"},
		{"2002CensusDay", 2002, "2002-04-24"},
		{"2017CensusDay", 2017, "2017-04-19"},
		{"2020MunicipalElections", 2020, "2020-10-25"},
	}

	c := newChile(t)
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			set := holidaysOf(t, c, tt.year, chile.Locale)
			h := assertOn(t, set, tt.key, tt.date)
			assert.Equal(t, generic.TypeOfficial, h.Type)
			assert.NotEqual(t, tt.key, h.Name(), "has a display name")

			for _, year := range []int{tt.year - 1, tt.year + 1} {
				assert.False(t, holidaysOf(t, c, year, chile.Locale).Has(tt.key), "%s in %d", tt.key, year)
			}
		})
	}
}

func TestChile_1992CensusIsWednesday(t *testing.T) {
	set := holidaysOf(t, newChile(t), 1992, "en")
	h := assertOn(t, set, "1992CensusDay", "1992-04-22")
	assert.Equal(t, time.Wednesday, h.Date.Weekday())
}

func TestChile_HolySaturdayFollowsEaster(t *testing.T) {
	c := newChile(t)
	for _, tt := range []struct {
		year                int
		goodFriday, holySat string
	}{
		{2017, "2017-04-14", "2017-04-15"},
		{2024, "2024-03-29", "2024-03-30"},
		{2025, "2025-04-18", "2025-04-19"},
	} {
		set := holidaysOf(t, c, tt.year, "en")
		friday := assertOn(t, set, "goodFriday", tt.goodFriday)
		saturday := assertOn(t, set, "holySaturday", tt.holySat)
		assert.Equal(t, generic.TypeOfficial, friday.Type)
		assert.Equal(t, generic.TypeObservance, saturday.Type)
	}
}

// =============================================================================
// GLOBAL PROPERTIES
// =============================================================================

func TestChile_UniqueKeys_AllYears(t *testing.T) {
	// The set would already fail on a duplicate; this asserts the computation
	// never errors across a wide range of years.
	c := newChile(t)
	a := chile.NewAricaAndParinacota(c)
	for year := 1900; year <= 2100; year++ {
		for _, p := range []generic.Provider{c, a} {
			set, err := p.Holidays(generic.Params{Year: year})
			require.NoError(t, err, "%s %d", p.Region(), year)

			seen := make(map[string]bool)
			for _, k := range set.Keys() {
				assert.False(t, seen[k], "duplicate %s in %d", k, year)
				seen[k] = true
			}
		}
	}
}

func TestChile_Idempotent(t *testing.T) {
	c := newChile(t)
	first := holidaysOf(t, c, 2017, chile.Locale)
	second := holidaysOf(t, c, 2017, chile.Locale)

	require.Equal(t, first.Keys(), second.Keys())
	for _, h := range first.All() {
		other, _ := second.Get(h.Key)
		assert.Equal(t, h.Date.String(), other.Date.String(), h.Key)
		assert.Equal(t, h.Names, other.Names, h.Key)
		assert.Equal(t, h.Type, other.Type, h.Key)
	}
}

func TestChile_AncientYearHasFewerHolidays(t *testing.T) {
	// Out-of-range years are not errors; guards just drop holidays.
	set := holidaysOf(t, newChile(t), 1800, "en")
	assert.False(t, set.Has("navyDay"))
	assert.False(t, set.Has("internationalWorkersDay"))
	assert.True(t, set.Has("newYearsDay"))
}

// =============================================================================
// INPUTS
// =============================================================================

func TestChile_InvalidTimezone(t *testing.T) {
	_, err := newChile(t).Holidays(generic.Params{Year: 2017, Timezone: "Mars/Olympus_Mons"})

	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrInvalidArgument)
}

func TestChile_DefaultsToSantiago(t *testing.T) {
	set := holidaysOf(t, newChile(t), 2017, "")

	assert.Equal(t, chile.Timezone, set.Scope().Location.String())
	assert.Equal(t, "en", set.Locale())
	h, _ := set.Get("newYearsDay")
	assert.Equal(t, chile.Timezone, h.Date.Location().String())
}

func TestChile_ExplicitTimezone(t *testing.T) {
	set, err := newChile(t).Holidays(generic.Params{Year: 2017, Timezone: "UTC"})
	require.NoError(t, err)

	h, _ := set.Get("navyDay")
	assert.Equal(t, "UTC", h.Date.Location().String())
	assert.Equal(t, "2017-05-21", h.Date.String())
}

func TestChile_Names(t *testing.T) {
	c := newChile(t)

	tests := []struct {
		locale string
		key    string
		want   string
	}{
		{chile.Locale, "navyDay", "Día de las Glorias Navales"},
		{"en", "navyDay", "Navy Day"},
		{"fr", "navyDay", "Navy Day"}, // falls back to English
		{"es", "navyDay", "Día de las Glorias Navales"},
		{"es_MX", "armyDay", "Día de las Glorias del Ejército"},
		{"es", "2017CensusDay", "Censo abreviado 2017"},
		{chile.Locale, "goodFriday", "Viernes Santo"},
		{"es", "goodFriday", "Viernes Santo"},
		{"de", "goodFriday", "Karfreitag"},
		{"xx-YY", "goodFriday", "Good Friday"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key, func(t *testing.T) {
			set := holidaysOf(t, c, 2017, tt.locale)
			h, ok := set.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, h.Name())
		})
	}
}

func TestChile_NilTranslator(t *testing.T) {
	// Without a shared table, inline names still resolve and others fall
	// back to the key.
	set, err := chile.New(nil).Holidays(generic.Params{Year: 2017, Locale: chile.Locale})
	require.NoError(t, err)

	navy, _ := set.Get("navyDay")
	assert.Equal(t, "Día de las Glorias Navales", navy.Name())
	friday, _ := set.Get("goodFriday")
	assert.Equal(t, "goodFriday", friday.Name())
}

func TestChile_Concurrent(t *testing.T) {
	c := newChile(t)
	done := make(chan *generic.Set, 8)
	for i := 0; i < 8; i++ {
		go func() {
			set, err := c.Holidays(generic.Params{Year: 2017, Locale: chile.Locale})
			if err != nil {
				done <- nil
				return
			}
			done <- set
		}()
	}
	for i := 0; i < 8; i++ {
		set := <-done
		require.NotNil(t, set)
		assert.Equal(t, 16, set.Len())
	}
}
