// Package storetest holds the behaviour every generic.Store implementation
// must share. Implementations call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/holiday-engine/generic"
)

// Run exercises a fresh store per subtest.
func Run(t *testing.T, newStore func(t *testing.T) generic.Store) {
	t.Run("HolidayRoundTrip", func(t *testing.T) { testHolidayRoundTrip(t, newStore(t)) })
	t.Run("HolidayMiss", func(t *testing.T) { testHolidayMiss(t, newStore(t)) })
	t.Run("HolidayReplace", func(t *testing.T) { testHolidayReplace(t, newStore(t)) })
	t.Run("HolidayDelete", func(t *testing.T) { testHolidayDelete(t, newStore(t)) })
	t.Run("CalendarCRUD", func(t *testing.T) { testCalendarCRUD(t, newStore(t)) })
	t.Run("CalendarNotFound", func(t *testing.T) { testCalendarNotFound(t, newStore(t)) })
}

// FixtureSet builds a 2017 set with a substitute, in Santiago time and
// Chilean Spanish.
func FixtureSet(t *testing.T, region string) *generic.Set {
	t.Helper()
	s, err := generic.NewScope(region, generic.Params{Year: 2017, Locale: "es_CL"}, "America/Santiago", nil)
	require.NoError(t, err)

	newYear := s.NewHoliday("newYearsDay", map[string]string{"en": "New Year's Day", "es": "Año Nuevo"},
		s.Date(time.January, 1), generic.TypeOfficial)
	sanLunes := generic.NewSubstitute(newYear, newYear.Date.Next(time.Monday),
		map[string]string{"es_CL": "San Lunes"}, generic.TypeObservance)
	peterPaul := s.NewHoliday("stPeterPaulsDay", map[string]string{"es": "San Pedro y San Pablo"},
		s.Date(time.June, 29), generic.TypeOfficial)
	moved := generic.NewSubstitute(peterPaul, peterPaul.Date.Previous(time.Monday), nil, generic.TypeOfficial)

	set := generic.NewSet(s)
	require.NoError(t, set.Add(newYear, sanLunes, peterPaul, moved))
	return set
}

func testHolidayRoundTrip(t *testing.T, store generic.Store) {
	// GIVEN: A saved set
	ctx := context.Background()
	set := FixtureSet(t, "Chile")
	require.NoError(t, store.SaveHolidays(ctx, set))

	// WHEN: Loading it back (region is case-insensitive, locale normalized)
	got, ok, err := store.LoadHolidays(ctx, "chile", 2017, "es_CL")

	// THEN: Same keys, dates, names, types and substitute links
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, set.Keys(), got.Keys())
	assert.Equal(t, 2017, got.Year())
	assert.Equal(t, "es-CL", got.Locale())
	assert.Equal(t, "America/Santiago", got.Scope().Location.String())

	for _, want := range set.All() {
		h, ok := got.Get(want.Key)
		require.True(t, ok, want.Key)
		assert.Equal(t, want.Date.String(), h.Date.String(), want.Key)
		assert.Equal(t, want.Type, h.Type, want.Key)
		assert.Equal(t, want.Names, h.Names, want.Key)
		assert.Equal(t, want.Name(), h.Name(), want.Key)
		assert.Equal(t, want.IsSubstitute(), h.IsSubstitute(), want.Key)
	}

	sub, _ := got.Get("substituteHoliday:stPeterPaulsDay")
	require.NotNil(t, sub.Observed)
	assert.Equal(t, "stPeterPaulsDay", sub.Observed.Key)
	assert.Equal(t, "San Pedro y San Pablo", sub.Name())
	assert.Equal(t, "2017-06-26", sub.Date.String())
}

func testHolidayMiss(t *testing.T, store generic.Store) {
	ctx := context.Background()
	require.NoError(t, store.SaveHolidays(ctx, FixtureSet(t, "Chile")))

	for _, q := range []struct {
		region string
		year   int
		locale string
	}{
		{"Chile", 2018, "es-CL"},
		{"Chile", 2017, "en"},
		{"Peru", 2017, "es-CL"},
	} {
		_, ok, err := store.LoadHolidays(ctx, q.region, q.year, q.locale)
		require.NoError(t, err)
		assert.False(t, ok, "%+v", q)
	}
}

func testHolidayReplace(t *testing.T, store generic.Store) {
	ctx := context.Background()
	require.NoError(t, store.SaveHolidays(ctx, FixtureSet(t, "Chile")))

	// A smaller set for the same key replaces the first
	s, err := generic.NewScope("Chile", generic.Params{Year: 2017, Locale: "es-CL"}, "America/Santiago", nil)
	require.NoError(t, err)
	small := generic.NewSet(s)
	require.NoError(t, small.Add(s.NewHoliday("christmasDay", nil, s.Date(time.December, 25), generic.TypeOfficial)))
	require.NoError(t, store.SaveHolidays(ctx, small))

	got, ok, err := store.LoadHolidays(ctx, "Chile", 2017, "es-CL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"christmasDay"}, got.Keys())
}

func testHolidayDelete(t *testing.T, store generic.Store) {
	ctx := context.Background()
	require.NoError(t, store.SaveHolidays(ctx, FixtureSet(t, "Chile")))
	require.NoError(t, store.SaveHolidays(ctx, FixtureSet(t, "Chile/AricaAndParinacota")))

	require.NoError(t, store.DeleteHolidays(ctx, "CHILE"))

	_, ok, err := store.LoadHolidays(ctx, "Chile", 2017, "es-CL")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.LoadHolidays(ctx, "Chile/AricaAndParinacota", 2017, "es-CL")
	require.NoError(t, err)
	assert.True(t, ok, "other regions are kept")

	// Deleting an unknown region is not an error
	assert.NoError(t, store.DeleteHolidays(ctx, "Atlantis"))
}

func testCalendarCRUD(t *testing.T, store generic.Store) {
	ctx := context.Background()

	rec := generic.CalendarRecord{ID: "acme", Name: "ACME", Base: "Chile", ConfigJSON: `{"id":"acme"}`}
	require.NoError(t, store.SaveCalendar(ctx, rec))

	got, err := store.GetCalendar(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Name)
	assert.Equal(t, "Chile", got.Base)
	assert.Equal(t, 1, got.Version)
	assert.False(t, got.CreatedAt.IsZero())

	// Replace bumps the version
	rec.Name = "ACME Corp"
	require.NoError(t, store.SaveCalendar(ctx, rec))
	got, err = store.GetCalendar(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME Corp", got.Name)
	assert.Equal(t, 2, got.Version)

	require.NoError(t, store.SaveCalendar(ctx, generic.CalendarRecord{ID: "beta", Name: "Beta", ConfigJSON: `{"id":"beta"}`}))
	list, err := store.ListCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acme", list[0].ID)
	assert.Equal(t, "beta", list[1].ID)
	assert.Empty(t, list[1].Base)

	require.NoError(t, store.DeleteCalendar(ctx, "acme"))
	list, err = store.ListCalendars(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testCalendarNotFound(t *testing.T, store generic.Store) {
	ctx := context.Background()

	_, err := store.GetCalendar(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrCalendarNotFound)
	assert.ErrorIs(t, store.DeleteCalendar(ctx, "ghost"), generic.ErrCalendarNotFound)

	list, err := store.ListCalendars(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
