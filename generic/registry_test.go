package generic_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/holiday-engine/generic"
)

// stubProvider produces one fixed holiday.
type stubProvider struct {
	id, region, tz string
}

func (p stubProvider) ID() string       { return p.id }
func (p stubProvider) Region() string   { return p.region }
func (p stubProvider) Timezone() string { return p.tz }

func (p stubProvider) Holidays(params generic.Params) (*generic.Set, error) {
	s, err := generic.NewScope(p.region, params, p.tz, nil)
	if err != nil {
		return nil, err
	}
	set := generic.NewSet(s)
	err = set.Add(s.NewHoliday("stubDay", map[string]string{"en": "Stub Day"}, s.Date(time.March, 3), generic.TypeOfficial))
	return set, err
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistry_LookupByNameOrID(t *testing.T) {
	reg := generic.NewRegistry("")
	require.NoError(t, reg.Register(stubProvider{"TL", "Testland", "UTC"}))

	for _, name := range []string{"Testland", "testland", " TESTLAND ", "TL", "tl"} {
		p, err := reg.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, "Testland", p.Region())
	}

	_, err := reg.Lookup("Atlantis")
	assert.ErrorIs(t, err, generic.ErrUnknownRegion)
	assert.True(t, generic.IsNotFound(err))
}

func TestRegistry_Duplicates(t *testing.T) {
	reg := generic.NewRegistry("")
	require.NoError(t, reg.Register(stubProvider{"TL", "Testland", "UTC"}))

	assert.ErrorIs(t, reg.Register(stubProvider{"XX", "testland", "UTC"}), generic.ErrDuplicateRegion)
	assert.ErrorIs(t, reg.Register(stubProvider{"tl", "Otherland", "UTC"}), generic.ErrDuplicateRegion)
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := generic.NewRegistry("")
	require.NoError(t, reg.Register(
		stubProvider{"B", "Beta", "UTC"},
		stubProvider{"A", "Alpha", "UTC"},
		stubProvider{"C", "Alpha/Sub", "UTC"},
	))

	var names []string
	for _, p := range reg.List() {
		names = append(names, p.Region())
	}
	assert.Equal(t, []string{"Alpha", "Alpha/Sub", "Beta"}, names)
}

func TestRegistry_Unregister(t *testing.T) {
	reg := generic.NewRegistry("")
	require.NoError(t, reg.Register(stubProvider{"TL", "Testland", "UTC"}))

	assert.True(t, reg.Unregister("TL"))
	assert.False(t, reg.Unregister("Testland"))
	_, err := reg.Lookup("Testland")
	assert.ErrorIs(t, err, generic.ErrUnknownRegion)

	// Free to register again
	assert.NoError(t, reg.Register(stubProvider{"TL", "Testland", "UTC"}))
}

func TestRegistry_HolidaysAppliesDefaults(t *testing.T) {
	// GIVEN: A registry defaulting to Chilean Spanish
	reg := generic.NewRegistry("es_CL")
	require.NoError(t, reg.Register(stubProvider{"TL", "Testland", "America/Santiago"}))

	// WHEN: Computing without timezone or locale
	set, err := reg.Holidays("TL", generic.Params{Year: 2017})

	// THEN: The provider's zone and the registry's locale apply
	require.NoError(t, err)
	assert.Equal(t, "America/Santiago", set.Scope().Location.String())
	assert.Equal(t, "es-CL", set.Locale())
	assert.Equal(t, "es-CL", reg.DefaultLocale())

	// Explicit values win
	set, err = reg.Holidays("Testland", generic.Params{Year: 2017, Timezone: "UTC", Locale: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "UTC", set.Scope().Location.String())
	assert.Equal(t, "fr", set.Locale())
}

func TestRegistry_HolidaysUnknownRegion(t *testing.T) {
	reg := generic.NewRegistry("")
	_, err := reg.Holidays("Nowhere", generic.Params{Year: 2017})
	assert.ErrorIs(t, err, generic.ErrUnknownRegion)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err      error
		client   bool
		notFound bool
	}{
		{&generic.InvalidArgumentError{Field: "timezone", Value: "x"}, true, false},
		{fmt.Errorf("wrapped: %w", generic.ErrInvalidDefinition), true, false},
		{generic.ErrDuplicateRegion, true, false},
		{fmt.Errorf("delete: %w", generic.ErrCalendarInUse), true, false},
		{generic.ErrUnknownRegion, false, true},
		{generic.ErrCalendarNotFound, false, true},
		{&generic.DuplicateKeyError{Region: "X", Year: 1, Key: "k"}, false, false},
		{errors.New("disk on fire"), false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.client, generic.IsClientError(tt.err), tt.err.Error())
		assert.Equal(t, tt.notFound, generic.IsNotFound(tt.err), tt.err.Error())
	}
}

func TestInvalidArgumentError_UnwrapsCause(t *testing.T) {
	cause := errors.New("unknown time zone")
	err := &generic.InvalidArgumentError{Field: "timezone", Value: "Mars/Base", Err: cause}

	assert.ErrorIs(t, err, generic.ErrInvalidArgument)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Mars/Base")
}
