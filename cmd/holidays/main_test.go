package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/warp/holiday-engine/generic"
	"github.com/warp/holiday-engine/store/sqlite"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level=error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList_JSON(t *testing.T) {
	out, err := run(t, "list", "Chile", "2017", "--locale", "es_CL", "-o", "json")
	require.NoError(t, err)

	var rows []row
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 16)
	assert.Equal(t, "2017-01-02", rows[1].Date)
	assert.Equal(t, "San Lunes", rows[1].Name)
	assert.Equal(t, "newYearsDay", rows[1].Observes)
}

func TestList_YAMLTypeFilter(t *testing.T) {
	out, err := run(t, "list", "CL-AP", "2017", "--type", "observance", "--format", "yaml")
	require.NoError(t, err)

	var rows []row
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "substituteHoliday:newYearsDay", rows[0].Key)
	assert.Equal(t, "holySaturday", rows[1].Key)
}

func TestList_Text(t *testing.T) {
	out, err := run(t, "list", "Chile", "2017")
	require.NoError(t, err)
	assert.Contains(t, out, "Chile 2017 (en)")
	assert.Contains(t, out, "2017-09-18")
}

func TestList_Errors(t *testing.T) {
	_, err := run(t, "list", "Atlantis", "2017")
	assert.ErrorIs(t, err, generic.ErrUnknownRegion)

	_, err = run(t, "list", "Chile", "twenty")
	assert.ErrorIs(t, err, generic.ErrInvalidArgument)

	_, err = run(t, "list", "Chile", "2017", "-o", "xml")
	assert.ErrorIs(t, err, generic.ErrInvalidArgument)

	_, err = run(t, "list", "Chile", "2017", "--log-level", "loud")
	assert.ErrorIs(t, err, generic.ErrInvalidArgument)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "Chile", "2017-01-02", "--locale", "es_CL", "-o", "json")
	require.NoError(t, err)

	var res checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.IsHoliday)
	assert.False(t, res.IsWorkday)
	require.Len(t, res.Holidays, 1)
	assert.Equal(t, "San Lunes", res.Holidays[0].Name)

	out, err = run(t, "check", "Chile", "2017-01-03")
	require.NoError(t, err)
	assert.Contains(t, out, "no holiday (workday)")

	_, err = run(t, "check", "Chile", "01/02/2017")
	assert.Error(t, err)
}

func TestRegions_WithStoredCalendar(t *testing.T) {
	// GIVEN: A database holding a calendar
	path := filepath.Join(t.TempDir(), "holidays.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveCalendar(context.Background(), generic.CalendarRecord{
		ID: "acme", Base: "Chile",
		ConfigJSON: `{"id": "acme", "base": "Chile", "holidays": [{"key": "foundersDay", "month": 3, "day": 14}]}`,
	}))
	require.NoError(t, store.Close())

	// WHEN: Listing regions with --db
	out, err := run(t, "regions", "--db", path, "-o", "json")
	require.NoError(t, err)

	// THEN: The calendar is listed as custom
	var rows []regionRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "acme", rows[2].ID)
	assert.True(t, rows[2].Custom)

	// AND: Without --db only built-in regions exist
	out, err = run(t, "regions", "-o", "json")
	require.NoError(t, err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 2)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yml")
	require.NoError(t, os.WriteFile(path, []byte("default_locale: es_CL\n"), 0o600))

	out, err := run(t, "list", "Chile", "2017", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Chile 2017 (es-CL)")
	assert.Contains(t, out, "San Lunes")
}
