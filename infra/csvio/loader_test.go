package csvio

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/legassign/core/assign"
)

func newTestLoader(t *testing.T, cfg Config) *Loader {
	t.Helper()
	l, err := NewLoader(cfg, nil)
	require.NoError(t, err)
	return l
}

func TestLoadTestdata(t *testing.T) {
	l := newTestLoader(t, Config{
		Aircraft:     filepath.Join("testdata", "Aircraft.csv"),
		Demands:      filepath.Join("testdata", "Demands.csv"),
		Airports:     filepath.Join("testdata", "Airports.csv"),
		DistanceTime: filepath.Join("testdata", "Distance and Flying Time.csv"),
		Encoding:     "latin-1",
	})
	ds, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"AC1", "AC2"}, ds.AircraftIDs())
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ds.DemandIDs())
	assert.Equal(t, "B737", ds.Aircraft[0].Type)
	assert.Equal(t, "JFK", ds.Demands[0].DepAirport)
	assert.Equal(t, time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), ds.Demands[0].Departure)
	assert.Equal(t, 75*time.Minute, ds.Demands[0].BlockTime())
	assert.Equal(t, 3, ds.Airports.Len())
	assert.Equal(t, "São Paulo", ds.Airports.Rows[2]["City"])
	assert.Equal(t, []string{"From", "To", "Distance", "FlyingTime"}, ds.DistanceTime.Columns)
}

func TestLoadOptionalTablesUnset(t *testing.T) {
	l := newTestLoader(t, Config{
		Aircraft: filepath.Join("testdata", "Aircraft.csv"),
		Demands:  filepath.Join("testdata", "Demands.csv"),
	})
	ds, err := l.Load()
	require.NoError(t, err)
	assert.Zero(t, ds.Airports.Len())
	assert.Zero(t, ds.DistanceTime.Len())
}

func TestLoadMissingFile(t *testing.T) {
	l := newTestLoader(t, Config{Aircraft: "nope.csv", Demands: "nope.csv"})
	_, err := l.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, assign.ErrParse)
}

func TestDemandsMissingColumn(t *testing.T) {
	l := newTestLoader(t, Config{})
	in := "DemandID,DepAirport,ScheduledDepDatetime\n1,JFK,2024-01-01 08:00\n"
	_, err := l.Demands(strings.NewReader(in), "demands.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, assign.ErrParse)
	assert.ErrorIs(t, err, assign.ErrMissingColumn)
	var pe *assign.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ColArrTime, pe.Column)
}

func TestDemandsBadDatetime(t *testing.T) {
	l := newTestLoader(t, Config{})
	in := "DemandID,DepAirport,ScheduledDepDatetime,ScheduledArrDatetime\n" +
		"1,JFK,2024-01-01 08:00,2024-01-01 09:00\n" +
		"2,BOS,tomorrow,2024-01-01 11:00\n"
	_, err := l.Demands(strings.NewReader(in), "demands.csv")
	var pe *assign.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, 3, pe.Row)
	assert.Equal(t, ColDepTime, pe.Column)
	assert.Contains(t, pe.Error(), "demands.csv:3")
}

func TestRowNumbersFollowFileLines(t *testing.T) {
	l := newTestLoader(t, Config{})
	in := "DemandID,DepAirport,ScheduledDepDatetime,ScheduledArrDatetime\n" +
		"1,JFK,2024-01-01 08:00,2024-01-01 09:00\n" +
		"\n" +
		"2,\"BOS\nLogan\",2024-01-01 10:00,2024-01-01 11:00\n" +
		"\n" +
		"3,ORD,never,2024-01-01 13:00\n"
	_, err := l.Demands(strings.NewReader(in), "demands.csv")
	var pe *assign.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, 7, pe.Row)
	assert.Equal(t, ColDepTime, pe.Column)

	_, err = l.Aircraft(strings.NewReader("AircraftID\nA\n\n\nA\n"), "aircraft.csv")
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, 5, pe.Row)
	assert.Contains(t, pe.Error(), "first seen on line 2")
}

func TestDemandsDuplicateRejected(t *testing.T) {
	l := newTestLoader(t, Config{})
	in := "DemandID,DepAirport,ScheduledDepDatetime,ScheduledArrDatetime\n" +
		"7,JFK,2024-01-01 08:00,2024-01-01 09:00\n" +
		"7,BOS,2024-01-01 10:00,2024-01-01 11:00\n"
	_, err := l.Demands(strings.NewReader(in), "demands.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, assign.ErrDuplicateID)
	assert.ErrorIs(t, err, assign.ErrParse)
}

func TestAircraftDuplicateRejected(t *testing.T) {
	l := newTestLoader(t, Config{})
	_, err := l.Aircraft(strings.NewReader("AircraftID\nA\nB\nA\n"), "aircraft.csv")
	assert.ErrorIs(t, err, assign.ErrDuplicateID)
}

func TestAircraftHeaderOnlyAndBOM(t *testing.T) {
	l := newTestLoader(t, Config{})
	got, err := l.Aircraft(strings.NewReader("\ufeffAircraftID\n"), "aircraft.csv")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmptyFile(t *testing.T) {
	l := newTestLoader(t, Config{})
	_, err := l.Aircraft(strings.NewReader(""), "aircraft.csv")
	assert.ErrorIs(t, err, assign.ErrParse)
}

func TestSemicolonDelimiter(t *testing.T) {
	l := newTestLoader(t, Config{Delimiter: ";"})
	got, err := l.Demands(strings.NewReader(
		"DemandID;DepAirport;ScheduledDepDatetime;ScheduledArrDatetime\n"+
			"10; CDG ;03/01/2024 06:00;03/01/2024 07:30\n"), "demands.csv")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CDG", got[0].DepAirport)
	assert.Equal(t, time.March, got[0].Departure.Month())
}

func TestRaggedRow(t *testing.T) {
	l := newTestLoader(t, Config{})
	_, err := l.Aircraft(strings.NewReader("AircraftID,TailNumber\nA,N1\nB\n"), "aircraft.csv")
	var pe *assign.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Row)
}

func TestParseTimeLayouts(t *testing.T) {
	want := time.Date(2024, 3, 1, 18, 5, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-03-01T18:05:00Z",
		"2024-03-01 18:05:00",
		"2024-03-01 18:05",
		"2024-03-01T18:05",
		"03/01/2024 18:05",
		"3/1/2024 6:05 PM",
	} {
		got, err := ParseTime(s, time.UTC, nil)
		if assert.NoError(t, err, s) {
			assert.True(t, want.Equal(got), "%s parsed as %v", s, got)
		}
	}
	_, err := ParseTime("  ", time.UTC, nil)
	assert.Error(t, err)
}

func TestParseTimeLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	got, err := ParseTime("2024-03-01 08:00", loc, nil)
	require.NoError(t, err)
	assert.Equal(t, 13, got.UTC().Hour())
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Aircraft: "a.csv", Demands: "d.csv"}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Encoding = "ebcdic"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Delimiter = ";;"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Demands = ""
	assert.Error(t, bad.Validate())

	_, err := NewLoader(Config{Encoding: "ebcdic"}, nil)
	assert.Error(t, err)
}
