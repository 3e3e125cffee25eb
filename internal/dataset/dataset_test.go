package dataset_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-insights/internal/dataset"
	"github.com/couchcryptid/crash-insights/internal/domain"
)

const testHeader = "Crash Date/Time,Weather,Light,Surface Condition,Injury Severity,Vehicle Year,Vehicle Make,Vehicle Body Type,Collision Type\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crash.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	csv := testHeader +
		"05/25/2018 06:35:00 PM,CLEAR,DAYLIGHT,DRY,NO APPARENT INJURY,2015,TOYT,PASSENGER CAR,SAME DIR REAR END\n" +
		"12/01/2019 11:15:00 PM,RAINING,DARK LIGHTS ON,WET,SUSPECTED SERIOUS INJURY,2008,HOND,PICKUP,HEAD ON\n" +
		"bad-timestamp,CLEAR,DAYLIGHT,DRY,NO APPARENT INJURY,2010,FORD,PASSENGER CAR,ANGLE\n" +
		"03/10/2020 08:00:00 AM,SEVERE CROSSWINDS,DAYLIGHT,DRY,NO APPARENT INJURY,2012,FORD,PASSENGER CAR,ANGLE\n" +
		"03/11/2020 09:00:00 AM,BLOWING SAND,DAYLIGHT,DRY,NO APPARENT INJURY,2012,FORD,PASSENGER CAR,ANGLE\n"
	path := writeCSV(t, csv)

	fixed := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	dataset.SetClock(clockwork.NewFakeClockAt(fixed))
	defer dataset.SetClock(nil)

	table, err := dataset.Load(path, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 5, table.RowsRead)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 1, table.DroppedBadTime)
	assert.Equal(t, 2, table.DroppedWeather) // WIND and OTHER rows removed
	assert.Equal(t, fixed, table.LoadedAt)

	assert.Equal(t, time.Date(2018, time.May, 25, 18, 35, 0, 0, time.UTC), table.First)
	assert.Equal(t, time.Date(2019, time.December, 1, 23, 15, 0, 0, time.UTC), table.Last)
	assert.Equal(t, []int{2018, 2019}, table.Years)

	recs := table.Records()
	assert.Equal(t, domain.WeatherClear, recs[0].Weather)
	assert.Equal(t, "TOYOTA", recs[0].VehicleMake)
	assert.Equal(t, domain.SeveritySerious, recs[1].Severity)
	assert.Equal(t, 24, recs[1].Hour)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "absent.csv"), slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	csv := "Crash Date/Time,Weather,Light\n01/01/2020 12:00:00 AM,CLEAR,DAYLIGHT\n"
	path := writeCSV(t, csv)

	_, err := dataset.Load(path, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "Surface Condition")
}

func TestLoad_OptionalMakeColumn(t *testing.T) {
	csv := "Crash Date/Time,Weather,Light,Surface Condition,Injury Severity,Vehicle Year,Vehicle Body Type,Collision Type\n" +
		"05/25/2018 06:35:00 PM,CLEAR,DAYLIGHT,DRY,NO APPARENT INJURY,2015,PASSENGER CAR,SAME DIR REAR END\n"
	path := writeCSV(t, csv)

	table, err := dataset.Load(path, slog.Default())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, domain.MakeUnknown, table.Records()[0].VehicleMake)
}

func TestLoad_NoUsableRows(t *testing.T) {
	csv := testHeader +
		"nope,CLEAR,DAYLIGHT,DRY,NO APPARENT INJURY,2015,TOYT,PASSENGER CAR,ANGLE\n"
	path := writeCSV(t, csv)

	_, err := dataset.Load(path, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable rows")
}

func TestCheckReadiness(t *testing.T) {
	var nilTable *dataset.Table
	require.Error(t, nilTable.CheckReadiness(context.Background()))

	path := writeCSV(t, testHeader+
		"05/25/2018 06:35:00 PM,CLEAR,DAYLIGHT,DRY,NO APPARENT INJURY,2015,TOYT,PASSENGER CAR,ANGLE\n")
	table, err := dataset.Load(path, slog.Default())
	require.NoError(t, err)
	assert.NoError(t, table.CheckReadiness(context.Background()))
}
