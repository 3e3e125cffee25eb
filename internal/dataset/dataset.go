// Package dataset loads the crash-report CSV into an in-memory table.
// The load happens exactly once per process; the resulting Table is
// read-only and safe for any number of concurrent readers.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/crash-insights/internal/domain"
)

// Required dataset columns. VehicleMakeColumn is optional: older extracts
// omit it, in which case every make reports as UNKNOWN.
const (
	CrashTimeColumn   = "Crash Date/Time"
	WeatherColumn     = "Weather"
	LightColumn       = "Light"
	SurfaceColumn     = "Surface Condition"
	SeverityColumn    = "Injury Severity"
	VehicleYearColumn = "Vehicle Year"
	VehicleBodyColumn = "Vehicle Body Type"
	CollisionColumn   = "Collision Type"
	VehicleMakeColumn = "Vehicle Make"
)

var requiredColumns = []string{
	CrashTimeColumn,
	WeatherColumn,
	LightColumn,
	SurfaceColumn,
	SeverityColumn,
	VehicleYearColumn,
	VehicleBodyColumn,
	CollisionColumn,
}

// Table is the loaded record set plus load metadata. Immutable after Load.
type Table struct {
	records []domain.CrashRecord

	RowsRead       int // data rows in the file
	DroppedBadTime int // rows with an unparsable timestamp
	DroppedWeather int // rows normalized to WIND or OTHER weather

	First time.Time // earliest crash time in the working set
	Last  time.Time // latest crash time in the working set
	Years []int     // distinct crash years, ascending

	LoadedAt time.Time
}

// Records returns the working set. Callers must not mutate it.
func (t *Table) Records() []domain.CrashRecord { return t.records }

// Len returns the number of records in the working set.
func (t *Table) Len() int { return len(t.records) }

// CheckReadiness reports whether the table can back the dashboard.
func (t *Table) CheckReadiness(_ context.Context) error {
	if t == nil || len(t.records) == 0 {
		return errors.New("dataset not loaded")
	}
	return nil
}

// Load reads and prepares the dataset. Any failure to open or parse the
// file is returned to the caller, which is expected to treat it as fatal;
// there are no retry or partial-load semantics.
func Load(path string, logger *slog.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, df.Err)
	}

	colIdx, err := indexColumns(df.Names())
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	hasMake := colIdx[VehicleMakeColumn] >= 0

	rows := df.Records()[1:] // Records includes the header row
	t := &Table{LoadedAt: clock.Now()}
	years := map[int]struct{}{}

	for _, row := range rows {
		t.RowsRead++

		raw := domain.RawCrashRow{
			CrashDateTime:  cell(row, colIdx[CrashTimeColumn]),
			Weather:        cell(row, colIdx[WeatherColumn]),
			Light:          cell(row, colIdx[LightColumn]),
			Surface:        cell(row, colIdx[SurfaceColumn]),
			InjurySeverity: cell(row, colIdx[SeverityColumn]),
			VehicleYear:    cell(row, colIdx[VehicleYearColumn]),
			VehicleBody:    cell(row, colIdx[VehicleBodyColumn]),
			CollisionType:  cell(row, colIdx[CollisionColumn]),
		}
		if hasMake {
			raw.VehicleMake = cell(row, colIdx[VehicleMakeColumn])
		}

		rec, err := domain.ParseCrashRow(raw)
		if err != nil {
			t.DroppedBadTime++
			continue
		}

		// WIND and OTHER weather rows are removed from all analysis.
		if rec.Weather == domain.WeatherWind || rec.Weather == domain.WeatherOther {
			t.DroppedWeather++
			continue
		}

		if t.First.IsZero() || rec.CrashTime.Before(t.First) {
			t.First = rec.CrashTime
		}
		if rec.CrashTime.After(t.Last) {
			t.Last = rec.CrashTime
		}
		years[rec.Year] = struct{}{}
		t.records = append(t.records, rec)
	}

	if len(t.records) == 0 {
		return nil, fmt.Errorf("dataset %s: no usable rows (%d read, %d bad timestamps)",
			path, t.RowsRead, t.DroppedBadTime)
	}

	for y := range years {
		t.Years = append(t.Years, y)
	}
	sort.Ints(t.Years)

	logger.Info("dataset loaded",
		"path", path,
		"rows_read", t.RowsRead,
		"rows_kept", len(t.records),
		"dropped_bad_time", t.DroppedBadTime,
		"dropped_wind_other", t.DroppedWeather,
		"first", t.First.Format("2006-01-02"),
		"last", t.Last.Format("2006-01-02"),
	)
	return t, nil
}

// indexColumns maps each expected column name to its position. The returned
// map holds -1 for the optional make column when it is absent.
func indexColumns(names []string) (map[string]int, error) {
	pos := map[string]int{}
	for i, n := range names {
		pos[strings.TrimSpace(n)] = i
	}

	idx := map[string]int{}
	var missing []string
	for _, col := range requiredColumns {
		i, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	if i, ok := pos[VehicleMakeColumn]; ok {
		idx[VehicleMakeColumn] = i
	} else {
		idx[VehicleMakeColumn] = -1
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
