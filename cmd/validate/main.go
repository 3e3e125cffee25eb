// Command validate runs a crash-report CSV through the real loader and
// reports on schema problems, drop rates, and normalization coverage. It
// exits non-zero when any check fails, making it usable as a pre-deploy
// gate for a new dataset export.
//
// Usage:
//
//	go run ./cmd/validate -dataset data/crash_reports.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/lo"

	"github.com/couchcryptid/crash-insights/internal/dataset"
	"github.com/couchcryptid/crash-insights/internal/domain"
	"github.com/couchcryptid/crash-insights/internal/stats"
)

// Coverage thresholds. An extract over these limits usually means a
// renamed column or a new free-text vocabulary the normalizers miss.
const (
	maxDropShare    = 0.10 // timestamps + wind/other rows
	maxUnknownShare = 0.50 // per categorical column
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("dataset", "", "path to the crash-report CSV")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*path); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Crash Dataset Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	table, err := dataset.Load(path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateVolume(table),
		validateNormalization(table),
		validateTimeRange(table),
		validateVehicleYears(table),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nAll checks passed.")
	return 0
}

func validateVolume(table *dataset.Table) *phase {
	p := &phase{name: "volume"}

	dropped := table.DroppedBadTime + table.DroppedWeather
	share := float64(dropped) / float64(table.RowsRead)
	fmt.Printf("rows: %d read, %d kept, %d dropped (%.1f%%)\n",
		table.RowsRead, table.Len(), dropped, share*100)

	if share > maxDropShare {
		p.errorf("drop share %.1f%% exceeds %.0f%% (bad timestamps: %d, wind/other: %d)",
			share*100, maxDropShare*100, table.DroppedBadTime, table.DroppedWeather)
	}
	return p
}

func validateNormalization(table *dataset.Table) *phase {
	p := &phase{name: "normalization coverage"}
	recs := table.Records()

	columns := []struct {
		name    string
		unknown string
		key     func(domain.CrashRecord) string
	}{
		{"Weather", domain.WeatherUnknown, func(r domain.CrashRecord) string { return r.Weather }},
		{"Light", domain.LightUnknown, func(r domain.CrashRecord) string { return r.Light }},
		{"Surface Condition", domain.SurfaceUnknown, func(r domain.CrashRecord) string { return r.Surface }},
		{"Injury Severity", domain.SeverityUnknown, func(r domain.CrashRecord) string { return r.Severity }},
		{"Vehicle Make", domain.MakeUnknown, func(r domain.CrashRecord) string { return r.VehicleMake }},
	}

	for _, col := range columns {
		counts := lo.CountValuesBy(recs, col.key)
		share := float64(counts[col.unknown]) / float64(len(recs))
		fmt.Printf("%s: %d buckets, %.1f%% unknown\n", col.name, len(counts), share*100)

		if share > maxUnknownShare {
			p.errorf("%s: %.1f%% unknown exceeds %.0f%%", col.name, share*100, maxUnknownShare*100)
		}
	}
	return p
}

func validateTimeRange(table *dataset.Table) *phase {
	p := &phase{name: "time range"}

	fmt.Printf("dates: %s to %s across years %v\n",
		table.First.Format("2006-01-02"), table.Last.Format("2006-01-02"), table.Years)

	for _, y := range table.Years {
		if y < 1990 || y > 2100 {
			p.errorf("implausible crash year %d", y)
		}
	}
	if table.Last.Before(table.First) {
		p.errorf("date range inverted: %s after %s", table.First, table.Last)
	}
	return p
}

func validateVehicleYears(table *dataset.Table) *phase {
	p := &phase{name: "vehicle years"}
	recs := table.Records()

	valid := lo.CountBy(recs, func(r domain.CrashRecord) bool { return r.VehicleYear.Valid })
	share := float64(valid) / float64(len(recs))
	fmt.Printf("vehicle years: %d/%d valid (%.1f%%)\n", valid, len(recs), share*100)

	if share < 0.5 {
		p.errorf("only %.1f%% of rows carry a plausible vehicle year", share*100)
	}

	// The spread chart needs at least one severity with usable years.
	spreads := stats.VehicleYearBySeverity(recs, domain.Filter{})
	hasData := lo.SomeBy(spreads, func(s stats.YearSpread) bool { return s.Count > 0 })
	if !hasData {
		p.errorf("no severity level has any valid vehicle year")
	}
	return p
}
