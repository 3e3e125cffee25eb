// Command gendata writes a synthetic crash-report CSV for demos and test
// fixtures, then loads it back through the real loader and prints the
// aggregate counts a test author needs. The generator is fully seeded, so
// the same flags always produce the same file and the same stats.
//
// Usage:
//
//	go run ./cmd/gendata -out data/crash_reports.csv -rows 5000 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/couchcryptid/crash-insights/internal/dataset"
	"github.com/couchcryptid/crash-insights/internal/domain"
	"github.com/couchcryptid/crash-insights/internal/stats"
)

var header = []string{
	"Crash Date/Time", "Weather", "Light", "Surface Condition",
	"Injury Severity", "Vehicle Year", "Vehicle Make",
	"Vehicle Body Type", "Collision Type",
}

// weighted is a value with a relative sampling weight. The raw values are
// deliberately messy (mixed case, combined phrases, sentinels) so the
// generated file exercises the normalizers the way a real extract does.
type weighted struct {
	value  string
	weight int
}

var (
	weathers = []weighted{
		{"CLEAR", 55}, {"Clear", 5}, {"RAINING", 12}, {"Rain, Drizzle", 2},
		{"CLOUDY", 10}, {"Overcast", 2}, {"SNOW", 3}, {"SLEET", 1},
		{"FREEZING RAIN", 1}, {"FOGGY", 2}, {"SEVERE CROSSWINDS", 1},
		{"BLOWING SAND", 1}, {"UNKNOWN", 3}, {"", 2},
	}
	lights = []weighted{
		{"DAYLIGHT", 60}, {"DARK LIGHTS ON", 18}, {"DARK NO LIGHTS", 8},
		{"DARK -- UNKNOWN LIGHTING", 2}, {"DAWN", 3}, {"DUSK", 5},
		{"OTHER", 2}, {"", 2},
	}
	surfaces = []weighted{
		{"DRY", 65}, {"WET", 22}, {"ICE", 3}, {"SNOW", 3}, {"SLUSH", 1},
		{"MUD, DIRT, GRAVEL", 2}, {"OIL", 1}, {"", 3},
	}
	severities = []weighted{
		{"NO APPARENT INJURY", 62}, {"POSSIBLE INJURY", 16},
		{"SUSPECTED MINOR INJURY", 14}, {"SUSPECTED SERIOUS INJURY", 4},
		{"FATAL INJURY", 1}, {"", 3},
	}
	makes = []weighted{
		{"TOYT", 14}, {"HOND", 12}, {"FORD", 11}, {"CHEV", 9}, {"NISSAN", 7},
		{"HYUNDAI", 5}, {"MERZ", 3}, {"VOLK", 3}, {"BMW", 3}, {"SUBARU", 3},
		{"KIA", 3}, {"JEEP", 2}, {"UNK", 4}, {"", 2},
	}
	bodies = []weighted{
		{"PASSENGER CAR", 55}, {"SPORT UTILITY VEHICLE", 18}, {"PICKUP", 10},
		{"VAN", 5}, {"MOTORCYCLE", 3}, {"BUS", 2}, {"TRUCK TRACTOR", 2},
		{"MOPED", 1}, {"AMBULANCE", 1}, {"", 3},
	}
	collisions = []weighted{
		{"SAME DIR REAR END", 28}, {"STRAIGHT MOVEMENT ANGLE", 18},
		{"SINGLE VEHICLE", 16}, {"SAME DIRECTION SIDESWIPE", 10},
		{"HEAD ON LEFT TURN", 7}, {"ANGLE MEETS LEFT TURN", 6},
		{"HEAD ON", 4}, {"OPPOSITE DIRECTION SIDESWIPE", 3}, {"OTHER", 5},
		{"", 3},
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 5000, "number of data rows to generate")
	seed := flag.Int64("seed", 1, "PRNG seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // reproducibility beats entropy here

	if err := writeCSV(*out, *rows, rng); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d rows: %s", *rows, *out)

	// Fixed clock so the reported LoadedAt is stable across runs.
	dataset.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC),
	))
	defer dataset.SetClock(nil)

	table, err := dataset.Load(*out, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		return fmt.Errorf("reloading generated file: %w", err)
	}

	printStats(table)
	return nil
}

func writeCSV(path string, rows int, rng *rand.Rand) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	start := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := int(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Sub(start).Minutes())

	for i := 0; i < rows; i++ {
		ts := start.Add(time.Duration(rng.Intn(span)) * time.Minute)
		record := []string{
			ts.Format("01/02/2006 03:04:05 PM"),
			pick(rng, weathers),
			pick(rng, lights),
			pick(rng, surfaces),
			pick(rng, severities),
			vehicleYear(rng),
			pick(rng, makes),
			pick(rng, bodies),
			pick(rng, collisions),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func pick(rng *rand.Rand, options []weighted) string {
	total := lo.SumBy(options, func(o weighted) int { return o.weight })
	n := rng.Intn(total)
	for _, o := range options {
		n -= o.weight
		if n < 0 {
			return o.value
		}
	}
	return options[len(options)-1].value
}

// vehicleYear mixes plain years, float-formatted exports, and the garbage
// values the real column carries.
func vehicleYear(rng *rand.Rand) string {
	switch rng.Intn(20) {
	case 0:
		return ""
	case 1:
		return "9999"
	case 2:
		return "0"
	case 3:
		return strconv.Itoa(1985+rng.Intn(40)) + ".0"
	default:
		return strconv.Itoa(1985 + rng.Intn(40))
	}
}

func printStats(table *dataset.Table) {
	recs := table.Records()
	summary := stats.Summarize(recs)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Rows read: %d, kept: %d, dropped bad time: %d, dropped wind/other: %d\n",
		table.RowsRead, table.Len(), table.DroppedBadTime, table.DroppedWeather)
	fmt.Printf("Date range: %s to %s\n",
		summary.First.Format("2006-01-02"), summary.Last.Format("2006-01-02"))
	fmt.Printf("Peak hour: %d (%d crashes)\n", summary.PeakHour, summary.PeakHourCount)
	fmt.Printf("Riskiest weather: %s (%.1f%% severe)\n",
		summary.RiskiestWeather, summary.RiskiestPct)

	fmt.Print("By weather: ")
	for _, c := range stats.CountByWeather(recs, domain.Filter{}) {
		fmt.Printf("%s=%d ", c.Bucket, c.Count)
	}
	fmt.Println()

	fmt.Print("By light: ")
	for _, c := range stats.CountByLight(recs, domain.Filter{}) {
		fmt.Printf("%s=%d ", c.Bucket, c.Count)
	}
	fmt.Println()

	fmt.Print("Severe share: ")
	for _, s := range stats.SevereShareByWeather(recs, domain.Filter{}) {
		fmt.Printf("%s=%.1f%% ", s.Weather, s.Pct)
	}
	fmt.Println()

	fmt.Print("Top makes: ")
	for _, m := range stats.TopMakes(recs, domain.Filter{}, 5) {
		fmt.Printf("%s=%d ", m.Make, m.Count)
	}
	fmt.Println()

	bc := stats.BodyByCollision(recs, domain.Filter{})
	fmt.Printf("Body x collision: %d bodies, %d collisions, %d crashes\n",
		len(bc.Rows), len(bc.Cols), bc.Total)
}
