// Package stats holds the aggregation functions behind the dashboard
// charts. Each function is pure: it takes the loaded record set and the
// current filter and returns a small summary ready for rendering. Unknown
// buckets are excluded per chart family, never globally: time-based charts
// count every matching record, severity charts skip Unknown severity, and
// weather/light charts skip their own UNKNOWN bucket.
package stats

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/couchcryptid/crash-insights/internal/domain"
)

// monthLabels maps month numbers to the short labels used on the trend axis.
var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Truncation limits for the body-type vs collision-type cross-tab.
const (
	TopBodyTypes      = 8
	TopCollisionTypes = 6
)

// matching applies the filter.
func matching(records []domain.CrashRecord, f domain.Filter) []domain.CrashRecord {
	return lo.Filter(records, func(r domain.CrashRecord, _ int) bool {
		return f.Matches(r)
	})
}

// HourCount is one hour-of-day bucket (1-24 display convention).
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// CountByHour returns 24 zero-filled hour buckets over the matching records.
func CountByHour(records []domain.CrashRecord, f domain.Filter) []HourCount {
	counts := make([]HourCount, 24)
	for i := range counts {
		counts[i].Hour = i + 1
	}
	for _, r := range matching(records, f) {
		counts[r.Hour-1].Count++
	}
	return counts
}

// DayHourGrid is the crash-density matrix of weekday against hour of day.
type DayHourGrid struct {
	Days  []string `json:"days"` // Monday first
	Hours []int    `json:"hours"`
	Cells [][]int  `json:"cells"` // [day][hour]
	Max   int      `json:"max"`
	Total int      `json:"total"`
}

// CountByDayHour returns the 7x24 zero-filled day-by-hour matrix.
func CountByDayHour(records []domain.CrashRecord, f domain.Filter) DayHourGrid {
	g := DayHourGrid{
		Days:  lo.Map(domain.DayOrder, func(d time.Weekday, _ int) string { return d.String() }),
		Hours: lo.RangeFrom(1, 24),
		Cells: make([][]int, len(domain.DayOrder)),
	}
	dayIdx := map[time.Weekday]int{}
	for i, d := range domain.DayOrder {
		dayIdx[d] = i
		g.Cells[i] = make([]int, 24)
	}

	for _, r := range matching(records, f) {
		c := &g.Cells[dayIdx[r.Weekday]][r.Hour-1]
		*c++
		if *c > g.Max {
			g.Max = *c
		}
		g.Total++
	}
	return g
}

// MonthCount is one month bucket of the yearly trend.
type MonthCount struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthlyTrend returns 12 zero-filled month buckets. year 0 sums every year
// per month; a concrete year restricts to that year's crashes.
func MonthlyTrend(records []domain.CrashRecord, f domain.Filter, year int) []MonthCount {
	counts := make([]MonthCount, 12)
	for i := range counts {
		counts[i].Month = i + 1
		counts[i].Label = monthLabels[i]
	}
	for _, r := range matching(records, f) {
		if year != 0 && r.Year != year {
			continue
		}
		counts[int(r.Month)-1].Count++
	}
	return counts
}

// BucketCount is a single labeled count.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// CountByLight returns counts per light condition in fixed display order.
// UNKNOWN lighting is excluded.
func CountByLight(records []domain.CrashRecord, f domain.Filter) []BucketCount {
	return orderedCounts(matching(records, f), domain.LightOrder,
		func(r domain.CrashRecord) string { return r.Light })
}

// CountByWeather returns counts per weather bucket in fixed display order.
// UNKNOWN weather is excluded.
func CountByWeather(records []domain.CrashRecord, f domain.Filter) []BucketCount {
	return orderedCounts(matching(records, f), domain.WeatherOrder,
		func(r domain.CrashRecord) string { return r.Weather })
}

func orderedCounts(recs []domain.CrashRecord, order []string, key func(domain.CrashRecord) string) []BucketCount {
	byKey := lo.CountValuesBy(recs, key)
	return lo.Map(order, func(bucket string, _ int) BucketCount {
		return BucketCount{Bucket: bucket, Count: byKey[bucket]}
	})
}

// CrossTab is a zero-filled two-dimensional count table with fixed axes.
type CrossTab struct {
	Rows  []string `json:"rows"`
	Cols  []string `json:"cols"`
	Cells [][]int  `json:"cells"` // [row][col]
	Max   int      `json:"max"`
	Total int      `json:"total"`
}

func crossTab(recs []domain.CrashRecord, rows, cols []string,
	rowKey, colKey func(domain.CrashRecord) string) CrossTab {
	ct := CrossTab{Rows: rows, Cols: cols, Cells: make([][]int, len(rows))}
	rowIdx := lo.SliceToMap(lo.Range(len(rows)), func(i int) (string, int) { return rows[i], i })
	colIdx := lo.SliceToMap(lo.Range(len(cols)), func(i int) (string, int) { return cols[i], i })
	for i := range ct.Cells {
		ct.Cells[i] = make([]int, len(cols))
	}

	for _, r := range recs {
		ri, ok := rowIdx[rowKey(r)]
		if !ok {
			continue
		}
		ci, ok := colIdx[colKey(r)]
		if !ok {
			continue
		}
		ct.Cells[ri][ci]++
		if ct.Cells[ri][ci] > ct.Max {
			ct.Max = ct.Cells[ri][ci]
		}
		ct.Total++
	}
	return ct
}

// SeverityByWeather cross-tabulates weather against injury severity.
// UNKNOWN weather and Unknown severity are excluded.
func SeverityByWeather(records []domain.CrashRecord, f domain.Filter) CrossTab {
	return crossTab(matching(records, f), domain.WeatherOrder, domain.SeverityOrder,
		func(r domain.CrashRecord) string { return r.Weather },
		func(r domain.CrashRecord) string { return r.Severity })
}

// SeverityByLight cross-tabulates light condition against injury severity.
func SeverityByLight(records []domain.CrashRecord, f domain.Filter) CrossTab {
	return crossTab(matching(records, f), domain.LightOrder, domain.SeverityOrder,
		func(r domain.CrashRecord) string { return r.Light },
		func(r domain.CrashRecord) string { return r.Severity })
}

// SurfaceByWeather cross-tabulates weather against road surface condition.
func SurfaceByWeather(records []domain.CrashRecord, f domain.Filter) CrossTab {
	return crossTab(matching(records, f), domain.WeatherOrder, domain.SurfaceOrder,
		func(r domain.CrashRecord) string { return r.Weather },
		func(r domain.CrashRecord) string { return r.Surface })
}

// SevereShare is the serious-or-fatal share of one weather bucket.
type SevereShare struct {
	Weather string  `json:"weather"`
	Total   int     `json:"total"`
	Severe  int     `json:"severe"`
	Pct     float64 `json:"pct"` // 0 when Total is 0, never NaN
}

// SevereShareByWeather returns, per weather bucket in display order, the
// total crashes, the serious-or-fatal count, and the severe percentage.
// Unknown severity rows count toward the total but never the severe count.
func SevereShareByWeather(records []domain.CrashRecord, f domain.Filter) []SevereShare {
	recs := matching(records, f)
	return lo.Map(domain.WeatherOrder, func(w string, _ int) SevereShare {
		s := SevereShare{Weather: w}
		for _, r := range recs {
			if r.Weather != w {
				continue
			}
			s.Total++
			if domain.Severe(r.Severity) {
				s.Severe++
			}
		}
		if s.Total > 0 {
			s.Pct = float64(s.Severe) / float64(s.Total) * 100
		}
		return s
	})
}

// YearSpread is the five-number summary of vehicle model years within one
// severity level. Quartiles interpolate linearly between sorted years.
type YearSpread struct {
	Severity string  `json:"severity"`
	Count    int     `json:"count"`
	Min      int     `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      int     `json:"max"`
}

// VehicleYearBySeverity returns one YearSpread per known severity level,
// over records with a valid vehicle year. Unknown severity and missing or
// implausible years are excluded.
func VehicleYearBySeverity(records []domain.CrashRecord, f domain.Filter) []YearSpread {
	recs := matching(records, f)
	return lo.Map(domain.SeverityOrder, func(sev string, _ int) YearSpread {
		var years []int
		for _, r := range recs {
			if r.Severity == sev && r.VehicleYear.Valid {
				years = append(years, int(r.VehicleYear.Int64))
			}
		}
		sort.Ints(years)

		s := YearSpread{Severity: sev, Count: len(years)}
		if len(years) == 0 {
			return s
		}
		s.Min = years[0]
		s.Max = years[len(years)-1]
		s.Q1 = quantile(years, 0.25)
		s.Median = quantile(years, 0.5)
		s.Q3 = quantile(years, 0.75)
		return s
	})
}

// quantile interpolates the q-th quantile of a sorted int slice.
func quantile(sorted []int, q float64) float64 {
	if len(sorted) == 1 {
		return float64(sorted[0])
	}
	pos := q * float64(len(sorted)-1)
	base := int(pos)
	frac := pos - float64(base)
	if base+1 >= len(sorted) {
		return float64(sorted[base])
	}
	return float64(sorted[base]) + frac*float64(sorted[base+1]-sorted[base])
}

// MakeCount is one vehicle make with its crash count.
type MakeCount struct {
	Make  string `json:"make"`
	Count int    `json:"count"`
}

// TopMakes returns the most crash-involved vehicle makes in descending
// order, ties broken alphabetically. UNKNOWN makes are excluded.
func TopMakes(records []domain.CrashRecord, f domain.Filter, limit int) []MakeCount {
	byMake := lo.CountValuesBy(matching(records, f), func(r domain.CrashRecord) string {
		return r.VehicleMake
	})
	delete(byMake, domain.MakeUnknown)

	counts := lo.MapToSlice(byMake, func(m string, c int) MakeCount {
		return MakeCount{Make: m, Count: c}
	})
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Make < counts[j].Make
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// BodyByCollision cross-tabulates the most common vehicle body types
// against the most common collision types, ranked within the filtered set.
// Rows with a missing body or collision label never enter the ranking.
func BodyByCollision(records []domain.CrashRecord, f domain.Filter) CrossTab {
	recs := matching(records, f)
	bodies := topValues(recs, TopBodyTypes, func(r domain.CrashRecord) string { return r.VehicleBody })
	collisions := topValues(recs, TopCollisionTypes, func(r domain.CrashRecord) string { return r.CollisionType })

	return crossTab(recs, bodies, collisions,
		func(r domain.CrashRecord) string { return r.VehicleBody },
		func(r domain.CrashRecord) string { return r.CollisionType })
}

// topValues ranks non-empty values of one column by descending count, ties
// broken alphabetically so truncation is deterministic.
func topValues(recs []domain.CrashRecord, limit int, key func(domain.CrashRecord) string) []string {
	counts := lo.CountValuesBy(recs, key)
	delete(counts, "")

	vals := lo.Keys(counts)
	sort.Slice(vals, func(i, j int) bool {
		if counts[vals[i]] != counts[vals[j]] {
			return counts[vals[i]] > counts[vals[j]]
		}
		return vals[i] < vals[j]
	})
	if len(vals) > limit {
		vals = vals[:limit]
	}
	return vals
}

// Summary holds the whole-table KPI numbers shown in the page header.
type Summary struct {
	Total int       `json:"total"`
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`

	PeakHour      int `json:"peak_hour"`
	PeakHourCount int `json:"peak_hour_count"`

	RiskiestWeather string  `json:"riskiest_weather"`
	RiskiestPct     float64 `json:"riskiest_pct"`
}

// Summarize computes the header KPIs over the full working set. Peak-hour
// ties resolve to the earlier hour; riskiest-weather ties resolve to the
// earlier bucket in display order.
func Summarize(records []domain.CrashRecord) Summary {
	s := Summary{Total: len(records)}
	if len(records) == 0 {
		return s
	}

	s.First = records[0].CrashTime
	s.Last = records[0].CrashTime
	for _, r := range records {
		if r.CrashTime.Before(s.First) {
			s.First = r.CrashTime
		}
		if r.CrashTime.After(s.Last) {
			s.Last = r.CrashTime
		}
	}

	for _, hc := range CountByHour(records, domain.Filter{}) {
		if hc.Count > s.PeakHourCount {
			s.PeakHour = hc.Hour
			s.PeakHourCount = hc.Count
		}
	}

	for _, share := range SevereShareByWeather(records, domain.Filter{}) {
		if share.Total > 0 && share.Pct > s.RiskiestPct {
			s.RiskiestWeather = share.Weather
			s.RiskiestPct = share.Pct
		}
	}
	// All-zero severe shares still need a named bucket for the KPI card.
	if s.RiskiestWeather == "" {
		for _, share := range SevereShareByWeather(records, domain.Filter{}) {
			if share.Total > 0 {
				s.RiskiestWeather = share.Weather
				break
			}
		}
	}
	return s
}
