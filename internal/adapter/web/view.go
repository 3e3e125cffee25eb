package web

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/couchcryptid/crash-insights/internal/domain"
	"github.com/couchcryptid/crash-insights/internal/stats"
)

const topMakesLimit = 15

// FilterFromQuery reads the dashboard filter from GET query params.
// Malformed or out-of-vocabulary values are treated as unset so a
// hand-edited URL still renders a page.
func FilterFromQuery(q url.Values) domain.Filter {
	f := domain.Filter{
		Weather:  oneOf(q.Get("weather"), domain.WeatherOrder),
		Light:    oneOf(q.Get("light"), domain.LightOrder),
		Surface:  oneOf(q.Get("surface"), domain.SurfaceOrder),
		Severity: oneOf(q.Get("severity"), domain.SeverityOrder),
	}
	if t, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		f.From = t
	}
	if t, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		f.To = t
	}
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y > 0 {
		f.Year = y
	}
	return f
}

func oneOf(v string, allowed []string) string {
	if lo.Contains(allowed, v) {
		return v
	}
	return ""
}

// YearSpreadView is a YearSpread with bar positions precomputed as
// percentages of the valid model-year window.
type YearSpreadView struct {
	stats.YearSpread
	MinPct    float64
	Q1Pct     float64
	MedianPct float64
	Q3Pct     float64
	MaxPct    float64
}

func yearPct(v float64) float64 {
	span := float64(domain.VehicleYearMax - domain.VehicleYearMin)
	return (v - float64(domain.VehicleYearMin)) / span * 100
}

// PageView carries everything the dashboard template renders.
type PageView struct {
	Summary    stats.Summary
	MatchCount int

	// Filter echo and control options.
	Filter    domain.Filter
	FromValue string
	ToValue   string
	Years     []int

	WeatherOptions  []string
	LightOptions    []string
	SurfaceOptions  []string
	SeverityOptions []string

	// SVG charts; empty when the selection matched no rows.
	HourSVG            template.HTML
	MonthSVG           template.HTML
	LightSVG           template.HTML
	WeatherSVG         template.HTML
	SeverityWeatherSVG template.HTML
	SeverityLightSVG   template.HTML
	SevereShareSVG     template.HTML
	MakesSVG           template.HTML

	// Table-rendered aggregates.
	DayHour        stats.DayHourGrid
	WeatherSurface stats.CrossTab
	BodyCollision  stats.CrossTab
	YearSpreads    []YearSpreadView

	// Load metadata for the footer.
	LoadedAt    time.Time
	RowsKept    int
	RowsDropped int
}

// buildView recomputes every aggregation for the filter and renders the
// chart SVGs. One full pass per page request; the dataset is small enough
// that a re-scan is cheaper than any caching scheme would be.
func (s *Server) buildView(f domain.Filter) PageView {
	recs := s.table.Records()

	v := PageView{
		Summary:    s.summary,
		MatchCount: lo.CountBy(recs, f.Matches),

		Filter: f,
		Years:  s.table.Years,

		WeatherOptions:  domain.WeatherOrder,
		LightOptions:    domain.LightOrder,
		SurfaceOptions:  domain.SurfaceOrder,
		SeverityOptions: domain.SeverityOrder,

		DayHour:        stats.CountByDayHour(recs, f),
		WeatherSurface: stats.SurfaceByWeather(recs, f),
		BodyCollision:  stats.BodyByCollision(recs, f),

		LoadedAt:    s.table.LoadedAt,
		RowsKept:    s.table.Len(),
		RowsDropped: s.table.DroppedBadTime + s.table.DroppedWeather,
	}
	if !f.From.IsZero() {
		v.FromValue = f.From.Format("2006-01-02")
	}
	if !f.To.IsZero() {
		v.ToValue = f.To.Format("2006-01-02")
	}

	for _, ys := range stats.VehicleYearBySeverity(recs, f) {
		v.YearSpreads = append(v.YearSpreads, YearSpreadView{
			YearSpread: ys,
			MinPct:     yearPct(float64(ys.Min)),
			Q1Pct:      yearPct(ys.Q1),
			MedianPct:  yearPct(ys.Median),
			Q3Pct:      yearPct(ys.Q3),
			MaxPct:     yearPct(float64(ys.Max)),
		})
	}

	v.HourSVG = s.chart("hourly", func() (template.HTML, error) {
		return hourLineSVG(stats.CountByHour(recs, f))
	})
	v.MonthSVG = s.chart("monthly", func() (template.HTML, error) {
		return monthLineSVG(stats.MonthlyTrend(recs, f, f.Year), f.Year)
	})
	v.LightSVG = s.chart("light", func() (template.HTML, error) {
		return lightBarSVG(stats.CountByLight(recs, f))
	})
	v.WeatherSVG = s.chart("weather", func() (template.HTML, error) {
		return weatherBarSVG(stats.CountByWeather(recs, f))
	})
	v.SeverityWeatherSVG = s.chart("severity-weather", func() (template.HTML, error) {
		return severityStackSVG("Injury Severity by Weather", stats.SeverityByWeather(recs, f))
	})
	v.SeverityLightSVG = s.chart("severity-light", func() (template.HTML, error) {
		return severityStackSVG("Injury Severity by Light Condition", stats.SeverityByLight(recs, f))
	})
	v.SevereShareSVG = s.chart("severe-share", func() (template.HTML, error) {
		return severeShareSVG(stats.SevereShareByWeather(recs, f))
	})
	v.MakesSVG = s.chart("makes", func() (template.HTML, error) {
		return makesBarSVG(stats.TopMakes(recs, f, topMakesLimit))
	})

	return v
}

// chart runs one SVG builder, degrading to the template's "no data"
// placeholder on render failure.
func (s *Server) chart(name string, build func() (template.HTML, error)) template.HTML {
	svg, err := build()
	if err != nil {
		s.logger.Warn("chart render failed", "chart", name, "error", err)
		return ""
	}
	return svg
}

// comma formats an int with thousands separators for the KPI cards.
func comma(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return string(out)
}

func fmtPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
