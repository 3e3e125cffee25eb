package web

import (
	"bytes"
	"html/template"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/crash-insights/internal/domain"
	"github.com/couchcryptid/crash-insights/internal/stats"
)

const (
	chartWidth  = 640
	chartHeight = 360
)

// Palette lifted from the dashboard CSS so SVG charts and HTML heatmaps
// share one look.
var (
	colPrimary = drawing.ColorFromHex("d35400")

	weatherColors = map[string]drawing.Color{
		domain.WeatherClear:   drawing.ColorFromHex("f1c40f"),
		domain.WeatherRain:    drawing.ColorFromHex("3498db"),
		domain.WeatherFog:     drawing.ColorFromHex("9b59b6"),
		domain.WeatherCloudy:  drawing.ColorFromHex("e67e22"),
		domain.WeatherSnowIce: drawing.ColorFromHex("c0392b"),
	}

	lightColors = map[string]drawing.Color{
		domain.LightDaylight:    drawing.ColorFromHex("e67e22"),
		domain.LightDarkLighted: drawing.ColorFromHex("2980b9"),
		domain.LightDarkUnlit:   drawing.ColorFromHex("c0392b"),
		domain.LightDawn:        drawing.ColorFromHex("27ae60"),
		domain.LightDusk:        drawing.ColorFromHex("f39c12"),
	}

	severityColors = map[string]drawing.Color{
		domain.SeverityNone:     drawing.ColorFromHex("2ecc71"),
		domain.SeverityPossible: drawing.ColorFromHex("f1c40f"),
		domain.SeverityMinor:    drawing.ColorFromHex("e67e22"),
		domain.SeveritySerious:  drawing.ColorFromHex("e74c3c"),
		domain.SeverityFatal:    drawing.ColorFromHex("34495e"),
	}
)

// lightLabels are the human-readable bar labels for the light buckets.
var lightLabels = map[string]string{
	domain.LightDaylight:    "Daylight",
	domain.LightDarkLighted: "Dark (Lit)",
	domain.LightDarkUnlit:   "Dark (No Light)",
	domain.LightDawn:        "Dawn",
	domain.LightDusk:        "Dusk",
}

func renderSVG(c interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // go-chart output, not user input
}

// hourLineSVG draws the crashes-by-hour line. Returns empty markup when no
// records match, which the template shows as a "no data" panel.
func hourLineSVG(counts []stats.HourCount) (template.HTML, error) {
	xs := make([]float64, len(counts))
	ys := make([]float64, len(counts))
	ticks := make([]chart.Tick, 0, len(counts))
	total := 0
	for i, hc := range counts {
		xs[i] = float64(hc.Hour)
		ys[i] = float64(hc.Count)
		total += hc.Count
		if hc.Hour%2 == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(hc.Hour), Label: intLabel(hc.Hour)})
		}
	}
	if total == 0 {
		return "", nil
	}

	ch := chart.Chart{
		Title:      "Crashes by Hour of Day",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 1, Max: 24},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: colPrimary,
					StrokeWidth: 3,
					DotColor:    colPrimary,
					DotWidth:    4,
				},
			},
		},
	}
	return renderSVG(&ch)
}

// monthLineSVG draws the monthly trend for one year, or all years summed
// when year is 0.
func monthLineSVG(counts []stats.MonthCount, year int) (template.HTML, error) {
	xs := make([]float64, len(counts))
	ys := make([]float64, len(counts))
	ticks := make([]chart.Tick, len(counts))
	total := 0
	for i, mc := range counts {
		xs[i] = float64(mc.Month)
		ys[i] = float64(mc.Count)
		ticks[i] = chart.Tick{Value: float64(mc.Month), Label: mc.Label}
		total += mc.Count
	}
	if total == 0 {
		return "", nil
	}

	title := "Monthly Crash Trend (All Years)"
	if year != 0 {
		title = "Monthly Crash Trend (" + intLabel(year) + ")"
	}

	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 1, Max: 12},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: colPrimary,
					StrokeWidth: 3,
					DotColor:    colPrimary,
					DotWidth:    4,
				},
			},
		},
	}
	return renderSVG(&ch)
}

func lightBarSVG(counts []stats.BucketCount) (template.HTML, error) {
	bars := make([]chart.Value, 0, len(counts))
	total := 0
	for _, c := range counts {
		col := lightColors[c.Bucket]
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: lightLabels[c.Bucket],
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		total += c.Count
	}
	if total == 0 {
		return "", nil
	}
	return barSVG("Total Crashes by Light Condition", bars)
}

func weatherBarSVG(counts []stats.BucketCount) (template.HTML, error) {
	bars := make([]chart.Value, 0, len(counts))
	total := 0
	for _, c := range counts {
		col := weatherColors[c.Bucket]
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: c.Bucket,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		total += c.Count
	}
	if total == 0 {
		return "", nil
	}
	return barSVG("Crashes by Weather Condition", bars)
}

func severeShareSVG(shares []stats.SevereShare) (template.HTML, error) {
	bars := make([]chart.Value, 0, len(shares))
	total := 0
	for _, s := range shares {
		col := weatherColors[s.Weather]
		bars = append(bars, chart.Value{
			Value: s.Pct,
			Label: s.Weather,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		total += s.Total
	}
	if total == 0 {
		return "", nil
	}
	return barSVG("Share of Serious/Fatal Crashes by Weather (%)", bars)
}

func makesBarSVG(makes []stats.MakeCount) (template.HTML, error) {
	if len(makes) == 0 {
		return "", nil
	}
	bars := make([]chart.Value, 0, len(makes))
	for _, m := range makes {
		bars = append(bars, chart.Value{
			Value: float64(m.Count),
			Label: m.Make,
			Style: chart.Style{FillColor: colPrimary, StrokeColor: colPrimary},
		})
	}
	return barSVG("Most Crash-Involved Vehicle Makes", bars)
}

func barSVG(title string, bars []chart.Value) (template.HTML, error) {
	barWidth := (chartWidth - 120) / len(bars)
	if barWidth > 80 {
		barWidth = 80
	}
	ch := chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: 12,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		XAxis:      chart.Style{FontSize: 8},
		Bars:       bars,
	}
	return renderSVG(&ch)
}

// severityStackSVG draws per-bucket severity mix as normalized stacked
// bars. Buckets with no known-severity crashes are omitted entirely; if
// none remain the chart degrades to the "no data" panel.
func severityStackSVG(title string, ct stats.CrossTab) (template.HTML, error) {
	if ct.Total == 0 {
		return "", nil
	}

	bars := make([]chart.StackedBar, 0, len(ct.Rows))
	for i, row := range ct.Rows {
		var values []chart.Value
		rowTotal := 0
		for j, sev := range ct.Cols {
			n := ct.Cells[i][j]
			rowTotal += n
			if n == 0 {
				continue
			}
			col := severityColors[sev]
			values = append(values, chart.Value{
				Value: float64(n),
				Label: sev,
				Style: chart.Style{FillColor: col, StrokeColor: col, FontSize: 8},
			})
		}
		if rowTotal == 0 {
			continue
		}
		label := row
		if l, ok := lightLabels[row]; ok {
			label = l
		}
		bars = append(bars, chart.StackedBar{Name: label, Width: 70, Values: values})
	}
	if len(bars) == 0 {
		return "", nil
	}

	ch := chart.StackedBarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarSpacing: 24,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		XAxis:      chart.Style{FontSize: 8},
		Bars:       bars,
	}
	return renderSVG(&ch)
}

func intLabel(n int) string {
	return chart.IntValueFormatter(float64(n))
}
