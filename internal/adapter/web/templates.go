package web

import (
	"fmt"
	"html/template"
	"time"
)

var funcMap = template.FuncMap{
	"comma": comma,
	"pct":   fmtPct,
	"fmtDate": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Format("Jan 2, 2006")
	},
	"fmtStamp": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Format("2006-01-02 15:04:05 MST")
	},
	"lightLabel": func(bucket string) string {
		if l, ok := lightLabels[bucket]; ok {
			return l
		}
		return bucket
	},
	"sub": func(a, b float64) float64 { return a - b },
	// heat scales a cell background by count/max for the HTML heatmaps.
	"heat": func(count, max int) template.CSS {
		if max == 0 || count == 0 {
			return "background:#ffffff"
		}
		alpha := 0.08 + 0.92*float64(count)/float64(max)
		return template.CSS(fmt.Sprintf("background:rgba(211,84,0,%.2f)", alpha)) //nolint:gosec // numeric only
	},
}

var pageTmpl = template.Must(template.New("page").Funcs(funcMap).Parse(tmplPage))

const tmplPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Crash Insights Dashboard</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:Arial,Helvetica,sans-serif;background:#f9f4e8;color:#333;font-size:14px;line-height:1.5;padding:30px}
.wrap{max-width:1400px;margin:0 auto;background:#fff;border-radius:16px;padding:24px 28px 32px;box-shadow:0 10px 30px rgba(0,0,0,.12)}
header{display:flex;justify-content:space-between;align-items:baseline;gap:12px;flex-wrap:wrap}
h1{font-size:28px;color:#d35400}
.subtitle{margin-top:6px;color:#777;font-size:14px}
.meta{font-size:12px;color:#777;text-align:right}
hr{margin:18px 0 16px;border:none;border-top:1px solid #f0e1c5}
.cards{display:flex;flex-wrap:wrap;gap:12px}
.card{flex:1;min-width:180px;border-radius:12px;padding:12px 16px}
.card .lbl{font-size:11px;color:#777}
.card .val{font-size:22px;font-weight:bold}
.card.total{background:#fff7e0}.card.total .val{color:#d35400}
.card.peak{background:#e8f6ff}.card.peak .val{color:#2980b9;font-size:18px}
.card.risk{background:#ffeef0}.card.risk .val{color:#c0392b;font-size:18px}
.card.match{background:#edf7ee}.card.match .val{color:#27ae60}
.filters{display:flex;gap:10px;flex-wrap:wrap;align-items:flex-end;margin:16px 0;background:#faf6ec;border:1px solid #f0e1c5;border-radius:10px;padding:10px 14px}
.filters label{display:block;font-size:11px;color:#d35400;font-weight:bold;margin-bottom:2px}
.filters select,.filters input{border:1px solid #ddd;border-radius:6px;padding:4px 8px;font-size:13px;background:#fff;color:#333}
.filters button{background:#d35400;border:none;color:#fff;padding:6px 16px;border-radius:6px;cursor:pointer;font-size:13px}
.filters a.reset{font-size:12px;color:#777;padding:6px 4px}
h2{font-size:16px;color:#d35400;margin:22px 0 10px}
.row{display:flex;flex-wrap:wrap;gap:16px}
.panel{flex:1 1 380px;border:1px solid #eee;border-radius:12px;padding:12px;min-width:380px}
.panel h3{font-size:13px;color:#777;margin-bottom:8px}
.panel svg{max-width:100%;height:auto}
.empty{display:flex;align-items:center;justify-content:center;height:320px;color:#aaa;font-size:14px}
table.heat{border-collapse:collapse;font-size:11px;width:100%}
table.heat th{padding:3px 4px;color:#777;font-weight:normal;text-align:center}
table.heat th.rowhdr{text-align:right;padding-right:8px;white-space:nowrap}
table.heat td{border:1px solid #fff;text-align:center;padding:3px 2px;min-width:18px;color:#333}
.spread{margin:8px 0}
.spread .lbl{font-size:12px;color:#555;margin-bottom:2px;display:flex;justify-content:space-between}
.spread .lbl .range{color:#999;font-size:11px}
.spread .track{position:relative;height:14px;background:#f4f0e4;border-radius:7px}
.spread .whisker{position:absolute;top:6px;height:2px;background:#d3b98f}
.spread .box{position:absolute;top:2px;height:10px;background:#d35400;border-radius:3px;opacity:.75}
.spread .median{position:absolute;top:0;height:14px;width:2px;background:#7b2d00}
footer{margin-top:24px;font-size:11px;color:#999;display:flex;justify-content:space-between;flex-wrap:wrap;gap:8px}
</style>
</head>
<body>
<div class="wrap">
<header>
  <div>
    <h1>Crash Insights Dashboard</h1>
    <p class="subtitle">A data-driven exploration of how time, weather, road conditions, and vehicle factors shape crash outcomes.</p>
  </div>
  <div class="meta">
    <div>Data period: {{fmtDate .Summary.First}} to {{fmtDate .Summary.Last}}</div>
    <div>Total records: {{comma .Summary.Total}} crashes</div>
  </div>
</header>
<hr>
<div class="cards">
  <div class="card total"><div class="lbl">Total Crashes</div><div class="val">{{comma .Summary.Total}}</div></div>
  <div class="card peak"><div class="lbl">Peak Crash Hour</div><div class="val">{{.Summary.PeakHour}}:00 (&asymp; {{comma .Summary.PeakHourCount}} crashes)</div></div>
  <div class="card risk"><div class="lbl">Riskiest Weather (by severity share)</div><div class="val">{{if .Summary.RiskiestWeather}}{{.Summary.RiskiestWeather}} &ndash; {{pct .Summary.RiskiestPct}} severe{{else}}&mdash;{{end}}</div></div>
  <div class="card match"><div class="lbl">Matching Current Filter</div><div class="val">{{comma .MatchCount}}</div></div>
</div>

<form class="filters" method="GET" action="/">
  <div><label for="from">From</label><input type="date" id="from" name="from" value="{{.FromValue}}"></div>
  <div><label for="to">To</label><input type="date" id="to" name="to" value="{{.ToValue}}"></div>
  <div><label for="weather">Weather</label>
    <select id="weather" name="weather" onchange="this.form.submit()">
      <option value="">All</option>
      {{range .WeatherOptions}}<option value="{{.}}" {{if eq . $.Filter.Weather}}selected{{end}}>{{.}}</option>{{end}}
    </select></div>
  <div><label for="light">Light</label>
    <select id="light" name="light" onchange="this.form.submit()">
      <option value="">All</option>
      {{range .LightOptions}}<option value="{{.}}" {{if eq . $.Filter.Light}}selected{{end}}>{{lightLabel .}}</option>{{end}}
    </select></div>
  <div><label for="surface">Surface</label>
    <select id="surface" name="surface" onchange="this.form.submit()">
      <option value="">All</option>
      {{range .SurfaceOptions}}<option value="{{.}}" {{if eq . $.Filter.Surface}}selected{{end}}>{{.}}</option>{{end}}
    </select></div>
  <div><label for="severity">Severity</label>
    <select id="severity" name="severity" onchange="this.form.submit()">
      <option value="">All</option>
      {{range .SeverityOptions}}<option value="{{.}}" {{if eq . $.Filter.Severity}}selected{{end}}>{{.}}</option>{{end}}
    </select></div>
  <div><label for="year">Year</label>
    <select id="year" name="year" onchange="this.form.submit()">
      <option value="">All Years</option>
      {{range .Years}}<option value="{{.}}" {{if eq . $.Filter.Year}}selected{{end}}>{{.}}</option>{{end}}
    </select></div>
  <button type="submit">Apply</button>
  <a class="reset" href="/">Reset</a>
</form>

<h2>1 &bull; When Do Crashes Happen?</h2>
<div class="row">
  <div class="panel">{{if .HourSVG}}{{.HourSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
  <div class="panel">
    <h3>Crash Density: Day of Week vs Hour</h3>
    {{if .DayHour.Total}}
    <table class="heat">
      <tr><th></th>{{range .DayHour.Hours}}<th>{{.}}</th>{{end}}</tr>
      {{range $di, $day := .DayHour.Days}}
      <tr><th class="rowhdr">{{$day}}</th>
        {{range $hi, $h := $.DayHour.Hours}}{{$c := index $.DayHour.Cells $di $hi}}<td style="{{heat $c $.DayHour.Max}}">{{if $c}}{{$c}}{{end}}</td>{{end}}
      </tr>
      {{end}}
    </table>
    {{else}}<div class="empty">No matching crashes</div>{{end}}
  </div>
</div>
<div class="row">
  <div class="panel">{{if .MonthSVG}}{{.MonthSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
  <div class="panel">{{if .LightSVG}}{{.LightSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
</div>

<h2>2 &bull; Weather and Danger</h2>
<div class="row">
  <div class="panel">{{if .WeatherSVG}}{{.WeatherSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
  <div class="panel">{{if .SeverityWeatherSVG}}{{.SeverityWeatherSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
</div>
<div class="row">
  <div class="panel">{{if .SevereShareSVG}}{{.SevereShareSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
  <div class="panel">{{if .SeverityLightSVG}}{{.SeverityLightSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
</div>
<div class="row">
  <div class="panel">
    <h3>Weather vs Surface Condition</h3>
    {{if .WeatherSurface.Total}}
    <table class="heat">
      <tr><th></th>{{range .WeatherSurface.Cols}}<th>{{.}}</th>{{end}}</tr>
      {{range $ri, $row := .WeatherSurface.Rows}}
      <tr><th class="rowhdr">{{$row}}</th>
        {{range $ci, $col := $.WeatherSurface.Cols}}{{$c := index $.WeatherSurface.Cells $ri $ci}}<td style="{{heat $c $.WeatherSurface.Max}}">{{if $c}}{{comma $c}}{{end}}</td>{{end}}
      </tr>
      {{end}}
    </table>
    {{else}}<div class="empty">No matching crashes</div>{{end}}
  </div>
</div>

<h2>3 &bull; The Vehicle Story</h2>
<div class="row">
  <div class="panel">
    <h3>Vehicle Year vs Injury Severity (min &ndash; quartiles &ndash; max)</h3>
    {{$any := false}}{{range .YearSpreads}}{{if .Count}}{{$any = true}}{{end}}{{end}}
    {{if $any}}
    {{range .YearSpreads}}{{if .Count}}
    <div class="spread">
      <div class="lbl"><span>{{.Severity}} ({{comma .Count}})</span><span class="range">{{.Min}} &ndash; {{.Max}}, median {{printf "%.0f" .Median}}</span></div>
      <div class="track">
        <div class="whisker" style="left:{{printf "%.1f" .MinPct}}%;width:{{printf "%.1f" (sub .MaxPct .MinPct)}}%"></div>
        <div class="box" style="left:{{printf "%.1f" .Q1Pct}}%;width:{{printf "%.1f" (sub .Q3Pct .Q1Pct)}}%"></div>
        <div class="median" style="left:{{printf "%.1f" .MedianPct}}%"></div>
      </div>
    </div>
    {{end}}{{end}}
    {{else}}<div class="empty">No matching crashes with a known vehicle year</div>{{end}}
  </div>
  <div class="panel">{{if .MakesSVG}}{{.MakesSVG}}{{else}}<div class="empty">No matching crashes</div>{{end}}</div>
</div>
<div class="row">
  <div class="panel">
    <h3>Vehicle Body Type vs Collision Type</h3>
    {{if .BodyCollision.Total}}
    <table class="heat">
      <tr><th></th>{{range .BodyCollision.Cols}}<th>{{.}}</th>{{end}}</tr>
      {{range $ri, $row := .BodyCollision.Rows}}
      <tr><th class="rowhdr">{{$row}}</th>
        {{range $ci, $col := $.BodyCollision.Cols}}{{$c := index $.BodyCollision.Cells $ri $ci}}<td style="{{heat $c $.BodyCollision.Max}}">{{if $c}}{{comma $c}}{{end}}</td>{{end}}
      </tr>
      {{end}}
    </table>
    {{else}}<div class="empty">No matching crashes</div>{{end}}
  </div>
</div>

<footer>
  <span>Dataset loaded {{fmtStamp .LoadedAt}} &middot; {{comma .RowsKept}} rows kept, {{comma .RowsDropped}} dropped</span>
  <span>Aggregates recomputed per request over the in-memory table</span>
</footer>
</div>
</body>
</html>
`
