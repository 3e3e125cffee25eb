package web_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-insights/internal/adapter/web"
	"github.com/couchcryptid/crash-insights/internal/dataset"
	"github.com/couchcryptid/crash-insights/internal/domain"
	"github.com/couchcryptid/crash-insights/internal/observability"
)

const fixtureCSV = `Crash Date/Time,Weather,Light,Surface Condition,Injury Severity,Vehicle Year,Vehicle Make,Vehicle Body Type,Collision Type
05/25/2018 06:35:00 PM,CLEAR,DAYLIGHT,DRY,NO APPARENT INJURY,2015,TOYT,PASSENGER CAR,SAME DIR REAR END
06/14/2018 08:10:00 AM,RAINING,DAYLIGHT,WET,SUSPECTED MINOR INJURY,2008,HOND,PICKUP,ANGLE
12/01/2019 11:15:00 PM,SNOW,DARK LIGHTS ON,ICE,SUSPECTED SERIOUS INJURY,2012,FORD,PASSENGER CAR,HEAD ON
07/04/2019 02:00:00 PM,CLEAR,DAYLIGHT,DRY,FATAL INJURY,1999,CHEV,PASSENGER CAR,ANGLE
`

func newTestServer(t *testing.T) *web.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crash.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o600))

	table, err := dataset.Load(path, slog.Default())
	require.NoError(t, err)

	return web.NewServer(":0", table, observability.NewMetricsForTesting(), slog.Default())
}

func get(t *testing.T, srv *web.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenLoaded(t *testing.T) {
	rec := get(t, newTestServer(t), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDashboardPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "Crash Insights Dashboard")
	assert.Contains(t, body, "Total records: 4 crashes")
	assert.Contains(t, body, "When Do Crashes Happen?")
	assert.Contains(t, body, "Weather and Danger")
	assert.Contains(t, body, "The Vehicle Story")
	assert.Contains(t, body, "<svg")
}

func TestDashboardPage_Filtered(t *testing.T) {
	rec := get(t, newTestServer(t), "/?weather=RAIN")
	require.Equal(t, http.StatusOK, rec.Code)
	// One rain crash in the fixture.
	assert.Contains(t, rec.Body.String(), `<div class="lbl">Matching Current Filter</div><div class="val">1</div>`)
}

func TestDashboardPage_EmptySelectionRendersPlaceholders(t *testing.T) {
	rec := get(t, newTestServer(t), "/?weather=FOG")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No matching crashes")
}

func TestDashboardPage_MalformedParamsIgnored(t *testing.T) {
	rec := get(t, newTestServer(t), "/?weather=TSUNAMI&from=yesterday&year=banana")
	require.Equal(t, http.StatusOK, rec.Code)
	// Nothing filtered out: the bogus params read as unset.
	assert.Contains(t, rec.Body.String(), `<div class="lbl">Matching Current Filter</div><div class="val">4</div>`)
}

func TestAPIHourly(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/hourly.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var counts []struct {
		Hour  int `json:"hour"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 24)

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	assert.Equal(t, 4, total)
}

func TestAPIHourly_Filtered(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/hourly.json?severity="+url.QueryEscape(domain.SeverityFatal))
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []struct {
		Hour  int `json:"hour"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, counts[14].Count) // 14:00 -> display hour 15
}

func TestAPISummary(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/summary.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Total           int       `json:"total"`
		First           time.Time `json:"first"`
		PeakHour        int       `json:"peak_hour"`
		RiskiestWeather string    `json:"riskiest_weather"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2018, summary.First.Year())
	// SNOW/ICE: its single crash is serious, a 100% severe share.
	assert.Equal(t, domain.WeatherSnowIce, summary.RiskiestWeather)
}

func TestAPISevereShare(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/severe-share.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var shares []struct {
		Weather string  `json:"weather"`
		Total   int     `json:"total"`
		Severe  int     `json:"severe"`
		Pct     float64 `json:"pct"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shares))
	require.Len(t, shares, len(domain.WeatherOrder))

	for _, s := range shares {
		if s.Weather == domain.WeatherClear {
			assert.Equal(t, 2, s.Total)
			assert.Equal(t, 1, s.Severe) // the fatal crash
			assert.InDelta(t, 50.0, s.Pct, 0.001)
		}
	}
}

func TestAPIAllEndpointsRespond(t *testing.T) {
	srv := newTestServer(t)
	endpoints := []string{
		"hourly", "day-hour", "monthly", "light", "weather",
		"severity-weather", "severity-light", "severe-share",
		"weather-surface", "vehicle-year", "makes", "body-collision",
		"summary",
	}
	for _, ep := range endpoints {
		t.Run(ep, func(t *testing.T) {
			rec := get(t, srv, "/api/"+ep+".json")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, json.Valid(rec.Body.Bytes()), "invalid JSON from %s", ep)
		})
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	rec := get(t, newTestServer(t), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
