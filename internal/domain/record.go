package domain

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// Weather buckets. WIND and OTHER exist as normalization targets but are
// removed from the working set at load; UNKNOWN stays in the set and is
// excluded per chart.
const (
	WeatherClear   = "CLEAR"
	WeatherRain    = "RAIN"
	WeatherSnowIce = "SNOW/ICE"
	WeatherFog     = "FOG"
	WeatherCloudy  = "CLOUDY"
	WeatherWind    = "WIND"
	WeatherOther   = "OTHER"
	WeatherUnknown = "UNKNOWN"
)

// Light buckets. DARK_LIGHTED covers dark roads with street lighting,
// DARK_UNLIT merges the unlit and unknown-lighting dark variants.
const (
	LightDaylight    = "DAYLIGHT"
	LightDarkLighted = "DARK_LIGHTED"
	LightDarkUnlit   = "DARK_UNLIT"
	LightDawn        = "DAWN"
	LightDusk        = "DUSK"
	LightUnknown     = "UNKNOWN"
)

// Road surface buckets.
const (
	SurfaceDry     = "DRY"
	SurfaceWet     = "WET"
	SurfaceSnowIce = "SNOW/ICE"
	SurfaceLoose   = "LOOSE MATERIAL"
	SurfaceOther   = "OTHER"
	SurfaceUnknown = "UNKNOWN"
)

// Injury severity levels, ordered from no injury to fatal.
const (
	SeverityNone     = "No Injury"
	SeverityPossible = "Possible Injury"
	SeverityMinor    = "Minor Injury"
	SeveritySerious  = "Serious Injury"
	SeverityFatal    = "Fatal Injury"
	SeverityUnknown  = "Unknown"
)

// MakeUnknown is the bucket for missing or unidentifiable vehicle makes.
const MakeUnknown = "UNKNOWN"

// Vehicle model years outside this window are treated as data entry errors.
const (
	VehicleYearMin = 1980
	VehicleYearMax = 2025
)

// Display orders. Charts iterate these so axes stay stable regardless of
// which buckets the filtered data happens to contain.
var (
	WeatherOrder  = []string{WeatherClear, WeatherRain, WeatherFog, WeatherCloudy, WeatherSnowIce}
	LightOrder    = []string{LightDaylight, LightDarkLighted, LightDarkUnlit, LightDawn, LightDusk}
	SurfaceOrder  = []string{SurfaceDry, SurfaceWet, SurfaceSnowIce, SurfaceLoose, SurfaceOther, SurfaceUnknown}
	SeverityOrder = []string{SeverityNone, SeverityPossible, SeverityMinor, SeveritySerious, SeverityFatal}

	DayOrder = []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
)

// RawCrashRow holds the untyped column values of one dataset row, exactly as
// read from the file.
type RawCrashRow struct {
	CrashDateTime  string
	Weather        string
	Light          string
	Surface        string
	InjurySeverity string
	VehicleYear    string
	VehicleMake    string
	VehicleBody    string
	CollisionType  string
}

// CrashRecord is one cleaned row of the dataset. Records are immutable once
// loaded; every field is derived exactly once so all aggregations agree.
type CrashRecord struct {
	CrashTime time.Time
	Hour      int // 1-24 display convention
	Weekday   time.Weekday
	Month     time.Month
	Year      int

	Weather  string
	Light    string
	Surface  string
	Severity string

	CollisionType string
	VehicleBody   string
	VehicleMake   string
	VehicleYear   null.Int
}

// Severe reports whether a severity level counts as a serious outcome.
func Severe(severity string) bool {
	return severity == SeveritySerious || severity == SeverityFatal
}
