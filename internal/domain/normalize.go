package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/guregu/null.v3"
)

// crashTimeLayouts lists the timestamp forms seen across export years, most
// common first.
var crashTimeLayouts = []string{
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseCrashRow converts a raw dataset row into a CrashRecord, normalizing
// every categorical column and deriving the time features. It fails only on
// an unparsable timestamp; every other field degrades to its unknown bucket.
func ParseCrashRow(raw RawCrashRow) (CrashRecord, error) {
	ts, ok := parseCrashTime(raw.CrashDateTime)
	if !ok {
		return CrashRecord{}, fmt.Errorf("parse crash time %q", raw.CrashDateTime)
	}

	return CrashRecord{
		CrashTime: ts,
		Hour:      ts.Hour() + 1,
		Weekday:   ts.Weekday(),
		Month:     ts.Month(),
		Year:      ts.Year(),

		Weather:  normalizeWeather(raw.Weather),
		Light:    normalizeLight(raw.Light),
		Surface:  normalizeSurface(raw.Surface),
		Severity: normalizeSeverity(raw.InjurySeverity),

		CollisionType: cleanLabel(raw.CollisionType),
		VehicleBody:   cleanLabel(raw.VehicleBody),
		VehicleMake:   normalizeMake(raw.VehicleMake),
		VehicleYear:   parseVehicleYear(raw.VehicleYear),
	}, nil
}

// parseCrashTime tries each known layout in order. Naive local timestamps
// parse into UTC; the dataset carries no zone information.
func parseCrashTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range crashTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// missing reports whether an already upper-cased value is one of the portal's
// empty or N/A sentinels.
func missing(s string) bool {
	switch s {
	case "", "N/A", "NA", "NULL", "NAN":
		return true
	}
	return false
}

// normalizeWeather collapses the free-text weather column into the fixed
// bucket set. Wind is matched first because combined values like
// "RAIN AND WINDS" are classified by the dominant hazard upstream.
func normalizeWeather(value string) string {
	s := strings.ToUpper(strings.TrimSpace(value))
	if missing(s) {
		return WeatherUnknown
	}

	switch {
	case strings.Contains(s, "WIND"):
		return WeatherWind
	case strings.Contains(s, "CLEAR"):
		return WeatherClear
	case strings.Contains(s, "RAIN"), strings.Contains(s, "DRIZZLE"), strings.Contains(s, "SHOWER"):
		return WeatherRain
	case strings.Contains(s, "SNOW"), strings.Contains(s, "SLEET"), strings.Contains(s, "WINTRY"), strings.Contains(s, "FREEZING"):
		return WeatherSnowIce
	case strings.Contains(s, "FOG"), strings.Contains(s, "SMOG"), strings.Contains(s, "SMOKE"):
		return WeatherFog
	case strings.Contains(s, "CLOUD"), strings.Contains(s, "OVERCAST"):
		return WeatherCloudy
	case strings.Contains(s, "UNKNOWN"):
		return WeatherUnknown
	default:
		return WeatherOther
	}
}

// normalizeLight collapses the lighting column. The dark variants with no
// lights, non-functioning lights, or unknown lighting merge into DARK_UNLIT;
// everything unclassifiable is UNKNOWN rather than OTHER because lighting is
// always one of the five physical states.
func normalizeLight(value string) string {
	s := strings.ToUpper(strings.TrimSpace(value))
	if missing(s) {
		return LightUnknown
	}

	switch {
	case strings.Contains(s, "DAWN"):
		return LightDawn
	case strings.Contains(s, "DUSK"):
		return LightDusk
	case strings.Contains(s, "DAYLIGHT"):
		return LightDaylight
	case strings.Contains(s, "DARK"):
		if strings.Contains(s, "NO LIGHT") || strings.Contains(s, "NOT LIGHTED") || strings.Contains(s, "UNKNOWN") {
			return LightDarkUnlit
		}
		return LightDarkLighted
	default:
		return LightUnknown
	}
}

// normalizeSurface collapses the road surface column. Water on the roadway
// counts as WET; gravel, mud, and dirt merge into LOOSE MATERIAL.
func normalizeSurface(value string) string {
	s := strings.ToUpper(strings.TrimSpace(value))
	if missing(s) {
		return SurfaceUnknown
	}

	switch {
	case strings.Contains(s, "DRY"):
		return SurfaceDry
	case strings.Contains(s, "WET"), strings.Contains(s, "WATER"):
		return SurfaceWet
	case strings.Contains(s, "SNOW"), strings.Contains(s, "ICE"), strings.Contains(s, "SLUSH"), strings.Contains(s, "FROST"):
		return SurfaceSnowIce
	case strings.Contains(s, "GRAVEL"), strings.Contains(s, "MUD"), strings.Contains(s, "DIRT"):
		return SurfaceLoose
	default:
		return SurfaceOther
	}
}

// normalizeSeverity maps the injury severity column onto the five ordered
// levels. The raw column phrases levels as "NO APPARENT INJURY",
// "SUSPECTED MINOR INJURY", and so on.
func normalizeSeverity(value string) string {
	s := strings.ToUpper(strings.TrimSpace(value))
	if missing(s) {
		return SeverityUnknown
	}

	switch {
	case strings.Contains(s, "NO APPARENT"):
		return SeverityNone
	case strings.Contains(s, "POSSIBLE"):
		return SeverityPossible
	case strings.Contains(s, "MINOR"):
		return SeverityMinor
	case strings.Contains(s, "SERIOUS"):
		return SeveritySerious
	case strings.Contains(s, "FATAL"):
		return SeverityFatal
	default:
		return SeverityUnknown
	}
}

// makeAbbreviations expands the NCIC four-letter codes that appear alongside
// full make names in the data.
var makeAbbreviations = map[string]string{
	"TOYT": "TOYOTA",
	"HOND": "HONDA",
	"CHEV": "CHEVROLET",
	"MERZ": "MERCEDES-BENZ",
	"VOLK": "VOLKSWAGEN",
}

// normalizeMake upper-cases the make, expands known abbreviations, and
// collapses the unknown sentinels.
func normalizeMake(value string) string {
	s := strings.ToUpper(strings.TrimSpace(value))
	if missing(s) {
		return MakeUnknown
	}
	if full, ok := makeAbbreviations[s]; ok {
		return full
	}
	if s == "UNK" || s == "UNKNOWN" {
		return MakeUnknown
	}
	return s
}

// cleanLabel trims a pass-through categorical column (body type, collision
// type). Missing values become the empty string so ranking code can skip
// them without inventing a bucket the source never had.
func cleanLabel(value string) string {
	s := strings.TrimSpace(value)
	if missing(strings.ToUpper(s)) {
		return ""
	}
	return s
}

// parseVehicleYear reads the model year, tolerating float-formatted exports
// like "2015.0". Values outside the plausible window are treated as missing.
func parseVehicleYear(value string) null.Int {
	s := strings.TrimSpace(value)
	if missing(strings.ToUpper(s)) {
		return null.NewInt(0, false)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.NewInt(0, false)
	}
	year := int64(f)
	if year < VehicleYearMin || year > VehicleYearMax {
		return null.NewInt(0, false)
	}
	return null.IntFrom(year)
}
