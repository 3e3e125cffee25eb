package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testRecord(ts time.Time) CrashRecord {
	return CrashRecord{
		CrashTime: ts,
		Hour:      ts.Hour() + 1,
		Weekday:   ts.Weekday(),
		Month:     ts.Month(),
		Year:      ts.Year(),
		Weather:   WeatherClear,
		Light:     LightDaylight,
		Surface:   SurfaceDry,
		Severity:  SeverityNone,
	}
}

func TestFilterMatches(t *testing.T) {
	rec := testRecord(time.Date(2020, time.June, 15, 17, 30, 0, 0, time.UTC))

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter matches everything", Filter{}, true},
		{"weather match", Filter{Weather: WeatherClear}, true},
		{"weather mismatch", Filter{Weather: WeatherRain}, false},
		{"light match", Filter{Light: LightDaylight}, true},
		{"light mismatch", Filter{Light: LightDusk}, false},
		{"surface mismatch", Filter{Surface: SurfaceWet}, false},
		{"severity match", Filter{Severity: SeverityNone}, true},
		{"severity mismatch", Filter{Severity: SeverityFatal}, false},
		{"year match", Filter{Year: 2020}, true},
		{"year mismatch", Filter{Year: 2019}, false},
		{"from before record", Filter{From: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)}, true},
		{"from after record", Filter{From: time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)}, false},
		{"from same day inclusive", Filter{From: time.Date(2020, 6, 15, 23, 0, 0, 0, time.UTC)}, true},
		{"to after record", Filter{To: time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)}, true},
		{"to same day inclusive", Filter{To: time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)}, true},
		{"to before record", Filter{To: time.Date(2020, 6, 14, 0, 0, 0, 0, time.UTC)}, false},
		{
			"all constraints together",
			Filter{
				From:     time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
				To:       time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC),
				Weather:  WeatherClear,
				Light:    LightDaylight,
				Surface:  SurfaceDry,
				Severity: SeverityNone,
				Year:     2020,
			},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(rec))
		})
	}
}

func TestFilterIsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{Weather: WeatherRain}.IsZero())
	assert.False(t, Filter{Year: 2020}.IsZero())
	assert.False(t, Filter{From: time.Now()}.IsZero())
}
