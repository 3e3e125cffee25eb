package domain

import "time"

// Filter is the user's current dashboard selection. The zero value matches
// every record. Date bounds are inclusive whole days in the record's
// location; categorical fields compare against the normalized buckets.
type Filter struct {
	From time.Time
	To   time.Time

	Weather  string
	Light    string
	Surface  string
	Severity string
	Year     int
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() &&
		f.Weather == "" && f.Light == "" && f.Surface == "" &&
		f.Severity == "" && f.Year == 0
}

// Matches reports whether a record satisfies every set constraint.
func (f Filter) Matches(r CrashRecord) bool {
	if !f.From.IsZero() && r.CrashTime.Before(dayStart(f.From)) {
		return false
	}
	if !f.To.IsZero() && !r.CrashTime.Before(dayStart(f.To).AddDate(0, 0, 1)) {
		return false
	}
	if f.Weather != "" && r.Weather != f.Weather {
		return false
	}
	if f.Light != "" && r.Light != f.Light {
		return false
	}
	if f.Surface != "" && r.Surface != f.Surface {
		return false
	}
	if f.Severity != "" && r.Severity != f.Severity {
		return false
	}
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	return true
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
