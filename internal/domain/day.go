package domain

import "time"

// DayOfWeek keys per-day pricing overrides and discount eligibility.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

var allDays = map[DayOfWeek]struct{}{
	Monday: {}, Tuesday: {}, Wednesday: {}, Thursday: {},
	Friday: {}, Saturday: {}, Sunday: {},
}

func (d DayOfWeek) Valid() bool {
	_, ok := allDays[d]
	return ok
}

// ParseDayOfWeek rejects unknown keys instead of ignoring them.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	d := DayOfWeek(s)
	if !d.Valid() {
		return "", NewValidationError("day_of_week", "unknown day key: "+s)
	}
	return d, nil
}

func DayOfWeekFromTime(t time.Time) DayOfWeek {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}
