// Package billingcycle holds the pure date arithmetic behind card closing periods,
// invoice due dates and subscription renewals. Nothing here performs I/O.
package billingcycle

import "time"

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// DateOnDay builds the date in year/month with the given day, clamped to the month's last day.
func DateOnDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	// Normalize month overflow first so the clamp looks at the right month.
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	y, m := first.Year(), first.Month()
	if last := DaysIn(y, m, loc); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// AddMonthsClamped shifts t by n calendar months keeping the day of month,
// clamped to the target month's last day (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(t time.Time, n int) time.Time {
	return AddMonthsOnDay(t, n, t.Day())
}

// AddMonthsOnDay shifts t by n calendar months and places the result on day,
// clamped to the target month's last day. The time of day is dropped.
func AddMonthsOnDay(t time.Time, n int, day int) time.Time {
	return DateOnDay(t.Year(), t.Month()+time.Month(n), day, t.Location())
}
