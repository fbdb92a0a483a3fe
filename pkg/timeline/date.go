package timeline

import "time"

// Civil truncates t to its calendar date, expressed as UTC midnight. The
// year, month and day are read in t's own location, so a due date written
// as 2024-03-05T23:30:00+08:00 stays on the 5th.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from a to b (negative when b
// is earlier). Both arguments are reduced to civil dates first.
func DaysBetween(a, b time.Time) int {
	return int((Civil(b).Unix() - Civil(a).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// AddDays shifts a civil date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Civil(t).AddDate(0, 0, n)
}

// StartOfWeek returns the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	c := Civil(t)
	return c.AddDate(0, 0, -int(c.Weekday()))
}

// EndOfWeek returns the Saturday on or after t.
func EndOfWeek(t time.Time) time.Time {
	c := Civil(t)
	return c.AddDate(0, 0, int(time.Saturday-c.Weekday()))
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	c := Civil(t)
	return time.Date(c.Year(), c.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Civil(a).Equal(Civil(b))
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
