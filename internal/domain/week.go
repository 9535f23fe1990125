// Week boundary math. Planning weeks run Saturday through Friday; every
// calendar date belongs to exactly one week identified by its Saturday
// start date.
package domain

import "time"

// DateOnly truncates t to midnight UTC, the canonical form for all stored
// dates (week starts, slot dates).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Saturday that begins the week containing d.
// The result is a pure function of the calendar date: for every d,
// WeekStart(d) <= d < WeekStart(d)+7d, and WeekStart is idempotent.
func WeekStart(d time.Time) time.Time {
	d = DateOnly(d)
	// time.Weekday has Sunday=0..Saturday=6, so Saturday maps to offset 0.
	offset := (int(d.Weekday()) + 1) % 7
	return d.AddDate(0, 0, -offset)
}

// IsSaturday reports whether d falls on a Saturday.
func IsSaturday(d time.Time) bool {
	return d.Weekday() == time.Saturday
}

// ShiftMondayToSaturday converts a week start stored under the legacy
// Monday convention to the Saturday convention by subtracting two days.
// Any bulk migration must apply this uniformly.
func ShiftMondayToSaturday(monday time.Time) time.Time {
	return DateOnly(monday).AddDate(0, 0, -2)
}

// ShiftSaturdayToMonday is the inverse of ShiftMondayToSaturday.
func ShiftSaturdayToMonday(saturday time.Time) time.Time {
	return DateOnly(saturday).AddDate(0, 0, 2)
}
