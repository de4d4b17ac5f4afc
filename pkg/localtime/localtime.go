// Package localtime provides timezone-explicit date and time helpers:
// a civil Date type and functions for midnights, day and month
// boundaries and instant rounding. Every function that depends on a
// timezone takes an explicit *time.Location rather than assuming one.
package localtime

import (
	"time"
)

// Clock returns the current instant. Tests may swap it out to pin
// "now".
var Clock = time.Now

// Now returns the current instant in the given location.
func Now(loc *time.Location) time.Time {
	return Clock().In(loc)
}

// NowUTC returns the current instant in UTC.
func NowUTC() time.Time {
	return Clock().UTC()
}

// As converts t to the given location without changing the instant.
func As(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// AsUTC converts t to UTC without changing the instant.
func AsUTC(t time.Time) time.Time {
	return t.UTC()
}

// ParseDT parses an RFC 3339 datetime such as
// "2021-06-01T12:30:00Z".
func ParseDT(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Today returns the current date in the given location.
func Today(loc *time.Location) Date {
	return DateOf(Now(loc))
}

func Yesterday(loc *time.Location) Date {
	return Today(loc).AddDays(-1)
}

func Tomorrow(loc *time.Location) Date {
	return Today(loc).AddDays(1)
}

// DaysInThePast returns the date n days before today.
func DaysInThePast(n int, loc *time.Location) Date {
	return Today(loc).AddDays(-n)
}

// DaysInTheFuture returns the date n days after today.
func DaysInTheFuture(n int, loc *time.Location) Date {
	return Today(loc).AddDays(n)
}

// Midnight returns the midnight starting the day that contains t in
// the given location.
func Midnight(t time.Time, loc *time.Location) time.Time {
	return DateOf(t.In(loc)).In(loc)
}

// MidnightOn returns the midnight starting the given date in the
// given location.
func MidnightOn(d Date, loc *time.Location) time.Time {
	return d.In(loc)
}

// NextMidnight returns the first midnight strictly after t in the
// given location.
func NextMidnight(t time.Time, loc *time.Location) time.Time {
	return DateOf(t.In(loc)).AddDays(1).In(loc)
}

// Midday returns 12:00 of the day that contains t in the given
// location.
func Midday(t time.Time, loc *time.Location) time.Time {
	d := DateOf(t.In(loc))
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

// IsMidnight reports whether t is exactly a local midnight in its own
// location.
func IsMidnight(t time.Time) bool {
	return t.Equal(Midnight(t, t.Location()))
}

// DateBoundaries returns the [start, end) instants of the given date:
// its midnight and the next day's midnight.
func DateBoundaries(d Date, loc *time.Location) (time.Time, time.Time) {
	return d.In(loc), d.AddDays(1).In(loc)
}

// MonthBoundaries returns the [start, end) instants of the given
// calendar month.
func MonthBoundaries(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
}

// Latest returns the latest of the given instants.
func Latest(first time.Time, rest ...time.Time) time.Time {
	out := first
	for _, t := range rest {
		if t.After(out) {
			out = t
		}
	}
	return out
}

// Earliest returns the earliest of the given instants.
func Earliest(first time.Time, rest ...time.Time) time.Time {
	out := first
	for _, t := range rest {
		if t.Before(out) {
			out = t
		}
	}
	return out
}

// Quantise rounds t to the nearest multiple of step, with halves
// rounding away from the zero time.
func Quantise(t time.Time, step time.Duration) time.Time {
	return t.Round(step)
}

// NearestHalfHour rounds t to the nearest half hour.
func NearestHalfHour(t time.Time) time.Time {
	return Quantise(t, 30*time.Minute)
}
