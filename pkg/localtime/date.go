package localtime

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day and no timezone. It
// satisfies the ranges.Value constraint via Compare.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Sentinel extremes of the representable date space. Range code
// special-cases these instead of doing arithmetic past them.
var (
	MinDate = Date{Year: 1, Month: time.January, Day: 1}
	MaxDate = Date{Year: 9999, Month: time.December, Day: 31}
)

// NewDate returns the given calendar date, normalising out-of-range
// month and day values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in ISO 8601 form, e.g. "2020-06-22".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Compare orders dates chronologically: negative when d is earlier
// than other, 0 when equal, positive when later.
func (d Date) Compare(other Date) int {
	if d.Year != other.Year {
		return d.Year - other.Year
	}
	if d.Month != other.Month {
		return int(d.Month) - int(other.Month)
	}
	return d.Day - other.Day
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func (d Date) IsZero() bool { return d == Date{} }

// In returns the midnight that starts this date in the given location.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// AddMonths returns the date n months later, normalised the way
// time.AddDate normalises (Jan 31 + 1 month = Mar 2/3).
func (d Date) AddMonths(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, n, 0))
}

// DaysUntil returns the number of whole days from d to other,
// negative when other is earlier.
func (d Date) DaysUntil(other Date) int {
	return int(other.In(time.UTC).Sub(d.In(time.UTC)) / (24 * time.Hour))
}

func (d Date) Weekday() time.Weekday {
	return d.In(time.UTC).Weekday()
}

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthEnd returns the last day of d's month.
func (d Date) MonthEnd() Date {
	return DateOf(time.Date(d.Year, d.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

func (d Date) IsLastDayOfMonth() bool {
	return d == d.MonthEnd()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DateIterator walks the dates from start through end inclusive.
type DateIterator struct {
	start, end Date

	cur  Date
	done bool
}

// IterateDates returns an iterator over the dates from start through
// end inclusive.
func IterateDates(start, end Date) *DateIterator {
	it := &DateIterator{start: start, end: end}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the start date.
func (it *DateIterator) Reset() {
	it.cur = it.start.AddDays(-1)
	it.done = it.end.Before(it.start)
}

// Next advances to the following date, returning false when the end
// date has been passed.
func (it *DateIterator) Next() bool {
	if it.done {
		return false
	}
	it.cur = it.cur.AddDays(1)
	if it.cur == it.end {
		it.done = true
	}
	return true
}

// Value returns the date the iterator is positioned on.
func (it *DateIterator) Value() Date {
	return it.cur
}
