package timerange

import (
	"time"

	"github.com/henderiw/rangekit/pkg/localtime"
)

// MonthIterator walks a finite period one calendar month at a time in
// a given timezone. Every yielded sub-period is clipped to a single
// month; the first and last may be partial. The sub-periods cover the
// original period exactly.
type MonthIterator struct {
	r   FiniteDatetimeRange
	loc *time.Location

	cur  FiniteDatetimeRange
	next time.Time
	done bool
}

// IterateMonths returns an iterator over the per-month slices of r,
// with month boundaries taken in the given location.
func IterateMonths(r FiniteDatetimeRange, loc *time.Location) *MonthIterator {
	it := &MonthIterator{r: r, loc: loc}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the start of the period.
func (it *MonthIterator) Reset() {
	it.next = it.r.Start.In(it.loc)
	it.cur = FiniteDatetimeRange{}
	it.done = it.r.IsEmpty()
}

// Next advances to the following month slice, returning false when
// the period is exhausted.
func (it *MonthIterator) Next() bool {
	if it.done {
		return false
	}
	start := it.next
	end := it.r.End.In(it.loc)

	monthEnd := localtime.DateOf(start).MonthStart().AddMonths(1).In(it.loc)
	if !monthEnd.Before(end) {
		it.cur = FiniteDatetimeRange{Start: start, End: end}
		it.done = true
		return true
	}
	it.cur = FiniteDatetimeRange{Start: start, End: monthEnd}
	it.next = monthEnd
	return true
}

// Value returns the month slice the iterator is positioned on.
func (it *MonthIterator) Value() FiniteDatetimeRange {
	return it.cur
}

// MonthSlices returns all per-month slices of r at once.
func MonthSlices(r FiniteDatetimeRange, loc *time.Location) []FiniteDatetimeRange {
	var out []FiniteDatetimeRange
	for it := IterateMonths(r, loc); it.Next(); {
		out = append(out, it.Value())
	}
	return out
}
