package timerange

import (
	"fmt"
	"time"

	"github.com/henderiw/rangekit/pkg/localtime"
	"github.com/henderiw/rangekit/pkg/ranges"
)

// FiniteDateRange is a bounded range of whole calendar days with the
// canonical [] boundaries: both the first and the last day belong to
// the range. Days are discrete, so two ranges on consecutive days
// touch even though their endpoints differ.
type FiniteDateRange struct {
	Start localtime.Date
	End   localtime.Date
}

// NewFiniteDateRange returns the days from start through end
// inclusive. It fails when end is before start.
func NewFiniteDateRange(start, end localtime.Date) (FiniteDateRange, error) {
	if end.Before(start) {
		return FiniteDateRange{}, fmt.Errorf("%w: start %s after end %s",
			ranges.ErrInvalid, start, end)
	}
	return FiniteDateRange{Start: start, End: end}, nil
}

// MustFiniteDateRange is NewFiniteDateRange for ranges known to be
// valid. It panics on error.
func MustFiniteDateRange(start, end localtime.Date) FiniteDateRange {
	r, err := NewFiniteDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// AsRange widens the range for use with the generic range algebra.
func (r FiniteDateRange) AsRange() ranges.Range[localtime.Date] {
	return ranges.MustNew(r.Start, r.End, ranges.ClosedClosed)
}

// Days returns the number of days in the range. A single-day range
// has one day.
func (r FiniteDateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Contains reports whether d falls within the range.
func (r FiniteDateRange) Contains(d localtime.Date) bool {
	return r.Start.Compare(d) <= 0 && d.Compare(r.End) <= 0
}

// Dates returns every date in the range in order.
func (r FiniteDateRange) Dates() []localtime.Date {
	out := make([]localtime.Date, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// IsDisjoint reports whether the two ranges share no day and are not
// on consecutive days. Since days are discrete, [Jan 1, Jan 2] and
// [Jan 3, Jan 4] are touching, not disjoint.
func (r FiniteDateRange) IsDisjoint(other FiniteDateRange) bool {
	// Widen other by one day on each side so that consecutive days
	// count as touching. The widening is skipped at the sentinel
	// extremes instead of running arithmetic past them.
	start := other.Start
	if start != localtime.MinDate {
		start = start.AddDays(-1)
	}
	end := other.End
	if end != localtime.MaxDate {
		end = end.AddDays(1)
	}
	return r.End.Before(start) || r.Start.After(end)
}

// Intersection returns the days present in both ranges, or false if
// there are none.
func (r FiniteDateRange) Intersection(other FiniteDateRange) (FiniteDateRange, bool) {
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := r.End
	if other.End.Before(end) {
		end = other.End
	}
	if end.Before(start) {
		return FiniteDateRange{}, false
	}
	return FiniteDateRange{Start: start, End: end}, true
}

// Union returns a single range covering both inputs. Consecutive-day
// ranges union cleanly; ranges with a full day between them are
// disjoint and fail with ErrDisjoint.
func (r FiniteDateRange) Union(other FiniteDateRange) (FiniteDateRange, error) {
	if r.IsDisjoint(other) {
		return FiniteDateRange{}, ErrDisjoint
	}
	start := r.Start
	if other.Start.Before(start) {
		start = other.Start
	}
	end := r.End
	if other.End.After(end) {
		end = other.End
	}
	return FiniteDateRange{Start: start, End: end}, nil
}

// AsDatetimeRange returns the instants covered by the range's days in
// the given location: the start day's midnight up to the midnight
// after the end day.
func (r FiniteDateRange) AsDatetimeRange(loc *time.Location) FiniteDatetimeRange {
	return FiniteDatetimeRange{
		Start: r.Start.In(loc),
		End:   r.End.AddDays(1).In(loc),
	}
}

func (r FiniteDateRange) Equal(other FiniteDateRange) bool {
	return r.Start == other.Start && r.End == other.End
}

func (r FiniteDateRange) String() string {
	return fmt.Sprintf("[%s,%s]", r.Start, r.End)
}
