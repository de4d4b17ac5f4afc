// Package timerange provides date and datetime specialisations of the
// generic range algebra: finite and half-finite ("ongoing") periods
// of time with canonical [) boundaries, whole-day date ranges with
// canonical [] boundaries, and calendar-aware helpers such as
// per-month iteration.
package timerange

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/henderiw/rangekit/pkg/localtime"
	"github.com/henderiw/rangekit/pkg/ranges"
)

var (
	// ErrDisjoint is returned when a union is requested for periods
	// that neither overlap nor touch.
	ErrDisjoint = ranges.ErrDisjoint
	// ErrNotFinite is returned by operations that require both ends
	// of a period to be bounded.
	ErrNotFinite = errors.New("range is not finite")
	// ErrNotAligned is returned when converting a datetime range to
	// whole dates and an endpoint does not fall on a local midnight.
	ErrNotAligned = errors.New("range is not midnight-aligned")
)

// DatetimeRange is a general range of instants with any boundary
// policy and optionally unbounded ends.
type DatetimeRange = ranges.Range[time.Time]

// FiniteDatetimeRange is a bounded period of time with the canonical
// [) boundaries: the start belongs to the period, the end is the
// first instant after it.
type FiniteDatetimeRange struct {
	Start time.Time
	End   time.Time
}

// NewFiniteDatetimeRange returns the period [start, end). It fails
// when end is before start. A period whose start equals its end is
// valid but empty.
func NewFiniteDatetimeRange(start, end time.Time) (FiniteDatetimeRange, error) {
	if end.Before(start) {
		return FiniteDatetimeRange{}, fmt.Errorf("%w: start %s after end %s",
			ranges.ErrInvalid, start, end)
	}
	return FiniteDatetimeRange{Start: start, End: end}, nil
}

// MustFiniteDatetimeRange is NewFiniteDatetimeRange for periods known
// to be valid. It panics on error.
func MustFiniteDatetimeRange(start, end time.Time) FiniteDatetimeRange {
	r, err := NewFiniteDatetimeRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// AsRange widens the period to a general DatetimeRange.
func (r FiniteDatetimeRange) AsRange() DatetimeRange {
	return ranges.MustNew(r.Start, r.End, ranges.ClosedOpen)
}

func (r FiniteDatetimeRange) IsEmpty() bool { return !r.Start.Before(r.End) }

// Contains reports whether t falls within [start, end).
func (r FiniteDatetimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r FiniteDatetimeRange) IsDisjoint(other FiniteDatetimeRange) bool {
	_, ok := r.Intersection(other)
	return !ok
}

// Intersection returns the overlap of the two periods, or false if
// they share no instant.
func (r FiniteDatetimeRange) Intersection(other FiniteDatetimeRange) (FiniteDatetimeRange, bool) {
	// Both periods are [) so the general boundary logic reduces to a
	// min/max of the endpoints.
	left, right := r, other
	if other.Start.Before(r.Start) {
		left, right = other, r
	}
	if !right.Start.Before(left.End) {
		return FiniteDatetimeRange{}, false
	}
	end := left.End
	if right.End.Before(end) {
		end = right.End
	}
	return FiniteDatetimeRange{Start: right.Start, End: end}, true
}

// Union returns a single period covering both inputs, or ErrDisjoint
// when they neither overlap nor touch.
func (r FiniteDatetimeRange) Union(other FiniteDatetimeRange) (FiniteDatetimeRange, error) {
	left, right := r, other
	if other.Start.Before(r.Start) {
		left, right = other, r
	}
	if left.End.Before(right.Start) {
		return FiniteDatetimeRange{}, ErrDisjoint
	}
	end := left.End
	if right.End.After(end) {
		end = right.End
	}
	return FiniteDatetimeRange{Start: left.Start, End: end}, nil
}

// UnionHalfFinite returns the most general shape that covers a finite
// and a possibly-ongoing period: the result is ongoing iff other is.
func (r FiniteDatetimeRange) UnionHalfFinite(other HalfFiniteDatetimeRange) (HalfFiniteDatetimeRange, error) {
	if other.IsOngoing() {
		if r.End.Before(other.Start) {
			return HalfFiniteDatetimeRange{}, ErrDisjoint
		}
		start := r.Start
		if other.Start.Before(start) {
			start = other.Start
		}
		return HalfFiniteDatetimeRange{Start: start}, nil
	}
	u, err := r.Union(FiniteDatetimeRange{Start: other.Start, End: other.End})
	if err != nil {
		return HalfFiniteDatetimeRange{}, err
	}
	return HalfFiniteDatetimeRange{Start: u.Start, End: u.End}, nil
}

// Duration returns the length of the period.
func (r FiniteDatetimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Seconds returns the length of the period in whole seconds.
func (r FiniteDatetimeRange) Seconds() int {
	return int(r.Duration() / time.Second)
}

// Days returns the number of 24h periods between start and end.
//
// Deprecated: for midnight-aligned ranges get calendar days via
// AsDateRange().Days() instead, localising first as appropriate.
func (r FiniteDatetimeRange) Days() int {
	return int(r.Duration() / (24 * time.Hour))
}

// Localize returns the period with both endpoints expressed in the
// given location. The represented instants are unchanged; only date
// bucketing and formatting are affected.
func (r FiniteDatetimeRange) Localize(loc *time.Location) FiniteDatetimeRange {
	return FiniteDatetimeRange{Start: r.Start.In(loc), End: r.End.In(loc)}
}

// IsAlignedToMidnight reports whether both endpoints fall exactly on
// a midnight in their own locations.
func (r FiniteDatetimeRange) IsAlignedToMidnight() bool {
	return localtime.IsMidnight(r.Start) && localtime.IsMidnight(r.End)
}

// AsDateRange returns the whole calendar days covered by the period.
// Both endpoints must be expressed in the same location and fall
// exactly on local midnights; anything else is ambiguous at date
// granularity and rejected rather than truncated. The end midnight
// belongs to the day before it.
func (r FiniteDatetimeRange) AsDateRange() (FiniteDateRange, error) {
	if r.Start.Location().String() != r.End.Location().String() {
		return FiniteDateRange{}, fmt.Errorf("%w: endpoints in different timezones", ErrNotAligned)
	}
	if !localtime.IsMidnight(r.Start) {
		return FiniteDateRange{}, fmt.Errorf("%w: start is not a local midnight", ErrNotAligned)
	}
	if !localtime.IsMidnight(r.End) {
		return FiniteDateRange{}, fmt.Errorf("%w: end is not a local midnight", ErrNotAligned)
	}
	return FiniteDateRange{
		Start: localtime.DateOf(r.Start),
		End:   localtime.DateOf(r.End).AddDays(-1),
	}, nil
}

func (r FiniteDatetimeRange) Equal(other FiniteDatetimeRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

func (r FiniteDatetimeRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// HalfFiniteDatetimeRange is a period with a bounded inclusive start
// and an exclusive end that may be open ("ongoing"), e.g. an
// agreement that started on a date and has not ended yet. A zero End
// means ongoing.
type HalfFiniteDatetimeRange struct {
	Start time.Time
	End   time.Time
}

// NewHalfFiniteDatetimeRange returns the period [start, end), where a
// zero end leaves the period ongoing.
func NewHalfFiniteDatetimeRange(start, end time.Time) (HalfFiniteDatetimeRange, error) {
	if !end.IsZero() && end.Before(start) {
		return HalfFiniteDatetimeRange{}, fmt.Errorf("%w: start %s after end %s",
			ranges.ErrInvalid, start, end)
	}
	return HalfFiniteDatetimeRange{Start: start, End: end}, nil
}

// IsOngoing reports whether the period has no end yet.
func (r HalfFiniteDatetimeRange) IsOngoing() bool { return r.End.IsZero() }

// AsRange widens the period to a general DatetimeRange.
func (r HalfFiniteDatetimeRange) AsRange() DatetimeRange {
	if r.IsOngoing() {
		return ranges.AtLeast(r.Start)
	}
	return ranges.MustNew(r.Start, r.End, ranges.ClosedOpen)
}

// AsFinite narrows the period, failing with ErrNotFinite when it is
// still ongoing.
func (r HalfFiniteDatetimeRange) AsFinite() (FiniteDatetimeRange, error) {
	if r.IsOngoing() {
		return FiniteDatetimeRange{}, ErrNotFinite
	}
	return FiniteDatetimeRange{Start: r.Start, End: r.End}, nil
}

func (r HalfFiniteDatetimeRange) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	return r.IsOngoing() || t.Before(r.End)
}

// Intersection returns the overlap of the two periods, which is again
// half-finite: it is ongoing only when both inputs are.
func (r HalfFiniteDatetimeRange) Intersection(other HalfFiniteDatetimeRange) (HalfFiniteDatetimeRange, bool) {
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := r.End
	switch {
	case r.IsOngoing():
		end = other.End
	case !other.IsOngoing() && other.End.Before(end):
		end = other.End
	}
	if !end.IsZero() && !start.Before(end) {
		return HalfFiniteDatetimeRange{}, false
	}
	return HalfFiniteDatetimeRange{Start: start, End: end}, true
}

func (r HalfFiniteDatetimeRange) Equal(other HalfFiniteDatetimeRange) bool {
	if r.IsOngoing() != other.IsOngoing() {
		return false
	}
	if !r.Start.Equal(other.Start) {
		return false
	}
	return r.IsOngoing() || r.End.Equal(other.End)
}

func (r HalfFiniteDatetimeRange) String() string {
	if r.IsOngoing() {
		return fmt.Sprintf("[%s,+inf)", r.Start.Format(time.RFC3339))
	}
	return fmt.Sprintf("[%s,%s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// AsFiniteRanges narrows general datetime ranges known to be finite,
// e.g. after intersecting with a finite range. It fails with
// ErrNotFinite if any member is unbounded, and requires the canonical
// [) boundaries.
func AsFiniteRanges(rs []DatetimeRange) ([]FiniteDatetimeRange, error) {
	out := make([]FiniteDatetimeRange, 0, len(rs))
	for _, r := range rs {
		start, ok := r.Start()
		if !ok {
			return nil, fmt.Errorf("%w: unbounded start", ErrNotFinite)
		}
		end, ok := r.End()
		if !ok {
			return nil, fmt.Errorf("%w: unbounded end", ErrNotFinite)
		}
		if r.Bounds() != ranges.ClosedOpen {
			return nil, fmt.Errorf("%w: boundaries %s are not the canonical [)",
				ranges.ErrInvalid, r.Bounds())
		}
		out = append(out, FiniteDatetimeRange{Start: start, End: end})
	}
	return out, nil
}

// AsRanges widens finite periods for use with the generic collection
// operations.
func AsRanges(rs []FiniteDatetimeRange) []DatetimeRange {
	out := make([]DatetimeRange, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.AsRange())
	}
	return out
}

// AnyOverlapping reports whether some pair of the given periods
// shares an instant.
func AnyOverlapping(rs []FiniteDatetimeRange) bool {
	return ranges.AnyOverlapping(AsRanges(rs))
}

// AnyGaps reports whether the given periods fail to cover one
// contiguous period.
func AnyGaps(rs []FiniteDatetimeRange) bool {
	return ranges.AnyGaps(AsRanges(rs))
}

// SplitAtTimestamps cuts the period at every timestamp that falls
// strictly inside it, returning the resulting contiguous sub-periods
// in order. Timestamps are deduplicated; hits on the period edges do
// not split.
func SplitAtTimestamps(r FiniteDatetimeRange, timestamps []time.Time) []FiniteDatetimeRange {
	inside := make([]time.Time, 0, len(timestamps))
	for _, t := range timestamps {
		if t.After(r.Start) && t.Before(r.End) {
			inside = append(inside, t)
		}
	}
	sort.Slice(inside, func(i, j int) bool { return inside[i].Before(inside[j]) })

	out := make([]FiniteDatetimeRange, 0, len(inside)+1)
	cur := r.Start
	for _, t := range inside {
		if t.Equal(cur) {
			continue
		}
		out = append(out, FiniteDatetimeRange{Start: cur, End: t})
		cur = t
	}
	out = append(out, FiniteDatetimeRange{Start: cur, End: r.End})
	return out
}
