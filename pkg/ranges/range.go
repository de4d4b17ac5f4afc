package ranges

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalid is returned when the requested endpoints and
	// boundaries do not describe a valid range.
	ErrInvalid = errors.New("invalid range")
	// ErrDisjoint is returned when a union is requested for ranges
	// that neither overlap nor touch.
	ErrDisjoint = errors.New("ranges are disjoint")
)

// Range is an immutable span of values of some comparable type,
// described by two optional endpoints and a boundary policy. A nil
// endpoint means the range is unbounded on that side; an unbounded
// side must be exclusive.
//
// A range whose endpoints are equal carries a single value when the
// boundaries are "[]" and no values at all otherwise (an empty
// range). The zero value of Range is not valid; use the constructors.
type Range[T Value[T]] struct {
	start  *T
	end    *T
	bounds Boundaries
}

// New returns a bounded range between start and end.
func New[T Value[T]](start, end T, bounds Boundaries) (Range[T], error) {
	return FromBounds(&start, &end, bounds)
}

// MustNew is New for ranges known to be valid. It panics on error.
func MustNew[T Value[T]](start, end T, bounds Boundaries) Range[T] {
	r, err := New(start, end, bounds)
	if err != nil {
		panic(err)
	}
	return r
}

// FromBounds returns a range between two optional endpoints, where a
// nil endpoint leaves that side unbounded.
func FromBounds[T Value[T]](start, end *T, bounds Boundaries) (Range[T], error) {
	if start == nil && bounds.StartInclusive() {
		return Range[T]{}, fmt.Errorf("%w: unbounded start must be exclusive", ErrInvalid)
	}
	if end == nil && bounds.EndInclusive() {
		return Range[T]{}, fmt.Errorf("%w: unbounded end must be exclusive", ErrInvalid)
	}
	r := Range[T]{bounds: bounds}
	if start != nil {
		s := *start
		r.start = &s
	}
	if end != nil {
		e := *end
		r.end = &e
	}
	if r.start != nil && r.end != nil {
		if (*r.start).Compare(*r.end) > 0 {
			return Range[T]{}, fmt.Errorf("%w: start %v after end %v", ErrInvalid, *r.start, *r.end)
		}
	}
	return r, nil
}

// AtLeast returns the range [start, +inf).
func AtLeast[T Value[T]](start T) Range[T] {
	return Range[T]{start: &start, bounds: ClosedOpen}
}

// GreaterThan returns the range (start, +inf).
func GreaterThan[T Value[T]](start T) Range[T] {
	return Range[T]{start: &start, bounds: OpenOpen}
}

// AtMost returns the range (-inf, end].
func AtMost[T Value[T]](end T) Range[T] {
	return Range[T]{end: &end, bounds: OpenClosed}
}

// LessThan returns the range (-inf, end).
func LessThan[T Value[T]](end T) Range[T] {
	return Range[T]{end: &end, bounds: OpenOpen}
}

// Continuum returns the range (-inf, +inf).
func Continuum[T Value[T]]() Range[T] {
	return Range[T]{bounds: OpenOpen}
}

// Start returns the lower endpoint, or false if unbounded below.
func (r Range[T]) Start() (T, bool) {
	if r.start == nil {
		var zero T
		return zero, false
	}
	return *r.start, true
}

// End returns the upper endpoint, or false if unbounded above.
func (r Range[T]) End() (T, bool) {
	if r.end == nil {
		var zero T
		return zero, false
	}
	return *r.end, true
}

func (r Range[T]) Bounds() Boundaries { return r.bounds }

func (r Range[T]) IsLeftFinite() bool { return r.start != nil }

func (r Range[T]) IsRightFinite() bool { return r.end != nil }

func (r Range[T]) IsFinite() bool { return r.start != nil && r.end != nil }

// IsEmpty reports whether the range carries no values at all.
func (r Range[T]) IsEmpty() bool {
	return r.start != nil && r.end != nil &&
		(*r.start).Compare(*r.end) == 0 && r.bounds != ClosedClosed
}

func (r Range[T]) insideLeft(item T) bool {
	if r.start == nil {
		return true
	}
	if r.bounds.StartInclusive() {
		return item.Compare(*r.start) >= 0
	}
	return item.Compare(*r.start) > 0
}

func (r Range[T]) insideRight(item T) bool {
	if r.end == nil {
		return true
	}
	if r.bounds.EndInclusive() {
		return item.Compare(*r.end) <= 0
	}
	return item.Compare(*r.end) < 0
}

// Contains reports whether item lies within the range.
func (r Range[T]) Contains(item T) bool {
	return r.insideLeft(item) && r.insideRight(item)
}

// IsDisjoint reports whether the two ranges share no value. Touching
// ranges such as [0,2) and [2,5) are disjoint; see IsAdjacent.
func (r Range[T]) IsDisjoint(other Range[T]) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return true
	}
	if r.end != nil && other.start != nil {
		if !(r.insideRight(*other.start) && other.insideLeft(*r.end)) {
			return true
		}
	}
	if r.start != nil && other.end != nil {
		if !(r.insideLeft(*other.end) && other.insideRight(*r.start)) {
			return true
		}
	}
	return false
}

// Overlaps reports whether the two ranges share at least one value.
func (r Range[T]) Overlaps(other Range[T]) bool {
	return !r.IsDisjoint(other)
}

// IsAdjacent reports whether the two ranges share no value but their
// facing boundaries touch, so that their union is still a single
// range. [0,2) and [2,5) are adjacent; [0,2) and (2,5) are not.
func (r Range[T]) IsAdjacent(other Range[T]) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	if !r.IsDisjoint(other) {
		return false
	}
	return touches(r, other) || touches(other, r)
}

// touches reports whether l's end meets r's start with at least one
// of the facing boundaries inclusive.
func touches[T Value[T]](l, r Range[T]) bool {
	return l.end != nil && r.start != nil &&
		(*l.end).Compare(*r.start) == 0 &&
		(l.bounds.EndInclusive() || r.bounds.StartInclusive())
}

// Intersection returns the largest range contained in both inputs.
// The second return value is false when the ranges are disjoint.
//
// At a shared edge the more restrictive boundary wins, except that an
// inclusive endpoint is preferred over an equivalent exclusive one
// further out.
func (r Range[T]) Intersection(other Range[T]) (Range[T], bool) {
	if r.IsDisjoint(other) {
		return Range[T]{}, false
	}
	l, u := sortPair(r, other)

	// The lower range determines the start; the end depends on
	// whether the lower range covers the upper one.
	end := u.end
	endInclusive := u.bounds.EndInclusive()
	if l.end != nil && u.insideRight(*l.end) {
		end = l.end
		endInclusive = l.bounds.EndInclusive()
	}
	return mustRange(u.start, end, BoundsOf(u.bounds.StartInclusive(), endInclusive)), true
}

// Union returns a single range covering both inputs. It returns
// ErrDisjoint when the inputs neither overlap nor touch, since their
// union would not be one range. An empty operand contributes nothing
// and the other operand is returned unchanged.
func (r Range[T]) Union(other Range[T]) (Range[T], error) {
	if r.IsEmpty() {
		return other, nil
	}
	if other.IsEmpty() {
		return r, nil
	}
	l, u := sortPair(r, other)

	if l.IsDisjoint(u) && !touches(l, u) {
		return Range[T]{}, ErrDisjoint
	}

	end := u.end
	endInclusive := u.bounds.EndInclusive()
	if u.end != nil && l.insideRight(*u.end) {
		end = l.end
		endInclusive = l.bounds.EndInclusive()
	}
	return mustRange(l.start, end, BoundsOf(l.bounds.StartInclusive(), endInclusive)), nil
}

// UnionAll returns a single range covering all inputs, failing with
// ErrDisjoint if they do not form one contiguous range. The inputs
// may be given in any order.
func UnionAll[T Value[T]](first Range[T], rest ...Range[T]) (Range[T], error) {
	rs := make([]Range[T], 0, len(rest)+1)
	rs = append(rs, first)
	rs = append(rs, rest...)
	sortRanges(rs)

	out := rs[0]
	for _, r := range rs[1:] {
		u, err := out.Union(r)
		if err != nil {
			return Range[T]{}, err
		}
		out = u
	}
	return out, nil
}

// Difference returns the parts of r not covered by other, as a set of
// zero, one or two ranges.
func (r Range[T]) Difference(other Range[T]) RangeSet[T] {
	if r.IsDisjoint(other) {
		return NewSet(r)
	}
	var parts []Range[T]

	if (r.start == nil && other.start != nil) ||
		(r.start != nil && other.start != nil &&
			!other.insideLeft(*r.start) && r.insideLeft(*other.start)) {
		bounds := BoundsOf(r.bounds.StartInclusive(), !other.bounds.StartInclusive())
		parts = append(parts, mustRange(r.start, other.start, bounds))
	}

	if (r.end == nil && other.end != nil) ||
		(r.end != nil && other.end != nil &&
			!other.insideRight(*r.end) && r.insideRight(*other.end)) {
		bounds := BoundsOf(!other.bounds.EndInclusive(), r.bounds.EndInclusive())
		parts = append(parts, mustRange(other.end, r.end, bounds))
	}
	return NewSet(parts...)
}

// Normalized rewrites a bounded range into the canonical "[)" form
// using succ, which must return the successor of a value in T's
// discrete order (e.g. the next day for dates). Unbounded sides are
// left untouched.
func (r Range[T]) Normalized(succ func(T) T) Range[T] {
	start := r.start
	end := r.end

	if start != nil && !r.bounds.StartInclusive() {
		s := succ(*start)
		start = &s
	}
	if end != nil && r.bounds.EndInclusive() {
		e := succ(*end)
		end = &e
	}
	// Canonical form: inclusive start when bounded, exclusive end.
	return mustRange(start, end, BoundsOf(start != nil, false))
}

// Less orders ranges by start (unbounded first, inclusive before
// exclusive at a tied value), then by end (unbounded last, exclusive
// before inclusive at a tied value). The ordering is total together
// with Equal, which makes sort-based algorithms deterministic.
func (r Range[T]) Less(other Range[T]) bool {
	if c := cmpLower(r.start, other.start); c != 0 {
		return c < 0
	}
	rx, ox := !r.bounds.StartInclusive(), !other.bounds.StartInclusive()
	if rx != ox {
		return ox
	}
	if c := cmpUpper(r.end, other.end); c != 0 {
		return c < 0
	}
	return !r.bounds.EndInclusive() && other.bounds.EndInclusive()
}

// Equal reports structural equality: same endpoints and boundaries.
func (r Range[T]) Equal(other Range[T]) bool {
	return r.bounds == other.bounds &&
		eqBound(r.start, other.start) &&
		eqBound(r.end, other.end)
}

func (r Range[T]) String() string {
	var sb strings.Builder
	if r.bounds.StartInclusive() {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	if r.start == nil {
		sb.WriteString("-inf")
	} else {
		fmt.Fprintf(&sb, "%v", *r.start)
	}
	sb.WriteByte(',')
	if r.end == nil {
		sb.WriteString("+inf")
	} else {
		fmt.Fprintf(&sb, "%v", *r.end)
	}
	if r.bounds.EndInclusive() {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

func sortPair[T Value[T]](a, b Range[T]) (l, u Range[T]) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// cmpLower compares two lower endpoints, where nil sorts lowest.
func cmpLower[T Value[T]](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return (*a).Compare(*b)
}

// cmpUpper compares two upper endpoints, where nil sorts highest.
func cmpUpper[T Value[T]](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return (*a).Compare(*b)
}

func eqBound[T Value[T]](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return (*a).Compare(*b) == 0
}

// mustRange is for derived ranges whose validity is implied by the
// validity of their inputs.
func mustRange[T Value[T]](start, end *T, bounds Boundaries) Range[T] {
	r, err := FromBounds(start, end, bounds)
	if err != nil {
		panic(err)
	}
	return r
}
