package ranges

import "sort"

// Operations over collections of ranges. These all sort once and then
// sweep, so they stay O(n log n) on large inputs.

// Merge condenses an arbitrary collection of ranges into the smallest
// equivalent set of disjoint ranges. This is the canonicalization
// step behind NewSet.
func Merge[T Value[T]](rs []Range[T]) RangeSet[T] {
	live := liveSorted(rs)

	var out []Range[T]
	for _, cur := range live {
		if len(out) == 0 {
			out = append(out, cur)
			continue
		}
		if u, err := out[len(out)-1].Union(cur); err == nil {
			out[len(out)-1] = u
		} else {
			out = append(out, cur)
		}
	}
	return RangeSet[T]{members: out}
}

// AnyOverlapping reports whether some pair of the given ranges shares
// a value. The input may be in any order.
func AnyOverlapping[T Value[T]](rs []Range[T]) bool {
	live := liveSorted(rs)
	if len(live) < 2 {
		return false
	}

	// Sweep with the running maximum end: once sorted by start, a
	// range overlaps an earlier one iff its start falls inside the
	// furthest right bound seen so far.
	end := live[0].end
	endInclusive := live[0].bounds.EndInclusive()
	for _, r := range live[1:] {
		if end == nil || r.start == nil {
			return true
		}
		c := (*r.start).Compare(*end)
		if c < 0 {
			return true
		}
		if c == 0 && r.bounds.StartInclusive() && endInclusive {
			return true
		}
		if c := cmpUpper(r.end, end); c > 0 ||
			(c == 0 && r.bounds.EndInclusive()) {
			end = r.end
			endInclusive = r.bounds.EndInclusive()
		}
	}
	return false
}

// AnyGaps reports whether the union of the given ranges fails to form
// one contiguous range. The input may be in any order.
func AnyGaps[T Value[T]](rs []Range[T]) bool {
	live := liveSorted(rs)
	if len(live) < 2 {
		return false
	}

	end := live[0].end
	endInclusive := live[0].bounds.EndInclusive()
	for _, r := range live[1:] {
		if end == nil {
			// Everything to the right is already covered.
			return false
		}
		if r.start != nil {
			c := (*r.start).Compare(*end)
			if c > 0 {
				return true
			}
			// Touching bounds only bridge the two ranges when one of
			// them includes the shared value.
			if c == 0 && !r.bounds.StartInclusive() && !endInclusive {
				return true
			}
		}
		if c := cmpUpper(r.end, end); c > 0 ||
			(c == 0 && r.bounds.EndInclusive()) {
			end = r.end
			endInclusive = r.bounds.EndInclusive()
		}
	}
	return false
}

// IsCoveredBy reports whether target is fully contained in the union
// of the given ranges.
func IsCoveredBy[T Value[T]](target Range[T], rs []Range[T]) bool {
	if target.IsEmpty() {
		return true
	}
	var parts []Range[T]
	for _, r := range rs {
		if in, ok := target.Intersection(r); ok {
			parts = append(parts, in)
		}
	}
	merged := Merge(parts)
	return merged.Len() == 1 && merged.members[0].Equal(target)
}

// liveSorted returns the non-empty input ranges in ascending order,
// leaving the input untouched.
func liveSorted[T Value[T]](rs []Range[T]) []Range[T] {
	live := make([]Range[T], 0, len(rs))
	for _, r := range rs {
		if !r.IsEmpty() {
			live = append(live, r)
		}
	}
	sortRanges(live)
	return live
}

func sortRanges[T Value[T]](rs []Range[T]) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Less(rs[j]) })
}
