package ranges

import "strings"

// RangeSet is an immutable ordered collection of pairwise-disjoint,
// non-touching ranges. Arbitrary (possibly overlapping) input is
// condensed on construction, so two sets covering the same values
// compare equal regardless of how they were built.
type RangeSet[T Value[T]] struct {
	members []Range[T]
}

// NewSet returns the set covering all the given ranges. Overlapping
// and touching ranges are merged; empty ranges are dropped.
func NewSet[T Value[T]](rs ...Range[T]) RangeSet[T] {
	return Merge(rs)
}

// Len returns the number of disjoint ranges in the set.
func (s RangeSet[T]) Len() int { return len(s.members) }

// IsZero reports whether the set covers nothing.
func (s RangeSet[T]) IsZero() bool { return len(s.members) == 0 }

// Ranges returns the member ranges in ascending order.
func (s RangeSet[T]) Ranges() []Range[T] {
	out := make([]Range[T], len(s.members))
	copy(out, s.members)
	return out
}

// Add returns a new set additionally covering r.
func (s RangeSet[T]) Add(r Range[T]) RangeSet[T] {
	return Merge(append(s.Ranges(), r))
}

// Discard returns a new set with every value of r cut away.
func (s RangeSet[T]) Discard(r Range[T]) RangeSet[T] {
	var out []Range[T]
	for _, m := range s.members {
		out = append(out, m.Difference(r).members...)
	}
	return Merge(out)
}

// Contains reports whether item lies within any member range.
func (s RangeSet[T]) Contains(item T) bool {
	for _, m := range s.members {
		if m.Contains(item) {
			return true
		}
	}
	return false
}

// ContainsRange reports whether r is fully contained in a single
// member range. Since members neither overlap nor touch, this is the
// same as being covered by the set as a whole.
func (s RangeSet[T]) ContainsRange(r Range[T]) bool {
	for _, m := range s.members {
		if in, ok := m.Intersection(r); ok && in.Equal(r) {
			return true
		}
	}
	return false
}

// IsDisjoint reports whether no member of this set shares a value
// with any member of other.
func (s RangeSet[T]) IsDisjoint(other RangeSet[T]) bool {
	for _, a := range s.members {
		for _, b := range other.members {
			if !a.IsDisjoint(b) {
				return false
			}
		}
	}
	return true
}

// IntersectRange returns the parts of the set that lie within r.
func (s RangeSet[T]) IntersectRange(r Range[T]) RangeSet[T] {
	var out []Range[T]
	for _, m := range s.members {
		if in, ok := m.Intersection(r); ok {
			out = append(out, in)
		}
	}
	return Merge(out)
}

// Intersection returns the values covered by both sets.
func (s RangeSet[T]) Intersection(other RangeSet[T]) RangeSet[T] {
	var out []Range[T]
	for _, a := range s.members {
		for _, b := range other.members {
			if in, ok := a.Intersection(b); ok {
				out = append(out, in)
			}
		}
	}
	return Merge(out)
}

// Union returns the values covered by either set.
func (s RangeSet[T]) Union(other RangeSet[T]) RangeSet[T] {
	return Merge(append(s.Ranges(), other.members...))
}

// Complement returns the values not covered by the set.
func (s RangeSet[T]) Complement() RangeSet[T] {
	if len(s.members) == 0 {
		return NewSet(Continuum[T]())
	}
	var out []Range[T]

	if first := s.members[0]; first.start != nil {
		out = append(out, mustRange[T](nil, first.start,
			BoundsOf(false, !first.bounds.StartInclusive())))
	}
	for i := 1; i < len(s.members); i++ {
		prev, cur := s.members[i-1], s.members[i]
		out = append(out, mustRange(prev.end, cur.start,
			BoundsOf(!prev.bounds.EndInclusive(), !cur.bounds.StartInclusive())))
	}
	if last := s.members[len(s.members)-1]; last.end != nil {
		out = append(out, mustRange[T](last.end, nil,
			BoundsOf(!last.bounds.EndInclusive(), false)))
	}
	return Merge(out)
}

// Difference returns the values covered by this set but not by other.
func (s RangeSet[T]) Difference(other RangeSet[T]) RangeSet[T] {
	return s.Intersection(other.Complement())
}

// IsLeftFinite reports whether the set is non-empty and its lowest
// range is bounded below.
func (s RangeSet[T]) IsLeftFinite() bool {
	return len(s.members) > 0 && s.members[0].IsLeftFinite()
}

// IsRightFinite reports whether the set is non-empty and its highest
// range is bounded above.
func (s RangeSet[T]) IsRightFinite() bool {
	return len(s.members) > 0 && s.members[len(s.members)-1].IsRightFinite()
}

func (s RangeSet[T]) IsFinite() bool {
	return s.IsLeftFinite() && s.IsRightFinite()
}

// Equal reports whether both sets hold the same ordered members.
func (s RangeSet[T]) Equal(other RangeSet[T]) bool {
	if len(s.members) != len(other.members) {
		return false
	}
	for i, m := range s.members {
		if !m.Equal(other.members[i]) {
			return false
		}
	}
	return true
}

func (s RangeSet[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range s.members {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
