package ranges

import "cmp"

// Value is the constraint for range element types: any type that can
// totally order itself against another value of the same type.
// Compare returns a negative number when the receiver is smaller, 0
// when equal and a positive number when bigger.
//
// time.Time and netip.Addr satisfy Value out of the box. The wrapper
// types below adapt the primitive types.
type Value[T any] interface {
	Compare(T) int
}

// Int adapts int to the Value constraint.
type Int int

func (i Int) Compare(other Int) int { return cmp.Compare(i, other) }

// Float64 adapts float64 to the Value constraint.
type Float64 float64

func (f Float64) Compare(other Float64) int { return cmp.Compare(f, other) }

// Str adapts string to the Value constraint.
type Str string

func (s Str) Compare(other Str) int { return cmp.Compare(s, other) }
