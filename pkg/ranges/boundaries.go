package ranges

import "fmt"

// Boundaries encodes whether each end of a Range includes its endpoint.
//
// The zero value is ClosedOpen ("[)"), the conventional choice for
// period-of-time ranges where one period ends exactly where the next
// one starts.
type Boundaries uint8

const (
	// ClosedOpen includes the start and excludes the end: "[)".
	ClosedOpen Boundaries = iota
	// ClosedClosed includes both endpoints: "[]".
	ClosedClosed
	// OpenOpen excludes both endpoints: "()".
	OpenOpen
	// OpenClosed excludes the start and includes the end: "(]".
	OpenClosed
)

// BoundsOf returns the Boundaries with the given inclusivity at each end.
func BoundsOf(startInclusive, endInclusive bool) Boundaries {
	switch {
	case startInclusive && endInclusive:
		return ClosedClosed
	case startInclusive:
		return ClosedOpen
	case endInclusive:
		return OpenClosed
	default:
		return OpenOpen
	}
}

// ParseBoundaries parses the compact bracket notation: "[)", "[]", "()", "(]".
func ParseBoundaries(s string) (Boundaries, error) {
	switch s {
	case "[)":
		return ClosedOpen, nil
	case "[]":
		return ClosedClosed, nil
	case "()":
		return OpenOpen, nil
	case "(]":
		return OpenClosed, nil
	}
	return 0, fmt.Errorf("invalid boundaries %q", s)
}

func (b Boundaries) StartInclusive() bool {
	return b == ClosedOpen || b == ClosedClosed
}

func (b Boundaries) EndInclusive() bool {
	return b == ClosedClosed || b == OpenClosed
}

func (b Boundaries) String() string {
	switch b {
	case ClosedOpen:
		return "[)"
	case ClosedClosed:
		return "[]"
	case OpenOpen:
		return "()"
	case OpenClosed:
		return "(]"
	}
	return fmt.Sprintf("Boundaries(%d)", uint8(b))
}
