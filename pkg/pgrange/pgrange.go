// Package pgrange adapts ranges to the Postgres range column types,
// implementing driver.Valuer and sql.Scanner for the tstzrange and
// daterange literal formats.
package pgrange

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/henderiw/rangekit/pkg/localtime"
	"github.com/henderiw/rangekit/pkg/ranges"
	"github.com/henderiw/rangekit/pkg/timerange"
)

// Postgres accepts ISO 8601 timestamps and emits a space-separated
// form with a possibly abbreviated offset.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	time.RFC3339Nano,
}

const (
	timestampFormat = "2006-01-02 15:04:05.999999999Z07:00"
	dateFormat      = "2006-01-02"
	emptyLiteral    = "empty"
)

// DatetimeRangeValue maps a datetime range onto a tstzrange column.
// The zero value scans as NULL. Empty ranges are stored as Postgres's
// canonical "empty" literal, which does not preserve their position.
type DatetimeRangeValue struct {
	Range ranges.Range[time.Time]
	Valid bool
}

// NewDatetimeRangeValue wraps r for storage.
func NewDatetimeRangeValue(r ranges.Range[time.Time]) DatetimeRangeValue {
	return DatetimeRangeValue{Range: r, Valid: true}
}

// Value implements driver.Valuer.
func (v DatetimeRangeValue) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	if v.Range.IsEmpty() {
		return emptyLiteral, nil
	}

	var sb strings.Builder
	if v.Range.Bounds().StartInclusive() {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	if start, ok := v.Range.Start(); ok {
		fmt.Fprintf(&sb, "%q", start.Format(timestampFormat))
	}
	sb.WriteByte(',')
	if end, ok := v.Range.End(); ok {
		fmt.Fprintf(&sb, "%q", end.Format(timestampFormat))
	}
	if v.Range.Bounds().EndInclusive() {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String(), nil
}

// Scan implements sql.Scanner.
func (v *DatetimeRangeValue) Scan(src any) error {
	*v = DatetimeRangeValue{}
	if src == nil {
		return nil
	}
	literal, err := literalString(src)
	if err != nil {
		return err
	}
	if literal == emptyLiteral {
		v.Range = ranges.MustNew(time.Time{}, time.Time{}, ranges.ClosedOpen)
		v.Valid = true
		return nil
	}

	lower, upper, bounds, err := splitLiteral(literal)
	if err != nil {
		return err
	}
	var start, end *time.Time
	if lower != "" {
		t, err := parseTimestamp(lower)
		if err != nil {
			return err
		}
		start = &t
	}
	if upper != "" {
		t, err := parseTimestamp(upper)
		if err != nil {
			return err
		}
		end = &t
	}
	r, err := ranges.FromBounds(start, end, bounds)
	if err != nil {
		return fmt.Errorf("pgrange: invalid tstzrange %q: %w", literal, err)
	}
	v.Range = r
	v.Valid = true
	return nil
}

// DateRangeValue maps a finite date range onto a daterange column.
// Postgres stores discrete ranges canonically as [), so the exclusive
// upper bound read back is translated to the inclusive form.
type DateRangeValue struct {
	Range timerange.FiniteDateRange
	Valid bool
}

// NewDateRangeValue wraps r for storage.
func NewDateRangeValue(r timerange.FiniteDateRange) DateRangeValue {
	return DateRangeValue{Range: r, Valid: true}
}

// Value implements driver.Valuer.
func (v DateRangeValue) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	// Emit the canonical [) form with the upper bound one day past
	// the last included day.
	return fmt.Sprintf("[%s,%s)", v.Range.Start, v.Range.End.AddDays(1)), nil
}

// Scan implements sql.Scanner.
func (v *DateRangeValue) Scan(src any) error {
	*v = DateRangeValue{}
	if src == nil {
		return nil
	}
	literal, err := literalString(src)
	if err != nil {
		return err
	}
	if literal == emptyLiteral {
		return fmt.Errorf("pgrange: empty daterange cannot be represented as whole days")
	}

	lower, upper, bounds, err := splitLiteral(literal)
	if err != nil {
		return err
	}
	if lower == "" || upper == "" {
		return fmt.Errorf("pgrange: unbounded daterange %q cannot be represented as whole days", literal)
	}
	start, err := localtime.ParseDate(lower)
	if err != nil {
		return fmt.Errorf("pgrange: invalid daterange lower bound %q: %w", lower, err)
	}
	end, err := localtime.ParseDate(upper)
	if err != nil {
		return fmt.Errorf("pgrange: invalid daterange upper bound %q: %w", upper, err)
	}
	if !bounds.StartInclusive() {
		start = start.AddDays(1)
	}
	if !bounds.EndInclusive() {
		end = end.AddDays(-1)
	}
	r, err := timerange.NewFiniteDateRange(start, end)
	if err != nil {
		return fmt.Errorf("pgrange: invalid daterange %q: %w", literal, err)
	}
	v.Range = r
	v.Valid = true
	return nil
}

func literalString(src any) (string, error) {
	switch s := src.(type) {
	case string:
		return strings.TrimSpace(s), nil
	case []byte:
		return strings.TrimSpace(string(s)), nil
	default:
		return "", fmt.Errorf("pgrange: cannot scan %T", src)
	}
}

// splitLiteral breaks "[lower,upper)" into its parts. Empty bound
// strings mean unbounded.
func splitLiteral(literal string) (lower, upper string, bounds ranges.Boundaries, err error) {
	if len(literal) < 3 {
		return "", "", 0, fmt.Errorf("pgrange: malformed range literal %q", literal)
	}
	first, last := literal[0], literal[len(literal)-1]
	if (first != '[' && first != '(') || (last != ']' && last != ')') {
		return "", "", 0, fmt.Errorf("pgrange: malformed range literal %q", literal)
	}

	inner := literal[1 : len(literal)-1]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return "", "", 0, fmt.Errorf("pgrange: malformed range literal %q", literal)
	}
	lower = unquote(parts[0])
	upper = unquote(parts[1])
	return lower, upper, ranges.BoundsOf(first == '[', last == ']'), nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("pgrange: invalid timestamp %q", s)
}
