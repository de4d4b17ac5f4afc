package localtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCompare(t *testing.T) {
	cases := map[string]struct {
		a, b     Date
		expected int
	}{
		"Equal":        {a: NewDate(2020, time.June, 22), b: NewDate(2020, time.June, 22), expected: 0},
		"EarlierDay":   {a: NewDate(2020, time.June, 21), b: NewDate(2020, time.June, 22), expected: -1},
		"EarlierMonth": {a: NewDate(2020, time.May, 30), b: NewDate(2020, time.June, 1), expected: -1},
		"LaterYear":    {a: NewDate(2021, time.January, 1), b: NewDate(2020, time.December, 31), expected: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := tc.a.Compare(tc.b)
			switch {
			case tc.expected < 0:
				assert.Less(t, got, 0)
				assert.True(t, tc.a.Before(tc.b))
			case tc.expected > 0:
				assert.Greater(t, got, 0)
				assert.True(t, tc.a.After(tc.b))
			default:
				assert.Equal(t, 0, got)
			}
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2020, time.February, 28)

	assert.Equal(t, NewDate(2020, time.February, 29), d.AddDays(1)) // leap year
	assert.Equal(t, NewDate(2020, time.March, 1), d.AddDays(2))
	assert.Equal(t, NewDate(2020, time.February, 27), d.AddDays(-1))
	assert.Equal(t, 2, d.DaysUntil(NewDate(2020, time.March, 1)))
	assert.Equal(t, -1, d.DaysUntil(NewDate(2020, time.February, 27)))

	assert.Equal(t, NewDate(2020, time.March, 28), d.AddMonths(1))
	assert.Equal(t, NewDate(2020, time.February, 1), d.MonthStart())
	assert.Equal(t, NewDate(2020, time.February, 29), d.MonthEnd())
	assert.False(t, d.IsLastDayOfMonth())
	assert.True(t, NewDate(2020, time.February, 29).IsLastDayOfMonth())
}

func TestDateOf(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	// 23:00 UTC on the 21st is already the 22nd in Sydney.
	instant := time.Date(2020, time.June, 21, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2020, time.June, 21), DateOf(instant))
	assert.Equal(t, NewDate(2020, time.June, 22), DateOf(instant.In(sydney)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-06-22")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2020, time.June, 22), d)
	assert.Equal(t, "2020-06-22", d.String())

	_, err = ParseDate("22/06/2020")
	assert.Error(t, err)
}

func TestMidnight(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 23:30 UTC in summer is 00:30 on the next London day.
	instant := time.Date(2020, time.June, 21, 23, 30, 0, 0, time.UTC)

	mid := Midnight(instant, london)
	assert.Equal(t, time.Date(2020, time.June, 22, 0, 0, 0, 0, london).UTC(), mid.UTC())
	assert.True(t, IsMidnight(mid))
	assert.False(t, IsMidnight(instant.In(london)))

	next := NextMidnight(instant, london)
	assert.Equal(t, time.Date(2020, time.June, 23, 0, 0, 0, 0, london).UTC(), next.UTC())

	// Midnight in UTC is still the 21st.
	assert.Equal(t, time.Date(2020, time.June, 21, 0, 0, 0, 0, time.UTC), Midnight(instant, time.UTC))
}

func TestBoundaries(t *testing.T) {
	start, end := DateBoundaries(NewDate(2020, time.June, 22), time.UTC)
	assert.Equal(t, time.Date(2020, time.June, 22, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2020, time.June, 23, 0, 0, 0, 0, time.UTC), end)

	start, end = MonthBoundaries(2020, time.December, time.UTC)
	assert.Equal(t, time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestClock(t *testing.T) {
	fixed := time.Date(2020, time.June, 22, 10, 30, 0, 0, time.UTC)
	orig := Clock
	Clock = func() time.Time { return fixed }
	defer func() { Clock = orig }()

	assert.Equal(t, fixed, NowUTC())
	assert.Equal(t, NewDate(2020, time.June, 22), Today(time.UTC))
	assert.Equal(t, NewDate(2020, time.June, 21), Yesterday(time.UTC))
	assert.Equal(t, NewDate(2020, time.June, 25), DaysInTheFuture(3, time.UTC))
}

func TestQuantise(t *testing.T) {
	base := time.Date(2020, time.June, 22, 10, 14, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2020, time.June, 22, 10, 0, 0, 0, time.UTC), NearestHalfHour(base))
	assert.Equal(t,
		time.Date(2020, time.June, 22, 10, 30, 0, 0, time.UTC),
		NearestHalfHour(base.Add(2*time.Minute)))

	assert.Equal(t,
		time.Date(2020, time.June, 22, 10, 15, 0, 0, time.UTC),
		Quantise(base.Add(time.Minute), 5*time.Minute))
}

func TestParseDT(t *testing.T) {
	dt, err := ParseDT("2021-06-01T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 1, 12, 30, 0, 0, time.UTC), dt)

	_, err = ParseDT("2021-06-01 12:30")
	assert.Error(t, err)
}

func TestAs(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	instant := time.Date(2021, time.June, 1, 12, 0, 0, 0, time.UTC)
	local := As(instant, sydney)
	assert.True(t, instant.Equal(local))
	assert.Equal(t, "Australia/Sydney", local.Location().String())
	assert.Equal(t, time.UTC, AsUTC(local).Location())
}

func TestMidnightOn(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	got := MidnightOn(NewDate(2021, time.June, 1), london)
	assert.Equal(t, time.Date(2021, time.June, 1, 0, 0, 0, 0, london), got)
	assert.True(t, IsMidnight(got))
}

func TestDateIterator(t *testing.T) {
	it := IterateDates(NewDate(2020, time.February, 27), NewDate(2020, time.March, 1))

	var got []Date
	for it.Next() {
		got = append(got, it.Value())
	}
	assert.Equal(t, []Date{
		NewDate(2020, time.February, 27),
		NewDate(2020, time.February, 28),
		NewDate(2020, time.February, 29),
		NewDate(2020, time.March, 1),
	}, got)
	assert.False(t, it.Next())

	it.Reset()
	require.True(t, it.Next())
	assert.Equal(t, NewDate(2020, time.February, 27), it.Value())

	// A reversed range yields nothing.
	empty := IterateDates(NewDate(2020, time.March, 1), NewDate(2020, time.February, 27))
	assert.False(t, empty.Next())
}

func TestLatestEarliest(t *testing.T) {
	a := time.Date(2020, time.June, 22, 0, 0, 0, 0, time.UTC)
	b := a.Add(time.Hour)
	c := a.Add(2 * time.Hour)

	assert.Equal(t, c, Latest(b, c, a))
	assert.Equal(t, a, Earliest(b, c, a))
	assert.Equal(t, a, Latest(a))
}
