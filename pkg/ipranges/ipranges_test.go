package ipranges

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go4.org/netipx"

	"github.com/henderiw/rangekit/pkg/ranges"
)

func addr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	require.NoError(t, err)
	return a
}

func ipRange(t *testing.T, from, to string) netipx.IPRange {
	t.Helper()
	r := netipx.IPRangeFrom(addr(t, from), addr(t, to))
	require.True(t, r.IsValid())
	return r
}

func TestFromIPRange(t *testing.T) {
	r, err := FromIPRange(ipRange(t, "10.0.0.1", "10.0.0.10"))
	require.NoError(t, err)

	assert.True(t, r.Contains(addr(t, "10.0.0.1")))
	assert.True(t, r.Contains(addr(t, "10.0.0.10")))
	assert.False(t, r.Contains(addr(t, "10.0.0.11")))
	assert.Equal(t, ranges.ClosedClosed, r.Bounds())

	_, err = FromIPRange(netipx.IPRange{})
	assert.Error(t, err)
}

func TestToIPRange(t *testing.T) {
	closed := ranges.MustNew(addr(t, "10.0.0.1"), addr(t, "10.0.0.10"), ranges.ClosedClosed)
	got, err := ToIPRange(closed)
	require.NoError(t, err)
	assert.Equal(t, ipRange(t, "10.0.0.1", "10.0.0.10"), got)

	// Exclusive bounds narrow to the nearest included address.
	open := ranges.MustNew(addr(t, "10.0.0.1"), addr(t, "10.0.0.10"), ranges.OpenOpen)
	got, err = ToIPRange(open)
	require.NoError(t, err)
	assert.Equal(t, ipRange(t, "10.0.0.2", "10.0.0.9"), got)

	_, err = ToIPRange(ranges.AtLeast(addr(t, "10.0.0.1")))
	assert.Error(t, err)

	empty := ranges.MustNew(addr(t, "10.0.0.1"), addr(t, "10.0.0.1"), ranges.ClosedOpen)
	_, err = ToIPRange(empty)
	assert.Error(t, err)

	// (a, a.Next()) holds no addresses at all.
	hollow := ranges.MustNew(addr(t, "10.0.0.1"), addr(t, "10.0.0.2"), ranges.OpenOpen)
	_, err = ToIPRange(hollow)
	assert.Error(t, err)
}

func TestSetRoundTrip(t *testing.T) {
	set := ranges.NewSet(
		ranges.MustNew(addr(t, "10.0.0.1"), addr(t, "10.0.0.10"), ranges.ClosedClosed),
		ranges.MustNew(addr(t, "10.0.1.1"), addr(t, "10.0.1.10"), ranges.ClosedClosed),
	)

	ipSet, err := SetToIPSet(set)
	require.NoError(t, err)
	assert.True(t, ipSet.Contains(addr(t, "10.0.0.5")))
	assert.False(t, ipSet.Contains(addr(t, "10.0.0.11")))

	back, err := SetFromIPSet(ipSet)
	require.NoError(t, err)
	assert.True(t, set.Equal(back))
}

func TestSetToIPSetCoalesces(t *testing.T) {
	// Overlapping members are condensed on both sides of the bridge.
	set := ranges.NewSet(
		ranges.MustNew(addr(t, "10.0.0.1"), addr(t, "10.0.0.10"), ranges.ClosedClosed),
		ranges.MustNew(addr(t, "10.0.0.5"), addr(t, "10.0.0.20"), ranges.ClosedClosed),
	)
	require.Equal(t, 1, set.Len())

	ipSet, err := SetToIPSet(set)
	require.NoError(t, err)
	require.Len(t, ipSet.Ranges(), 1)
	assert.Equal(t, ipRange(t, "10.0.0.1", "10.0.0.20"), ipSet.Ranges()[0])
}
