// Package ipranges bridges the generic range algebra and the netipx
// IP range and set types.
package ipranges

import (
	"fmt"
	"net/netip"

	"go4.org/netipx"

	"github.com/henderiw/rangekit/pkg/ranges"
)

// FromIPRange converts an IP range to a closed range over addresses.
func FromIPRange(r netipx.IPRange) (ranges.Range[netip.Addr], error) {
	if !r.IsValid() {
		return ranges.Range[netip.Addr]{}, fmt.Errorf("invalid IP range %s", r)
	}
	return ranges.New(r.From(), r.To(), ranges.ClosedClosed)
}

// ToIPRange converts a finite, non-empty range over addresses to an
// IP range. Exclusive bounds are narrowed to the nearest included
// address.
func ToIPRange(r ranges.Range[netip.Addr]) (netipx.IPRange, error) {
	start, ok := r.Start()
	if !ok {
		return netipx.IPRange{}, fmt.Errorf("range %s has no lower bound", r)
	}
	end, ok := r.End()
	if !ok {
		return netipx.IPRange{}, fmt.Errorf("range %s has no upper bound", r)
	}
	if r.IsEmpty() {
		return netipx.IPRange{}, fmt.Errorf("range %s contains no addresses", r)
	}
	if !r.Bounds().StartInclusive() {
		start = start.Next()
	}
	if !r.Bounds().EndInclusive() {
		end = end.Prev()
	}
	out := netipx.IPRangeFrom(start, end)
	if !out.IsValid() {
		return netipx.IPRange{}, fmt.Errorf("range %s contains no addresses", r)
	}
	return out, nil
}

// SetToIPSet converts a range set over addresses to an IP set.
func SetToIPSet(s ranges.RangeSet[netip.Addr]) (*netipx.IPSet, error) {
	var builder netipx.IPSetBuilder
	for _, member := range s.Ranges() {
		r, err := ToIPRange(member)
		if err != nil {
			return nil, err
		}
		builder.AddRange(r)
	}
	return builder.IPSet()
}

// SetFromIPSet converts an IP set to a range set over addresses.
func SetFromIPSet(s *netipx.IPSet) (ranges.RangeSet[netip.Addr], error) {
	members := make([]ranges.Range[netip.Addr], 0, len(s.Ranges()))
	for _, r := range s.Ranges() {
		member, err := FromIPRange(r)
		if err != nil {
			return ranges.RangeSet[netip.Addr]{}, err
		}
		members = append(members, member)
	}
	return ranges.NewSet(members...), nil
}
