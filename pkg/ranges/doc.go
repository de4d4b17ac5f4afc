// Package ranges provides a generic interval algebra: immutable
// ranges over any totally-ordered type, with boundary-aware
// containment, overlap, adjacency, intersection, union and
// difference, plus condensed sets of disjoint ranges and O(n log n)
// sweeps over large range collections.
package ranges
