package ident

import (
	"fmt"
	"math"
)

// Bounds of the identifier component domain. Every tuple field lives in the
// signed 32-bit range.
const (
	Int32Top    int32 = math.MaxInt32
	Int32Bottom int32 = math.MinInt32
)

// Sentinel tuples used to pad identifiers of different lengths during
// comparison-driven generation. They never appear as the last tuple of a
// generated identifier.
var (
	MinTuple = Tuple{Random: Int32Bottom}
	MaxTuple = Tuple{Random: Int32Top}
)

// Tuple is one level of a position identifier. Ordering is lexicographic on
// (Random, Replica, Clock, Offset). Two tuples share a base when the first
// three fields are equal.
type Tuple struct {
	Random  int32
	Replica int32
	Clock   int32
	Offset  int32
}

// Compare returns -1, 0, or 1 ordering t relative to o.
func (t Tuple) Compare(o Tuple) int {
	switch {
	case t.Random != o.Random:
		return cmp32(t.Random, o.Random)
	case t.Replica != o.Replica:
		return cmp32(t.Replica, o.Replica)
	case t.Clock != o.Clock:
		return cmp32(t.Clock, o.Clock)
	default:
		return cmp32(t.Offset, o.Offset)
	}
}

// SameBase reports whether t and o agree on everything but the offset.
func (t Tuple) SameBase(o Tuple) bool {
	return t.Random == o.Random && t.Replica == o.Replica && t.Clock == o.Clock
}

// WithOffset returns a copy of t with the offset replaced.
func (t Tuple) WithOffset(off int32) Tuple {
	t.Offset = off
	return t
}

// String returns a compact debug form.
func (t Tuple) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", t.Random, t.Replica, t.Clock, t.Offset)
}

func cmp32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
