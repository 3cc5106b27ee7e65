package ident

import "fmt"

// Interval is a contiguous run of identifiers sharing a common base: the
// identifiers obtained from First by varying the last tuple's offset between
// Begin and End inclusive.
type Interval struct {
	first Identifier
	end   int32
}

// NewInterval builds the run starting at first and ending at offset end. It
// panics when end precedes the first identifier's offset.
func NewInterval(first Identifier, end int32) Interval {
	if first.IsZero() {
		panic("ident: interval requires an identifier")
	}
	if end < first.LastOffset() {
		panic(fmt.Sprintf("ident: interval end %d before begin %d", end, first.LastOffset()))
	}
	return Interval{first: first, end: end}
}

// First returns the identifier of the run's first element.
func (iv Interval) First() Identifier { return iv.first }

// Last returns the identifier of the run's last element.
func (iv Interval) Last() Identifier { return iv.first.WithLastOffset(iv.end) }

// Begin returns the first offset of the run.
func (iv Interval) Begin() int32 { return iv.first.LastOffset() }

// End returns the last offset of the run.
func (iv Interval) End() int32 { return iv.end }

// Length returns the number of identifiers in the run.
func (iv Interval) Length() int { return int(iv.end-iv.Begin()) + 1 }

// At returns the identifier at the given offset. The offset must lie within
// [Begin, End].
func (iv Interval) At(off int32) Identifier {
	if off < iv.Begin() || off > iv.end {
		panic("ident: interval offset out of range")
	}
	return iv.first.WithLastOffset(off)
}

// Union returns the smallest interval containing both iv and [begin, end].
// The added range must overlap or abut the interval; a discontiguous union
// is a contract violation and panics.
func (iv Interval) Union(begin, end int32) Interval {
	if begin > iv.end+1 || end < iv.Begin()-1 {
		panic(fmt.Sprintf("ident: union of discontiguous ranges [%d,%d] and [%d,%d]",
			iv.Begin(), iv.end, begin, end))
	}
	b := min(iv.Begin(), begin)
	e := max(iv.end, end)
	return Interval{first: iv.first.WithLastOffset(b), end: e}
}

// Contains reports whether id is one of the run's identifiers.
func (iv Interval) Contains(id Identifier) bool {
	return iv.first.EqualsBase(id) && id.LastOffset() >= iv.Begin() && id.LastOffset() <= iv.end
}

// SameBase reports whether iv and o describe runs over the same base.
func (iv Interval) SameBase(o Interval) bool { return iv.first.EqualsBase(o.first) }

// Compare orders intervals by their first identifier.
func (iv Interval) Compare(o Interval) int { return iv.first.Compare(o.first) }

// Equals reports whether the two intervals describe the same run.
func (iv Interval) Equals(o Interval) bool {
	return iv.end == o.end && iv.first.Equals(o.first)
}

// BaseKey returns a map key shared by every interval over the same base.
func (iv Interval) BaseKey() string { return iv.first.WithLastOffset(0).Key() }

// String returns a debug form such as [(r,p,c,0)]..4.
func (iv Interval) String() string {
	return fmt.Sprintf("%s..%d", iv.first, iv.end)
}
