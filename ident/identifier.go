package ident

import (
	"strings"
)

// Identifier is a nonempty sequence of tuples naming one element of the
// replicated sequence. Identifiers are totally ordered: tuple-wise
// lexicographic, with a strict prefix ordering before its extensions.
//
// The zero Identifier is invalid; construct identifiers with New or
// FromTuples.
type Identifier struct {
	tuples []Tuple
}

// New builds an identifier from the given tuples. It panics if no tuple is
// supplied.
func New(tuples ...Tuple) Identifier {
	return FromTuples(tuples)
}

// FromTuples builds an identifier from a tuple slice. The slice is copied so
// the identifier stays immutable. It panics if the slice is empty.
func FromTuples(tuples []Tuple) Identifier {
	if len(tuples) == 0 {
		panic("ident: identifier requires at least one tuple")
	}
	ts := make([]Tuple, len(tuples))
	copy(ts, tuples)
	return Identifier{tuples: ts}
}

// Length returns the number of tuples.
func (id Identifier) Length() int { return len(id.tuples) }

// IsZero reports whether id is the invalid zero value.
func (id Identifier) IsZero() bool { return len(id.tuples) == 0 }

// Tuple returns the tuple at index i.
func (id Identifier) Tuple(i int) Tuple { return id.tuples[i] }

// Tuples returns a copy of the tuple sequence.
func (id Identifier) Tuples() []Tuple {
	ts := make([]Tuple, len(id.tuples))
	copy(ts, id.tuples)
	return ts
}

// Last returns the final tuple.
func (id Identifier) Last() Tuple { return id.tuples[len(id.tuples)-1] }

// LastOffset returns the offset of the final tuple.
func (id Identifier) LastOffset() int32 { return id.Last().Offset }

// Compare returns -1, 0, or 1 ordering id relative to o. A strict prefix
// orders before its extensions.
func (id Identifier) Compare(o Identifier) int {
	n := min(len(id.tuples), len(o.tuples))
	for i := 0; i < n; i++ {
		if c := id.tuples[i].Compare(o.tuples[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(id.tuples) < len(o.tuples):
		return -1
	case len(id.tuples) > len(o.tuples):
		return 1
	default:
		return 0
	}
}

// Equals reports tuple-wise equality.
func (id Identifier) Equals(o Identifier) bool { return id.Compare(o) == 0 }

// EqualsBase reports whether id and o name positions in the same run: equal
// length, all tuples but the last identical, and the last tuples sharing a
// base.
func (id Identifier) EqualsBase(o Identifier) bool {
	if len(id.tuples) != len(o.tuples) {
		return false
	}
	last := len(id.tuples) - 1
	for i := 0; i < last; i++ {
		if id.tuples[i] != o.tuples[i] {
			return false
		}
	}
	return id.tuples[last].SameBase(o.tuples[last])
}

// IsPrefix reports whether every tuple of id matches the corresponding
// leading tuple of o.
func (id Identifier) IsPrefix(o Identifier) bool {
	if len(id.tuples) > len(o.tuples) {
		return false
	}
	for i, t := range id.tuples {
		if t != o.tuples[i] {
			return false
		}
	}
	return true
}

// Truncate splits the identifier after k tuples, returning the head as an
// identifier and the remaining tuples. It panics when k is out of range; the
// head must keep at least one tuple.
func (id Identifier) Truncate(k int) (Identifier, []Tuple) {
	if k < 1 || k > len(id.tuples) {
		panic("ident: truncate index out of range")
	}
	head := FromTuples(id.tuples[:k])
	tail := make([]Tuple, len(id.tuples)-k)
	copy(tail, id.tuples[k:])
	return head, tail
}

// Tail returns a copy of the tuples from index k on.
func (id Identifier) Tail(k int) []Tuple {
	if k < 0 || k > len(id.tuples) {
		panic("ident: tail index out of range")
	}
	tail := make([]Tuple, len(id.tuples)-k)
	copy(tail, id.tuples[k:])
	return tail
}

// Concat returns id followed by all tuples of o.
func (id Identifier) Concat(o Identifier) Identifier {
	return id.Append(o.tuples...)
}

// Append returns id extended with the given tuples.
func (id Identifier) Append(tuples ...Tuple) Identifier {
	ts := make([]Tuple, 0, len(id.tuples)+len(tuples))
	ts = append(ts, id.tuples...)
	ts = append(ts, tuples...)
	return Identifier{tuples: ts}
}

// WithLastOffset returns an identifier with the same base as id but the last
// tuple's offset replaced.
func (id Identifier) WithLastOffset(off int32) Identifier {
	ts := make([]Tuple, len(id.tuples))
	copy(ts, id.tuples)
	ts[len(ts)-1].Offset = off
	return Identifier{tuples: ts}
}

// Consecutive reports whether b names the position immediately after a in
// the same run.
func Consecutive(a, b Identifier) bool {
	return a.EqualsBase(b) && a.LastOffset() != Int32Top && a.LastOffset()+1 == b.LastOffset()
}

// Key returns a compact string usable as a map key.
func (id Identifier) Key() string {
	var b strings.Builder
	b.Grow(len(id.tuples) * 16)
	for _, t := range id.tuples {
		writeInt32(&b, t.Random)
		writeInt32(&b, t.Replica)
		writeInt32(&b, t.Clock)
		writeInt32(&b, t.Offset)
	}
	return b.String()
}

// String returns a human-readable form for logs and tests.
func (id Identifier) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range id.tuples {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.String())
	}
	b.WriteByte(']')
	return b.String()
}

func writeInt32(b *strings.Builder, v int32) {
	u := uint32(v)
	b.WriteByte(byte(u >> 24))
	b.WriteByte(byte(u >> 16))
	b.WriteByte(byte(u >> 8))
	b.WriteByte(byte(u))
}
