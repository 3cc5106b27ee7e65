package rename

import (
	"fmt"
	"sort"

	"github.com/dshills/logootsplit/ident"
)

// Map is the renaming map of one epoch transition. It captures the ordered
// list of identifiers that were renamed and translates identifiers between
// the parent epoch and the new one.
//
// The new identifiers all share the base (newRandom, replica, clock), with
// dense offsets 0..maxOffset. newRandom is the random of the first renamed
// identifier's first tuple, which anchors the new space inside the old one.
//
// A Map is immutable once built and is retained for the lifetime of the
// epoch tree so late operations can still be translated.
type Map struct {
	replica   int32
	clock     int32
	newRandom int32
	maxOffset int32
	intervals []ident.Interval
	oldIDs    []ident.Identifier // renamed identifiers, ascending
	index     map[string]int32   // identifier key -> new offset
}

// NewMap builds the renaming map for the given interval list, which must
// cover the entire sequence at rename time, in order. An empty list is a
// contract violation.
func NewMap(replica, clock int32, intervals []ident.Interval) *Map {
	if len(intervals) == 0 {
		panic("rename: renaming map requires at least one interval")
	}
	m := &Map{
		replica:   replica,
		clock:     clock,
		newRandom: intervals[0].First().Tuple(0).Random,
		intervals: intervals,
		index:     make(map[string]int32),
	}
	for _, iv := range intervals {
		for off := iv.Begin(); ; off++ {
			id := iv.At(off)
			m.index[id.Key()] = int32(len(m.oldIDs))
			m.oldIDs = append(m.oldIDs, id)
			if off == iv.End() {
				break
			}
		}
	}
	m.maxOffset = int32(len(m.oldIDs)) - 1
	return m
}

// Replica returns the issuing replica number.
func (m *Map) Replica() int32 { return m.replica }

// Clock returns the issuing clock.
func (m *Map) Clock() int32 { return m.clock }

// MaxOffset returns the highest offset of the new dense space.
func (m *Map) MaxOffset() int32 { return m.maxOffset }

// Intervals returns the renamed interval list.
func (m *Map) Intervals() []ident.Interval { return m.intervals }

// FirstID returns the smallest renamed identifier of the parent epoch.
func (m *Map) FirstID() ident.Identifier { return m.oldIDs[0] }

// LastID returns the greatest renamed identifier of the parent epoch.
func (m *Map) LastID() ident.Identifier { return m.oldIDs[len(m.oldIDs)-1] }

// NewFirstID returns the first identifier of the new dense space.
func (m *Map) NewFirstID() ident.Identifier { return m.newIDAt(0) }

// NewLastID returns the last identifier of the new dense space.
func (m *Map) NewLastID() ident.Identifier { return m.newIDAt(m.maxOffset) }

func (m *Map) newIDAt(off int32) ident.Identifier {
	return ident.New(ident.Tuple{
		Random:  m.newRandom,
		Replica: m.replica,
		Clock:   m.clock,
		Offset:  off,
	})
}

// newBase reports whether t carries the base of the new dense space.
func (m *Map) newBase(t ident.Tuple) bool {
	return t.Random == m.newRandom && t.Replica == m.replica && t.Clock == m.clock
}

// Rename translates a parent-epoch identifier into the new epoch.
//
// Identifiers outside [FirstID, LastID] were outside the renamed range in
// their epoch of generation and pass through unchanged. A renamed identifier
// maps to its dense form. Anything else was inserted concurrently between
// two renamed identifiers: it is re-rooted under the dense form of its
// renamed predecessor, which keeps it strictly between the predecessor's and
// successor's new identifiers.
func (m *Map) Rename(id ident.Identifier) ident.Identifier {
	if id.Compare(m.FirstID()) < 0 || id.Compare(m.LastID()) > 0 {
		return id
	}
	if off, ok := m.index[id.Key()]; ok {
		return m.newIDAt(off)
	}
	k := m.predecessorIndex(id)
	return m.newIDAt(int32(k)).Concat(id)
}

// predecessorIndex returns the index of the greatest renamed identifier
// strictly less than id. The caller guarantees id > FirstID.
func (m *Map) predecessorIndex(id ident.Identifier) int {
	// First index whose identifier is >= id; the predecessor sits before it.
	k := sort.Search(len(m.oldIDs), func(i int) bool {
		return m.oldIDs[i].Compare(id) >= 0
	})
	return k - 1
}

// ReverseRename translates a new-epoch identifier back into the parent
// epoch. It is the partial inverse of Rename: dense identifiers map back to
// the renamed originals, re-rooted identifiers drop their dense prefix, and
// identifiers generated in the new epoch between dense positions are rebuilt
// around the old-space neighbors, injecting MinTuple or MaxTuple to keep the
// ordering relations intact.
func (m *Map) ReverseRename(id ident.Identifier) ident.Identifier {
	head := id.Tuple(0)
	if m.newBase(head) {
		o := head.Offset
		switch {
		case o >= 0 && o <= m.maxOffset:
			if id.Length() == 1 {
				return m.oldIDs[o]
			}
			return m.reverseTail(o, ident.FromTuples(id.Tail(1)))
		case o < 0:
			// Generated in the new epoch before the whole renamed block.
			pred := predecessorOf(m.FirstID())
			return pred.Append(ident.MaxTuple).Concat(id)
		default:
			// Generated in the new epoch after the whole renamed block.
			return m.LastID().Append(ident.MinTuple).Concat(id)
		}
	}

	switch {
	case id.Compare(m.NewFirstID()) < 0:
		if id.Compare(m.FirstID()) < 0 {
			return id
		}
		pred := predecessorOf(m.FirstID())
		return pred.Append(ident.MaxTuple).Concat(id)
	case id.Compare(m.NewLastID()) > 0:
		if id.Compare(m.LastID()) > 0 {
			return id
		}
		return m.LastID().Append(ident.MinTuple).Concat(id)
	default:
		// An identifier strictly inside the dense range has to share its
		// base; anything else cannot have been generated.
		panic(fmt.Sprintf("rename: identifier %s inside the renamed range without its base", id))
	}
}

// reverseTail places the identifier (newRandom, replica, clock, o) . tail
// between the old-space neighbors of offset o.
func (m *Map) reverseTail(o int32, tail ident.Identifier) ident.Identifier {
	pred := m.oldIDs[o]
	if o == m.maxOffset {
		// Between the last renamed identifier and whatever follows the
		// renamed range. Rooting under the last identifier keeps the result
		// below any unrenamed successor.
		return pred.Append(ident.MinTuple).Concat(tail)
	}
	succ := m.oldIDs[o+1]
	switch {
	case tail.Compare(pred) <= 0:
		return pred.Append(ident.MinTuple).Concat(tail)
	case tail.Compare(succ) >= 0:
		return predecessorOf(succ).Append(ident.MaxTuple).Concat(tail)
	default:
		return tail
	}
}

// predecessorOf returns the identifier just below id in its own run.
func predecessorOf(id ident.Identifier) ident.Identifier {
	off := id.LastOffset()
	if off == ident.Int32Bottom {
		panic("rename: no predecessor below the bottom offset")
	}
	return id.WithLastOffset(off - 1)
}
