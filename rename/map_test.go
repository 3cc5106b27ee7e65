package rename

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/logootsplit/ident"
)

func tup(random, replica, clock, offset int32) ident.Tuple {
	return ident.Tuple{Random: random, Replica: replica, Clock: clock, Offset: offset}
}

// seedMap renames the run (100,1,0,[0..4]) as replica 9 at clock 7.
func seedMap() *Map {
	iv := ident.NewInterval(ident.New(tup(100, 1, 0, 0)), 4)
	return NewMap(9, 7, []ident.Interval{iv})
}

func TestNewMapShape(t *testing.T) {
	m := seedMap()

	assert.Equal(t, int32(4), m.MaxOffset())
	assert.True(t, m.FirstID().Equals(ident.New(tup(100, 1, 0, 0))))
	assert.True(t, m.LastID().Equals(ident.New(tup(100, 1, 0, 4))))
	assert.True(t, m.NewFirstID().Equals(ident.New(tup(100, 9, 7, 0))))
	assert.True(t, m.NewLastID().Equals(ident.New(tup(100, 9, 7, 4))))

	assert.Panics(t, func() { NewMap(9, 7, nil) })
}

func TestRenameExact(t *testing.T) {
	m := seedMap()
	for off := int32(0); off <= 4; off++ {
		got := m.Rename(ident.New(tup(100, 1, 0, off)))
		assert.True(t, got.Equals(ident.New(tup(100, 9, 7, off))), "offset %d", off)
	}
}

func TestRenameOutsideUnchanged(t *testing.T) {
	m := seedMap()
	below := ident.New(tup(50, 3, 3, 0))
	above := ident.New(tup(200, 3, 3, 0))

	assert.True(t, m.Rename(below).Equals(below))
	assert.True(t, m.Rename(above).Equals(above))
	assert.True(t, m.ReverseRename(below).Equals(below))
	assert.True(t, m.ReverseRename(above).Equals(above))
}

func TestRenameConcurrentInterior(t *testing.T) {
	m := seedMap()
	// Inserted concurrently between offsets 1 and 2 of the renamed run.
	interior := ident.New(tup(100, 1, 0, 1), tup(40, 2, 5, 0))

	got := m.Rename(interior)
	require.Equal(t, 1+interior.Length(), got.Length())
	assert.Equal(t, tup(100, 9, 7, 1), got.Tuple(0))
	assert.Negative(t, m.NewFirstID().WithLastOffset(1).Compare(got))
	assert.Positive(t, m.NewFirstID().WithLastOffset(2).Compare(got))

	assert.True(t, m.ReverseRename(got).Equals(interior), "round trip")
}

func TestRenameRoundTrip(t *testing.T) {
	m := seedMap()
	ids := []ident.Identifier{
		ident.New(tup(100, 1, 0, 0)),
		ident.New(tup(100, 1, 0, 3)),
		ident.New(tup(100, 1, 0, 4)),
		ident.New(tup(100, 1, 0, 0), tup(7, 4, 4, 0)),
		ident.New(tup(100, 1, 0, 2), tup(-60, 2, 2, 0), tup(3, 3, 3, 0)),
	}
	for _, id := range ids {
		require.True(t, m.ReverseRename(m.Rename(id)).Equals(id), "%s", id)
	}
}

func TestRenamePreservesOrder(t *testing.T) {
	m := seedMap()
	ascending := []ident.Identifier{
		ident.New(tup(50, 3, 3, 0)),
		ident.New(tup(100, 1, 0, 0)),
		ident.New(tup(100, 1, 0, 0), tup(7, 4, 4, 0)),
		ident.New(tup(100, 1, 0, 1)),
		ident.New(tup(100, 1, 0, 1), tup(-5, 2, 2, 0)),
		ident.New(tup(100, 1, 0, 1), tup(90, 2, 2, 0)),
		ident.New(tup(100, 1, 0, 2)),
		ident.New(tup(100, 1, 0, 4)),
		ident.New(tup(200, 3, 3, 0)),
	}
	for i := 1; i < len(ascending); i++ {
		require.Negative(t, ascending[i-1].Compare(ascending[i]), "fixture must ascend")
		a, b := m.Rename(ascending[i-1]), m.Rename(ascending[i])
		require.Negative(t, a.Compare(b), "rename(%s) < rename(%s)", ascending[i-1], ascending[i])
	}
}

func TestReverseRenameZones(t *testing.T) {
	m := seedMap()
	first, last := m.FirstID(), m.LastID()

	// Generated in the new epoch between two dense positions, with a tail
	// that sorts below the old predecessor.
	low := m.NewFirstID().WithLastOffset(1).Append(tup(5, 2, 9, 0))
	gotLow := m.ReverseRename(low)
	assert.Positive(t, gotLow.Compare(first.WithLastOffset(1)))
	assert.Negative(t, gotLow.Compare(first.WithLastOffset(2)))

	// Same gap, tail sorting above the old successor.
	high := m.NewFirstID().WithLastOffset(1).Append(tup(150, 2, 9, 0))
	gotHigh := m.ReverseRename(high)
	assert.Positive(t, gotHigh.Compare(first.WithLastOffset(1)))
	assert.Negative(t, gotHigh.Compare(first.WithLastOffset(2)))

	// The two keep their relative order.
	assert.Negative(t, gotLow.Compare(gotHigh))

	// Tail in the same gap that already sorts between the neighbors passes
	// through.
	fit := m.NewFirstID().WithLastOffset(1).Append(tup(100, 1, 0, 1), tup(33, 2, 9, 0))
	gotFit := m.ReverseRename(fit)
	assert.True(t, gotFit.Equals(ident.New(tup(100, 1, 0, 1), tup(33, 2, 9, 0))))

	// After the whole dense range.
	tail := m.NewLastID().Append(tup(30, 2, 9, 0))
	gotTail := m.ReverseRename(tail)
	assert.Positive(t, gotTail.Compare(last))

	// Before the whole dense range.
	head := ident.New(tup(100, 9, 7, -1), tup(8, 2, 9, 0))
	gotHead := m.ReverseRename(head)
	assert.Negative(t, gotHead.Compare(first))

	// Dense identifiers map back to the renamed originals.
	for off := int32(0); off <= 4; off++ {
		got := m.ReverseRename(ident.New(tup(100, 9, 7, off)))
		assert.True(t, got.Equals(first.WithLastOffset(off)))
	}
}

func TestReverseRenamePreservesOrder(t *testing.T) {
	m := seedMap()
	ascending := []ident.Identifier{
		ident.New(tup(50, 3, 3, 0)),
		ident.New(tup(100, 9, 7, -1), tup(8, 2, 9, 0)),
		m.NewFirstID(),
		m.NewFirstID().Append(tup(-90, 2, 9, 0)),
		m.NewFirstID().WithLastOffset(1),
		m.NewFirstID().WithLastOffset(1).Append(tup(5, 2, 9, 0)),
		m.NewFirstID().WithLastOffset(1).Append(tup(150, 2, 9, 0)),
		m.NewFirstID().WithLastOffset(2),
		m.NewLastID(),
		m.NewLastID().Append(tup(30, 2, 9, 0)),
		ident.New(tup(200, 3, 3, 0)),
	}
	for i := 1; i < len(ascending); i++ {
		require.Negative(t, ascending[i-1].Compare(ascending[i]), "fixture must ascend at %d", i)
		a, b := m.ReverseRename(ascending[i-1]), m.ReverseRename(ascending[i])
		require.Negative(t, a.Compare(b),
			"reverseRename(%s)=%s < reverseRename(%s)=%s", ascending[i-1], a, ascending[i], b)
	}
}

func TestRenameSplitRun(t *testing.T) {
	// The snapshot covers three runs: a block, a descendant wedged inside
	// it, and the block's continuation.
	ivs := []ident.Interval{
		ident.NewInterval(ident.New(tup(100, 1, 0, 0)), 1),
		ident.NewInterval(ident.New(tup(100, 1, 0, 1), tup(40, 2, 0, 0)), 0),
		ident.NewInterval(ident.New(tup(100, 1, 0, 2)), 3),
	}
	m := NewMap(9, 7, ivs)

	require.Equal(t, int32(4), m.MaxOffset())
	assert.True(t, m.Rename(ident.New(tup(100, 1, 0, 1), tup(40, 2, 0, 0))).
		Equals(ident.New(tup(100, 9, 7, 2))))
	assert.True(t, m.Rename(ident.New(tup(100, 1, 0, 3))).
		Equals(ident.New(tup(100, 9, 7, 4))))
	assert.True(t, m.ReverseRename(ident.New(tup(100, 9, 7, 2))).
		Equals(ident.New(tup(100, 1, 0, 1), tup(40, 2, 0, 0))))
}
