package ident

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource returns preset draws, then falls back to the midpoint.
type scriptedSource struct {
	draws []int32
}

func (s *scriptedSource) Int32Between(lo, hi int32) int32 {
	if len(s.draws) > 0 {
		d := s.draws[0]
		s.draws = s.draws[1:]
		if d > lo && d < hi {
			return d
		}
	}
	return int32((int64(lo) + int64(hi)) / 2)
}

func TestBetweenVirtualBounds(t *testing.T) {
	got := Between(nil, nil, 7, 0, NewSource(1))

	require.Equal(t, 1, got.Length())
	last := got.Last()
	assert.Equal(t, int32(7), last.Replica)
	assert.Equal(t, int32(0), last.Clock)
	assert.Equal(t, int32(0), last.Offset)
	assert.Greater(t, last.Random, Int32Bottom)
	assert.Less(t, last.Random, Int32Top)
}

func TestBetweenBrackets(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	src := NewSource(3)
	for i := 0; i < 2000; i++ {
		a, b := randomID(rng), randomID(rng)
		switch a.Compare(b) {
		case 0:
			continue
		case 1:
			a, b = b, a
		}
		got := Between(&a, &b, 9, int32(i), src)
		require.Negative(t, a.Compare(got), "%s < %s", a, got)
		require.Negative(t, got.Compare(b), "%s < %s", got, b)
	}
}

func TestBetweenUnorderedBoundsPanics(t *testing.T) {
	a := id(Tuple{5, 0, 0, 0})
	assert.Panics(t, func() { Between(&a, &a, 1, 0, NewSource(1)) })
}

func TestBetweenTightGapDescends(t *testing.T) {
	a := id(Tuple{5, 1, 0, 0})
	b := id(Tuple{6, 1, 0, 0})

	got := Between(&a, &b, 2, 3, NewSource(4))
	require.Equal(t, 2, got.Length(), "no integer fits between 5 and 6 at depth 0")
	assert.True(t, a.IsPrefix(got))
	assert.Equal(t, int32(2), got.Last().Replica)
	assert.Equal(t, int32(3), got.Last().Clock)
}

func TestBetweenSameOffsetRun(t *testing.T) {
	// Between two consecutive members of one run the factory must descend
	// under the lower one.
	a := id(Tuple{5, 1, 0, 3})
	b := id(Tuple{5, 1, 0, 4})

	got := Between(&a, &b, 2, 0, NewSource(5))
	require.Equal(t, 2, got.Length())
	assert.True(t, a.IsPrefix(got))
}

func TestBetweenDensity(t *testing.T) {
	src := NewSource(6)
	lo := id(Tuple{0, 0, 0, 0})
	hi := id(Tuple{1000, 0, 0, 0})

	seen := map[string]bool{}
	upper := hi
	for i := 0; i < 128; i++ {
		got := Between(&lo, &upper, 1, int32(i), src)
		require.Negative(t, lo.Compare(got))
		require.Negative(t, got.Compare(upper))
		require.False(t, seen[got.Key()], "identifiers must stay distinct")
		seen[got.Key()] = true
		upper = got
	}
}

func TestBetweenScriptedDraw(t *testing.T) {
	src := &scriptedSource{draws: []int32{42}}
	got := Between(nil, nil, 7, 0, src)
	assert.True(t, got.Equals(id(Tuple{42, 7, 0, 0})))
}
