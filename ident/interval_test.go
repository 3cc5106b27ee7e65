package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalBasics(t *testing.T) {
	iv := NewInterval(id(Tuple{7, 1, 0, 2}), 5)

	assert.Equal(t, int32(2), iv.Begin())
	assert.Equal(t, int32(5), iv.End())
	assert.Equal(t, 4, iv.Length())
	assert.Equal(t, int32(4), iv.At(4).LastOffset())
	assert.True(t, iv.Last().Equals(id(Tuple{7, 1, 0, 5})))

	assert.Panics(t, func() { NewInterval(id(Tuple{7, 1, 0, 2}), 1) })
	assert.Panics(t, func() { iv.At(6) })
}

func TestIntervalContains(t *testing.T) {
	iv := NewInterval(id(Tuple{7, 1, 0, 2}), 5)

	assert.True(t, iv.Contains(id(Tuple{7, 1, 0, 3})))
	assert.False(t, iv.Contains(id(Tuple{7, 1, 0, 6})))
	assert.False(t, iv.Contains(id(Tuple{7, 2, 0, 3})), "different base")
	assert.False(t, iv.Contains(id(Tuple{7, 1, 0, 3}, Tuple{1, 0, 0, 0})), "descendant")
}

func TestIntervalUnion(t *testing.T) {
	iv := NewInterval(id(Tuple{7, 1, 0, 2}), 5)

	grown := iv.Union(6, 8)
	require.Equal(t, int32(2), grown.Begin())
	require.Equal(t, int32(8), grown.End())

	grown = iv.Union(0, 1)
	require.Equal(t, int32(0), grown.Begin())
	require.Equal(t, int32(5), grown.End())

	grown = iv.Union(3, 4)
	require.Equal(t, iv, grown)

	assert.Panics(t, func() { iv.Union(8, 9) }, "gap above")
	assert.Panics(t, func() { iv.Union(-3, 0) }, "gap below")
}

func TestIntervalBaseKey(t *testing.T) {
	a := NewInterval(id(Tuple{7, 1, 0, 2}), 5)
	b := NewInterval(id(Tuple{7, 1, 0, 9}), 12)
	c := NewInterval(id(Tuple{8, 1, 0, 2}), 5)

	assert.Equal(t, a.BaseKey(), b.BaseKey())
	assert.NotEqual(t, a.BaseKey(), c.BaseKey())
	assert.True(t, a.SameBase(b))
	assert.False(t, a.SameBase(c))
}
