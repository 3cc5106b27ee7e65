package rename

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/logootsplit/ident"
)

func TestEpochIDCompare(t *testing.T) {
	assert.Equal(t, 0, EpochID{1, 2}.Compare(EpochID{1, 2}))
	assert.Equal(t, -1, EpochID{1, 2}.Compare(EpochID{2, 0}))
	assert.Equal(t, -1, EpochID{1, 2}.Compare(EpochID{1, 3}))
	assert.Equal(t, 1, EpochID{1, 3}.Compare(EpochID{1, 2}))
}

func TestTreeLCA(t *testing.T) {
	tr := NewTree()
	root := tr.Root()

	m := seedMap()
	a1 := tr.Add(root.ID(), EpochID{0, 1}, m)
	b1 := tr.Add(root.ID(), EpochID{1, 1}, m)
	a2 := tr.Add(a1.ID(), EpochID{0, 2}, m)

	assert.Equal(t, root, tr.LCA(a1, b1))
	assert.Equal(t, root, tr.LCA(a2, b1))
	assert.Equal(t, a1, tr.LCA(a1, a2))
	assert.Equal(t, a2, tr.LCA(a2, a2))
	assert.Equal(t, 2, a2.Depth())
	assert.Equal(t, a1, a2.Parent())
}

func TestTreeAddContracts(t *testing.T) {
	tr := NewTree()
	m := seedMap()

	tr.Add(tr.Root().ID(), EpochID{0, 1}, m)
	assert.Panics(t, func() { tr.Add(EpochID{5, 5}, EpochID{0, 2}, m) }, "unknown parent")
	assert.Panics(t, func() { tr.Add(tr.Root().ID(), EpochID{0, 1}, m) }, "duplicate epoch")
}

func TestTreeTranslate(t *testing.T) {
	tr := NewTree()
	root := tr.Root()
	m := seedMap()
	a1 := tr.Add(root.ID(), EpochID{0, 1}, m)

	old := ident.New(tup(100, 1, 0, 2))
	dense := ident.New(tup(100, 9, 7, 2))

	assert.True(t, tr.Translate(old, root, a1).Equals(dense), "up the rename")
	assert.True(t, tr.Translate(dense, a1, root).Equals(old), "back down")
	assert.True(t, tr.Translate(old, root, root).Equals(old), "identity")

	// Across siblings built from the same snapshot, translation composes
	// the reverse of one map with the other.
	b1 := tr.Add(root.ID(), EpochID{1, 1}, NewMap(8, 6, m.Intervals()))
	got := tr.Translate(dense, a1, b1)
	assert.True(t, got.Equals(ident.New(tup(100, 8, 6, 2))))
}
