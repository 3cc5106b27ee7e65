package rename

import (
	"fmt"

	"github.com/dshills/logootsplit/ident"
)

// EpochID names one identifier-space generation.
type EpochID struct {
	Replica int32
	Clock   int32
}

// Compare orders epoch ids by (replica, clock).
func (e EpochID) Compare(o EpochID) int {
	if e.Replica != o.Replica {
		if e.Replica < o.Replica {
			return -1
		}
		return 1
	}
	switch {
	case e.Clock < o.Clock:
		return -1
	case e.Clock > o.Clock:
		return 1
	default:
		return 0
	}
}

// String returns a compact debug form.
func (e EpochID) String() string { return fmt.Sprintf("e%d.%d", e.Replica, e.Clock) }

// Epoch is a node of the epoch tree. The parent pointer is a back-reference
// only; children are not tracked.
type Epoch struct {
	id     EpochID
	parent *Epoch
	depth  int
}

// ID returns the epoch's identifier.
func (e *Epoch) ID() EpochID { return e.id }

// Parent returns the parent epoch, or nil for the root.
func (e *Epoch) Parent() *Epoch { return e.parent }

// Depth returns the distance from the root.
func (e *Epoch) Depth() int { return e.depth }

// Tree is the forest of renaming epochs known to a replica, with the
// renaming map attached to each non-root epoch.
type Tree struct {
	root   *Epoch
	epochs map[EpochID]*Epoch
	maps   map[EpochID]*Map
}

// NewTree creates an epoch tree holding only the genesis epoch.
func NewTree() *Tree {
	root := &Epoch{}
	return &Tree{
		root:   root,
		epochs: map[EpochID]*Epoch{root.id: root},
		maps:   make(map[EpochID]*Map),
	}
}

// Root returns the genesis epoch.
func (t *Tree) Root() *Epoch { return t.root }

// Get looks up an epoch by id.
func (t *Tree) Get(id EpochID) (*Epoch, bool) {
	e, ok := t.epochs[id]
	return e, ok
}

// Add installs a new epoch under parent with the renaming map describing the
// transition. The parent must be known and the id fresh.
func (t *Tree) Add(parent EpochID, id EpochID, m *Map) *Epoch {
	p, ok := t.epochs[parent]
	if !ok {
		panic(fmt.Sprintf("rename: unknown parent epoch %s", parent))
	}
	if _, dup := t.epochs[id]; dup {
		panic(fmt.Sprintf("rename: duplicate epoch %s", id))
	}
	e := &Epoch{id: id, parent: p, depth: p.depth + 1}
	t.epochs[id] = e
	t.maps[id] = m
	return e
}

// MapFor returns the renaming map of the transition into the given epoch.
func (t *Tree) MapFor(id EpochID) *Map { return t.maps[id] }

// LCA returns the lowest common ancestor of a and b, found by equal-depth
// ascent.
func (t *Tree) LCA(a, b *Epoch) *Epoch {
	for a.depth > b.depth {
		a = a.parent
	}
	for b.depth > a.depth {
		b = b.parent
	}
	for a != b {
		a = a.parent
		b = b.parent
	}
	return a
}

// Translate maps an identifier generated under the from epoch into the to
// epoch, walking up to the LCA through reverse renamings and down through
// renamings.
func (t *Tree) Translate(id ident.Identifier, from, to *Epoch) ident.Identifier {
	lca := t.LCA(from, to)
	for e := from; e != lca; e = e.parent {
		id = t.maps[e.id].ReverseRename(id)
	}
	var down []*Epoch
	for e := to; e != lca; e = e.parent {
		down = append(down, e)
	}
	for i := len(down) - 1; i >= 0; i-- {
		id = t.maps[down[i].id].Rename(id)
	}
	return id
}
