package rope

import (
	"fmt"

	"github.com/dshills/logootsplit/ident"
)

// Insertion is a positional fragment produced by applying a remote insert.
// Offset is the block offset of the fragment's first element within the
// operation's interval, so callers can slice the operation content.
type Insertion struct {
	Pos    int
	Offset int32
	Length int
}

// Deletion is a positional fragment produced by applying a remote delete.
type Deletion struct {
	Pos    int
	Length int
}

// Tree is the block storage tree: an AVL tree of identifier runs mapping
// integer positions to identifiers and back.
type Tree struct {
	root   *node
	blocks map[string]*Block
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{blocks: make(map[string]*Block)}
}

// Len returns the number of live elements.
func (t *Tree) Len() int { return size(t.root) }

// IDAt returns the identifier of the element at pos. The position must be in
// range.
func (t *Tree) IDAt(pos int) ident.Identifier {
	n, off := t.locate(pos)
	if n == nil {
		panic(fmt.Sprintf("rope: position %d out of range", pos))
	}
	return n.at(off)
}

// locate finds the node holding position pos and the block offset of the
// element there.
func (t *Tree) locate(pos int) (*node, int32) {
	n := t.root
	for n != nil {
		l := size(n.left)
		switch {
		case pos < l:
			n = n.left
		case pos < l+n.span():
			return n, n.offsetBegin + int32(pos-l)
		default:
			pos -= l + n.span()
			n = n.right
		}
	}
	return nil, 0
}

// InsertLocal allocates identifiers for length fresh elements at pos and
// inserts them. The returned interval is what the caller broadcasts. The
// position must lie in [0, Len()] and length must be positive.
func (t *Tree) InsertLocal(pos, length int, replica, clock int32, src ident.Source) ident.Interval {
	if pos < 0 || pos > t.Len() || length <= 0 {
		panic(fmt.Sprintf("rope: insert of %d at %d out of range", length, pos))
	}

	var prev, next *ident.Identifier
	if pos > 0 {
		n, off := t.locate(pos - 1)
		id := n.at(off)
		prev = &id

		// Append fast path: the element before pos closes a block we own and
		// nothing was ever allocated after it, so the run can simply grow.
		if off == n.offsetEnd && off == n.block.interval.End() &&
			n.block.interval.First().Last().Replica == replica &&
			int64(off)+int64(length) <= int64(ident.Int32Top) {
			iv := ident.NewInterval(id.WithLastOffset(off+1), off+int32(length))
			if pos == t.Len() || iv.Last().Compare(t.IDAt(pos)) < 0 {
				t.growAt(pos-1, length)
				return iv
			}
		}
	}
	if pos < t.Len() {
		n, off := t.locate(pos)
		id := n.at(off)
		next = &id
	}

	fresh := ident.Between(prev, next, replica, clock, src)
	iv := ident.NewInterval(fresh, int32(length-1))
	t.InsertRemote(iv)
	return iv
}

// growAt extends the node holding position pos by length elements at the end
// of its run. No rotation is needed; only sizes change.
func (t *Tree) growAt(pos, length int) {
	var rec func(n *node, pos int)
	rec = func(n *node, pos int) {
		l := size(n.left)
		switch {
		case pos < l:
			rec(n.left, pos)
		case pos < l+n.span():
			n.block.extend(n.offsetBegin, n.offsetEnd+int32(length))
			n.offsetEnd += int32(length)
		default:
			rec(n.right, pos-l-n.span())
		}
		n.update()
	}
	rec(t.root, pos)
}

// InsertRemote integrates an interval produced elsewhere. The interval may
// interleave with concurrently inserted descendants, so the result is a list
// of positional fragments ordered for sequential application.
func (t *Tree) InsertRemote(iv ident.Interval) []Insertion {
	var ins []Insertion
	t.root, ins = t.addIv(t.root, iv, 0, nil, nil)
	return ins
}

func (t *Tree) addIv(n *node, iv ident.Interval, before int, lo, hi *ident.Identifier) (*node, []Insertion) {
	if n == nil {
		blk := t.block(iv)
		blk.extend(iv.Begin(), iv.End())
		blk.live += int32(iv.Length())
		return newNode(blk, iv.Begin(), iv.End()),
			[]Insertion{{Pos: before, Offset: iv.Begin(), Length: iv.Length()}}
	}

	nFirst, nLast := n.first(), n.last()
	if iv.First().EqualsBase(nFirst) {
		return t.addSameBase(n, iv, before, lo, hi)
	}

	var ins []Insertion
	switch {
	case iv.Last().Compare(nFirst) < 0:
		n.left, ins = t.addIv(n.left, iv, before, lo, &nFirst)
		return combine(n), ins
	case iv.First().Compare(nLast) > 0:
		n.right, ins = t.addIv(n.right, iv, before+size(n.left)+n.span(), &nLast, hi)
		return combine(n), ins
	}

	if jo, ok := extendOffset(nFirst, iv.First()); ok {
		// The node's run descends from the interval's base: identifiers up to
		// offset jo precede it, the rest follow it.
		var insL, insR []Insertion
		n.left, insL = t.addIv(n.left, ident.NewInterval(iv.First(), jo), before, lo, &nFirst)
		n.right, insR = t.addIv(n.right, ident.NewInterval(iv.At(jo+1), iv.End()),
			before+size(n.left)+n.span(), &nLast, hi)
		return combine(n), append(insL, insR...)
	}

	if k, ok := extendOffset(iv.First(), nFirst); ok {
		// The interval descends between node offsets k and k+1: split the
		// node and send the interval right.
		tail := newNode(n.block, k+1, n.offsetEnd)
		n.offsetEnd = k
		n.right = insertLeftmost(n.right, tail)
		n.update()
		nl := n.last()
		n.right, ins = t.addIv(n.right, iv, before+size(n.left)+n.span(), &nl, hi)
		return combine(n), ins
	}

	panic(fmt.Sprintf("rope: interleaving runs %s and %s share no prefix", iv, n.block.interval))
}

func (t *Tree) addSameBase(n *node, iv ident.Interval, before int, lo, hi *ident.Identifier) (*node, []Insertion) {
	b, e := iv.Begin(), iv.End()
	var ins []Insertion
	switch {
	case e < n.offsetBegin:
		if e+1 == n.offsetBegin {
			if pred := maxID(n.left, lo); pred == nil || pred.Compare(iv.First()) < 0 {
				pos := before + size(n.left)
				n.block.extend(b, e)
				n.block.live += int32(iv.Length())
				n.offsetBegin = b
				n.update()
				return n, []Insertion{{Pos: pos, Offset: b, Length: iv.Length()}}
			}
		}
		nf := n.first()
		n.left, ins = t.addIv(n.left, iv, before, lo, &nf)
		return combine(n), ins
	case b > n.offsetEnd:
		if b == n.offsetEnd+1 && n.offsetEnd == n.block.interval.End() {
			if succ := minID(n.right, hi); succ == nil || succ.Compare(iv.Last()) > 0 {
				pos := before + size(n.left) + n.span()
				n.block.extend(b, e)
				n.block.live += int32(iv.Length())
				n.offsetEnd = e
				n.update()
				return n, []Insertion{{Pos: pos, Offset: b, Length: iv.Length()}}
			}
		}
		nl := n.last()
		n.right, ins = t.addIv(n.right, iv, before+size(n.left)+n.span(), &nl, hi)
		return combine(n), ins
	default:
		// Offsets overlapping the live range were already delivered; keep
		// only the missing edges.
		root := n
		if b < n.offsetBegin {
			var insL []Insertion
			root, insL = t.addIv(root, ident.NewInterval(iv.First(), n.offsetBegin-1), before, lo, hi)
			ins = append(ins, insL...)
		}
		if e > n.offsetEnd {
			var insH []Insertion
			root, insH = t.addIv(root, ident.NewInterval(iv.At(n.offsetEnd+1), e), before, lo, hi)
			ins = append(ins, insH...)
		}
		return root, ins
	}
}

// extendOffset reports whether long's run descends through short's run:
// long shares short's base tuples and carries a run offset at short's last
// depth. The returned offset is where long's run branches off.
func extendOffset(long, short ident.Identifier) (int32, bool) {
	d := short.Length()
	if long.Length() <= d {
		return 0, false
	}
	for i := 0; i < d-1; i++ {
		if long.Tuple(i) != short.Tuple(i) {
			return 0, false
		}
	}
	if !long.Tuple(d - 1).SameBase(short.Tuple(d - 1)) {
		return 0, false
	}
	return long.Tuple(d - 1).Offset, true
}

// DeleteLocal removes positions [begin, end] and returns the identifier
// intervals that cover them, ready to broadcast. The range must be in
// bounds.
func (t *Tree) DeleteLocal(begin, end int) []ident.Interval {
	if begin < 0 || begin > end || end >= t.Len() {
		panic(fmt.Sprintf("rope: delete range [%d,%d] out of range", begin, end))
	}
	var ivs []ident.Interval
	remaining := end - begin + 1
	for remaining > 0 {
		n, off := t.locate(begin)
		count := min(remaining, int(n.offsetEnd-off)+1)
		iv := ident.NewInterval(n.at(off), off+int32(count-1))
		if len(ivs) > 0 && ivs[len(ivs)-1].SameBase(iv) && ivs[len(ivs)-1].End()+1 == iv.Begin() {
			ivs[len(ivs)-1] = ivs[len(ivs)-1].Union(iv.Begin(), iv.End())
		} else {
			ivs = append(ivs, iv)
		}
		t.root = t.removeSpan(t.root, begin, count)
		remaining -= count
	}
	return ivs
}

// removeSpan removes count live elements starting at position pos. The
// caller guarantees the span lies within a single node.
func (t *Tree) removeSpan(n *node, pos, count int) *node {
	l := size(n.left)
	switch {
	case pos < l:
		n.left = t.removeSpan(n.left, pos, count)
	case pos >= l+n.span():
		n.right = t.removeSpan(n.right, pos-l-n.span(), count)
	default:
		off := n.offsetBegin + int32(pos-l)
		n = t.trimNode(n, off, off+int32(count-1))
	}
	return rebalance(n)
}

// trimNode removes block offsets [from, to] from the node's live range,
// splitting the node when the removal is interior. The children may have
// shrunk arbitrarily by the time this runs, so the result is rebuilt with an
// AVL join rather than patched with one rotation.
func (t *Tree) trimNode(n *node, from, to int32) *node {
	n.block.live -= to - from + 1
	if n.block.live == 0 {
		delete(t.blocks, n.block.interval.BaseKey())
	}
	left, right := n.left, n.right
	n.left, n.right = nil, nil
	switch {
	case from == n.offsetBegin && to == n.offsetEnd:
		return join(left, right)
	case from == n.offsetBegin:
		n.offsetBegin = to + 1
	case to == n.offsetEnd:
		n.offsetEnd = from - 1
	default:
		tail := newNode(n.block, to+1, n.offsetEnd)
		n.offsetEnd = from - 1
		right = insertLeftmost(right, tail)
	}
	n.update()
	return joinWith(left, n, right)
}

// combine rebuilds the subtree rooted at n after its children changed by
// more than one insertion or removal.
func combine(n *node) *node {
	left, right := n.left, n.right
	n.left, n.right = nil, nil
	n.update()
	return joinWith(left, n, right)
}

// DeleteRemote removes whatever part of the interval is still present.
// Re-deleting an absent interval is a no-op. Fragments are ordered from the
// highest position down so they can be applied sequentially.
func (t *Tree) DeleteRemote(iv ident.Interval) []Deletion {
	var dels []Deletion
	t.root, dels = t.delIv(t.root, iv, 0)
	return dels
}

func (t *Tree) delIv(n *node, iv ident.Interval, before int) (*node, []Deletion) {
	if n == nil {
		return nil, nil
	}
	nFirst := n.first()
	var dels []Deletion

	if iv.Last().Compare(n.last()) > 0 {
		var d []Deletion
		n.right, d = t.delIv(n.right, iv, before+size(n.left)+n.span())
		dels = append(dels, d...)
	}

	var from, to int32
	trim := false
	if iv.First().EqualsBase(nFirst) {
		from = max(iv.Begin(), n.offsetBegin)
		to = min(iv.End(), n.offsetEnd)
		if from <= to {
			dels = append(dels, Deletion{
				Pos:    before + size(n.left) + int(from-n.offsetBegin),
				Length: int(to-from) + 1,
			})
			trim = true
		}
	}

	if iv.First().Compare(nFirst) < 0 {
		var d []Deletion
		n.left, d = t.delIv(n.left, iv, before)
		dels = append(dels, d...)
	}

	if trim {
		return t.trimNode(n, from, to), dels
	}
	return combine(n), dels
}

// Each walks the runs in sequence order until fn returns false.
func (t *Tree) Each(fn func(iv ident.Interval) bool) {
	var rec func(n *node) bool
	rec = func(n *node) bool {
		if n == nil {
			return true
		}
		if !rec(n.left) {
			return false
		}
		if !fn(ident.NewInterval(n.first(), n.offsetEnd)) {
			return false
		}
		return rec(n.right)
	}
	rec(t.root)
}

// Intervals returns the live runs in sequence order.
func (t *Tree) Intervals() []ident.Interval {
	var ivs []ident.Interval
	t.Each(func(iv ident.Interval) bool {
		ivs = append(ivs, iv)
		return true
	})
	return ivs
}

func (t *Tree) block(iv ident.Interval) *Block {
	key := iv.BaseKey()
	if b, ok := t.blocks[key]; ok {
		return b
	}
	b := newBlock(iv)
	t.blocks[key] = b
	return b
}
