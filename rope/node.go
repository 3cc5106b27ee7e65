package rope

import "github.com/dshills/logootsplit/ident"

// node covers the live offsets [offsetBegin, offsetEnd] of its block.
// size caches the number of live elements in the whole subtree so position
// lookups stay logarithmic.
type node struct {
	block       *Block
	offsetBegin int32
	offsetEnd   int32
	left        *node
	right       *node
	height      int32
	size        int
}

func newNode(b *Block, begin, end int32) *node {
	n := &node{block: b, offsetBegin: begin, offsetEnd: end}
	n.update()
	return n
}

// span returns the number of live elements carried by the node itself.
func (n *node) span() int { return int(n.offsetEnd-n.offsetBegin) + 1 }

// first returns the identifier of the node's first live element.
func (n *node) first() ident.Identifier {
	return n.block.interval.First().WithLastOffset(n.offsetBegin)
}

// last returns the identifier of the node's last live element.
func (n *node) last() ident.Identifier {
	return n.block.interval.First().WithLastOffset(n.offsetEnd)
}

// at returns the identifier at the given block offset.
func (n *node) at(off int32) ident.Identifier {
	return n.block.interval.First().WithLastOffset(off)
}

func height(n *node) int32 {
	if n == nil {
		return 0
	}
	return n.height
}

func size(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

// update recomputes the cached height and size from the children.
func (n *node) update() {
	n.height = 1 + max(height(n.left), height(n.right))
	n.size = n.span() + size(n.left) + size(n.right)
}

func rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n
	n.update()
	r.update()
	return r
}

func rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n
	n.update()
	l.update()
	return l
}

// rebalance restores the AVL height invariant at n, assuming both subtrees
// are themselves balanced.
func rebalance(n *node) *node {
	if n == nil {
		return nil
	}
	n.update()
	switch bf := height(n.left) - height(n.right); {
	case bf > 1:
		if height(n.left.right) > height(n.left.left) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if height(n.right.left) > height(n.right.right) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	default:
		return n
	}
}

// insertLeftmost attaches fresh as the smallest node of the subtree.
func insertLeftmost(n, fresh *node) *node {
	if n == nil {
		fresh.update()
		return fresh
	}
	n.left = insertLeftmost(n.left, fresh)
	return rebalance(n)
}

// removeMax detaches the greatest node of the subtree.
func removeMax(n *node) (rest, detached *node) {
	if n.right == nil {
		return n.left, n
	}
	n.right, detached = removeMax(n.right)
	return rebalance(n), detached
}

// removeMin detaches the smallest node of the subtree.
func removeMin(n *node) (rest, detached *node) {
	if n.left == nil {
		return n.right, n
	}
	n.left, detached = removeMin(n.left)
	return rebalance(n), detached
}

// join concatenates two balanced subtrees of arbitrary relative height,
// where every element of a precedes every element of b.
func join(a, b *node) *node {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	if height(a) >= height(b) {
		rest, root := removeMax(a)
		return joinWith(rest, root, b)
	}
	rest, root := removeMin(b)
	return joinWith(a, root, rest)
}

// joinWith places k between the balanced subtrees a and b, descending the
// taller side until the heights meet so every local rebalance sees an
// imbalance of at most two.
func joinWith(a, k, b *node) *node {
	switch {
	case height(a) > height(b)+1:
		a.right = joinWith(a.right, k, b)
		return rebalance(a)
	case height(b) > height(a)+1:
		b.left = joinWith(a, k, b.left)
		return rebalance(b)
	default:
		k.left, k.right = a, b
		return rebalance(k)
	}
}

// minID returns the smallest identifier of the subtree, or fallback when the
// subtree is empty.
func minID(n *node, fallback *ident.Identifier) *ident.Identifier {
	if n == nil {
		return fallback
	}
	for n.left != nil {
		n = n.left
	}
	id := n.first()
	return &id
}

// maxID returns the greatest identifier of the subtree, or fallback when the
// subtree is empty.
func maxID(n *node, fallback *ident.Identifier) *ident.Identifier {
	if n == nil {
		return fallback
	}
	for n.right != nil {
		n = n.right
	}
	id := n.last()
	return &id
}
