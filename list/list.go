package list

import (
	"fmt"
	"hash/fnv"

	"github.com/dshills/logootsplit/ident"
	"github.com/dshills/logootsplit/rope"
)

// Element pairs one rune of the sequence with its identifier.
type Element struct {
	ID ident.Identifier
	R  rune
}

// List is the replicable list: the block storage tree plus the materialized
// rune sequence of one replica.
type List struct {
	tree    *rope.Tree
	content []rune
	replica int32
	clock   int32
	src     ident.Source
}

// Option configures a List.
type Option func(*List)

// WithSource sets the random source used for identifier generation. The
// default is a math/rand source seeded with the replica number.
func WithSource(src ident.Source) Option {
	return func(l *List) { l.src = src }
}

// New creates an empty list for the given replica.
func New(replica int32, opts ...Option) *List {
	l := &List{tree: rope.New(), replica: replica}
	for _, opt := range opts {
		opt(l)
	}
	if l.src == nil {
		l.src = ident.NewSource(int64(replica))
	}
	return l
}

// Replica returns the replica number the list generates identifiers for.
func (l *List) Replica() int32 { return l.replica }

// NextClock consumes and returns the next value of the local clock.
func (l *List) NextClock() int32 {
	c := l.clock
	l.clock++
	return c
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.content) }

// String returns the rendered sequence.
func (l *List) String() string { return string(l.content) }

// Digest returns an FNV-1a hash of the rendered sequence, for cheap
// convergence checks between replicas.
func (l *List) Digest() uint64 {
	h := fnv.New64a()
	h.Write([]byte(string(l.content)))
	return h.Sum64()
}

// Insert applies a local insertion at pos and returns the operation to
// broadcast. The position must lie in [0, Len()] and content must not be
// empty.
func (l *List) Insert(pos int, content string) InsertOp {
	runes := []rune(content)
	if len(runes) == 0 {
		panic("list: insert of empty content")
	}
	if pos < 0 || pos > len(l.content) {
		panic(fmt.Sprintf("list: insert position %d out of range", pos))
	}
	iv := l.tree.InsertLocal(pos, len(runes), l.replica, l.NextClock(), l.src)
	l.content = NewTextInsert(pos, content).Apply(l.content)
	return InsertOp{Interval: iv, Content: content}
}

// Delete applies a local deletion of positions [begin, end] and returns the
// operation to broadcast.
func (l *List) Delete(begin, end int) DeleteOp {
	if begin < 0 || begin > end || end >= len(l.content) {
		panic(fmt.Sprintf("list: delete range [%d,%d] out of range", begin, end))
	}
	ivs := l.tree.DeleteLocal(begin, end)
	l.content = NewTextDelete(begin, end-begin+1).Apply(l.content)
	return DeleteOp{Intervals: ivs}
}

// ApplyInsert integrates a remote insertion and returns the text edits it
// produced, ordered for sequential application.
func (l *List) ApplyInsert(op InsertOp) []TextOp {
	runes := []rune(op.Content)
	if len(runes) != op.Interval.Length() {
		panic(fmt.Sprintf("list: content length %d does not match interval %s",
			len(runes), op.Interval))
	}
	frags := l.tree.InsertRemote(op.Interval)
	ops := make([]TextOp, 0, len(frags))
	for _, f := range frags {
		start := int(f.Offset - op.Interval.Begin())
		text := NewTextInsert(f.Pos, string(runes[start:start+f.Length]))
		l.content = text.Apply(l.content)
		ops = append(ops, text)
	}
	return ops
}

// ApplyDelete integrates a remote deletion. Deleting an interval that is
// already gone is a no-op, which makes delete delivery idempotent.
func (l *List) ApplyDelete(op DeleteOp) []TextOp {
	var ops []TextOp
	for _, iv := range op.Intervals {
		for _, f := range l.tree.DeleteRemote(iv) {
			text := NewTextDelete(f.Pos, f.Length)
			l.content = text.Apply(l.content)
			ops = append(ops, text)
		}
	}
	return ops
}

// Elements returns the sequence as identifier/rune pairs in order.
func (l *List) Elements() []Element {
	els := make([]Element, 0, len(l.content))
	i := 0
	l.tree.Each(func(iv ident.Interval) bool {
		for off := iv.Begin(); ; off++ {
			els = append(els, Element{ID: iv.At(off), R: l.content[i]})
			i++
			if off == iv.End() {
				break
			}
		}
		return true
	})
	return els
}

// Intervals returns the live runs in sequence order.
func (l *List) Intervals() []ident.Interval { return l.tree.Intervals() }

// Stats reports the shape of the underlying tree.
func (l *List) Stats() rope.Stats { return l.tree.Stats() }

// Rebuild replaces the whole state with the given elements, which must
// already be in sequence order. Consecutive identifiers are regrouped into
// runs. The replica identity, clock, and random source are kept.
func (l *List) Rebuild(els []Element) {
	l.tree = rope.New()
	l.content = make([]rune, 0, len(els))
	for run := 0; run < len(els); {
		end := run + 1
		for end < len(els) && ident.Consecutive(els[end-1].ID, els[end].ID) {
			end++
		}
		iv := ident.NewInterval(els[run].ID, els[end-1].ID.LastOffset())
		l.tree.InsertRemote(iv)
		run = end
	}
	for _, el := range els {
		l.content = append(l.content, el.R)
	}
}
