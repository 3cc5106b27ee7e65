package rename

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/dshills/logootsplit/ident"
	"github.com/dshills/logootsplit/list"
	"github.com/dshills/logootsplit/rope"
)

// List wraps the replicable list with the epoch machinery. Outbound
// operations are tagged with the current epoch; inbound operations from
// other epochs are translated through the epoch tree before applying.
//
// Operations that cannot be interpreted yet, because their epoch (or a
// rename's parent epoch) has not been observed, are pooled and drained once
// the missing epoch appears, so delivery order does not matter.
type List struct {
	inner   *list.List
	epochs  *Tree
	current *Epoch
	known   mapset.Set[EpochID]
	pending map[EpochID][]Op
}

// New creates an empty renamable list for the given replica.
func New(replica int32, opts ...list.Option) *List {
	t := NewTree()
	l := &List{
		inner:   list.New(replica, opts...),
		epochs:  t,
		current: t.Root(),
		known:   mapset.NewSet[EpochID](),
		pending: make(map[EpochID][]Op),
	}
	l.known.Add(t.Root().ID())
	return l
}

// Len returns the number of elements.
func (l *List) Len() int { return l.inner.Len() }

// String returns the rendered sequence.
func (l *List) String() string { return l.inner.String() }

// Digest returns a hash of the rendered sequence.
func (l *List) Digest() uint64 { return l.inner.Digest() }

// Stats reports the shape of the underlying tree.
func (l *List) Stats() rope.Stats { return l.inner.Stats() }

// CurrentEpoch returns the epoch the list currently generates under.
func (l *List) CurrentEpoch() EpochID { return l.current.ID() }

// Insert applies a local insertion and returns the operation to broadcast.
func (l *List) Insert(pos int, content string) Op {
	op := l.inner.Insert(pos, content)
	return Op{Kind: KindInsert, Epoch: l.current.ID(), Insert: &op}
}

// Delete applies a local deletion and returns the operation to broadcast.
func (l *List) Delete(begin, end int) Op {
	op := l.inner.Delete(begin, end)
	return Op{Kind: KindDelete, Epoch: l.current.ID(), Delete: &op}
}

// Rename snapshots the whole sequence, rewrites it into dense identifiers
// under a fresh epoch, and returns the rename operation to broadcast.
// Renaming an empty sequence is a contract violation.
func (l *List) Rename() Op {
	ivs := l.inner.Intervals()
	if len(ivs) == 0 {
		panic("rename: renaming an empty sequence")
	}
	replica := l.inner.Replica()
	clock := l.inner.NextClock()
	for {
		// A replica that never edited locally could mint the genesis id.
		if _, taken := l.epochs.Get(EpochID{Replica: replica, Clock: clock}); !taken {
			break
		}
		clock = l.inner.NextClock()
	}
	m := NewMap(replica, clock, ivs)
	parent := l.current
	child := l.epochs.Add(parent.ID(), EpochID{Replica: replica, Clock: clock}, m)
	l.known.Add(child.ID())

	els := l.inner.Elements()
	for i := range els {
		els[i].ID = m.newIDAt(int32(i))
	}
	l.inner.Rebuild(els)
	l.current = child
	l.adopt()

	return Op{
		Kind:  KindRename,
		Epoch: child.ID(),
		Rename: &RenameDetails{
			Replica:     replica,
			Clock:       clock,
			ParentEpoch: parent.ID(),
			Intervals:   ivs,
		},
	}
}

// Apply integrates a remote operation and returns the text edits to replay
// on the caller's buffer. Operations whose epoch is still unknown produce no
// edits yet; their effect surfaces when the missing rename arrives.
func (l *List) Apply(op Op) []list.TextOp {
	if op.Kind == KindRename {
		if l.known.Contains(op.Epoch) {
			return nil
		}
		if !l.known.Contains(op.Rename.ParentEpoch) {
			l.pending[op.Rename.ParentEpoch] = append(l.pending[op.Rename.ParentEpoch], op)
			return nil
		}
		m := NewMap(op.Rename.Replica, op.Rename.Clock, op.Rename.Intervals)
		l.epochs.Add(op.Rename.ParentEpoch, op.Epoch, m)
		l.known.Add(op.Epoch)
		l.adopt()
		return l.drain(op.Epoch)
	}

	if !l.known.Contains(op.Epoch) {
		l.pending[op.Epoch] = append(l.pending[op.Epoch], op)
		return nil
	}
	from, _ := l.epochs.Get(op.Epoch)
	switch op.Kind {
	case KindInsert:
		return l.applyInsert(*op.Insert, from)
	case KindDelete:
		return l.applyDelete(*op.Delete, from)
	default:
		panic("rename: apply of unknown operation kind")
	}
}

func (l *List) applyInsert(op list.InsertOp, from *Epoch) []list.TextOp {
	var out []list.TextOp
	for _, sub := range l.translateInsert(op, from) {
		out = append(out, l.inner.ApplyInsert(sub)...)
	}
	return out
}

func (l *List) applyDelete(op list.DeleteOp, from *Epoch) []list.TextOp {
	if from != l.current {
		var ivs []ident.Interval
		for _, iv := range op.Intervals {
			ivs = append(ivs, l.translateInterval(iv, from)...)
		}
		op = list.DeleteOp{Intervals: ivs}
	}
	return l.inner.ApplyDelete(op)
}

// translateInsert maps an insert into the current epoch. Identifiers that
// were consecutive in the source epoch may scatter, so the result is a list
// of runs with the content split accordingly.
func (l *List) translateInsert(op list.InsertOp, from *Epoch) []list.InsertOp {
	if from == l.current {
		return []list.InsertOp{op}
	}
	runes := []rune(op.Content)
	ids := l.translateIDs(op.Interval, from)
	var subs []list.InsertOp
	runStart := 0
	for i := 1; i <= len(ids); i++ {
		if i < len(ids) && ident.Consecutive(ids[i-1], ids[i]) {
			continue
		}
		subs = append(subs, list.InsertOp{
			Interval: ident.NewInterval(ids[runStart], ids[i-1].LastOffset()),
			Content:  string(runes[runStart:i]),
		})
		runStart = i
	}
	return subs
}

// translateInterval maps a deletion interval into the current epoch,
// regrouping the translated identifiers into runs.
func (l *List) translateInterval(iv ident.Interval, from *Epoch) []ident.Interval {
	ids := l.translateIDs(iv, from)
	var ivs []ident.Interval
	runStart := 0
	for i := 1; i <= len(ids); i++ {
		if i < len(ids) && ident.Consecutive(ids[i-1], ids[i]) {
			continue
		}
		ivs = append(ivs, ident.NewInterval(ids[runStart], ids[i-1].LastOffset()))
		runStart = i
	}
	return ivs
}

func (l *List) translateIDs(iv ident.Interval, from *Epoch) []ident.Identifier {
	ids := make([]ident.Identifier, 0, iv.Length())
	for off := iv.Begin(); ; off++ {
		ids = append(ids, l.epochs.Translate(iv.At(off), from, l.current))
		if off == iv.End() {
			break
		}
	}
	return ids
}

// adopt moves the list to the preferred epoch among the known ones. The
// choice is deterministic over the set of known epochs, so replicas that
// learned the same renames settle on the same epoch.
func (l *List) adopt() {
	best := l.current
	l.known.Each(func(id EpochID) bool {
		if e, ok := l.epochs.Get(id); ok && better(e, best) {
			best = e
		}
		return false
	})
	if best == l.current {
		return
	}
	els := l.inner.Elements()
	for i := range els {
		els[i].ID = l.epochs.Translate(els[i].ID, l.current, best)
	}
	l.inner.Rebuild(els)
	l.current = best
}

// better prefers the deeper epoch, then the greater id.
func better(a, b *Epoch) bool {
	if a.Depth() != b.Depth() {
		return a.Depth() > b.Depth()
	}
	return a.ID().Compare(b.ID()) > 0
}

// drain re-applies the operations that were waiting for the given epoch.
func (l *List) drain(e EpochID) []list.TextOp {
	ops := l.pending[e]
	if len(ops) == 0 {
		return nil
	}
	delete(l.pending, e)
	var out []list.TextOp
	for _, op := range ops {
		out = append(out, l.Apply(op)...)
	}
	return out
}
