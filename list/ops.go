package list

import (
	"fmt"

	"github.com/dshills/logootsplit/ident"
)

// InsertOp carries one run of fresh elements.
type InsertOp struct {
	Interval ident.Interval
	Content  string
}

// DeleteOp carries the intervals covering one deletion. A single delete may
// fragment into several intervals when concurrent inserts split the run.
type DeleteOp struct {
	Intervals []ident.Interval
}

// TextOp is a positional edit on the rendered sequence, in 0-based rune
// positions. An op either inserts Content at Index or deletes Length
// elements from Index.
type TextOp struct {
	Index   int
	Content string // non-empty for insertions
	Length  int    // positive for deletions
}

// NewTextInsert builds an insertion edit.
func NewTextInsert(index int, content string) TextOp {
	return TextOp{Index: index, Content: content}
}

// NewTextDelete builds a deletion edit.
func NewTextDelete(index, length int) TextOp {
	return TextOp{Index: index, Length: length}
}

// IsInsert reports whether the op inserts text.
func (op TextOp) IsInsert() bool { return op.Content != "" }

// Apply replays the edit on a rune buffer and returns the result.
func (op TextOp) Apply(buf []rune) []rune {
	if op.IsInsert() {
		ins := []rune(op.Content)
		out := make([]rune, 0, len(buf)+len(ins))
		out = append(out, buf[:op.Index]...)
		out = append(out, ins...)
		return append(out, buf[op.Index:]...)
	}
	out := make([]rune, 0, len(buf)-op.Length)
	out = append(out, buf[:op.Index]...)
	return append(out, buf[op.Index+op.Length:]...)
}

// String returns a human-readable form of the edit.
func (op TextOp) String() string {
	if op.IsInsert() {
		return fmt.Sprintf("Insert(%d, %q)", op.Index, op.Content)
	}
	return fmt.Sprintf("Delete(%d, %d)", op.Index, op.Length)
}
