package rename

import (
	"fmt"

	"github.com/dshills/logootsplit/ident"
	"github.com/dshills/logootsplit/list"
)

// Kind discriminates the operation variants a renamable list exchanges.
type Kind uint8

const (
	// KindInsert wraps a standard insert.
	KindInsert Kind = iota + 1
	// KindDelete wraps a standard delete.
	KindDelete
	// KindRename announces a new epoch and carries the interval snapshot its
	// renaming map is built from.
	KindRename
)

// String returns the kind's wire name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindRename:
		return "rename"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// RenameDetails is the payload of a rename operation: the issuer, the parent
// epoch, and the snapshot of the sequence's intervals at rename time.
type RenameDetails struct {
	Replica     int32
	Clock       int32
	ParentEpoch EpochID
	Intervals   []ident.Interval
}

// Op is an operation tagged with the epoch it was generated under. Exactly
// one of Insert, Delete, or Rename is set, matching Kind.
type Op struct {
	Kind   Kind
	Epoch  EpochID
	Insert *list.InsertOp
	Delete *list.DeleteOp
	Rename *RenameDetails
}
