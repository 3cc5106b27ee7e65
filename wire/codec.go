package wire

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/logootsplit/ident"
	"github.com/dshills/logootsplit/list"
	"github.com/dshills/logootsplit/rename"
)

// ErrMalformed is returned for payloads that do not satisfy the structural
// contract.
var ErrMalformed = errors.New("wire: malformed operation")

// Encode serializes an operation.
func Encode(op rename.Op) ([]byte, error) {
	b := []byte(`{}`)
	b, _ = sjson.SetBytes(b, "type", op.Kind.String())
	b = setEpoch(b, "epoch", op.Epoch)
	switch op.Kind {
	case rename.KindInsert:
		b, _ = sjson.SetRawBytes(b, "id", encodeInterval(op.Insert.Interval))
		b, _ = sjson.SetBytes(b, "content", op.Insert.Content)
	case rename.KindDelete:
		b, _ = sjson.SetRawBytes(b, "lid", encodeIntervals(op.Delete.Intervals))
	case rename.KindRename:
		b, _ = sjson.SetBytes(b, "replicaNumber", op.Rename.Replica)
		b, _ = sjson.SetBytes(b, "clock", op.Rename.Clock)
		b = setEpoch(b, "parentEpoch", op.Rename.ParentEpoch)
		b, _ = sjson.SetRawBytes(b, "renamedIdIntervals", encodeIntervals(op.Rename.Intervals))
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrMalformed, op.Kind)
	}
	return b, nil
}

func setEpoch(b []byte, path string, e rename.EpochID) []byte {
	b, _ = sjson.SetBytes(b, path+".replicaNumber", e.Replica)
	b, _ = sjson.SetBytes(b, path+".clock", e.Clock)
	return b
}

func encodeIntervals(ivs []ident.Interval) []byte {
	b := []byte(`[]`)
	for _, iv := range ivs {
		b, _ = sjson.SetRawBytes(b, "-1", encodeInterval(iv))
	}
	return b
}

func encodeInterval(iv ident.Interval) []byte {
	base := []byte(`[]`)
	for _, t := range iv.First().Tuples() {
		tb := []byte(`{}`)
		tb, _ = sjson.SetBytes(tb, "random", t.Random)
		tb, _ = sjson.SetBytes(tb, "replicaNumber", t.Replica)
		tb, _ = sjson.SetBytes(tb, "clock", t.Clock)
		tb, _ = sjson.SetBytes(tb, "offset", t.Offset)
		base, _ = sjson.SetRawBytes(base, "-1", tb)
	}
	b := []byte(`{}`)
	b, _ = sjson.SetRawBytes(b, "base", base)
	b, _ = sjson.SetBytes(b, "begin", iv.Begin())
	b, _ = sjson.SetBytes(b, "end", iv.End())
	return b
}

// Decode parses and validates an operation payload.
func Decode(data []byte) (rename.Op, error) {
	if !gjson.ValidBytes(data) {
		return rename.Op{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	epoch, err := decodeEpoch(root.Get("epoch"))
	if err != nil {
		return rename.Op{}, err
	}

	switch root.Get("type").String() {
	case "insert":
		iv, err := decodeInterval(root.Get("id"))
		if err != nil {
			return rename.Op{}, err
		}
		content := root.Get("content")
		if content.Type != gjson.String {
			return rename.Op{}, fmt.Errorf("%w: content must be a string", ErrMalformed)
		}
		if len([]rune(content.String())) != iv.Length() {
			return rename.Op{}, fmt.Errorf("%w: content length does not match interval", ErrMalformed)
		}
		return rename.Op{
			Kind:   rename.KindInsert,
			Epoch:  epoch,
			Insert: &list.InsertOp{Interval: iv, Content: content.String()},
		}, nil

	case "delete":
		ivs, err := decodeIntervals(root.Get("lid"))
		if err != nil {
			return rename.Op{}, err
		}
		return rename.Op{
			Kind:   rename.KindDelete,
			Epoch:  epoch,
			Delete: &list.DeleteOp{Intervals: ivs},
		}, nil

	case "rename":
		replica, ok := int32Of(root.Get("replicaNumber"))
		if !ok {
			return rename.Op{}, fmt.Errorf("%w: replicaNumber out of range", ErrMalformed)
		}
		clock, ok := int32Of(root.Get("clock"))
		if !ok {
			return rename.Op{}, fmt.Errorf("%w: clock out of range", ErrMalformed)
		}
		parent, err := decodeEpoch(root.Get("parentEpoch"))
		if err != nil {
			return rename.Op{}, err
		}
		ivs, err := decodeIntervals(root.Get("renamedIdIntervals"))
		if err != nil {
			return rename.Op{}, err
		}
		if len(ivs) == 0 {
			return rename.Op{}, fmt.Errorf("%w: rename without intervals", ErrMalformed)
		}
		return rename.Op{
			Kind:  rename.KindRename,
			Epoch: epoch,
			Rename: &rename.RenameDetails{
				Replica:     replica,
				Clock:       clock,
				ParentEpoch: parent,
				Intervals:   ivs,
			},
		}, nil

	default:
		return rename.Op{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, root.Get("type").String())
	}
}

func decodeEpoch(r gjson.Result) (rename.EpochID, error) {
	if !r.IsObject() {
		return rename.EpochID{}, fmt.Errorf("%w: epoch must be an object", ErrMalformed)
	}
	replica, ok := int32Of(r.Get("replicaNumber"))
	if !ok {
		return rename.EpochID{}, fmt.Errorf("%w: epoch replicaNumber out of range", ErrMalformed)
	}
	clock, ok := int32Of(r.Get("clock"))
	if !ok {
		return rename.EpochID{}, fmt.Errorf("%w: epoch clock out of range", ErrMalformed)
	}
	return rename.EpochID{Replica: replica, Clock: clock}, nil
}

func decodeIntervals(r gjson.Result) ([]ident.Interval, error) {
	if !r.IsArray() {
		return nil, fmt.Errorf("%w: interval list must be an array", ErrMalformed)
	}
	var ivs []ident.Interval
	for _, item := range r.Array() {
		iv, err := decodeInterval(item)
		if err != nil {
			return nil, err
		}
		ivs = append(ivs, iv)
	}
	return ivs, nil
}

func decodeInterval(r gjson.Result) (ident.Interval, error) {
	if !r.IsObject() {
		return ident.Interval{}, fmt.Errorf("%w: interval must be an object", ErrMalformed)
	}
	base := r.Get("base")
	if !base.IsArray() {
		return ident.Interval{}, fmt.Errorf("%w: base must be an array", ErrMalformed)
	}
	items := base.Array()
	if len(items) == 0 {
		return ident.Interval{}, fmt.Errorf("%w: base must not be empty", ErrMalformed)
	}
	tuples := make([]ident.Tuple, 0, len(items))
	for _, item := range items {
		t, err := decodeTuple(item)
		if err != nil {
			return ident.Interval{}, err
		}
		tuples = append(tuples, t)
	}
	begin, ok := int32Of(r.Get("begin"))
	if !ok {
		return ident.Interval{}, fmt.Errorf("%w: begin out of range", ErrMalformed)
	}
	end, ok := int32Of(r.Get("end"))
	if !ok {
		return ident.Interval{}, fmt.Errorf("%w: end out of range", ErrMalformed)
	}
	if begin > end {
		return ident.Interval{}, fmt.Errorf("%w: begin %d after end %d", ErrMalformed, begin, end)
	}
	tuples[len(tuples)-1].Offset = begin
	return ident.NewInterval(ident.FromTuples(tuples), end), nil
}

func decodeTuple(r gjson.Result) (ident.Tuple, error) {
	if !r.IsObject() {
		return ident.Tuple{}, fmt.Errorf("%w: tuple must be an object", ErrMalformed)
	}
	var t ident.Tuple
	fields := []struct {
		name string
		dst  *int32
	}{
		{"random", &t.Random},
		{"replicaNumber", &t.Replica},
		{"clock", &t.Clock},
		{"offset", &t.Offset},
	}
	for _, f := range fields {
		v, ok := int32Of(r.Get(f.name))
		if !ok {
			return ident.Tuple{}, fmt.Errorf("%w: tuple %s out of range", ErrMalformed, f.name)
		}
		*f.dst = v
	}
	return t, nil
}

// int32Of extracts an integral JSON number within the signed 32-bit range.
func int32Of(r gjson.Result) (int32, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	n := r.Int()
	if float64(n) != r.Float() {
		return 0, false
	}
	if n < int64(ident.Int32Bottom) || n > int64(ident.Int32Top) {
		return 0, false
	}
	return int32(n), true
}
